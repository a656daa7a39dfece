package application

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// canonicalSignature prepares a signature string for comparison: Unicode
// NFC normalization plus trimming of surrounding whitespace. Case and
// interior punctuation are preserved; a certification signature must match
// the recorded name exactly, not approximately.
func canonicalSignature(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// signaturesMatch reports whether the provided signature equals the
// recorded name after canonicalization. The comparison is intentionally
// strict: "Alice Smith" does not match a recorded "A. Smith".
func signaturesMatch(provided, recorded string) bool {
	return canonicalSignature(provided) == canonicalSignature(recorded)
}

// signatureHint builds the remediation hint attached to a rejected
// signature. When the attempt is within maxDistance edits of the recorded
// name it points at the likely cause; otherwise it restates the rule.
// The hint never reveals the recorded name itself.
func signatureHint(provided, recorded string, maxDistance int) string {
	if maxDistance <= 0 {
		return "sign with your recorded preferred name exactly as registered"
	}
	distance := levenshtein.ComputeDistance(
		canonicalSignature(provided), canonicalSignature(recorded))
	if distance <= maxDistance {
		return "the signature is close to your recorded preferred name; check spelling, spacing, and punctuation, and sign exactly as registered"
	}
	return "sign with your recorded preferred name exactly as registered"
}
