package domain

import "time"

// Stage is the certification progress of a subcategory. Stages advance
// strictly forward; only the unsign authority moves a subcategory back.
type Stage string

// Certification stages in advancement order.
const (
	// StageDraft means no judge has certified yet; scores are editable.
	StageDraft Stage = "draft"

	// StageJudgePartial means at least one, but not every, assigned judge
	// has signed a judge certification.
	StageJudgePartial Stage = "judge_certified_partial"

	// StageJudgeComplete means every assigned judge has signed.
	StageJudgeComplete Stage = "judge_certified_complete"

	// StageTallyVerified means the tally role has verified totals.
	StageTallyVerified Stage = "tally_verified"

	// StageFinal means the auditor has certified; all score and deduction
	// writes are rejected until the subcategory is unsigned.
	StageFinal Stage = "auditor_certified"
)

// JudgeCertification records a judge's attestation that every score and
// comment they submitted for the subcategory is final. Unique per
// (subcategory, judge). Signature must equal the judge's recorded
// preferred name; the engine rejects mismatches rather than coercing them.
type JudgeCertification struct {
	SubcategoryID string    `json:"subcategory_id"`
	JudgeID       string    `json:"judge_id"`
	Signature     string    `json:"signature"`
	SignedAt      time.Time `json:"signed_at"`
}

// TallyVerification records the tally role's attestation that the
// aggregated totals for a subcategory are correct. Unique per subcategory;
// requires every assigned judge's JudgeCertification to exist first.
type TallyVerification struct {
	SubcategoryID string    `json:"subcategory_id"`
	Signature     string    `json:"signature"`
	SignedAt      time.Time `json:"signed_at"`
}

// FinalCertification is the auditor's terminal attestation for a
// subcategory. Unique per subcategory and irreversible by normal means;
// only the unsign authority deletes it.
type FinalCertification struct {
	SubcategoryID string    `json:"subcategory_id"`
	Signature     string    `json:"signature"`
	SignedAt      time.Time `json:"signed_at"`
}

// DiscrepancyState is the parallel resolution track a subcategory enters
// when a consistency check flags its scores.
type DiscrepancyState string

// Discrepancy resolution states.
const (
	DiscrepancyNone     DiscrepancyState = "none"
	DiscrepancyPending  DiscrepancyState = "pending"
	DiscrepancyApproved DiscrepancyState = "approved"
	DiscrepancyRejected DiscrepancyState = "rejected"
)

// ApprovalSlot is one of the three independent sign-offs a pending
// discrepancy needs before the main certification track may proceed.
type ApprovalSlot string

// The three approval slots. The organizer signs the board slot when no
// dedicated board member exists.
const (
	ApprovalTally   ApprovalSlot = "tally"
	ApprovalAuditor ApprovalSlot = "auditor"
	ApprovalBoard   ApprovalSlot = "board"
)

// SlotForRole maps a caller role to the approval slot it may sign, or
// false when the role has no seat in the discrepancy protocol.
func SlotForRole(r Role) (ApprovalSlot, bool) {
	switch r {
	case RoleTally:
		return ApprovalTally, true
	case RoleAuditor:
		return ApprovalAuditor, true
	case RoleBoard, RoleOrganizer:
		return ApprovalBoard, true
	default:
		return "", false
	}
}

// DiscrepancyCase records a flagged inconsistency, typically wide
// judge-to-judge variance on one (criterion, contestant) pair. While
// pending it blocks certification transitions at and past RaisedAtStage.
type DiscrepancyCase struct {
	ID            string `json:"id"`
	SubcategoryID string `json:"subcategory_id"`

	// CriterionID and ContestantID locate the flagged scores. Both are
	// empty for manually raised, subcategory-wide cases.
	CriterionID  string `json:"criterion_id,omitempty"`
	ContestantID string `json:"contestant_id,omitempty"`

	Reason        string           `json:"reason"`
	State         DiscrepancyState `json:"state"`
	RaisedAtStage Stage            `json:"raised_at_stage"`

	// Approvals maps each signed slot to the signature recorded for it.
	Approvals map[ApprovalSlot]string `json:"approvals,omitempty"`

	OpenedBy string    `json:"opened_by"`
	OpenedAt time.Time `json:"opened_at"`
}

// Approve records a signature for the given slot. It returns false when
// the slot has already been signed. Once all three slots are signed the
// case transitions to DiscrepancyApproved.
func (d *DiscrepancyCase) Approve(slot ApprovalSlot, signature string) bool {
	if d.Approvals == nil {
		d.Approvals = make(map[ApprovalSlot]string, 3)
	}
	if _, dup := d.Approvals[slot]; dup {
		return false
	}
	d.Approvals[slot] = signature
	if len(d.Approvals) == 3 {
		d.State = DiscrepancyApproved
	}
	return true
}

// CertificationStatus is the observable state of a subcategory's pipeline,
// exposed for prerequisite reporting and operator tooling.
type CertificationStatus struct {
	SubcategoryID   string           `json:"subcategory_id"`
	Stage           Stage            `json:"stage"`
	CertifiedJudges []string         `json:"certified_judges"`
	PendingJudges   []string         `json:"pending_judges"`
	TallyVerified   bool             `json:"tally_verified"`
	Final           bool             `json:"final"`
	Discrepancy     DiscrepancyState `json:"discrepancy"`
}

// DeriveStage computes the certification stage from the records present.
// The stage is a strict function of the record set: a tally or final
// record only counts once its prerequisites hold, so deleting an upstream
// record through the unsign authority demotes the derived stage even if a
// downstream record was left in place.
func DeriveStage(assignedJudges int, judgeCerts int, tallyVerified, final bool) Stage {
	complete := assignedJudges > 0 && judgeCerts >= assignedJudges
	switch {
	case complete && tallyVerified && final:
		return StageFinal
	case complete && tallyVerified:
		return StageTallyVerified
	case complete:
		return StageJudgeComplete
	case judgeCerts > 0:
		return StageJudgePartial
	default:
		return StageDraft
	}
}
