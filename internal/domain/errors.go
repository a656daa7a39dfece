package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the recoverable failure kinds the engine surfaces.
// Callers match on these with errors.Is and recover detail with errors.As
// against the typed errors below. None of them indicate a crashed process;
// only StorageError wraps a fatal storage-layer failure.
var (
	// ErrRange indicates a score value outside [0, effective cap].
	ErrRange = errors.New("score out of range")

	// ErrLocked indicates an edit attempted on a certified scope.
	ErrLocked = errors.New("scope is locked by certification")

	// ErrSignatureMismatch indicates a certification signature that does
	// not match the signer's recorded name.
	ErrSignatureMismatch = errors.New("signature does not match recorded name")

	// ErrAlreadyCertified indicates a duplicate certification attempt.
	ErrAlreadyCertified = errors.New("certification already recorded")

	// ErrPrerequisite indicates a certification attempted before its
	// dependency stage completed.
	ErrPrerequisite = errors.New("certification prerequisite not met")

	// ErrConflict indicates a concurrent write lost a race; the caller
	// should re-read and retry.
	ErrConflict = errors.New("concurrent write conflict")

	// ErrForbidden indicates the caller's role lacks the privilege.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorage indicates a storage-layer failure with no partial state
	// committed.
	ErrStorage = errors.New("storage failure")
)

// RangeError reports a score value outside the allowed bounds for a
// criterion. The previously stored value, if any, is left unchanged.
type RangeError struct {
	CriterionID string
	Value       float64
	Cap         float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("score %.2f for criterion %s outside [0, %.2f]",
		e.Value, e.CriterionID, e.Cap)
}

func (e *RangeError) Unwrap() error { return ErrRange }

// LockedError reports an edit attempted on a certified scope, carrying the
// certification stage the caller is blocked by.
type LockedError struct {
	SubcategoryID string
	Stage         Stage
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("subcategory %s is locked at stage %s",
		e.SubcategoryID, e.Stage)
}

func (e *LockedError) Unwrap() error { return ErrLocked }

// SignatureMismatchError reports a certification signature that does not
// exactly match the signer's recorded name. The signature is never coerced;
// Hint carries remediation guidance when the attempt was a near miss.
type SignatureMismatchError struct {
	SignerID string
	Provided string
	Hint     string
}

func (e *SignatureMismatchError) Error() string {
	msg := fmt.Sprintf("signature %q does not match the recorded name for %s",
		e.Provided, e.SignerID)
	if e.Hint != "" {
		msg += ": " + e.Hint
	}
	return msg
}

func (e *SignatureMismatchError) Unwrap() error { return ErrSignatureMismatch }

// AlreadyCertifiedError reports a duplicate certification attempt for a
// scope that already holds the record.
type AlreadyCertifiedError struct {
	SubcategoryID string
	JudgeID       string // empty for tally and final certifications
	Stage         Stage
}

func (e *AlreadyCertifiedError) Error() string {
	if e.JudgeID != "" {
		return fmt.Sprintf("judge %s already certified subcategory %s",
			e.JudgeID, e.SubcategoryID)
	}
	return fmt.Sprintf("subcategory %s already certified at stage %s",
		e.SubcategoryID, e.Stage)
}

func (e *AlreadyCertifiedError) Unwrap() error { return ErrAlreadyCertified }

// PrerequisiteError reports a certification attempted before its
// dependency stage completed. Outstanding lists what still blocks it.
type PrerequisiteError struct {
	SubcategoryID string
	Stage         Stage
	Outstanding   []string
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("subcategory %s not ready for %s: outstanding [%s]",
		e.SubcategoryID, e.Stage, strings.Join(e.Outstanding, ", "))
}

func (e *PrerequisiteError) Unwrap() error { return ErrPrerequisite }

// ConflictError reports a lost optimistic-concurrency race on a judge's
// score slot. The caller should re-read the current revision and retry.
type ConflictError struct {
	SubcategoryID    string
	JudgeID          string
	ExpectedRevision int64
	ActualRevision   int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("stale write for judge %s in subcategory %s: expected revision %d, found %d",
		e.JudgeID, e.SubcategoryID, e.ExpectedRevision, e.ActualRevision)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// ForbiddenError reports that the caller's role lacks the privilege for
// an action. It deliberately carries no detail beyond the action name.
type ForbiddenError struct {
	Action string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Action)
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// NotFoundError reports a missing entity referenced by an operation.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StorageError wraps a storage-layer failure. Every engine mutation is a
// single atomic unit, so a StorageError guarantees no partial state was
// committed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports a match against ErrStorage regardless of the wrapped cause.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }
