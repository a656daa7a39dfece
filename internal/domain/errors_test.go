package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedErrors_UnwrapToSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{
			name:     "range error",
			err:      &RangeError{CriterionID: "crit-1", Value: 12.5, Cap: 10},
			sentinel: ErrRange,
		},
		{
			name:     "locked error",
			err:      &LockedError{SubcategoryID: "sub-1", Stage: StageFinal},
			sentinel: ErrLocked,
		},
		{
			name:     "signature mismatch error",
			err:      &SignatureMismatchError{SignerID: "judge-1", Provided: "A. Smith"},
			sentinel: ErrSignatureMismatch,
		},
		{
			name:     "already certified error",
			err:      &AlreadyCertifiedError{SubcategoryID: "sub-1", JudgeID: "judge-1"},
			sentinel: ErrAlreadyCertified,
		},
		{
			name:     "prerequisite error",
			err:      &PrerequisiteError{SubcategoryID: "sub-1", Stage: StageTallyVerified},
			sentinel: ErrPrerequisite,
		},
		{
			name:     "conflict error",
			err:      &ConflictError{SubcategoryID: "sub-1", JudgeID: "judge-1"},
			sentinel: ErrConflict,
		},
		{
			name:     "forbidden error",
			err:      &ForbiddenError{Action: "unsign"},
			sentinel: ErrForbidden,
		},
		{
			name:     "not found error",
			err:      &NotFoundError{Entity: "subcategory", ID: "missing"},
			sentinel: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestTypedErrors_SurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("submit scores: %w",
		&RangeError{CriterionID: "crit-1", Value: 11, Cap: 10})

	assert.ErrorIs(t, wrapped, ErrRange)

	var rangeErr *RangeError
	require.ErrorAs(t, wrapped, &rangeErr)
	assert.Equal(t, "crit-1", rangeErr.CriterionID)
	assert.InDelta(t, 11.0, rangeErr.Value, 1e-9)
	assert.InDelta(t, 10.0, rangeErr.Cap, 1e-9)
}

func TestStorageError_MatchesSentinelAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := &StorageError{Op: "upsert score", Err: cause}

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "upsert score")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestSignatureMismatchError_HintInMessage(t *testing.T) {
	withHint := &SignatureMismatchError{
		SignerID: "judge-1",
		Provided: "Alicia Smith",
		Hint:     "check spelling",
	}
	assert.Contains(t, withHint.Error(), "check spelling")

	withoutHint := &SignatureMismatchError{SignerID: "judge-1", Provided: "Bob"}
	assert.NotContains(t, withoutHint.Error(), ": check")
}

func TestAlreadyCertifiedError_Message(t *testing.T) {
	judge := &AlreadyCertifiedError{SubcategoryID: "sub-1", JudgeID: "judge-2"}
	assert.Contains(t, judge.Error(), "judge-2")

	tally := &AlreadyCertifiedError{SubcategoryID: "sub-1", Stage: StageTallyVerified}
	assert.Contains(t, tally.Error(), string(StageTallyVerified))
}

func TestPrerequisiteError_ListsOutstanding(t *testing.T) {
	err := &PrerequisiteError{
		SubcategoryID: "sub-1",
		Stage:         StageTallyVerified,
		Outstanding:   []string{"judge judge-1 not certified", "judge judge-2 not certified"},
	}
	assert.Contains(t, err.Error(), "judge judge-1 not certified")
	assert.Contains(t, err.Error(), "judge judge-2 not certified")
}

func TestConflictError_CarriesRevisions(t *testing.T) {
	err := &ConflictError{
		SubcategoryID:    "sub-1",
		JudgeID:          "judge-1",
		ExpectedRevision: 3,
		ActualRevision:   5,
	}

	var conflict *ConflictError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &conflict)
	assert.Equal(t, int64(3), conflict.ExpectedRevision)
	assert.Equal(t, int64(5), conflict.ActualRevision)
}
