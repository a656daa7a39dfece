package domain

import "time"

// ScoreEntry is one judge's score for one criterion and contestant.
// The tuple (SubcategoryID, CriterionID, ContestantID, JudgeID) is unique;
// resubmission supersedes the previous value, entries are never deleted.
type ScoreEntry struct {
	SubcategoryID string  `json:"subcategory_id"`
	CriterionID   string  `json:"criterion_id"`
	ContestantID  string  `json:"contestant_id"`
	JudgeID       string  `json:"judge_id"`
	Value         float64 `json:"value"`

	// UpdatedAt records the most recent write for this tuple.
	UpdatedAt time.Time `json:"updated_at"`
}

// ScoreComment is a judge's free-text note about a contestant, shared
// across all criteria in the subcategory. At most one per
// (subcategory, judge, contestant).
type ScoreComment struct {
	SubcategoryID string    `json:"subcategory_id"`
	JudgeID       string    `json:"judge_id"`
	ContestantID  string    `json:"contestant_id"`
	Comment       string    `json:"comment"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ScoreFilter narrows a score read. Zero-value fields match everything.
type ScoreFilter struct {
	JudgeID      string
	ContestantID string
	CriterionID  string
}

// Matches reports whether the entry satisfies every non-empty filter field.
func (f ScoreFilter) Matches(e ScoreEntry) bool {
	if f.JudgeID != "" && e.JudgeID != f.JudgeID {
		return false
	}
	if f.ContestantID != "" && e.ContestantID != f.ContestantID {
		return false
	}
	if f.CriterionID != "" && e.CriterionID != f.CriterionID {
		return false
	}
	return true
}

// OverallDeduction is a subtraction applied to a contestant's aggregated
// subcategory total, never to per-criterion values. At most one active
// deduction exists per (subcategory, contestant); applying a new one
// overwrites the previous record rather than accumulating.
type OverallDeduction struct {
	SubcategoryID string    `json:"subcategory_id"`
	ContestantID  string    `json:"contestant_id"`
	Amount        float64   `json:"amount"`
	Reason        string    `json:"reason"`
	Comment       string    `json:"comment,omitempty"`
	CreatedBy     string    `json:"created_by"`
	UpdatedAt     time.Time `json:"updated_at"`
}
