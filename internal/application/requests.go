package application

import (
	"github.com/go-playground/validator/v10"
)

// Package-level validator instance for request and configuration
// validation. Uses go-playground/validator v10 struct tags.
var validate = validator.New()

// ScoreInput is one criterion value inside a score submission.
type ScoreInput struct {
	CriterionID string  `json:"criterion_id" validate:"required"`
	Value       float64 `json:"value" validate:"min=0"`
}

// SubmitScoresRequest carries one judge's scores for one contestant in one
// subcategory. Every submission is validated at the boundary; the engine
// never consumes loosely typed form input.
type SubmitScoresRequest struct {
	ActorID       string       `json:"actor_id" validate:"required"`
	SubcategoryID string       `json:"subcategory_id" validate:"required"`
	JudgeID       string       `json:"judge_id" validate:"required"`
	ContestantID  string       `json:"contestant_id" validate:"required"`
	Entries       []ScoreInput `json:"entries" validate:"required,min=1,dive"`

	// Comment is the judge's shared note for this contestant in this
	// subcategory. Empty leaves any existing comment untouched.
	Comment string `json:"comment,omitempty"`

	// ExpectedRevision enables optimistic concurrency: when non-nil the
	// write only succeeds if the judge's slot is still at this revision,
	// guarding against double-submitted forms. Nil writes unconditionally
	// (last write wins within the slot's serialization).
	ExpectedRevision *int64 `json:"expected_revision,omitempty"`
}

// GetScoresRequest is a read-only score query.
type GetScoresRequest struct {
	SubcategoryID string `json:"subcategory_id" validate:"required"`
	JudgeID       string `json:"judge_id,omitempty"`
	ContestantID  string `json:"contestant_id,omitempty"`
	CriterionID   string `json:"criterion_id,omitempty"`
}

// ApplyDeductionRequest upserts the single overall deduction for a
// (subcategory, contestant) pair.
type ApplyDeductionRequest struct {
	ActorID       string  `json:"actor_id" validate:"required"`
	SubcategoryID string  `json:"subcategory_id" validate:"required"`
	ContestantID  string  `json:"contestant_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"min=0"`
	Reason        string  `json:"reason" validate:"required"`
	Comment       string  `json:"comment,omitempty"`
}

// CertifyJudgeRequest records a judge's signed attestation for a
// subcategory.
type CertifyJudgeRequest struct {
	ActorID       string `json:"actor_id" validate:"required"`
	SubcategoryID string `json:"subcategory_id" validate:"required"`
	JudgeID       string `json:"judge_id" validate:"required"`
	Signature     string `json:"signature" validate:"required"`
}

// VerifyTallyRequest records the tally role's verification of a
// subcategory's totals.
type VerifyTallyRequest struct {
	ActorID       string `json:"actor_id" validate:"required"`
	SubcategoryID string `json:"subcategory_id" validate:"required"`
	Signature     string `json:"signature" validate:"required"`
}

// CertifyFinalRequest records the auditor's final certification. Exactly
// one of SubcategoryID or CategoryID selects the finalization scope; a
// category scope finalizes every subcategory it contains in one atomic
// unit.
type CertifyFinalRequest struct {
	ActorID       string `json:"actor_id" validate:"required"`
	SubcategoryID string `json:"subcategory_id,omitempty" validate:"required_without=CategoryID,excluded_with=CategoryID"`
	CategoryID    string `json:"category_id,omitempty" validate:"required_without=SubcategoryID"`
	Signature     string `json:"signature" validate:"required"`
}

// UnsignScopeKind selects which certifications an unsign call reverts.
type UnsignScopeKind string

// Unsign scope kinds. The four entry points of the source system collapse
// into one operation parameterized by kind.
const (
	// UnsignJudge reverts one judge's certification for one subcategory.
	UnsignJudge UnsignScopeKind = "judge"

	// UnsignSubcategory reverts every certification for one subcategory.
	UnsignSubcategory UnsignScopeKind = "subcategory"

	// UnsignCategory reverts every certification in every subcategory of
	// a category.
	UnsignCategory UnsignScopeKind = "category"

	// UnsignContestant reverts every certification in every subcategory a
	// contestant is assigned to.
	UnsignContestant UnsignScopeKind = "contestant"
)

// UnsignRequest reverts certification records within a scope. Only
// certification records are deleted; scores and deductions always survive.
type UnsignRequest struct {
	ActorID string          `json:"actor_id" validate:"required"`
	Kind    UnsignScopeKind `json:"kind" validate:"required,oneof=judge subcategory category contestant"`

	SubcategoryID string `json:"subcategory_id,omitempty" validate:"required_if=Kind judge,required_if=Kind subcategory"`
	JudgeID       string `json:"judge_id,omitempty" validate:"required_if=Kind judge"`
	CategoryID    string `json:"category_id,omitempty" validate:"required_if=Kind category"`
	ContestantID  string `json:"contestant_id,omitempty" validate:"required_if=Kind contestant"`
}

// FlagDiscrepancyRequest opens a discrepancy case manually. CriterionID
// and ContestantID narrow the case to one flagged score cell; both empty
// raises a subcategory-wide case.
type FlagDiscrepancyRequest struct {
	ActorID       string `json:"actor_id" validate:"required"`
	SubcategoryID string `json:"subcategory_id" validate:"required"`
	CriterionID   string `json:"criterion_id,omitempty"`
	ContestantID  string `json:"contestant_id,omitempty"`
	Reason        string `json:"reason" validate:"required"`
}

// ApproveDiscrepancyRequest records one of the three independent approvals
// a pending case needs.
type ApproveDiscrepancyRequest struct {
	ActorID   string `json:"actor_id" validate:"required"`
	CaseID    string `json:"case_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// RejectDiscrepancyRequest closes a pending case as rejected.
type RejectDiscrepancyRequest struct {
	ActorID string `json:"actor_id" validate:"required"`
	CaseID  string `json:"case_id" validate:"required"`
	Reason  string `json:"reason" validate:"required"`
}

// RetireJudgeRequest removes a judge from all panels, replacing the
// source system's implicit cascade with an explicit, audited operation.
type RetireJudgeRequest struct {
	ActorID string `json:"actor_id" validate:"required"`
	JudgeID string `json:"judge_id" validate:"required"`
}

// RetireContestantRequest removes a contestant from all subcategories.
type RetireContestantRequest struct {
	ActorID      string `json:"actor_id" validate:"required"`
	ContestantID string `json:"contestant_id" validate:"required"`
}

// AdjustCriterionCapRequest raises or lowers a criterion's maximum score.
// Existing scores are not rescaled.
type AdjustCriterionCapRequest struct {
	ActorID     string  `json:"actor_id" validate:"required"`
	CriterionID string  `json:"criterion_id" validate:"required"`
	MaxScore    float64 `json:"max_score" validate:"gt=0"`
}

// TabulateScope selects the aggregation level of a tabulation request.
type TabulateScope string

// Tabulation scopes.
const (
	ScopeSubcategory TabulateScope = "subcategory"
	ScopeCategory    TabulateScope = "category"
	ScopeContest     TabulateScope = "contest"
)

// TabulateRequest asks for aggregate totals at the given scope.
type TabulateRequest struct {
	Scope   TabulateScope `json:"scope" validate:"required,oneof=subcategory category contest"`
	ScopeID string        `json:"scope_id" validate:"required"`
}
