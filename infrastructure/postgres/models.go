// Package postgres implements ports.Store and ports.AuditSink over a
// PostgreSQL database through GORM. The unique indexes declared on the
// models carry the engine's load-bearing uniqueness invariants: one score
// per (subcategory, criterion, contestant, judge), one deduction per
// (subcategory, contestant), one certification per slot.
package postgres

import (
	"time"

	"github.com/ahrav/go-tally/internal/domain"
)

type contestModel struct {
	ID   string `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;not null"`
}

func (contestModel) TableName() string { return "contests" }

type categoryModel struct {
	ID        string `gorm:"column:id;primaryKey"`
	ContestID string `gorm:"column:contest_id;not null;index"`
	Name      string `gorm:"column:name;not null"`
}

func (categoryModel) TableName() string { return "categories" }

type subcategoryModel struct {
	ID               string   `gorm:"column:id;primaryKey"`
	CategoryID       string   `gorm:"column:category_id;not null;index"`
	Name             string   `gorm:"column:name;not null"`
	ScoreCapOverride *float64 `gorm:"column:score_cap_override"`
}

func (subcategoryModel) TableName() string { return "subcategories" }

func (m subcategoryModel) toDomain() domain.Subcategory {
	return domain.Subcategory{
		ID:               m.ID,
		CategoryID:       m.CategoryID,
		Name:             m.Name,
		ScoreCapOverride: m.ScoreCapOverride,
	}
}

type criterionModel struct {
	ID            string  `gorm:"column:id;primaryKey"`
	SubcategoryID string  `gorm:"column:subcategory_id;not null;index"`
	Name          string  `gorm:"column:name;not null"`
	MaxScore      float64 `gorm:"column:max_score;not null"`
}

func (criterionModel) TableName() string { return "criteria" }

func (m criterionModel) toDomain() domain.Criterion {
	return domain.Criterion{
		ID:            m.ID,
		SubcategoryID: m.SubcategoryID,
		Name:          m.Name,
		MaxScore:      m.MaxScore,
	}
}

type judgeModel struct {
	ID            string `gorm:"column:id;primaryKey"`
	Name          string `gorm:"column:name;not null"`
	PreferredName string `gorm:"column:preferred_name;not null"`
}

func (judgeModel) TableName() string { return "judges" }

func (m judgeModel) toDomain() domain.Judge {
	return domain.Judge{ID: m.ID, Name: m.Name, PreferredName: m.PreferredName}
}

type contestantModel struct {
	ID   string `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;not null"`
	Seq  int64  `gorm:"column:seq;not null;autoIncrement;uniqueIndex:uq_contestant_seq"`
}

func (contestantModel) TableName() string { return "contestants" }

func (m contestantModel) toDomain() domain.Contestant {
	return domain.Contestant{ID: m.ID, Name: m.Name, Seq: m.Seq}
}

type judgeAssignmentModel struct {
	SubcategoryID string `gorm:"column:subcategory_id;not null;uniqueIndex:uq_judge_assignment,priority:1"`
	JudgeID       string `gorm:"column:judge_id;not null;uniqueIndex:uq_judge_assignment,priority:2;index"`
}

func (judgeAssignmentModel) TableName() string { return "judge_assignments" }

type contestantAssignmentModel struct {
	SubcategoryID string `gorm:"column:subcategory_id;not null;uniqueIndex:uq_contestant_assignment,priority:1"`
	ContestantID  string `gorm:"column:contestant_id;not null;uniqueIndex:uq_contestant_assignment,priority:2;index"`
}

func (contestantAssignmentModel) TableName() string { return "contestant_assignments" }

type scoreEntryModel struct {
	SubcategoryID string    `gorm:"column:subcategory_id;not null;uniqueIndex:uq_score_key,priority:1"`
	CriterionID   string    `gorm:"column:criterion_id;not null;uniqueIndex:uq_score_key,priority:2"`
	ContestantID  string    `gorm:"column:contestant_id;not null;uniqueIndex:uq_score_key,priority:3"`
	JudgeID       string    `gorm:"column:judge_id;not null;uniqueIndex:uq_score_key,priority:4"`
	Value         float64   `gorm:"column:value;not null;type:decimal(8,3)"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null"`
}

func (scoreEntryModel) TableName() string { return "score_entries" }

func (m scoreEntryModel) toDomain() domain.ScoreEntry {
	return domain.ScoreEntry{
		SubcategoryID: m.SubcategoryID,
		CriterionID:   m.CriterionID,
		ContestantID:  m.ContestantID,
		JudgeID:       m.JudgeID,
		Value:         m.Value,
		UpdatedAt:     m.UpdatedAt,
	}
}

type scoreCommentModel struct {
	SubcategoryID string    `gorm:"column:subcategory_id;not null;uniqueIndex:uq_score_comment,priority:1"`
	JudgeID       string    `gorm:"column:judge_id;not null;uniqueIndex:uq_score_comment,priority:2"`
	ContestantID  string    `gorm:"column:contestant_id;not null;uniqueIndex:uq_score_comment,priority:3"`
	Comment       string    `gorm:"column:comment;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null"`
}

func (scoreCommentModel) TableName() string { return "score_comments" }

func (m scoreCommentModel) toDomain() domain.ScoreComment {
	return domain.ScoreComment{
		SubcategoryID: m.SubcategoryID,
		JudgeID:       m.JudgeID,
		ContestantID:  m.ContestantID,
		Comment:       m.Comment,
		UpdatedAt:     m.UpdatedAt,
	}
}

// scoreRevisionModel is the optimistic-concurrency counter for one
// (subcategory, judge) slot. Updates are conditional on the stored
// revision, so a stale form submission loses the race instead of
// overwriting newer scores.
type scoreRevisionModel struct {
	SubcategoryID string `gorm:"column:subcategory_id;not null;uniqueIndex:uq_score_revision,priority:1"`
	JudgeID       string `gorm:"column:judge_id;not null;uniqueIndex:uq_score_revision,priority:2"`
	Revision      int64  `gorm:"column:revision;not null"`
}

func (scoreRevisionModel) TableName() string { return "score_revisions" }

type deductionModel struct {
	SubcategoryID string    `gorm:"column:subcategory_id;not null;uniqueIndex:uq_deduction,priority:1"`
	ContestantID  string    `gorm:"column:contestant_id;not null;uniqueIndex:uq_deduction,priority:2"`
	Amount        float64   `gorm:"column:amount;not null;type:decimal(8,3)"`
	Reason        string    `gorm:"column:reason;not null"`
	Comment       string    `gorm:"column:comment"`
	CreatedBy     string    `gorm:"column:created_by;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null"`
}

func (deductionModel) TableName() string { return "overall_deductions" }

func (m deductionModel) toDomain() domain.OverallDeduction {
	return domain.OverallDeduction{
		SubcategoryID: m.SubcategoryID,
		ContestantID:  m.ContestantID,
		Amount:        m.Amount,
		Reason:        m.Reason,
		Comment:       m.Comment,
		CreatedBy:     m.CreatedBy,
		UpdatedAt:     m.UpdatedAt,
	}
}

type judgeCertificationModel struct {
	SubcategoryID string    `gorm:"column:subcategory_id;not null;uniqueIndex:uq_judge_cert,priority:1"`
	JudgeID       string    `gorm:"column:judge_id;not null;uniqueIndex:uq_judge_cert,priority:2"`
	Signature     string    `gorm:"column:signature;not null"`
	SignedAt      time.Time `gorm:"column:signed_at;not null"`
}

func (judgeCertificationModel) TableName() string { return "judge_certifications" }

func (m judgeCertificationModel) toDomain() domain.JudgeCertification {
	return domain.JudgeCertification{
		SubcategoryID: m.SubcategoryID,
		JudgeID:       m.JudgeID,
		Signature:     m.Signature,
		SignedAt:      m.SignedAt,
	}
}

type tallyVerificationModel struct {
	SubcategoryID string    `gorm:"column:subcategory_id;primaryKey"`
	Signature     string    `gorm:"column:signature;not null"`
	SignedAt      time.Time `gorm:"column:signed_at;not null"`
}

func (tallyVerificationModel) TableName() string { return "tally_verifications" }

func (m tallyVerificationModel) toDomain() domain.TallyVerification {
	return domain.TallyVerification{
		SubcategoryID: m.SubcategoryID,
		Signature:     m.Signature,
		SignedAt:      m.SignedAt,
	}
}

type finalCertificationModel struct {
	SubcategoryID string    `gorm:"column:subcategory_id;primaryKey"`
	Signature     string    `gorm:"column:signature;not null"`
	SignedAt      time.Time `gorm:"column:signed_at;not null"`
}

func (finalCertificationModel) TableName() string { return "final_certifications" }

func (m finalCertificationModel) toDomain() domain.FinalCertification {
	return domain.FinalCertification{
		SubcategoryID: m.SubcategoryID,
		Signature:     m.Signature,
		SignedAt:      m.SignedAt,
	}
}

type discrepancyCaseModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	SubcategoryID string    `gorm:"column:subcategory_id;not null;index"`
	CriterionID   string    `gorm:"column:criterion_id"`
	ContestantID  string    `gorm:"column:contestant_id"`
	Reason        string    `gorm:"column:reason;not null"`
	State         string    `gorm:"column:state;not null"`
	RaisedAtStage string    `gorm:"column:raised_at_stage;not null"`
	Approvals     string    `gorm:"column:approvals;type:jsonb;default:'{}'"`
	OpenedBy      string    `gorm:"column:opened_by;not null"`
	OpenedAt      time.Time `gorm:"column:opened_at;not null"`
}

func (discrepancyCaseModel) TableName() string { return "discrepancy_cases" }

type auditRecordModel struct {
	ID         string    `gorm:"column:id;type:uuid;primaryKey"`
	ActorID    string    `gorm:"column:actor_id;not null;index"`
	Action     string    `gorm:"column:action;not null;index"`
	EntityType string    `gorm:"column:entity_type;not null"`
	EntityID   string    `gorm:"column:entity_id;not null;index"`
	Details    string    `gorm:"column:details;type:jsonb;default:'{}'"`
	At         time.Time `gorm:"column:at;not null;index"`
}

func (auditRecordModel) TableName() string { return "audit_log" }
