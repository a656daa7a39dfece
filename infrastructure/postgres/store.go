package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ahrav/go-tally/internal/domain"
	"github.com/ahrav/go-tally/internal/ports"
)

// Store is a ports.Store backed by PostgreSQL. Atomic blocks run inside a
// database transaction; GORM's translated errors are mapped onto the
// engine's domain error kinds so callers never see driver errors.
type Store struct {
	db *gorm.DB
}

var _ ports.Store = (*Store)(nil)

// Open connects to PostgreSQL with error translation enabled and returns
// a Store over the connection.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return New(db), nil
}

// New wraps an existing GORM connection.
func New(db *gorm.DB) *Store { return &Store{db: db} }

// Migrate creates or updates the schema, including the unique indexes the
// engine's invariants depend on.
func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&contestModel{},
		&categoryModel{},
		&subcategoryModel{},
		&criterionModel{},
		&judgeModel{},
		&contestantModel{},
		&judgeAssignmentModel{},
		&contestantAssignmentModel{},
		&scoreEntryModel{},
		&scoreCommentModel{},
		&scoreRevisionModel{},
		&deductionModel{},
		&judgeCertificationModel{},
		&tallyVerificationModel{},
		&finalCertificationModel{},
		&discrepancyCaseModel{},
		&auditRecordModel{},
	)
	if err != nil {
		return &domain.StorageError{Op: "migrate", Err: err}
	}
	return nil
}

// Atomic runs fn inside a database transaction. Any error rolls the
// transaction back, so the engine's all-or-nothing contract holds.
func (s *Store) Atomic(ctx context.Context, fn func(ports.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// wrap maps a GORM error onto the engine's error kinds.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &domain.ConflictError{}
	default:
		return &domain.StorageError{Op: op, Err: err}
	}
}

func (s *Store) Subcategory(ctx context.Context, id string) (domain.Subcategory, error) {
	var m subcategoryModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Subcategory{}, &domain.NotFoundError{Entity: "subcategory", ID: id}
	}
	if err != nil {
		return domain.Subcategory{}, wrap("subcategory", err)
	}
	return m.toDomain(), nil
}

func (s *Store) SubcategoriesByCategory(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
	var ms []subcategoryModel
	err := s.db.WithContext(ctx).
		Where("category_id = ?", categoryID).Order("id").Find(&ms).Error
	if err != nil {
		return nil, wrap("subcategories by category", err)
	}
	out := make([]domain.Subcategory, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (s *Store) SubcategoriesByContest(ctx context.Context, contestID string) ([]domain.Subcategory, error) {
	var ms []subcategoryModel
	err := s.db.WithContext(ctx).
		Joins("JOIN categories ON categories.id = subcategories.category_id").
		Where("categories.contest_id = ?", contestID).
		Order("subcategories.id").Find(&ms).Error
	if err != nil {
		return nil, wrap("subcategories by contest", err)
	}
	out := make([]domain.Subcategory, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (s *Store) Criteria(ctx context.Context, subcategoryID string) ([]domain.Criterion, error) {
	var ms []criterionModel
	err := s.db.WithContext(ctx).
		Where("subcategory_id = ?", subcategoryID).Order("id").Find(&ms).Error
	if err != nil {
		return nil, wrap("criteria", err)
	}
	out := make([]domain.Criterion, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (s *Store) Criterion(ctx context.Context, id string) (domain.Criterion, error) {
	var m criterionModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Criterion{}, &domain.NotFoundError{Entity: "criterion", ID: id}
	}
	if err != nil {
		return domain.Criterion{}, wrap("criterion", err)
	}
	return m.toDomain(), nil
}

func (s *Store) UpdateCriterionMax(ctx context.Context, criterionID string, maxScore float64) error {
	res := s.db.WithContext(ctx).Model(&criterionModel{}).
		Where("id = ?", criterionID).Update("max_score", maxScore)
	if res.Error != nil {
		return wrap("update criterion max", res.Error)
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Entity: "criterion", ID: criterionID}
	}
	return nil
}

func (s *Store) Judge(ctx context.Context, id string) (domain.Judge, error) {
	var m judgeModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Judge{}, &domain.NotFoundError{Entity: "judge", ID: id}
	}
	if err != nil {
		return domain.Judge{}, wrap("judge", err)
	}
	return m.toDomain(), nil
}

func (s *Store) AssignedJudges(ctx context.Context, subcategoryID string) ([]domain.Judge, error) {
	var ms []judgeModel
	err := s.db.WithContext(ctx).
		Joins("JOIN judge_assignments ON judge_assignments.judge_id = judges.id").
		Where("judge_assignments.subcategory_id = ?", subcategoryID).
		Order("judges.id").Find(&ms).Error
	if err != nil {
		return nil, wrap("assigned judges", err)
	}
	out := make([]domain.Judge, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (s *Store) AssignedContestants(ctx context.Context, subcategoryID string) ([]domain.Contestant, error) {
	var ms []contestantModel
	err := s.db.WithContext(ctx).
		Joins("JOIN contestant_assignments ON contestant_assignments.contestant_id = contestants.id").
		Where("contestant_assignments.subcategory_id = ?", subcategoryID).
		Order("contestants.seq").Find(&ms).Error
	if err != nil {
		return nil, wrap("assigned contestants", err)
	}
	out := make([]domain.Contestant, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (s *Store) SubcategoriesByJudge(ctx context.Context, judgeID string) ([]domain.Subcategory, error) {
	var ms []subcategoryModel
	err := s.db.WithContext(ctx).
		Joins("JOIN judge_assignments ON judge_assignments.subcategory_id = subcategories.id").
		Where("judge_assignments.judge_id = ?", judgeID).
		Order("subcategories.id").Find(&ms).Error
	if err != nil {
		return nil, wrap("subcategories by judge", err)
	}
	out := make([]domain.Subcategory, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (s *Store) SubcategoriesByContestant(ctx context.Context, contestantID string) ([]domain.Subcategory, error) {
	var ms []subcategoryModel
	err := s.db.WithContext(ctx).
		Joins("JOIN contestant_assignments ON contestant_assignments.subcategory_id = subcategories.id").
		Where("contestant_assignments.contestant_id = ?", contestantID).
		Order("subcategories.id").Find(&ms).Error
	if err != nil {
		return nil, wrap("subcategories by contestant", err)
	}
	out := make([]domain.Subcategory, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (s *Store) RemoveJudgeAssignments(ctx context.Context, judgeID string) error {
	err := s.db.WithContext(ctx).
		Where("judge_id = ?", judgeID).Delete(&judgeAssignmentModel{}).Error
	return wrap("remove judge assignments", err)
}

func (s *Store) RemoveContestantAssignments(ctx context.Context, contestantID string) error {
	err := s.db.WithContext(ctx).
		Where("contestant_id = ?", contestantID).Delete(&contestantAssignmentModel{}).Error
	return wrap("remove contestant assignments", err)
}

func (s *Store) Scores(ctx context.Context, subcategoryID string, filter domain.ScoreFilter) ([]domain.ScoreEntry, error) {
	q := s.db.WithContext(ctx).Where("subcategory_id = ?", subcategoryID)
	if filter.JudgeID != "" {
		q = q.Where("judge_id = ?", filter.JudgeID)
	}
	if filter.ContestantID != "" {
		q = q.Where("contestant_id = ?", filter.ContestantID)
	}
	if filter.CriterionID != "" {
		q = q.Where("criterion_id = ?", filter.CriterionID)
	}
	var ms []scoreEntryModel
	if err := q.Order("criterion_id, contestant_id, judge_id").Find(&ms).Error; err != nil {
		return nil, wrap("scores", err)
	}
	out := make([]domain.ScoreEntry, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (s *Store) Comments(ctx context.Context, subcategoryID string, filter domain.ScoreFilter) ([]domain.ScoreComment, error) {
	q := s.db.WithContext(ctx).Where("subcategory_id = ?", subcategoryID)
	if filter.JudgeID != "" {
		q = q.Where("judge_id = ?", filter.JudgeID)
	}
	if filter.ContestantID != "" {
		q = q.Where("contestant_id = ?", filter.ContestantID)
	}
	var ms []scoreCommentModel
	if err := q.Order("judge_id, contestant_id").Find(&ms).Error; err != nil {
		return nil, wrap("comments", err)
	}
	out := make([]domain.ScoreComment, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (s *Store) Revision(ctx context.Context, subcategoryID, judgeID string) (int64, error) {
	var m scoreRevisionModel
	err := s.db.WithContext(ctx).
		First(&m, "subcategory_id = ? AND judge_id = ?", subcategoryID, judgeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, wrap("revision", err)
	}
	return m.Revision, nil
}

func (s *Store) UpsertScores(ctx context.Context, subcategoryID, judgeID string,
	entries []domain.ScoreEntry, comment *domain.ScoreComment, expectedRevision int64) (int64, error) {
	db := s.db.WithContext(ctx)

	// Conditional revision bump first: losing the compare-and-swap means
	// another submission landed since the caller read its revision.
	if expectedRevision == 0 {
		err := db.Create(&scoreRevisionModel{
			SubcategoryID: subcategoryID, JudgeID: judgeID, Revision: 1,
		}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			current, rerr := s.Revision(ctx, subcategoryID, judgeID)
			if rerr != nil {
				return 0, rerr
			}
			return 0, &domain.ConflictError{
				SubcategoryID: subcategoryID, JudgeID: judgeID,
				ExpectedRevision: expectedRevision, ActualRevision: current,
			}
		}
		if err != nil {
			return 0, wrap("create revision", err)
		}
	} else {
		res := db.Model(&scoreRevisionModel{}).
			Where("subcategory_id = ? AND judge_id = ? AND revision = ?",
				subcategoryID, judgeID, expectedRevision).
			Update("revision", expectedRevision+1)
		if res.Error != nil {
			return 0, wrap("bump revision", res.Error)
		}
		if res.RowsAffected == 0 {
			current, rerr := s.Revision(ctx, subcategoryID, judgeID)
			if rerr != nil {
				return 0, rerr
			}
			return 0, &domain.ConflictError{
				SubcategoryID: subcategoryID, JudgeID: judgeID,
				ExpectedRevision: expectedRevision, ActualRevision: current,
			}
		}
	}

	for _, e := range entries {
		m := scoreEntryModel{
			SubcategoryID: e.SubcategoryID,
			CriterionID:   e.CriterionID,
			ContestantID:  e.ContestantID,
			JudgeID:       e.JudgeID,
			Value:         e.Value,
			UpdatedAt:     e.UpdatedAt,
		}
		err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "subcategory_id"}, {Name: "criterion_id"},
				{Name: "contestant_id"}, {Name: "judge_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&m).Error
		if err != nil {
			return 0, wrap("upsert score", err)
		}
	}

	if comment != nil {
		m := scoreCommentModel{
			SubcategoryID: comment.SubcategoryID,
			JudgeID:       comment.JudgeID,
			ContestantID:  comment.ContestantID,
			Comment:       comment.Comment,
			UpdatedAt:     comment.UpdatedAt,
		}
		err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "subcategory_id"}, {Name: "judge_id"}, {Name: "contestant_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"comment", "updated_at"}),
		}).Create(&m).Error
		if err != nil {
			return 0, wrap("upsert comment", err)
		}
	}
	return expectedRevision + 1, nil
}

func (s *Store) Deductions(ctx context.Context, subcategoryID string) ([]domain.OverallDeduction, error) {
	var ms []deductionModel
	err := s.db.WithContext(ctx).
		Where("subcategory_id = ?", subcategoryID).Order("contestant_id").Find(&ms).Error
	if err != nil {
		return nil, wrap("deductions", err)
	}
	out := make([]domain.OverallDeduction, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (s *Store) UpsertDeduction(ctx context.Context, d domain.OverallDeduction) error {
	m := deductionModel{
		SubcategoryID: d.SubcategoryID,
		ContestantID:  d.ContestantID,
		Amount:        d.Amount,
		Reason:        d.Reason,
		Comment:       d.Comment,
		CreatedBy:     d.CreatedBy,
		UpdatedAt:     d.UpdatedAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "subcategory_id"}, {Name: "contestant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"amount", "reason", "comment", "created_by", "updated_at",
		}),
	}).Create(&m).Error
	return wrap("upsert deduction", err)
}

func (s *Store) JudgeCertifications(ctx context.Context, subcategoryID string) ([]domain.JudgeCertification, error) {
	var ms []judgeCertificationModel
	err := s.db.WithContext(ctx).
		Where("subcategory_id = ?", subcategoryID).Order("judge_id").Find(&ms).Error
	if err != nil {
		return nil, wrap("judge certifications", err)
	}
	out := make([]domain.JudgeCertification, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (s *Store) JudgeCertification(ctx context.Context, subcategoryID, judgeID string) (domain.JudgeCertification, bool, error) {
	var m judgeCertificationModel
	err := s.db.WithContext(ctx).
		First(&m, "subcategory_id = ? AND judge_id = ?", subcategoryID, judgeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.JudgeCertification{}, false, nil
	}
	if err != nil {
		return domain.JudgeCertification{}, false, wrap("judge certification", err)
	}
	return m.toDomain(), true, nil
}

func (s *Store) InsertJudgeCertification(ctx context.Context, c domain.JudgeCertification) error {
	err := s.db.WithContext(ctx).Create(&judgeCertificationModel{
		SubcategoryID: c.SubcategoryID,
		JudgeID:       c.JudgeID,
		Signature:     c.Signature,
		SignedAt:      c.SignedAt,
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &domain.ConflictError{SubcategoryID: c.SubcategoryID, JudgeID: c.JudgeID}
	}
	return wrap("insert judge certification", err)
}

func (s *Store) DeleteJudgeCertification(ctx context.Context, subcategoryID, judgeID string) error {
	err := s.db.WithContext(ctx).
		Where("subcategory_id = ? AND judge_id = ?", subcategoryID, judgeID).
		Delete(&judgeCertificationModel{}).Error
	return wrap("delete judge certification", err)
}

func (s *Store) TallyVerification(ctx context.Context, subcategoryID string) (domain.TallyVerification, bool, error) {
	var m tallyVerificationModel
	err := s.db.WithContext(ctx).First(&m, "subcategory_id = ?", subcategoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.TallyVerification{}, false, nil
	}
	if err != nil {
		return domain.TallyVerification{}, false, wrap("tally verification", err)
	}
	return m.toDomain(), true, nil
}

func (s *Store) InsertTallyVerification(ctx context.Context, v domain.TallyVerification) error {
	err := s.db.WithContext(ctx).Create(&tallyVerificationModel{
		SubcategoryID: v.SubcategoryID,
		Signature:     v.Signature,
		SignedAt:      v.SignedAt,
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &domain.ConflictError{SubcategoryID: v.SubcategoryID}
	}
	return wrap("insert tally verification", err)
}

func (s *Store) DeleteTallyVerification(ctx context.Context, subcategoryID string) error {
	err := s.db.WithContext(ctx).
		Where("subcategory_id = ?", subcategoryID).
		Delete(&tallyVerificationModel{}).Error
	return wrap("delete tally verification", err)
}

func (s *Store) FinalCertification(ctx context.Context, subcategoryID string) (domain.FinalCertification, bool, error) {
	var m finalCertificationModel
	err := s.db.WithContext(ctx).First(&m, "subcategory_id = ?", subcategoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.FinalCertification{}, false, nil
	}
	if err != nil {
		return domain.FinalCertification{}, false, wrap("final certification", err)
	}
	return m.toDomain(), true, nil
}

func (s *Store) InsertFinalCertification(ctx context.Context, c domain.FinalCertification) error {
	err := s.db.WithContext(ctx).Create(&finalCertificationModel{
		SubcategoryID: c.SubcategoryID,
		Signature:     c.Signature,
		SignedAt:      c.SignedAt,
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &domain.ConflictError{SubcategoryID: c.SubcategoryID}
	}
	return wrap("insert final certification", err)
}

func (s *Store) DeleteFinalCertification(ctx context.Context, subcategoryID string) error {
	err := s.db.WithContext(ctx).
		Where("subcategory_id = ?", subcategoryID).
		Delete(&finalCertificationModel{}).Error
	return wrap("delete final certification", err)
}

func (s *Store) Discrepancies(ctx context.Context, subcategoryID string) ([]domain.DiscrepancyCase, error) {
	var ms []discrepancyCaseModel
	err := s.db.WithContext(ctx).
		Where("subcategory_id = ?", subcategoryID).Order("id").Find(&ms).Error
	if err != nil {
		return nil, wrap("discrepancies", err)
	}
	out := make([]domain.DiscrepancyCase, 0, len(ms))
	for _, m := range ms {
		c, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) Discrepancy(ctx context.Context, id string) (domain.DiscrepancyCase, bool, error) {
	var m discrepancyCaseModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.DiscrepancyCase{}, false, nil
	}
	if err != nil {
		return domain.DiscrepancyCase{}, false, wrap("discrepancy", err)
	}
	c, derr := m.toDomain()
	if derr != nil {
		return domain.DiscrepancyCase{}, false, derr
	}
	return c, true, nil
}

func (s *Store) UpsertDiscrepancy(ctx context.Context, d domain.DiscrepancyCase) error {
	approvals, err := json.Marshal(d.Approvals)
	if err != nil {
		return &domain.StorageError{Op: "encode approvals", Err: err}
	}
	m := discrepancyCaseModel{
		ID:            d.ID,
		SubcategoryID: d.SubcategoryID,
		CriterionID:   d.CriterionID,
		ContestantID:  d.ContestantID,
		Reason:        d.Reason,
		State:         string(d.State),
		RaisedAtStage: string(d.RaisedAtStage),
		Approvals:     string(approvals),
		OpenedBy:      d.OpenedBy,
		OpenedAt:      d.OpenedAt,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"state", "reason", "approvals",
		}),
	}).Create(&m).Error
	return wrap("upsert discrepancy", err)
}

func (m discrepancyCaseModel) toDomain() (domain.DiscrepancyCase, error) {
	var approvals map[domain.ApprovalSlot]string
	if m.Approvals != "" && m.Approvals != "null" {
		if err := json.Unmarshal([]byte(m.Approvals), &approvals); err != nil {
			return domain.DiscrepancyCase{}, &domain.StorageError{Op: "decode approvals", Err: err}
		}
	}
	return domain.DiscrepancyCase{
		ID:            m.ID,
		SubcategoryID: m.SubcategoryID,
		CriterionID:   m.CriterionID,
		ContestantID:  m.ContestantID,
		Reason:        m.Reason,
		State:         domain.DiscrepancyState(m.State),
		RaisedAtStage: domain.Stage(m.RaisedAtStage),
		Approvals:     approvals,
		OpenedBy:      m.OpenedBy,
		OpenedAt:      m.OpenedAt,
	}, nil
}
