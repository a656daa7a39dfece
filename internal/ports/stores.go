// Package ports defines the interfaces that form the contract between the
// application layer and the infrastructure layer.
// These interfaces enable dependency inversion and make the engine testable.
package ports

import (
	"context"

	"github.com/ahrav/go-tally/internal/domain"
)

// RosterStore exposes the persisted competition structure the surrounding
// application maintains: contests, categories, subcategories, criteria,
// and the judge/contestant assignments within them.
type RosterStore interface {
	// Subcategory returns the subcategory with the given ID.
	// Returns a domain.NotFoundError when it does not exist.
	Subcategory(ctx context.Context, id string) (domain.Subcategory, error)

	// SubcategoriesByCategory returns every subcategory in a category.
	SubcategoriesByCategory(ctx context.Context, categoryID string) ([]domain.Subcategory, error)

	// SubcategoriesByContest returns every subcategory in a contest.
	SubcategoriesByContest(ctx context.Context, contestID string) ([]domain.Subcategory, error)

	// Criteria returns the criteria of a subcategory.
	Criteria(ctx context.Context, subcategoryID string) ([]domain.Criterion, error)

	// Criterion returns one criterion by ID.
	Criterion(ctx context.Context, id string) (domain.Criterion, error)

	// UpdateCriterionMax replaces a criterion's maximum score. Existing
	// score entries are not rescaled.
	UpdateCriterionMax(ctx context.Context, criterionID string, maxScore float64) error

	// Judge returns the judge with the given ID, including the recorded
	// preferred name certifications must be signed with.
	Judge(ctx context.Context, id string) (domain.Judge, error)

	// AssignedJudges returns the judges assigned to a subcategory.
	AssignedJudges(ctx context.Context, subcategoryID string) ([]domain.Judge, error)

	// AssignedContestants returns the contestants assigned to a
	// subcategory, ordered by creation sequence. The order is load-bearing:
	// it is the documented tie-break for ranking.
	AssignedContestants(ctx context.Context, subcategoryID string) ([]domain.Contestant, error)

	// SubcategoriesByJudge returns every subcategory a judge is assigned to.
	SubcategoriesByJudge(ctx context.Context, judgeID string) ([]domain.Subcategory, error)

	// SubcategoriesByContestant returns every subcategory a contestant is
	// assigned to.
	SubcategoriesByContestant(ctx context.Context, contestantID string) ([]domain.Subcategory, error)

	// RemoveJudgeAssignments removes a judge from all subcategories.
	// Scores submitted by the judge are retained.
	RemoveJudgeAssignments(ctx context.Context, judgeID string) error

	// RemoveContestantAssignments removes a contestant from all
	// subcategories. Scores and deductions are retained.
	RemoveContestantAssignments(ctx context.Context, contestantID string) error
}

// ScoreStore persists score entries and the per-(subcategory, judge)
// revision counters used for optimistic concurrency.
type ScoreStore interface {
	// Scores returns the entries for a subcategory matching the filter.
	Scores(ctx context.Context, subcategoryID string, filter domain.ScoreFilter) ([]domain.ScoreEntry, error)

	// Comments returns the judge comments for a subcategory matching the
	// filter (criterion fields are ignored).
	Comments(ctx context.Context, subcategoryID string, filter domain.ScoreFilter) ([]domain.ScoreComment, error)

	// Revision returns the current write revision for a judge's slot in a
	// subcategory. A slot that has never been written has revision zero.
	Revision(ctx context.Context, subcategoryID, judgeID string) (int64, error)

	// UpsertScores writes a batch of entries and the optional shared
	// comment for one (subcategory, judge) slot, conditional on the slot
	// still being at expectedRevision. On success the slot's revision is
	// incremented and returned; on a stale revision the store returns a
	// domain.ConflictError and writes nothing.
	UpsertScores(ctx context.Context, subcategoryID, judgeID string,
		entries []domain.ScoreEntry, comment *domain.ScoreComment,
		expectedRevision int64) (int64, error)
}

// DeductionStore persists the single overall deduction per
// (subcategory, contestant) pair.
type DeductionStore interface {
	// Deductions returns every deduction recorded for a subcategory.
	Deductions(ctx context.Context, subcategoryID string) ([]domain.OverallDeduction, error)

	// UpsertDeduction overwrites the deduction for the pair. The write is
	// idempotent, not additive.
	UpsertDeduction(ctx context.Context, d domain.OverallDeduction) error
}

// CertificationStore persists the certification and discrepancy records
// that drive the state machine. Uniqueness per (subcategory, judge) for
// judge certifications and per subcategory for tally and final records is
// a load-bearing invariant of every implementation.
type CertificationStore interface {
	// JudgeCertifications returns all judge certifications for a
	// subcategory.
	JudgeCertifications(ctx context.Context, subcategoryID string) ([]domain.JudgeCertification, error)

	// JudgeCertification returns a single judge's certification.
	// The boolean reports presence.
	JudgeCertification(ctx context.Context, subcategoryID, judgeID string) (domain.JudgeCertification, bool, error)

	// InsertJudgeCertification records a judge certification. Returns a
	// domain.ConflictError when the record already exists.
	InsertJudgeCertification(ctx context.Context, c domain.JudgeCertification) error

	// DeleteJudgeCertification removes a judge certification if present.
	DeleteJudgeCertification(ctx context.Context, subcategoryID, judgeID string) error

	// TallyVerification returns the tally verification for a subcategory.
	TallyVerification(ctx context.Context, subcategoryID string) (domain.TallyVerification, bool, error)

	// InsertTallyVerification records the tally verification.
	InsertTallyVerification(ctx context.Context, v domain.TallyVerification) error

	// DeleteTallyVerification removes the tally verification if present.
	DeleteTallyVerification(ctx context.Context, subcategoryID string) error

	// FinalCertification returns the final certification for a subcategory.
	FinalCertification(ctx context.Context, subcategoryID string) (domain.FinalCertification, bool, error)

	// InsertFinalCertification records the final certification.
	InsertFinalCertification(ctx context.Context, c domain.FinalCertification) error

	// DeleteFinalCertification removes the final certification if present.
	DeleteFinalCertification(ctx context.Context, subcategoryID string) error

	// Discrepancies returns every discrepancy case for a subcategory.
	Discrepancies(ctx context.Context, subcategoryID string) ([]domain.DiscrepancyCase, error)

	// Discrepancy returns one case by ID.
	Discrepancy(ctx context.Context, id string) (domain.DiscrepancyCase, bool, error)

	// UpsertDiscrepancy inserts or replaces a discrepancy case.
	UpsertDiscrepancy(ctx context.Context, d domain.DiscrepancyCase) error
}

// Store aggregates the persistence contracts and provides atomic
// execution. Every engine mutation runs inside Atomic so that lock-state
// checks and the writes they guard form one all-or-nothing unit;
// certification transitions therefore serialize against concurrent score
// writes for the same scope. When fn returns an error nothing is
// committed.
type Store interface {
	RosterStore
	ScoreStore
	DeductionStore
	CertificationStore

	// Atomic runs fn against a transactional view of the store.
	// Implementations must guarantee serializability of concurrent Atomic
	// blocks touching the same subcategory.
	Atomic(ctx context.Context, fn func(tx Store) error) error
}
