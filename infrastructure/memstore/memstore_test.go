package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-tally/internal/domain"
	"github.com/ahrav/go-tally/internal/ports"
)

func seeded() *MemStore {
	s := New()
	s.AddContest(domain.Contest{ID: "contest-1"})
	s.AddCategory(domain.Category{ID: "cat-1", ContestID: "contest-1"})
	s.AddSubcategory(domain.Subcategory{ID: "sub-1", CategoryID: "cat-1"})
	s.AddCriterion(domain.Criterion{ID: "crit-a", SubcategoryID: "sub-1", MaxScore: 10})
	s.AddJudge(domain.Judge{ID: "judge-1", PreferredName: "Alice Smith"})
	s.AddContestant(domain.Contestant{ID: "con-1"})
	s.AssignJudge("sub-1", "judge-1")
	s.AssignContestant("sub-1", "con-1")
	return s
}

func entry(value float64) domain.ScoreEntry {
	return domain.ScoreEntry{
		SubcategoryID: "sub-1",
		CriterionID:   "crit-a",
		ContestantID:  "con-1",
		JudgeID:       "judge-1",
		Value:         value,
		UpdatedAt:     time.Now(),
	}
}

func TestAddContestant_AssignsSequence(t *testing.T) {
	s := New()
	first := s.AddContestant(domain.Contestant{ID: "con-1"})
	second := s.AddContestant(domain.Contestant{ID: "con-2"})

	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(2), second.Seq)

	// An explicit sequence is preserved.
	custom := s.AddContestant(domain.Contestant{ID: "con-3", Seq: 42})
	assert.Equal(t, int64(42), custom.Seq)
}

func TestUpsertScores_RevisionSequence(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	rev, err := s.UpsertScores(ctx, "sub-1", "judge-1", []domain.ScoreEntry{entry(8)}, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)

	rev, err = s.UpsertScores(ctx, "sub-1", "judge-1", []domain.ScoreEntry{entry(6)}, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)

	scores, err := s.Scores(ctx, "sub-1", domain.ScoreFilter{})
	require.NoError(t, err)
	require.Len(t, scores, 1, "same key upserts in place")
	assert.InDelta(t, 6.0, scores[0].Value, 1e-9)
}

func TestUpsertScores_StaleRevisionConflicts(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	_, err := s.UpsertScores(ctx, "sub-1", "judge-1", []domain.ScoreEntry{entry(8)}, nil, 0)
	require.NoError(t, err)

	_, err = s.UpsertScores(ctx, "sub-1", "judge-1", []domain.ScoreEntry{entry(6)}, nil, 0)
	require.ErrorIs(t, err, domain.ErrConflict)

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(0), conflict.ExpectedRevision)
	assert.Equal(t, int64(1), conflict.ActualRevision)

	// The losing write changed nothing.
	scores, err := s.Scores(ctx, "sub-1", domain.ScoreFilter{})
	require.NoError(t, err)
	assert.InDelta(t, 8.0, scores[0].Value, 1e-9)
}

func TestAtomic_RollsBackOnError(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	boom := errors.New("abort")

	err := s.Atomic(ctx, func(tx ports.Store) error {
		_, err := tx.UpsertScores(ctx, "sub-1", "judge-1", []domain.ScoreEntry{entry(8)}, nil, 0)
		require.NoError(t, err)
		require.NoError(t, tx.InsertJudgeCertification(ctx, domain.JudgeCertification{
			SubcategoryID: "sub-1", JudgeID: "judge-1", Signature: "Alice Smith", SignedAt: time.Now(),
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	scores, err := s.Scores(ctx, "sub-1", domain.ScoreFilter{})
	require.NoError(t, err)
	assert.Empty(t, scores, "the score write was rolled back")

	_, exists, err := s.JudgeCertification(ctx, "sub-1", "judge-1")
	require.NoError(t, err)
	assert.False(t, exists, "the certification insert was rolled back")
}

func TestAtomic_CommitsOnSuccess(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	err := s.Atomic(ctx, func(tx ports.Store) error {
		_, err := tx.UpsertScores(ctx, "sub-1", "judge-1", []domain.ScoreEntry{entry(9)}, nil, 0)
		return err
	})
	require.NoError(t, err)

	scores, err := s.Scores(ctx, "sub-1", domain.ScoreFilter{})
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.InDelta(t, 9.0, scores[0].Value, 1e-9)
}

func TestAtomic_NestedBlocksFlatten(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	err := s.Atomic(ctx, func(tx ports.Store) error {
		return tx.Atomic(ctx, func(inner ports.Store) error {
			_, err := inner.UpsertScores(ctx, "sub-1", "judge-1", []domain.ScoreEntry{entry(7)}, nil, 0)
			return err
		})
	})
	require.NoError(t, err, "nested Atomic must not deadlock")

	scores, err := s.Scores(ctx, "sub-1", domain.ScoreFilter{})
	require.NoError(t, err)
	assert.Len(t, scores, 1)
}

func TestInsertJudgeCertification_DuplicateConflicts(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	cert := domain.JudgeCertification{
		SubcategoryID: "sub-1", JudgeID: "judge-1", Signature: "Alice Smith", SignedAt: time.Now(),
	}

	require.NoError(t, s.InsertJudgeCertification(ctx, cert))
	assert.ErrorIs(t, s.InsertJudgeCertification(ctx, cert), domain.ErrConflict)
}

func TestCertificationRecords_RoundTrip(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	require.NoError(t, s.InsertTallyVerification(ctx, domain.TallyVerification{
		SubcategoryID: "sub-1", Signature: "Tina Count", SignedAt: time.Now(),
	}))
	v, ok, err := s.TallyVerification(ctx, "sub-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Tina Count", v.Signature)

	require.NoError(t, s.DeleteTallyVerification(ctx, "sub-1"))
	_, ok, err = s.TallyVerification(ctx, "sub-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveJudgeAssignments(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	require.NoError(t, s.RemoveJudgeAssignments(ctx, "judge-1"))
	judges, err := s.AssignedJudges(ctx, "sub-1")
	require.NoError(t, err)
	assert.Empty(t, judges)
}

func TestAssignedContestants_OrderedBySequence(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	s.AddContestant(domain.Contestant{ID: "con-0", Seq: 99})
	s.AddContestant(domain.Contestant{ID: "con-2", Seq: 2})
	s.AssignContestant("sub-1", "con-0")
	s.AssignContestant("sub-1", "con-2")

	contestants, err := s.AssignedContestants(ctx, "sub-1")
	require.NoError(t, err)
	require.Len(t, contestants, 3)
	assert.Equal(t, "con-1", contestants[0].ID)
	assert.Equal(t, "con-2", contestants[1].ID)
	assert.Equal(t, "con-0", contestants[2].ID, "sequence order, not insertion order")
}

func TestDiscrepancy_ApprovalsSurviveClone(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	boom := errors.New("abort")

	c := domain.DiscrepancyCase{
		ID: "case-1", SubcategoryID: "sub-1",
		State:     domain.DiscrepancyPending,
		Approvals: map[domain.ApprovalSlot]string{domain.ApprovalTally: "Tina Count"},
	}
	require.NoError(t, s.UpsertDiscrepancy(ctx, c))

	// A rolled-back mutation of the approvals map must not leak into the
	// committed state.
	err := s.Atomic(ctx, func(tx ports.Store) error {
		stored, ok, err := tx.Discrepancy(ctx, "case-1")
		require.NoError(t, err)
		require.True(t, ok)
		stored.Approve(domain.ApprovalAuditor, "Aria Ledger")
		require.NoError(t, tx.UpsertDiscrepancy(ctx, stored))
		return boom
	})
	require.ErrorIs(t, err, boom)

	stored, ok, err := s.Discrepancy(ctx, "case-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, stored.Approvals, 1, "rollback restored the approvals map")
}

func TestStaticIdentityProvider(t *testing.T) {
	ids := NewStaticIdentityProvider()
	ids.Register(domain.Identity{ID: "org-1", Role: domain.RoleOrganizer, SignatureName: "Olive Chair"})

	got, err := ids.Resolve(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOrganizer, got.Role)

	_, err = ids.Resolve(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryAuditSink(t *testing.T) {
	sink := NewMemoryAuditSink()
	require.NoError(t, sink.Record(context.Background(), domain.AuditEntry{
		ID: "audit-1", ActorID: "org-1", Action: "unsign",
	}))

	entries := sink.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "unsign", entries[0].Action)

	// Entries returns a copy; mutating it does not affect the sink.
	entries[0].Action = "mutated"
	assert.Equal(t, "unsign", sink.Entries()[0].Action)
}
