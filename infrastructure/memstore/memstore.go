// Package memstore provides an in-memory implementation of ports.Store
// plus in-memory collaborator implementations for tests and embedded use.
// Atomic blocks are serialized by a single mutex and roll back by
// restoring a snapshot, so the all-or-nothing contract holds without a
// real transaction manager.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/ahrav/go-tally/internal/domain"
	"github.com/ahrav/go-tally/internal/ports"
)

type slotKey struct{ subcategoryID, judgeID string }

type scoreKey struct{ subcategoryID, criterionID, contestantID, judgeID string }

type commentKey struct{ subcategoryID, judgeID, contestantID string }

type pairKey struct{ subcategoryID, contestantID string }

// tables holds all record sets. Map keys encode the uniqueness
// constraints: one score per (subcategory, criterion, contestant,
// judge), one deduction per (subcategory, contestant), one
// certification per slot.
type tables struct {
	contests      map[string]domain.Contest
	categories    map[string]domain.Category
	subcategories map[string]domain.Subcategory
	criteria      map[string]domain.Criterion
	judges        map[string]domain.Judge
	contestants   map[string]domain.Contestant

	judgePanels map[string][]string // subcategory -> judge IDs, insertion order
	entrants    map[string][]string // subcategory -> contestant IDs

	scores    map[scoreKey]domain.ScoreEntry
	comments  map[commentKey]domain.ScoreComment
	revisions map[slotKey]int64

	deductions map[pairKey]domain.OverallDeduction

	judgeCerts    map[slotKey]domain.JudgeCertification
	tallyCerts    map[string]domain.TallyVerification
	finalCerts    map[string]domain.FinalCertification
	discrepancies map[string]domain.DiscrepancyCase

	nextSeq int64
}

func newTables() *tables {
	return &tables{
		contests:      make(map[string]domain.Contest),
		categories:    make(map[string]domain.Category),
		subcategories: make(map[string]domain.Subcategory),
		criteria:      make(map[string]domain.Criterion),
		judges:        make(map[string]domain.Judge),
		contestants:   make(map[string]domain.Contestant),
		judgePanels:   make(map[string][]string),
		entrants:      make(map[string][]string),
		scores:        make(map[scoreKey]domain.ScoreEntry),
		comments:      make(map[commentKey]domain.ScoreComment),
		revisions:     make(map[slotKey]int64),
		deductions:    make(map[pairKey]domain.OverallDeduction),
		judgeCerts:    make(map[slotKey]domain.JudgeCertification),
		tallyCerts:    make(map[string]domain.TallyVerification),
		finalCerts:    make(map[string]domain.FinalCertification),
		discrepancies: make(map[string]domain.DiscrepancyCase),
	}
}

// clone deep-copies the tables for snapshot rollback.
func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.contests {
		c.contests[k] = v
	}
	for k, v := range t.categories {
		c.categories[k] = v
	}
	for k, v := range t.subcategories {
		c.subcategories[k] = v
	}
	for k, v := range t.criteria {
		c.criteria[k] = v
	}
	for k, v := range t.judges {
		c.judges[k] = v
	}
	for k, v := range t.contestants {
		c.contestants[k] = v
	}
	for k, v := range t.judgePanels {
		c.judgePanels[k] = append([]string(nil), v...)
	}
	for k, v := range t.entrants {
		c.entrants[k] = append([]string(nil), v...)
	}
	for k, v := range t.scores {
		c.scores[k] = v
	}
	for k, v := range t.comments {
		c.comments[k] = v
	}
	for k, v := range t.revisions {
		c.revisions[k] = v
	}
	for k, v := range t.deductions {
		c.deductions[k] = v
	}
	for k, v := range t.judgeCerts {
		c.judgeCerts[k] = v
	}
	for k, v := range t.tallyCerts {
		c.tallyCerts[k] = v
	}
	for k, v := range t.finalCerts {
		c.finalCerts[k] = v
	}
	for k, v := range t.discrepancies {
		if v.Approvals != nil {
			approvals := make(map[domain.ApprovalSlot]string, len(v.Approvals))
			for slot, sig := range v.Approvals {
				approvals[slot] = sig
			}
			v.Approvals = approvals
		}
		c.discrepancies[k] = v
	}
	c.nextSeq = t.nextSeq
	return c
}

// view implements ports.Store over tables without locking. MemStore wraps
// every call with its mutex; Atomic hands a view to the callback so the
// whole block runs under one critical section.
type view struct {
	t *tables
}

var _ ports.Store = (*view)(nil)

func (v *view) Subcategory(_ context.Context, id string) (domain.Subcategory, error) {
	sub, ok := v.t.subcategories[id]
	if !ok {
		return domain.Subcategory{}, &domain.NotFoundError{Entity: "subcategory", ID: id}
	}
	return sub, nil
}

func (v *view) SubcategoriesByCategory(_ context.Context, categoryID string) ([]domain.Subcategory, error) {
	var subs []domain.Subcategory
	for _, sub := range v.t.subcategories {
		if sub.CategoryID == categoryID {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, nil
}

func (v *view) SubcategoriesByContest(_ context.Context, contestID string) ([]domain.Subcategory, error) {
	var subs []domain.Subcategory
	for _, sub := range v.t.subcategories {
		cat, ok := v.t.categories[sub.CategoryID]
		if ok && cat.ContestID == contestID {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, nil
}

func (v *view) Criteria(_ context.Context, subcategoryID string) ([]domain.Criterion, error) {
	var out []domain.Criterion
	for _, c := range v.t.criteria {
		if c.SubcategoryID == subcategoryID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v *view) Criterion(_ context.Context, id string) (domain.Criterion, error) {
	c, ok := v.t.criteria[id]
	if !ok {
		return domain.Criterion{}, &domain.NotFoundError{Entity: "criterion", ID: id}
	}
	return c, nil
}

func (v *view) UpdateCriterionMax(_ context.Context, criterionID string, maxScore float64) error {
	c, ok := v.t.criteria[criterionID]
	if !ok {
		return &domain.NotFoundError{Entity: "criterion", ID: criterionID}
	}
	c.MaxScore = maxScore
	v.t.criteria[criterionID] = c
	return nil
}

func (v *view) Judge(_ context.Context, id string) (domain.Judge, error) {
	j, ok := v.t.judges[id]
	if !ok {
		return domain.Judge{}, &domain.NotFoundError{Entity: "judge", ID: id}
	}
	return j, nil
}

func (v *view) AssignedJudges(_ context.Context, subcategoryID string) ([]domain.Judge, error) {
	ids := v.t.judgePanels[subcategoryID]
	judges := make([]domain.Judge, 0, len(ids))
	for _, id := range ids {
		if j, ok := v.t.judges[id]; ok {
			judges = append(judges, j)
		}
	}
	return judges, nil
}

func (v *view) AssignedContestants(_ context.Context, subcategoryID string) ([]domain.Contestant, error) {
	ids := v.t.entrants[subcategoryID]
	contestants := make([]domain.Contestant, 0, len(ids))
	for _, id := range ids {
		if c, ok := v.t.contestants[id]; ok {
			contestants = append(contestants, c)
		}
	}
	// Creation order is the documented ranking tie-break.
	sort.Slice(contestants, func(i, j int) bool { return contestants[i].Seq < contestants[j].Seq })
	return contestants, nil
}

func (v *view) SubcategoriesByJudge(_ context.Context, judgeID string) ([]domain.Subcategory, error) {
	var subs []domain.Subcategory
	for subID, ids := range v.t.judgePanels {
		for _, id := range ids {
			if id == judgeID {
				if sub, ok := v.t.subcategories[subID]; ok {
					subs = append(subs, sub)
				}
				break
			}
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, nil
}

func (v *view) SubcategoriesByContestant(_ context.Context, contestantID string) ([]domain.Subcategory, error) {
	var subs []domain.Subcategory
	for subID, ids := range v.t.entrants {
		for _, id := range ids {
			if id == contestantID {
				if sub, ok := v.t.subcategories[subID]; ok {
					subs = append(subs, sub)
				}
				break
			}
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, nil
}

func (v *view) RemoveJudgeAssignments(_ context.Context, judgeID string) error {
	for subID, ids := range v.t.judgePanels {
		kept := ids[:0]
		for _, id := range ids {
			if id != judgeID {
				kept = append(kept, id)
			}
		}
		v.t.judgePanels[subID] = kept
	}
	return nil
}

func (v *view) RemoveContestantAssignments(_ context.Context, contestantID string) error {
	for subID, ids := range v.t.entrants {
		kept := ids[:0]
		for _, id := range ids {
			if id != contestantID {
				kept = append(kept, id)
			}
		}
		v.t.entrants[subID] = kept
	}
	return nil
}

func (v *view) Scores(_ context.Context, subcategoryID string, filter domain.ScoreFilter) ([]domain.ScoreEntry, error) {
	var out []domain.ScoreEntry
	for key, entry := range v.t.scores {
		if key.subcategoryID != subcategoryID || !filter.Matches(entry) {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CriterionID != b.CriterionID {
			return a.CriterionID < b.CriterionID
		}
		if a.ContestantID != b.ContestantID {
			return a.ContestantID < b.ContestantID
		}
		return a.JudgeID < b.JudgeID
	})
	return out, nil
}

func (v *view) Comments(_ context.Context, subcategoryID string, filter domain.ScoreFilter) ([]domain.ScoreComment, error) {
	var out []domain.ScoreComment
	for key, c := range v.t.comments {
		if key.subcategoryID != subcategoryID {
			continue
		}
		if filter.JudgeID != "" && c.JudgeID != filter.JudgeID {
			continue
		}
		if filter.ContestantID != "" && c.ContestantID != filter.ContestantID {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JudgeID != out[j].JudgeID {
			return out[i].JudgeID < out[j].JudgeID
		}
		return out[i].ContestantID < out[j].ContestantID
	})
	return out, nil
}

func (v *view) Revision(_ context.Context, subcategoryID, judgeID string) (int64, error) {
	return v.t.revisions[slotKey{subcategoryID, judgeID}], nil
}

func (v *view) UpsertScores(_ context.Context, subcategoryID, judgeID string,
	entries []domain.ScoreEntry, comment *domain.ScoreComment, expectedRevision int64) (int64, error) {
	slot := slotKey{subcategoryID, judgeID}
	current := v.t.revisions[slot]
	if current != expectedRevision {
		return 0, &domain.ConflictError{
			SubcategoryID:    subcategoryID,
			JudgeID:          judgeID,
			ExpectedRevision: expectedRevision,
			ActualRevision:   current,
		}
	}
	for _, e := range entries {
		v.t.scores[scoreKey{e.SubcategoryID, e.CriterionID, e.ContestantID, e.JudgeID}] = e
	}
	if comment != nil {
		v.t.comments[commentKey{comment.SubcategoryID, comment.JudgeID, comment.ContestantID}] = *comment
	}
	v.t.revisions[slot] = current + 1
	return current + 1, nil
}

func (v *view) Deductions(_ context.Context, subcategoryID string) ([]domain.OverallDeduction, error) {
	var out []domain.OverallDeduction
	for key, d := range v.t.deductions {
		if key.subcategoryID == subcategoryID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContestantID < out[j].ContestantID })
	return out, nil
}

func (v *view) UpsertDeduction(_ context.Context, d domain.OverallDeduction) error {
	v.t.deductions[pairKey{d.SubcategoryID, d.ContestantID}] = d
	return nil
}

func (v *view) JudgeCertifications(_ context.Context, subcategoryID string) ([]domain.JudgeCertification, error) {
	var out []domain.JudgeCertification
	for key, c := range v.t.judgeCerts {
		if key.subcategoryID == subcategoryID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JudgeID < out[j].JudgeID })
	return out, nil
}

func (v *view) JudgeCertification(_ context.Context, subcategoryID, judgeID string) (domain.JudgeCertification, bool, error) {
	c, ok := v.t.judgeCerts[slotKey{subcategoryID, judgeID}]
	return c, ok, nil
}

func (v *view) InsertJudgeCertification(_ context.Context, c domain.JudgeCertification) error {
	key := slotKey{c.SubcategoryID, c.JudgeID}
	if _, dup := v.t.judgeCerts[key]; dup {
		return &domain.ConflictError{SubcategoryID: c.SubcategoryID, JudgeID: c.JudgeID}
	}
	v.t.judgeCerts[key] = c
	return nil
}

func (v *view) DeleteJudgeCertification(_ context.Context, subcategoryID, judgeID string) error {
	delete(v.t.judgeCerts, slotKey{subcategoryID, judgeID})
	return nil
}

func (v *view) TallyVerification(_ context.Context, subcategoryID string) (domain.TallyVerification, bool, error) {
	t, ok := v.t.tallyCerts[subcategoryID]
	return t, ok, nil
}

func (v *view) InsertTallyVerification(_ context.Context, tv domain.TallyVerification) error {
	if _, dup := v.t.tallyCerts[tv.SubcategoryID]; dup {
		return &domain.ConflictError{SubcategoryID: tv.SubcategoryID}
	}
	v.t.tallyCerts[tv.SubcategoryID] = tv
	return nil
}

func (v *view) DeleteTallyVerification(_ context.Context, subcategoryID string) error {
	delete(v.t.tallyCerts, subcategoryID)
	return nil
}

func (v *view) FinalCertification(_ context.Context, subcategoryID string) (domain.FinalCertification, bool, error) {
	f, ok := v.t.finalCerts[subcategoryID]
	return f, ok, nil
}

func (v *view) InsertFinalCertification(_ context.Context, f domain.FinalCertification) error {
	if _, dup := v.t.finalCerts[f.SubcategoryID]; dup {
		return &domain.ConflictError{SubcategoryID: f.SubcategoryID}
	}
	v.t.finalCerts[f.SubcategoryID] = f
	return nil
}

func (v *view) DeleteFinalCertification(_ context.Context, subcategoryID string) error {
	delete(v.t.finalCerts, subcategoryID)
	return nil
}

func (v *view) Discrepancies(_ context.Context, subcategoryID string) ([]domain.DiscrepancyCase, error) {
	var out []domain.DiscrepancyCase
	for _, c := range v.t.discrepancies {
		if c.SubcategoryID == subcategoryID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v *view) Discrepancy(_ context.Context, id string) (domain.DiscrepancyCase, bool, error) {
	c, ok := v.t.discrepancies[id]
	return c, ok, nil
}

func (v *view) UpsertDiscrepancy(_ context.Context, d domain.DiscrepancyCase) error {
	v.t.discrepancies[d.ID] = d
	return nil
}

// Atomic on a view runs the callback directly: the enclosing MemStore
// Atomic already holds the lock, so nesting flattens into one unit.
func (v *view) Atomic(_ context.Context, fn func(ports.Store) error) error {
	return fn(v)
}

// MemStore is a mutex-serialized, snapshot-rollback ports.Store.
// The zero value is not usable; construct with New.
type MemStore struct {
	mu   sync.Mutex
	data *tables
}

var _ ports.Store = (*MemStore)(nil)

// New returns an empty MemStore.
func New() *MemStore {
	return &MemStore{data: newTables()}
}

// Atomic runs fn under the store mutex against a transactional view.
// On error the pre-block snapshot is restored, so fn either commits
// entirely or not at all.
func (s *MemStore) Atomic(ctx context.Context, fn func(ports.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	if err := fn(&view{t: s.data}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *MemStore) locked() (*view, func()) {
	s.mu.Lock()
	return &view{t: s.data}, s.mu.Unlock
}

func (s *MemStore) Subcategory(ctx context.Context, id string) (domain.Subcategory, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.Subcategory(ctx, id)
}

func (s *MemStore) SubcategoriesByCategory(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.SubcategoriesByCategory(ctx, categoryID)
}

func (s *MemStore) SubcategoriesByContest(ctx context.Context, contestID string) ([]domain.Subcategory, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.SubcategoriesByContest(ctx, contestID)
}

func (s *MemStore) Criteria(ctx context.Context, subcategoryID string) ([]domain.Criterion, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.Criteria(ctx, subcategoryID)
}

func (s *MemStore) Criterion(ctx context.Context, id string) (domain.Criterion, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.Criterion(ctx, id)
}

func (s *MemStore) UpdateCriterionMax(ctx context.Context, criterionID string, maxScore float64) error {
	v, unlock := s.locked()
	defer unlock()
	return v.UpdateCriterionMax(ctx, criterionID, maxScore)
}

func (s *MemStore) Judge(ctx context.Context, id string) (domain.Judge, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.Judge(ctx, id)
}

func (s *MemStore) AssignedJudges(ctx context.Context, subcategoryID string) ([]domain.Judge, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.AssignedJudges(ctx, subcategoryID)
}

func (s *MemStore) AssignedContestants(ctx context.Context, subcategoryID string) ([]domain.Contestant, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.AssignedContestants(ctx, subcategoryID)
}

func (s *MemStore) SubcategoriesByJudge(ctx context.Context, judgeID string) ([]domain.Subcategory, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.SubcategoriesByJudge(ctx, judgeID)
}

func (s *MemStore) SubcategoriesByContestant(ctx context.Context, contestantID string) ([]domain.Subcategory, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.SubcategoriesByContestant(ctx, contestantID)
}

func (s *MemStore) RemoveJudgeAssignments(ctx context.Context, judgeID string) error {
	v, unlock := s.locked()
	defer unlock()
	return v.RemoveJudgeAssignments(ctx, judgeID)
}

func (s *MemStore) RemoveContestantAssignments(ctx context.Context, contestantID string) error {
	v, unlock := s.locked()
	defer unlock()
	return v.RemoveContestantAssignments(ctx, contestantID)
}

func (s *MemStore) Scores(ctx context.Context, subcategoryID string, filter domain.ScoreFilter) ([]domain.ScoreEntry, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.Scores(ctx, subcategoryID, filter)
}

func (s *MemStore) Comments(ctx context.Context, subcategoryID string, filter domain.ScoreFilter) ([]domain.ScoreComment, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.Comments(ctx, subcategoryID, filter)
}

func (s *MemStore) Revision(ctx context.Context, subcategoryID, judgeID string) (int64, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.Revision(ctx, subcategoryID, judgeID)
}

func (s *MemStore) UpsertScores(ctx context.Context, subcategoryID, judgeID string,
	entries []domain.ScoreEntry, comment *domain.ScoreComment, expectedRevision int64) (int64, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.UpsertScores(ctx, subcategoryID, judgeID, entries, comment, expectedRevision)
}

func (s *MemStore) Deductions(ctx context.Context, subcategoryID string) ([]domain.OverallDeduction, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.Deductions(ctx, subcategoryID)
}

func (s *MemStore) UpsertDeduction(ctx context.Context, d domain.OverallDeduction) error {
	v, unlock := s.locked()
	defer unlock()
	return v.UpsertDeduction(ctx, d)
}

func (s *MemStore) JudgeCertifications(ctx context.Context, subcategoryID string) ([]domain.JudgeCertification, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.JudgeCertifications(ctx, subcategoryID)
}

func (s *MemStore) JudgeCertification(ctx context.Context, subcategoryID, judgeID string) (domain.JudgeCertification, bool, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.JudgeCertification(ctx, subcategoryID, judgeID)
}

func (s *MemStore) InsertJudgeCertification(ctx context.Context, c domain.JudgeCertification) error {
	v, unlock := s.locked()
	defer unlock()
	return v.InsertJudgeCertification(ctx, c)
}

func (s *MemStore) DeleteJudgeCertification(ctx context.Context, subcategoryID, judgeID string) error {
	v, unlock := s.locked()
	defer unlock()
	return v.DeleteJudgeCertification(ctx, subcategoryID, judgeID)
}

func (s *MemStore) TallyVerification(ctx context.Context, subcategoryID string) (domain.TallyVerification, bool, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.TallyVerification(ctx, subcategoryID)
}

func (s *MemStore) InsertTallyVerification(ctx context.Context, tv domain.TallyVerification) error {
	v, unlock := s.locked()
	defer unlock()
	return v.InsertTallyVerification(ctx, tv)
}

func (s *MemStore) DeleteTallyVerification(ctx context.Context, subcategoryID string) error {
	v, unlock := s.locked()
	defer unlock()
	return v.DeleteTallyVerification(ctx, subcategoryID)
}

func (s *MemStore) FinalCertification(ctx context.Context, subcategoryID string) (domain.FinalCertification, bool, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.FinalCertification(ctx, subcategoryID)
}

func (s *MemStore) InsertFinalCertification(ctx context.Context, f domain.FinalCertification) error {
	v, unlock := s.locked()
	defer unlock()
	return v.InsertFinalCertification(ctx, f)
}

func (s *MemStore) DeleteFinalCertification(ctx context.Context, subcategoryID string) error {
	v, unlock := s.locked()
	defer unlock()
	return v.DeleteFinalCertification(ctx, subcategoryID)
}

func (s *MemStore) Discrepancies(ctx context.Context, subcategoryID string) ([]domain.DiscrepancyCase, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.Discrepancies(ctx, subcategoryID)
}

func (s *MemStore) Discrepancy(ctx context.Context, id string) (domain.DiscrepancyCase, bool, error) {
	v, unlock := s.locked()
	defer unlock()
	return v.Discrepancy(ctx, id)
}

func (s *MemStore) UpsertDiscrepancy(ctx context.Context, d domain.DiscrepancyCase) error {
	v, unlock := s.locked()
	defer unlock()
	return v.UpsertDiscrepancy(ctx, d)
}
