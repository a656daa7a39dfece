package memstore

import (
	"github.com/ahrav/go-tally/internal/domain"
)

// Seeding helpers for the roster entities the surrounding application
// normally owns. Tests and embedded deployments use these to build a
// competition structure; the engine itself never creates roster records.

// AddContest registers a contest.
func (s *MemStore) AddContest(c domain.Contest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.contests[c.ID] = c
}

// AddCategory registers a category.
func (s *MemStore) AddCategory(c domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.categories[c.ID] = c
}

// AddSubcategory registers a subcategory.
func (s *MemStore) AddSubcategory(sub domain.Subcategory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.subcategories[sub.ID] = sub
}

// AddCriterion registers a criterion.
func (s *MemStore) AddCriterion(c domain.Criterion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.criteria[c.ID] = c
}

// AddJudge registers a judge.
func (s *MemStore) AddJudge(j domain.Judge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.judges[j.ID] = j
}

// AddContestant registers a contestant, assigning the next creation
// sequence number when Seq is zero. The sequence drives ranking
// tie-breaks.
func (s *MemStore) AddContestant(c domain.Contestant) domain.Contestant {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Seq == 0 {
		s.data.nextSeq++
		c.Seq = s.data.nextSeq
	} else if c.Seq > s.data.nextSeq {
		s.data.nextSeq = c.Seq
	}
	s.data.contestants[c.ID] = c
	return c
}

// AssignJudge puts a judge on a subcategory's panel.
func (s *MemStore) AssignJudge(subcategoryID, judgeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.data.judgePanels[subcategoryID] {
		if id == judgeID {
			return
		}
	}
	s.data.judgePanels[subcategoryID] = append(s.data.judgePanels[subcategoryID], judgeID)
}

// AssignContestant enters a contestant into a subcategory.
func (s *MemStore) AssignContestant(subcategoryID, contestantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.data.entrants[subcategoryID] {
		if id == contestantID {
			return
		}
	}
	s.data.entrants[subcategoryID] = append(s.data.entrants[subcategoryID], contestantID)
}
