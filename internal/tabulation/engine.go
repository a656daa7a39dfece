// Package tabulation computes aggregate totals and rankings from the score
// and deduction ledgers. All computation is pure and deterministic; the
// cached variant layers synchronous invalidation on top.
package tabulation

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ahrav/go-tally/internal/domain"
)

// Common tabulation errors.
var (
	// ErrNoContestants is returned when a snapshot has no assigned
	// contestants to rank.
	ErrNoContestants = errors.New("no contestants to tabulate")

	// ErrInvalidScore is returned when a score entry carries a NaN or
	// infinite value. Storage constraints should make this unreachable;
	// it is validated anyway to keep the arithmetic trustworthy.
	ErrInvalidScore = errors.New("invalid score value")
)

// Snapshot is the point-in-time input to a subcategory tabulation.
// Contestants must be ordered by creation sequence; that order is the
// documented tie-break and survives ranking unchanged.
type Snapshot struct {
	Subcategory domain.Subcategory
	Criteria    []domain.Criterion
	Contestants []domain.Contestant
	Scores      []domain.ScoreEntry
	Deductions  []domain.OverallDeduction
}

// CriterionAverage is the per-criterion, per-contestant mean across the
// judges who scored that criterion. Judges who did not score a criterion
// are excluded from its denominator, never counted as zero.
type CriterionAverage struct {
	CriterionID  string  `json:"criterion_id"`
	ContestantID string  `json:"contestant_id"`
	Average      float64 `json:"average"`
	JudgeCount   int     `json:"judge_count"`
}

// ContestantTotal is one contestant's aggregate within a scope.
// Net = Gross - Deduction and may be negative: deductions are applied
// without clamping so discrepancies stay visible in the standings.
type ContestantTotal struct {
	ContestantID string  `json:"contestant_id"`
	Gross        float64 `json:"gross"`
	Deduction    float64 `json:"deduction"`
	Net          float64 `json:"net"`
	Rank         int     `json:"rank"`
}

// SubcategoryResult is the full tabulation output for one subcategory.
type SubcategoryResult struct {
	SubcategoryID string             `json:"subcategory_id"`
	PerCriterion  []CriterionAverage `json:"per_criterion"`
	Totals        []ContestantTotal  `json:"totals"`
}

// ScopeResult is a category- or contest-level roll-up: the sum of
// constituent subcategory net totals per contestant. Contestants absent
// from a subcategory contribute nothing there rather than zero-padding.
type ScopeResult struct {
	ScopeID string            `json:"scope_id"`
	Totals  []ContestantTotal `json:"totals"`
}

// Subcategory tabulates one subcategory snapshot: per-criterion averages,
// net totals with deductions applied, and ranking.
func Subcategory(snap Snapshot) (SubcategoryResult, error) {
	if len(snap.Contestants) == 0 {
		return SubcategoryResult{}, fmt.Errorf("subcategory %s: %w",
			snap.Subcategory.ID, ErrNoContestants)
	}

	// Index scores by (criterion, contestant) with a single pass.
	type cell struct {
		sum   float64
		count int
	}
	cells := make(map[[2]string]*cell, len(snap.Scores))
	for _, s := range snap.Scores {
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			return SubcategoryResult{}, fmt.Errorf(
				"criterion %s contestant %s judge %s: %w",
				s.CriterionID, s.ContestantID, s.JudgeID, ErrInvalidScore)
		}
		key := [2]string{s.CriterionID, s.ContestantID}
		c := cells[key]
		if c == nil {
			c = &cell{}
			cells[key] = c
		}
		c.sum += s.Value
		c.count++
	}

	deductions := make(map[string]float64, len(snap.Deductions))
	for _, d := range snap.Deductions {
		deductions[d.ContestantID] = d.Amount
	}

	result := SubcategoryResult{SubcategoryID: snap.Subcategory.ID}
	result.Totals = make([]ContestantTotal, 0, len(snap.Contestants))

	for _, contestant := range snap.Contestants {
		var gross float64
		for _, criterion := range snap.Criteria {
			c := cells[[2]string{criterion.ID, contestant.ID}]
			if c == nil || c.count == 0 {
				// No judge scored this criterion for this contestant;
				// it contributes nothing to the sum.
				continue
			}
			avg := c.sum / float64(c.count)
			gross += avg
			result.PerCriterion = append(result.PerCriterion, CriterionAverage{
				CriterionID:  criterion.ID,
				ContestantID: contestant.ID,
				Average:      avg,
				JudgeCount:   c.count,
			})
		}
		deduction := deductions[contestant.ID]
		result.Totals = append(result.Totals, ContestantTotal{
			ContestantID: contestant.ID,
			Gross:        gross,
			Deduction:    deduction,
			Net:          gross - deduction,
		})
	}

	rank(result.Totals)
	return result, nil
}

// RollUp sums constituent subcategory net totals per contestant for a
// category or contest scope and ranks the result. The contestants slice
// fixes the tie-break order and must be sorted by creation sequence;
// contestants with no totals in any constituent subcategory are omitted.
func RollUp(scopeID string, contestants []domain.Contestant, results []SubcategoryResult) ScopeResult {
	nets := make(map[string]float64, len(contestants))
	seen := make(map[string]bool, len(contestants))
	for _, r := range results {
		for _, t := range r.Totals {
			nets[t.ContestantID] += t.Net
			seen[t.ContestantID] = true
		}
	}

	out := ScopeResult{ScopeID: scopeID}
	for _, c := range contestants {
		if !seen[c.ID] {
			continue
		}
		out.Totals = append(out.Totals, ContestantTotal{
			ContestantID: c.ID,
			Net:          nets[c.ID],
		})
	}
	rank(out.Totals)
	return out
}

// rank orders totals by net descending and assigns competition ranks
// (equal nets share a rank, the next distinct net skips past the tie).
// The sort is stable, so contestants tied on net retain the creation
// order the input arrived in.
func rank(totals []ContestantTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Net > totals[j].Net
	})
	for i := range totals {
		if i > 0 && totals[i].Net == totals[i-1].Net {
			totals[i].Rank = totals[i-1].Rank
			continue
		}
		totals[i].Rank = i + 1
	}
}
