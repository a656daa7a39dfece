package tabulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-tally/internal/domain"
)

func score(criterionID, contestantID, judgeID string, value float64) domain.ScoreEntry {
	return domain.ScoreEntry{
		SubcategoryID: "sub-1",
		CriterionID:   criterionID,
		ContestantID:  contestantID,
		JudgeID:       judgeID,
		Value:         value,
	}
}

func TestSubcategory_AveragesAndDeduction(t *testing.T) {
	// Two judges score criterion A as 8 and 6 (mean 7.0), one judge scores
	// criterion B as 9 (mean 9.0). Gross 16.0 minus a 2.0 deduction
	// leaves a net of 14.0.
	snap := Snapshot{
		Subcategory: domain.Subcategory{ID: "sub-1"},
		Criteria: []domain.Criterion{
			{ID: "crit-a", SubcategoryID: "sub-1", MaxScore: 10},
			{ID: "crit-b", SubcategoryID: "sub-1", MaxScore: 10},
		},
		Contestants: []domain.Contestant{{ID: "con-1", Seq: 1}},
		Scores: []domain.ScoreEntry{
			score("crit-a", "con-1", "judge-1", 8),
			score("crit-a", "con-1", "judge-2", 6),
			score("crit-b", "con-1", "judge-1", 9),
		},
		Deductions: []domain.OverallDeduction{
			{SubcategoryID: "sub-1", ContestantID: "con-1", Amount: 2},
		},
	}

	result, err := Subcategory(snap)
	require.NoError(t, err)

	require.Len(t, result.PerCriterion, 2)
	assert.InDelta(t, 7.0, result.PerCriterion[0].Average, 1e-9)
	assert.Equal(t, 2, result.PerCriterion[0].JudgeCount)
	assert.InDelta(t, 9.0, result.PerCriterion[1].Average, 1e-9)
	assert.Equal(t, 1, result.PerCriterion[1].JudgeCount)

	require.Len(t, result.Totals, 1)
	total := result.Totals[0]
	assert.InDelta(t, 16.0, total.Gross, 1e-9)
	assert.InDelta(t, 2.0, total.Deduction, 1e-9)
	assert.InDelta(t, 14.0, total.Net, 1e-9)
	assert.Equal(t, 1, total.Rank)
}

func TestSubcategory_AbsentJudgeExcludedFromDenominator(t *testing.T) {
	// Judge 2 never scored; the average divides by the judges who did,
	// not by the size of the panel.
	snap := Snapshot{
		Subcategory: domain.Subcategory{ID: "sub-1"},
		Criteria:    []domain.Criterion{{ID: "crit-a", MaxScore: 10}},
		Contestants: []domain.Contestant{{ID: "con-1", Seq: 1}},
		Scores: []domain.ScoreEntry{
			score("crit-a", "con-1", "judge-1", 9),
		},
	}

	result, err := Subcategory(snap)
	require.NoError(t, err)
	require.Len(t, result.PerCriterion, 1)
	assert.InDelta(t, 9.0, result.PerCriterion[0].Average, 1e-9)
	assert.Equal(t, 1, result.PerCriterion[0].JudgeCount)
}

func TestSubcategory_UnscoredCriterionContributesNothing(t *testing.T) {
	snap := Snapshot{
		Subcategory: domain.Subcategory{ID: "sub-1"},
		Criteria: []domain.Criterion{
			{ID: "crit-a", MaxScore: 10},
			{ID: "crit-b", MaxScore: 10},
		},
		Contestants: []domain.Contestant{{ID: "con-1", Seq: 1}},
		Scores: []domain.ScoreEntry{
			score("crit-a", "con-1", "judge-1", 5),
		},
	}

	result, err := Subcategory(snap)
	require.NoError(t, err)
	require.Len(t, result.Totals, 1)
	assert.InDelta(t, 5.0, result.Totals[0].Gross, 1e-9)
	assert.Len(t, result.PerCriterion, 1, "only scored criteria appear")
}

func TestSubcategory_NegativeNetAllowed(t *testing.T) {
	// A deduction larger than the gross produces a negative net; nothing
	// clamps to zero.
	snap := Snapshot{
		Subcategory: domain.Subcategory{ID: "sub-1"},
		Criteria:    []domain.Criterion{{ID: "crit-a", MaxScore: 10}},
		Contestants: []domain.Contestant{{ID: "con-1", Seq: 1}},
		Scores: []domain.ScoreEntry{
			score("crit-a", "con-1", "judge-1", 3),
		},
		Deductions: []domain.OverallDeduction{
			{SubcategoryID: "sub-1", ContestantID: "con-1", Amount: 5},
		},
	}

	result, err := Subcategory(snap)
	require.NoError(t, err)
	assert.InDelta(t, -2.0, result.Totals[0].Net, 1e-9)
}

func TestSubcategory_TieBreakByCreationOrder(t *testing.T) {
	criteria := []domain.Criterion{{ID: "crit-a", MaxScore: 10}}
	scores := []domain.ScoreEntry{
		score("crit-a", "con-1", "judge-1", 7),
		score("crit-a", "con-2", "judge-1", 7),
	}

	// Contestants arrive in creation-sequence order. Equal nets share the
	// rank and keep that order, regardless of which contestant scored first.
	forward := Snapshot{
		Subcategory: domain.Subcategory{ID: "sub-1"},
		Criteria:    criteria,
		Contestants: []domain.Contestant{{ID: "con-1", Seq: 1}, {ID: "con-2", Seq: 2}},
		Scores:      scores,
	}
	result, err := Subcategory(forward)
	require.NoError(t, err)
	require.Len(t, result.Totals, 2)
	assert.Equal(t, "con-1", result.Totals[0].ContestantID)
	assert.Equal(t, "con-2", result.Totals[1].ContestantID)
	assert.Equal(t, 1, result.Totals[0].Rank)
	assert.Equal(t, 1, result.Totals[1].Rank, "equal nets share the rank")

	// Reversed score order does not change the outcome.
	reversed := forward
	reversed.Scores = []domain.ScoreEntry{scores[1], scores[0]}
	result2, err := Subcategory(reversed)
	require.NoError(t, err)
	assert.Equal(t, result.Totals, result2.Totals)
}

func TestSubcategory_CompetitionRanking(t *testing.T) {
	snap := Snapshot{
		Subcategory: domain.Subcategory{ID: "sub-1"},
		Criteria:    []domain.Criterion{{ID: "crit-a", MaxScore: 10}},
		Contestants: []domain.Contestant{
			{ID: "con-1", Seq: 1},
			{ID: "con-2", Seq: 2},
			{ID: "con-3", Seq: 3},
		},
		Scores: []domain.ScoreEntry{
			score("crit-a", "con-1", "judge-1", 9),
			score("crit-a", "con-2", "judge-1", 9),
			score("crit-a", "con-3", "judge-1", 7),
		},
	}

	result, err := Subcategory(snap)
	require.NoError(t, err)
	require.Len(t, result.Totals, 3)
	assert.Equal(t, 1, result.Totals[0].Rank)
	assert.Equal(t, 1, result.Totals[1].Rank)
	assert.Equal(t, 3, result.Totals[2].Rank, "rank after a tie skips past it")
}

func TestSubcategory_NoContestants(t *testing.T) {
	_, err := Subcategory(Snapshot{Subcategory: domain.Subcategory{ID: "sub-1"}})
	assert.ErrorIs(t, err, ErrNoContestants)
}

func TestSubcategory_RejectsNonFiniteScores(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		snap := Snapshot{
			Subcategory: domain.Subcategory{ID: "sub-1"},
			Criteria:    []domain.Criterion{{ID: "crit-a", MaxScore: 10}},
			Contestants: []domain.Contestant{{ID: "con-1", Seq: 1}},
			Scores:      []domain.ScoreEntry{score("crit-a", "con-1", "judge-1", v)},
		}
		_, err := Subcategory(snap)
		assert.ErrorIs(t, err, ErrInvalidScore)
	}
}

func TestRollUp_SumsNetsAcrossSubcategories(t *testing.T) {
	contestants := []domain.Contestant{
		{ID: "con-1", Seq: 1},
		{ID: "con-2", Seq: 2},
	}
	results := []SubcategoryResult{
		{
			SubcategoryID: "sub-1",
			Totals: []ContestantTotal{
				{ContestantID: "con-1", Net: 14},
				{ContestantID: "con-2", Net: 11},
			},
		},
		{
			SubcategoryID: "sub-2",
			Totals: []ContestantTotal{
				{ContestantID: "con-1", Net: 5},
				{ContestantID: "con-2", Net: 9.5},
			},
		},
	}

	out := RollUp("cat-1", contestants, results)
	require.Len(t, out.Totals, 2)
	assert.Equal(t, "con-2", out.Totals[0].ContestantID)
	assert.InDelta(t, 20.5, out.Totals[0].Net, 1e-9)
	assert.Equal(t, 1, out.Totals[0].Rank)
	assert.Equal(t, "con-1", out.Totals[1].ContestantID)
	assert.InDelta(t, 19.0, out.Totals[1].Net, 1e-9)
	assert.Equal(t, 2, out.Totals[1].Rank)
}

func TestRollUp_AbsentContestantOmitted(t *testing.T) {
	// con-2 only competes in sub-1. The roll-up includes its single net
	// without zero-padding, and a contestant with no totals anywhere is
	// left out entirely.
	contestants := []domain.Contestant{
		{ID: "con-1", Seq: 1},
		{ID: "con-2", Seq: 2},
		{ID: "con-3", Seq: 3},
	}
	results := []SubcategoryResult{
		{
			SubcategoryID: "sub-1",
			Totals: []ContestantTotal{
				{ContestantID: "con-1", Net: 10},
				{ContestantID: "con-2", Net: 12},
			},
		},
		{
			SubcategoryID: "sub-2",
			Totals: []ContestantTotal{
				{ContestantID: "con-1", Net: 4},
			},
		},
	}

	out := RollUp("cat-1", contestants, results)
	require.Len(t, out.Totals, 2)
	assert.Equal(t, "con-1", out.Totals[0].ContestantID)
	assert.InDelta(t, 14.0, out.Totals[0].Net, 1e-9)
	assert.Equal(t, "con-2", out.Totals[1].ContestantID)
	assert.InDelta(t, 12.0, out.Totals[1].Net, 1e-9)
}
