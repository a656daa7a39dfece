package tabulation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-tally/internal/domain"
)

func testSnapshot(value float64) Snapshot {
	return Snapshot{
		Subcategory: domain.Subcategory{ID: "sub-1"},
		Criteria:    []domain.Criterion{{ID: "crit-a", MaxScore: 10}},
		Contestants: []domain.Contestant{{ID: "con-1", Seq: 1}},
		Scores: []domain.ScoreEntry{
			score("crit-a", "con-1", "judge-1", value),
		},
	}
}

func TestCachedTabulator_MemoizesUntilInvalidated(t *testing.T) {
	var loads atomic.Int64
	current := testSnapshot(7)
	var mu sync.Mutex

	ct := NewCachedTabulator(func(_ context.Context, _ string) (Snapshot, error) {
		loads.Add(1)
		mu.Lock()
		defer mu.Unlock()
		return current, nil
	})

	first, err := ct.Subcategory(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.InDelta(t, 7.0, first.Totals[0].Net, 1e-9)

	second, err := ct.Subcategory(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), loads.Load(), "second read is a cache hit")

	mu.Lock()
	current = testSnapshot(9)
	mu.Unlock()
	ct.Invalidate("sub-1")

	third, err := ct.Subcategory(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.InDelta(t, 9.0, third.Totals[0].Net, 1e-9)
	assert.Equal(t, int64(2), loads.Load(), "invalidation forces a reload")
}

func TestCachedTabulator_LoaderErrorNotCached(t *testing.T) {
	var loads atomic.Int64
	boom := errors.New("snapshot unavailable")

	ct := NewCachedTabulator(func(_ context.Context, _ string) (Snapshot, error) {
		if loads.Add(1) == 1 {
			return Snapshot{}, boom
		}
		return testSnapshot(5), nil
	})

	_, err := ct.Subcategory(context.Background(), "sub-1")
	require.ErrorIs(t, err, boom)

	result, err := ct.Subcategory(context.Background(), "sub-1")
	require.NoError(t, err, "a failed load is retried, not cached")
	assert.InDelta(t, 5.0, result.Totals[0].Net, 1e-9)
}

func TestCachedTabulator_ConcurrentColdReadsCollapse(t *testing.T) {
	var loads atomic.Int64
	release := make(chan struct{})

	ct := NewCachedTabulator(func(_ context.Context, _ string) (Snapshot, error) {
		loads.Add(1)
		<-release
		return testSnapshot(8), nil
	})

	const readers = 8
	var wg sync.WaitGroup
	results := make([]SubcategoryResult, readers)
	errs := make([]error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = ct.Subcategory(context.Background(), "sub-1")
		}(i)
	}
	close(release)
	wg.Wait()

	for i := 0; i < readers; i++ {
		require.NoError(t, errs[i])
		assert.InDelta(t, 8.0, results[i].Totals[0].Net, 1e-9)
	}
	assert.Equal(t, int64(1), loads.Load(), "concurrent cold reads share one load")
}

func TestCachedTabulator_InvalidateDefeatsInFlightRead(t *testing.T) {
	tests := map[string]func(*CachedTabulator){
		"single key": func(ct *CachedTabulator) { ct.Invalidate("sub-1") },
		"all keys":   func(ct *CachedTabulator) { ct.InvalidateAll() },
	}
	for name, invalidate := range tests {
		t.Run(name, func(t *testing.T) {
			var loads atomic.Int64
			var mu sync.Mutex
			current := testSnapshot(5)
			entered := make(chan struct{})
			release := make(chan struct{})

			// The first load takes its snapshot, then blocks until the
			// writer has committed and invalidated.
			ct := NewCachedTabulator(func(_ context.Context, _ string) (Snapshot, error) {
				mu.Lock()
				snap := current
				mu.Unlock()
				if loads.Add(1) == 1 {
					close(entered)
					<-release
				}
				return snap, nil
			})

			done := make(chan SubcategoryResult, 1)
			go func() {
				result, err := ct.Subcategory(context.Background(), "sub-1")
				assert.NoError(t, err)
				done <- result
			}()

			<-entered
			mu.Lock()
			current = testSnapshot(10)
			mu.Unlock()
			invalidate(ct)
			close(release)

			stale := <-done
			assert.InDelta(t, 5.0, stale.Totals[0].Net, 1e-9,
				"the in-flight read still sees its own snapshot")

			fresh, err := ct.Subcategory(context.Background(), "sub-1")
			require.NoError(t, err)
			assert.InDelta(t, 10.0, fresh.Totals[0].Net, 1e-9,
				"the next read reflects the committed write")
			assert.Equal(t, int64(2), loads.Load(),
				"the pre-invalidation result was not retained in the cache")
		})
	}
}

func TestCachedTabulator_InvalidateAll(t *testing.T) {
	var loads atomic.Int64
	ct := NewCachedTabulator(func(_ context.Context, id string) (Snapshot, error) {
		loads.Add(1)
		snap := testSnapshot(6)
		snap.Subcategory.ID = id
		return snap, nil
	})

	_, err := ct.Subcategory(context.Background(), "sub-1")
	require.NoError(t, err)
	_, err = ct.Subcategory(context.Background(), "sub-2")
	require.NoError(t, err)
	require.Equal(t, int64(2), loads.Load())

	ct.InvalidateAll()

	_, err = ct.Subcategory(context.Background(), "sub-1")
	require.NoError(t, err)
	_, err = ct.Subcategory(context.Background(), "sub-2")
	require.NoError(t, err)
	assert.Equal(t, int64(4), loads.Load())
}
