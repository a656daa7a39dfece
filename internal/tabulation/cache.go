package tabulation

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// SnapshotLoader fetches the current tabulation inputs for a subcategory.
type SnapshotLoader func(ctx context.Context, subcategoryID string) (Snapshot, error)

// CachedTabulator memoizes per-subcategory tabulation results.
// Invalidation is synchronous: the engine calls Invalidate before
// returning success from any write that changes a subcategory's scores,
// deductions, or certification records, so readers never observe a stale
// result after a committed write. Concurrent cold reads for the same
// subcategory are collapsed into a single computation.
type CachedTabulator struct {
	loader SnapshotLoader

	mu      sync.RWMutex
	results map[string]SubcategoryResult
	// epochs count invalidations per key and gen counts full flushes. A
	// computation started under an older epoch or generation must not
	// populate the cache: its snapshot predates the write that bumped it.
	epochs map[string]uint64
	gen    uint64

	group singleflight.Group
}

// NewCachedTabulator returns a tabulator that loads snapshots through the
// given loader on cache misses.
func NewCachedTabulator(loader SnapshotLoader) *CachedTabulator {
	return &CachedTabulator{
		loader:  loader,
		results: make(map[string]SubcategoryResult),
		epochs:  make(map[string]uint64),
	}
}

// Subcategory returns the cached result for a subcategory, computing and
// caching it on a miss. If Invalidate runs while the computation is in
// flight, the computed result is still returned to the caller but is not
// stored, so the next read recomputes from post-write state.
func (ct *CachedTabulator) Subcategory(ctx context.Context, subcategoryID string) (SubcategoryResult, error) {
	ct.mu.RLock()
	cached, ok := ct.results[subcategoryID]
	epoch, gen := ct.epochs[subcategoryID], ct.gen
	ct.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := ct.group.Do(subcategoryID, func() (any, error) {
		snap, err := ct.loader(ctx, subcategoryID)
		if err != nil {
			return SubcategoryResult{}, err
		}
		result, err := Subcategory(snap)
		if err != nil {
			return SubcategoryResult{}, err
		}
		ct.mu.Lock()
		if ct.epochs[subcategoryID] == epoch && ct.gen == gen {
			ct.results[subcategoryID] = result
		}
		ct.mu.Unlock()
		return result, nil
	})
	if err != nil {
		return SubcategoryResult{}, err
	}
	return v.(SubcategoryResult), nil
}

// Invalidate drops the cached result for a subcategory and bumps its
// epoch so that any in-flight computation for the key cannot repopulate
// the cache with a pre-write snapshot.
func (ct *CachedTabulator) Invalidate(subcategoryID string) {
	ct.group.Forget(subcategoryID)
	ct.mu.Lock()
	ct.epochs[subcategoryID]++
	delete(ct.results, subcategoryID)
	ct.mu.Unlock()
}

// InvalidateAll drops every cached result.
func (ct *CachedTabulator) InvalidateAll() {
	ct.mu.Lock()
	ct.gen++
	keys := make([]string, 0, len(ct.results))
	for k := range ct.results {
		keys = append(keys, k)
	}
	ct.results = make(map[string]SubcategoryResult)
	ct.mu.Unlock()
	for _, k := range keys {
		ct.group.Forget(k)
	}
}
