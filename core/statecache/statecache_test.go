package statecache_test

import (
	"math"
	"sort"
	"sync"
	"testing"

	"prime-sync/core/statecache"

	"github.com/stretchr/testify/assert"
)

type level struct {
	Rank  int
	Level int
}

func TestObserveIsIdempotent(t *testing.T) {
	c := statecache.New[int64, level]()

	assert.True(t, c.Observe(7, level{1, 2}), "first observation is a change")
	assert.False(t, c.Observe(7, level{1, 2}), "repeated state is not a change")
}

func TestObserveReportsNewState(t *testing.T) {
	c := statecache.New[int64, level]()
	c.Observe(7, level{1, 2})

	assert.True(t, c.Observe(7, level{1, 3}))

	got, ok := c.Get(7)
	assert.True(t, ok)
	assert.Equal(t, level{1, 3}, got)
}

func TestCustomEquality(t *testing.T) {
	c := statecache.NewWithEqual[int64, float64](func(a, b float64) bool {
		return math.Abs(a-b) < 0.01
	})

	assert.True(t, c.Observe(1, 0.500))
	assert.False(t, c.Observe(1, 0.505), "within tolerance")
	assert.True(t, c.Observe(1, 0.52))
}

func TestObserveAllKeepsBatchOrder(t *testing.T) {
	c := statecache.New[int64, int]()
	c.Observe(2, 10)

	var changed []int64
	c.ObserveAll([]statecache.Entry[int64, int]{
		{Key: 3, State: 1},
		{Key: 2, State: 10},
		{Key: 1, State: 5},
	}, func(k int64, _ int) { changed = append(changed, k) })

	assert.Equal(t, []int64{3, 1}, changed)
}

func TestSyncDetectsRemovals(t *testing.T) {
	c := statecache.New[int64, int]()
	c.Sync([]statecache.Entry[int64, int]{{Key: 1, State: 1}, {Key: 2, State: 1}}, nil, nil)

	var changed, removed []int64
	c.Sync([]statecache.Entry[int64, int]{{Key: 2, State: 2}, {Key: 3, State: 1}},
		func(k int64, _ int) { changed = append(changed, k) },
		func(k int64, _ int) { removed = append(removed, k) },
	)

	assert.ElementsMatch(t, []int64{2, 3}, changed)
	assert.Equal(t, []int64{1}, removed)
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(1)
	assert.False(t, ok)
}

func TestConcurrentObserveReportsEachChangeOnce(t *testing.T) {
	c := statecache.New[int64, int]()

	var mu sync.Mutex
	changes := 0
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Observe(1, 42) {
				mu.Lock()
				changes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, changes)
}

func TestSetCacheReplace(t *testing.T) {
	c := statecache.NewSet[int64]()

	members, changed := c.Replace([]int64{1, 2})
	assert.True(t, changed)
	assert.ElementsMatch(t, []int64{1, 2}, members)

	members, changed = c.Replace([]int64{2, 1})
	assert.False(t, changed)
	assert.Nil(t, members)

	members, changed = c.Replace([]int64{2})
	assert.True(t, changed)
	assert.Equal(t, []int64{2}, members)
	assert.Equal(t, []int64{2}, c.Members())
}

func TestSetCacheReplaceReturnsOwnSet(t *testing.T) {
	c := statecache.NewSet[int64]()

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(i int64) {
			defer wg.Done()
			ids := []int64{i, i + 100}
			if members, changed := c.Replace(ids); changed {
				assert.ElementsMatch(t, ids, members)
			}
		}(i)
	}
	wg.Wait()
}

func TestSequenceCacheAdvance(t *testing.T) {
	c := statecache.NewSequence()

	assert.Equal(t, []int64{1, 2, 3}, c.Advance([]int64{3, 1, 2}))
	assert.Empty(t, c.Advance([]int64{1, 2, 3}))

	diff := c.Advance([]int64{1, 2, 3, 9, 5})
	sort.Slice(diff, func(i, j int) bool { return diff[i] < diff[j] })
	assert.Equal(t, []int64{5, 9}, diff)
}
