package statecache

import (
	"slices"
	"sync"
)

// SetCache holds one set of ids and reports when the whole set changes.
type SetCache[K comparable] struct {
	mu  sync.Mutex
	set map[K]struct{}
}

// NewSet creates an empty SetCache.
func NewSet[K comparable]() *SetCache[K] {
	return &SetCache[K]{set: make(map[K]struct{})}
}

// Replace swaps in ids when they differ from the cached set. When a swap
// happened it returns the new members, taken under the same lock.
func (c *SetCache[K]) Replace(ids []K) ([]K, bool) {
	next := make(map[K]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(next) == len(c.set) {
		same := true
		for id := range next {
			if _, ok := c.set[id]; !ok {
				same = false
				break
			}
		}
		if same {
			return nil, false
		}
	}
	c.set = next
	return c.members(), true
}

// Members returns the cached ids in no particular order.
func (c *SetCache[K]) Members() []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.members()
}

func (c *SetCache[K]) members() []K {
	out := make([]K, 0, len(c.set))
	for id := range c.set {
		out = append(out, id)
	}
	return out
}

// SequenceCache tracks an append-only sequence of ids.
type SequenceCache struct {
	mu   sync.Mutex
	last []int64
}

// NewSequence creates an empty SequenceCache.
func NewSequence() *SequenceCache {
	return &SequenceCache{}
}

// Advance returns the ids of seq that were not in the previous sequence, in
// ascending order. The cached sequence is replaced by seq only when something
// new was found.
func (c *SequenceCache) Advance(seq []int64) []int64 {
	sorted := slices.Clone(seq)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	c.mu.Lock()
	defer c.mu.Unlock()

	var diff []int64
	i := 0
	for _, id := range sorted {
		for i < len(c.last) && c.last[i] < id {
			i++
		}
		if i < len(c.last) && c.last[i] == id {
			continue
		}
		diff = append(diff, id)
	}

	if len(diff) > 0 {
		c.last = sorted
	}
	return diff
}
