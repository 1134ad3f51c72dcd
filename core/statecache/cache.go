package statecache

import "sync"

// Entry is one keyed state inside a batch.
type Entry[K comparable, S any] struct {
	Key   K
	State S
}

// Cache maps entity keys to their last observed state.
type Cache[K comparable, S any] struct {
	mu     sync.Mutex
	states map[K]S
	equal  func(a, b S) bool
}

// New creates a cache comparing states with ==.
func New[K comparable, S comparable]() *Cache[K, S] {
	return NewWithEqual[K, S](func(a, b S) bool { return a == b })
}

// NewWithEqual creates a cache using a custom equality, for states holding
// slices or floating point tolerances.
func NewWithEqual[K comparable, S any](equal func(a, b S) bool) *Cache[K, S] {
	return &Cache[K, S]{
		states: make(map[K]S),
		equal:  equal,
	}
}

// Observe records state for key and reports whether it differs from the
// cached value. A new key always counts as a change.
func (c *Cache[K, S]) Observe(key K, state S) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.observe(key, state)
}

func (c *Cache[K, S]) observe(key K, state S) bool {
	if prev, ok := c.states[key]; ok && c.equal(prev, state) {
		return false
	}
	c.states[key] = state
	return true
}

// ObserveAll diffs a batch under a single lock and calls changed for every
// entry that differs, in batch order.
func (c *Cache[K, S]) ObserveAll(entries []Entry[K, S], changed func(K, S)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range entries {
		if c.observe(e.Key, e.State) {
			changed(e.Key, e.State)
		}
	}
}

// Sync treats entries as the full current snapshot. Changed entries are
// reported like ObserveAll; cached keys absent from the snapshot are evicted
// and passed to removed with their last state.
func (c *Cache[K, S]) Sync(entries []Entry[K, S], changed func(K, S), removed func(K, S)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	present := make(map[K]struct{}, len(entries))
	for _, e := range entries {
		present[e.Key] = struct{}{}
		if c.observe(e.Key, e.State) && changed != nil {
			changed(e.Key, e.State)
		}
	}

	for key, state := range c.states {
		if _, ok := present[key]; ok {
			continue
		}
		delete(c.states, key)
		if removed != nil {
			removed(key, state)
		}
	}
}

// Get returns the cached state for key.
func (c *Cache[K, S]) Get(key K) (S, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.states[key]
	return s, ok
}

// Len returns the number of cached keys.
func (c *Cache[K, S]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.states)
}
