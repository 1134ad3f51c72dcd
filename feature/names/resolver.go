package names

import (
	"sync"
	"time"

	"prime-sync/core/metrics"
)

// Player is the resolved name of one battle participant as emitted in the
// "names" map of a battle record. AllianceID is cleared once the alliance has
// been resolved into AllianceName and AllianceTag.
type Player struct {
	Name         string  `json:"name"`
	AllianceID   *int64  `json:"alliance_id,omitempty"`
	AllianceName *string `json:"alliance_name"`
	AllianceTag  *string `json:"alliance_tag"`
}

// PendingAlliance returns the alliance id still waiting for resolution.
func (p *Player) PendingAlliance() (int64, bool) {
	if p.AllianceID == nil {
		return 0, false
	}
	return *p.AllianceID, true
}

// SetAlliance fills the alliance name and tag and drops the pending id.
func (p *Player) SetAlliance(a Alliance) {
	name, tag := a.Name, a.Tag
	p.AllianceName = &name
	p.AllianceTag = &tag
	p.AllianceID = nil
}

// PlayerEntry is what the player cache stores per user id.
type PlayerEntry struct {
	Name       string
	AllianceID int64
}

// Alliance is what the alliance cache stores per alliance id.
type Alliance struct {
	Name string
	Tag  string
}

type cached[V any] struct {
	value     V
	expiresAt time.Time
}

// Resolver holds the two name caches.
type Resolver struct {
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Collector

	playersMu sync.Mutex
	players   map[string]cached[PlayerEntry]

	alliancesMu sync.Mutex
	alliances   map[int64]cached[Alliance]
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithMetrics records hit and miss counts.
func WithMetrics(m *metrics.Collector) Option {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver creates empty caches whose entries live for ttl.
func NewResolver(ttl time.Duration, opts ...Option) *Resolver {
	r := &Resolver{
		ttl:       ttl,
		now:       time.Now,
		players:   make(map[string]cached[PlayerEntry]),
		alliances: make(map[int64]cached[Alliance]),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolvePlayers returns the cached players among ids and the ids that must
// be fetched. Expired entries are evicted and reported missing.
func (r *Resolver) ResolvePlayers(ids []string) (map[string]*Player, []string) {
	now := r.now()
	resolved := make(map[string]*Player, len(ids))
	var missing []string

	r.playersMu.Lock()
	for _, id := range ids {
		entry, ok := r.players[id]
		if ok && now.Before(entry.expiresAt) {
			allianceID := entry.value.AllianceID
			resolved[id] = &Player{Name: entry.value.Name, AllianceID: &allianceID}
			continue
		}
		if ok {
			delete(r.players, id)
		}
		missing = append(missing, id)
	}
	r.playersMu.Unlock()

	r.metrics.RecordNameLookups("player", len(resolved), len(missing))
	return resolved, missing
}

// ResolveAlliances fills the alliance of every player in names whose alliance
// is cached and unexpired, and returns the ids that must be fetched.
func (r *Resolver) ResolveAlliances(ids []int64, names map[string]*Player) []int64 {
	now := r.now()
	var missing []int64
	hits := 0

	r.alliancesMu.Lock()
	for _, id := range ids {
		entry, ok := r.alliances[id]
		if ok && now.Before(entry.expiresAt) {
			hits++
			for _, p := range names {
				if pending, ok := p.PendingAlliance(); ok && pending == id {
					p.SetAlliance(entry.value)
				}
			}
			continue
		}
		if ok {
			delete(r.alliances, id)
		}
		missing = append(missing, id)
	}
	r.alliancesMu.Unlock()

	r.metrics.RecordNameLookups("alliance", hits, len(missing))
	return missing
}

// StorePlayers caches fetched players with a fresh expiry.
func (r *Resolver) StorePlayers(players map[string]PlayerEntry) {
	expiresAt := r.now().Add(r.ttl)

	r.playersMu.Lock()
	defer r.playersMu.Unlock()
	for id, p := range players {
		r.players[id] = cached[PlayerEntry]{value: p, expiresAt: expiresAt}
	}
}

// StoreAlliances caches fetched alliances with a fresh expiry.
func (r *Resolver) StoreAlliances(alliances map[int64]Alliance) {
	expiresAt := r.now().Add(r.ttl)

	r.alliancesMu.Lock()
	defer r.alliancesMu.Unlock()
	for id, a := range alliances {
		r.alliances[id] = cached[Alliance]{value: a, expiresAt: expiresAt}
	}
}

// Alliance returns one cached, unexpired alliance without evicting.
func (r *Resolver) Alliance(id int64) (Alliance, bool) {
	now := r.now()

	r.alliancesMu.Lock()
	defer r.alliancesMu.Unlock()
	entry, ok := r.alliances[id]
	if !ok || !now.Before(entry.expiresAt) {
		return Alliance{}, false
	}
	return entry.value, true
}

// Sizes returns the number of cached players and alliances, expired included.
func (r *Resolver) Sizes() (players, alliances int) {
	r.playersMu.Lock()
	players = len(r.players)
	r.playersMu.Unlock()

	r.alliancesMu.Lock()
	alliances = len(r.alliances)
	r.alliancesMu.Unlock()
	return players, alliances
}
