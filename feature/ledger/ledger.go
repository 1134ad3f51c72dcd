package ledger

import (
	"context"
	"sync"

	"prime-sync/core/metrics"

	"go.uber.org/zap"
)

// Capacity is the number of battle ids remembered.
const Capacity = 300

// Store persists the ledger as an ordered list of ids, oldest first.
type Store interface {
	Load(ctx context.Context) ([]uint64, error)
	Save(ctx context.Context, ids []uint64) error
}

// Ledger is the bounded set of recently seen battle ids.
type Ledger struct {
	// saveMu orders writes so the stored list is never older than the last
	// admitted batch.
	saveMu sync.Mutex

	mu    sync.Mutex
	buf   [Capacity]uint64
	start int
	n     int

	store   Store
	logger  *zap.Logger
	metrics *metrics.Collector
}

// New creates an empty ledger backed by store.
func New(store Store, logger *zap.Logger, m *metrics.Collector) *Ledger {
	return &Ledger{store: store, logger: logger, metrics: m}
}

// Load replaces the ledger contents with the stored ids. On error the ledger
// is left empty and the error is returned for logging.
func (l *Ledger) Load(ctx context.Context) error {
	ids, err := l.store.Load(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.start, l.n = 0, 0
	if err != nil {
		l.metrics.SetLedgerSize(0)
		return err
	}

	if len(ids) > Capacity {
		ids = ids[len(ids)-Capacity:]
	}
	for _, id := range ids {
		l.push(id)
	}
	l.metrics.SetLedgerSize(l.n)
	return nil
}

// Admit records the unseen ids of a capture batch. ids are expected newest
// first, as the game lists them; they are admitted oldest first and returned
// in admission order. The store is written once if anything was admitted.
func (l *Ledger) Admit(ctx context.Context, ids []uint64) []uint64 {
	l.mu.Lock()
	var admitted []uint64
	for i := len(ids) - 1; i >= 0; i-- {
		id := ids[i]
		if l.contains(id) {
			continue
		}
		l.push(id)
		admitted = append(admitted, id)
	}
	size := l.n
	l.mu.Unlock()

	if len(admitted) == 0 {
		return nil
	}

	l.metrics.SetLedgerSize(size)

	l.saveMu.Lock()
	defer l.saveMu.Unlock()
	if err := l.store.Save(ctx, l.IDs()); err != nil {
		l.logger.Error("Failed to persist battle ledger", zap.Error(err))
	}
	return admitted
}

// Contains reports whether id is held.
func (l *Ledger) Contains(id uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.contains(id)
}

// IDs returns the held ids, oldest first.
func (l *Ledger) IDs() []uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ids()
}

// Len returns the number of held ids.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.n
}

func (l *Ledger) contains(id uint64) bool {
	for i := 0; i < l.n; i++ {
		if l.buf[(l.start+i)%Capacity] == id {
			return true
		}
	}
	return false
}

func (l *Ledger) push(id uint64) {
	if l.n < Capacity {
		l.buf[(l.start+l.n)%Capacity] = id
		l.n++
		return
	}
	l.buf[l.start] = id
	l.start = (l.start + 1) % Capacity
}

func (l *Ledger) ids() []uint64 {
	out := make([]uint64, l.n)
	for i := 0; i < l.n; i++ {
		out[i] = l.buf[(l.start+i)%Capacity]
	}
	return out
}
