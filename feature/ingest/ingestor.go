package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"prime-sync/core/entity"
	"prime-sync/core/logger"
	"prime-sync/core/metrics"
	"prime-sync/core/statecache"
	"prime-sync/core/syncerr"
	"prime-sync/feature/names"

	"go.uber.org/zap"
)

var (
	// ErrIngestQueueFull is returned by Submit when every worker is busy and
	// the queue is at capacity.
	ErrIngestQueueFull = errors.New("ingest queue is full")
	// ErrStopped is returned by Submit after Stop.
	ErrStopped = errors.New("ingestor is stopped")
)

// Sink receives the envelopes produced by ingestion.
type Sink interface {
	Enqueue(env entity.Envelope) error
}

// BattleLedger admits battle ids that were not seen before.
type BattleLedger interface {
	Admit(ctx context.Context, ids []uint64) []uint64
}

// BattleQueue receives admitted battle ids for enrichment.
type BattleQueue interface {
	Enqueue(ids ...uint64)
}

// NameStore receives player and alliance names seen in captures.
type NameStore interface {
	StorePlayers(players map[string]names.PlayerEntry)
	StoreAlliances(alliances map[int64]names.Alliance)
}

// Config sizes the worker pool and selects the ingested types.
type Config struct {
	Workers   int
	QueueSize int
	Options   Options
	Debug     bool
}

// Dependencies are the collaborators of an Ingestor. Ledger, Battles and
// Names are optional; without them battle ids and profiles are ignored.
type Dependencies struct {
	Sink    Sink
	Ledger  BattleLedger
	Battles BattleQueue
	Names   NameStore
	Logger  *zap.Logger
	Metrics *metrics.Collector
}

type task struct {
	kind    Kind
	payload []byte
}

// Ingestor owns the state caches and the ingestion worker pool.
type Ingestor struct {
	cfg  Config
	deps Dependencies
	log  *zap.Logger

	firstSync *entity.FirstSync
	state     *caches

	mu      sync.RWMutex
	tasks   chan task
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// New creates an ingestor; call Start before Submit.
func New(cfg Config, deps Dependencies) *Ingestor {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Ingestor{
		cfg:       cfg,
		deps:      deps,
		log:       deps.Logger,
		firstSync: entity.NewFirstSync(entity.Inventory, entity.Buffs, entity.Jobs, entity.Resources, entity.Ships),
		state:     newCaches(),
		tasks:     make(chan task, cfg.QueueSize),
	}
}

// Start launches the workers.
func (in *Ingestor) Start() {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.started || in.stopped {
		return
	}
	in.started = true

	for i := 0; i < in.cfg.Workers; i++ {
		in.wg.Add(1)
		go in.work()
	}
}

// Submit queues a payload without blocking. Payloads of disabled types are
// accepted and discarded.
func (in *Ingestor) Submit(kind Kind, payload []byte) error {
	h, ok := handlers[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if h.gated && !in.cfg.Options.Enabled(h.gate) {
		return nil
	}

	in.mu.RLock()
	defer in.mu.RUnlock()
	if in.stopped {
		return ErrStopped
	}

	select {
	case in.tasks <- task{kind: kind, payload: payload}:
		return nil
	default:
		return ErrIngestQueueFull
	}
}

// Stop rejects new payloads, lets the workers finish the queued ones and
// waits for them.
func (in *Ingestor) Stop() {
	in.mu.Lock()
	if in.stopped {
		in.mu.Unlock()
		return
	}
	in.stopped = true
	close(in.tasks)
	in.mu.Unlock()

	in.wg.Wait()
}

// Pending returns the number of queued payloads.
func (in *Ingestor) Pending() int {
	return len(in.tasks)
}

func (in *Ingestor) work() {
	defer in.wg.Done()
	for t := range in.tasks {
		in.runTask(t)
	}
}

func (in *Ingestor) runTask(t task) {
	defer func() {
		if r := recover(); r != nil {
			in.log.Error("Ingest worker recovered from panic",
				zap.String("kind", string(t.kind)),
				zap.Any("panic", r),
			)
		}
	}()

	if err := in.Process(context.Background(), t.kind, t.payload); err != nil {
		in.log.Error("Failed to process payload",
			logger.Flow(logger.Process),
			zap.String("kind", string(t.kind)),
			zap.Error(err),
		)
	}
}

// Process decodes and diffs one payload synchronously.
func (in *Ingestor) Process(ctx context.Context, kind Kind, payload []byte) error {
	h, ok := handlers[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if h.gated && !in.cfg.Options.Enabled(h.gate) {
		return nil
	}

	if err := h.run(in, ctx, payload); err != nil {
		if syncerr.Is(err, syncerr.DecodeFailure) {
			in.deps.Metrics.RecordDecodeFailure(string(kind))
		}
		return err
	}
	return nil
}

// emit serializes records into one envelope for t.
func (in *Ingestor) emit(t entity.Type, records []entity.Record) error {
	if len(records) == 0 {
		return nil
	}

	env, err := entity.NewEnvelope(t, records, in.firstSync.Consume(t))
	if err != nil {
		return err
	}
	if in.cfg.Debug {
		in.log.Debug("Queueing sync data",
			logger.Flow(logger.Queue),
			zap.Stringer("type", t),
			zap.Int("records", len(records)),
			zap.Bool("first_sync", env.FirstSync),
		)
	}
	return in.deps.Sink.Enqueue(env)
}

func (in *Ingestor) trace(kind Kind, n int) {
	if in.cfg.Debug {
		in.log.Debug("Processing payload",
			logger.Flow(logger.Process),
			zap.String("kind", string(kind)),
			zap.Int("entries", n),
		)
	}
}

func decodeFailure(kind Kind, err error) error {
	return syncerr.New(syncerr.DecodeFailure, "decode "+string(kind), err)
}

// caches holds one state cache per tracked entity shape.
type caches struct {
	activeMissions    *statecache.SetCache[int64]
	completedMissions *statecache.SequenceCache
	inventory         *statecache.Cache[inventoryKey, int64]
	research          *statecache.Cache[int64, int32]
	officers          *statecache.Cache[int64, RankLevelShards]
	techs             *statecache.Cache[int64, RankLevelShards]
	traits            *statecache.Cache[traitKey, int32]
	buffs             *statecache.Cache[int64, BuffState]
	slots             *statecache.Cache[int64, SlotState]
	jobs              *statecache.Cache[string, Job]
	resources         *statecache.Cache[int64, int64]
	buildings         *statecache.Cache[int64, int32]
	ships             *statecache.Cache[int64, ShipState]

	emeraldMu    sync.Mutex
	emeraldChain int32
}

func newCaches() *caches {
	return &caches{
		activeMissions:    statecache.NewSet[int64](),
		completedMissions: statecache.NewSequence(),
		inventory:         statecache.New[inventoryKey, int64](),
		research:          statecache.New[int64, int32](),
		officers:          statecache.New[int64, RankLevelShards](),
		techs:             statecache.New[int64, RankLevelShards](),
		traits:            statecache.New[traitKey, int32](),
		buffs:             statecache.New[int64, BuffState](),
		slots:             statecache.NewWithEqual[int64](SlotState.Equal),
		// A known uuid never counts as a change.
		jobs:         statecache.NewWithEqual[string](func(Job, Job) bool { return true }),
		resources:    statecache.New[int64, int64](),
		buildings:    statecache.New[int64, int32](),
		ships:        statecache.NewWithEqual[int64](ShipState.Equal),
		emeraldChain: -1,
	}
}
