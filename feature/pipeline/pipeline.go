package pipeline

import (
	"context"
	"fmt"
	"sync"

	"prime-sync/core/entity"
	"prime-sync/core/gameserver"
	"prime-sync/core/httpclient"
	"prime-sync/core/logger"
	"prime-sync/core/metrics"
	"prime-sync/feature/combat"
	"prime-sync/feature/dispatch"
	"prime-sync/feature/ingest"
	"prime-sync/feature/ledger"
	"prime-sync/feature/names"

	"go.uber.org/zap"
)

// ErrPipelineStopped is returned by Ingest after Stop. It matches
// ingest.ErrStopped.
var ErrPipelineStopped = fmt.Errorf("pipeline is stopped: %w", ingest.ErrStopped)

// Pipeline is one running sync instance.
type Pipeline struct {
	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Collector

	game       *gameserver.Client
	names      *names.Resolver
	ledger     *ledger.Ledger
	queue      *dispatch.SyncQueue
	pool       *dispatch.Pool
	dispatcher *dispatch.Dispatcher
	enricher   *combat.Enricher
	ingestor   *ingest.Ingestor

	mu      sync.RWMutex
	started bool
	stopped bool
}

// New builds a pipeline from cfg. It fails only on invalid target or proxy
// configuration.
func New(cfg Config, session gameserver.Session, store ledger.Store, base *zap.Logger, m *metrics.Collector) (*Pipeline, error) {
	log := logger.ForSync(base, cfg.Logging)

	targets, err := dispatch.NewTargets(cfg.Targets)
	if err != nil {
		return nil, fmt.Errorf("failed to configure sync targets: %w", err)
	}

	httpClient, err := httpclient.New(httpclient.Options{Proxy: cfg.Proxy, VerifySSL: cfg.VerifySSL})
	if err != nil {
		return nil, fmt.Errorf("failed to configure game server client: %w", err)
	}

	p := &Pipeline{cfg: cfg, logger: log, metrics: m}
	p.game = gameserver.NewClient(httpClient, cfg.Agent, session, log, cfg.Debug)
	p.names = names.NewResolver(cfg.TTL(), names.WithMetrics(m))
	p.ledger = ledger.New(store, log, m)
	p.queue = dispatch.NewSyncQueue(m)
	p.pool = dispatch.NewPool(dispatch.NewUploader(cfg.Agent, cfg.Debug, log, m), log, m)
	p.dispatcher = dispatch.NewDispatcher(p.queue, targets, p.pool, log)
	p.enricher = combat.NewEnricher(combat.Config{
		Enabled: cfg.Options.Battles && accepts(targets, entity.Battles),
		Debug:   cfg.Debug,
	}, p.game, p.names, p.queue, log, m)
	p.ingestor = ingest.New(ingest.Config{
		Workers:   cfg.IngestWorkers,
		QueueSize: cfg.IngestQueue,
		Options:   cfg.Options,
		Debug:     cfg.Debug,
	}, ingest.Dependencies{
		Sink:    p.queue,
		Ledger:  p.ledger,
		Battles: p.enricher,
		Names:   p.names,
		Logger:  log,
		Metrics: m,
	})

	return p, nil
}

func accepts(targets []dispatch.Target, t entity.Type) bool {
	for _, target := range targets {
		if target.Accepts(t) {
			return true
		}
	}
	return false
}

// Start loads the ledger and launches every goroutine. A ledger that cannot
// be loaded starts empty.
func (p *Pipeline) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true

	if err := p.ledger.Load(ctx); err != nil {
		p.logger.Warn("Failed to load battle ledger, starting empty", zap.Error(err))
	}

	p.dispatcher.Start()
	p.enricher.Start()
	p.ingestor.Start()

	p.logger.Info("Sync pipeline started",
		zap.Strings("targets", p.Targets()),
		zap.Int("ledger", p.ledger.Len()),
		zap.Int("ingest_workers", p.cfg.IngestWorkers),
	)
}

// Ingest queues one captured payload without blocking.
func (p *Pipeline) Ingest(kind string, payload []byte) error {
	k, err := ingest.ParseKind(kind)
	if err != nil {
		return err
	}
	return p.Submit(k, payload)
}

// Submit is Ingest for an already parsed kind.
func (p *Pipeline) Submit(kind ingest.Kind, payload []byte) error {
	p.mu.RLock()
	stopped := p.stopped
	p.mu.RUnlock()
	if stopped {
		return ErrPipelineStopped
	}
	return p.ingestor.Submit(kind, payload)
}

// SetSession updates the game server session used for enrichment.
func (p *Pipeline) SetSession(s gameserver.Session) {
	p.game.SetSession(s)
}

// Stop drains the pipeline: queued payloads are ingested, the enricher ends,
// every envelope is handed to its target worker and every worker finishes.
// It returns ctx.Err() if ctx ends first; the drain then continues in the
// background.
func (p *Pipeline) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	started := p.started
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.ingestor.Stop()
		p.enricher.Stop()
		p.queue.Close()
		if started {
			<-p.dispatcher.Done()
		}
		p.pool.Stop()
	}()

	select {
	case <-done:
		p.logger.Info("Sync pipeline stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Targets returns the configured target names.
func (p *Pipeline) Targets() []string {
	targets := p.dispatcher.Targets()
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, t.Name)
	}
	return out
}

// Ledger returns the battle ledger.
func (p *Pipeline) Ledger() *ledger.Ledger {
	return p.ledger
}

// Stats is a point in time view of the pipeline queues and caches.
type Stats struct {
	IngestPending   int `json:"ingest_pending"`
	SyncQueue       int `json:"sync_queue"`
	BattlesPending  int `json:"battles_pending"`
	TargetWorkers   int `json:"target_workers"`
	Ledger          int `json:"ledger"`
	CachedPlayers   int `json:"cached_players"`
	CachedAlliances int `json:"cached_alliances"`
}

// Stats returns the current queue depths and cache sizes.
func (p *Pipeline) Stats() Stats {
	players, alliances := p.names.Sizes()
	return Stats{
		IngestPending:   p.ingestor.Pending(),
		SyncQueue:       p.queue.Len(),
		BattlesPending:  p.enricher.Pending(),
		TargetWorkers:   p.pool.Workers(),
		Ledger:          p.ledger.Len(),
		CachedPlayers:   players,
		CachedAlliances: alliances,
	}
}

// LedgerIDs returns the battle ids held by the ledger, oldest first.
func (p *Pipeline) LedgerIDs() []uint64 {
	return p.ledger.IDs()
}
