package combat

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"prime-sync/core/entity"
	"prime-sync/core/gameserver"
	"prime-sync/core/logger"
	"prime-sync/core/metrics"
	"prime-sync/core/queue"
	"prime-sync/feature/names"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// GameServer is the part of the game server client used for enrichment.
type GameServer interface {
	Journal(ctx context.Context, id uint64) ([]byte, error)
	Profiles(ctx context.Context, userIDs []string) (map[string]gameserver.Profile, error)
	Alliances(ctx context.Context, allianceIDs []int64) (map[int64]gameserver.Alliance, error)
}

// Sink receives the enriched battle envelopes.
type Sink interface {
	Enqueue(env entity.Envelope) error
}

// Config controls an Enricher.
type Config struct {
	// Enabled is false when no target accepts Battles; ids are then dropped
	// without contacting the game server.
	Enabled bool
	Debug   bool
}

// Enricher fetches and names battles one at a time.
type Enricher struct {
	cfg      Config
	game     GameServer
	resolver *names.Resolver
	sink     Sink
	logger   *zap.Logger
	metrics  *metrics.Collector

	ids      *queue.Queue[uint64]
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	start    sync.Once
	disabled sync.Once
}

// NewEnricher creates an enricher; call Start to run it.
func NewEnricher(cfg Config, game GameServer, resolver *names.Resolver, sink Sink, logger *zap.Logger, m *metrics.Collector) *Enricher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Enricher{
		cfg:      cfg,
		game:     game,
		resolver: resolver,
		sink:     sink,
		logger:   logger,
		metrics:  m,
		ids:      queue.New[uint64](),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start runs the enrichment loop on its own goroutine.
func (e *Enricher) Start() {
	e.start.Do(func() { go e.run() })
}

// Enqueue queues battle ids in the given order.
func (e *Enricher) Enqueue(ids ...uint64) {
	if !e.cfg.Enabled {
		e.disabled.Do(func() {
			e.logger.Warn("No sync target accepts battles, dropping battle ids")
		})
		return
	}
	for _, id := range ids {
		if err := e.ids.Push(id); err != nil {
			e.logger.Debug("Enricher stopped, battle id dropped", zap.Uint64("battle_id", id))
			return
		}
	}
}

// Pending returns the number of battles waiting for enrichment.
func (e *Enricher) Pending() int {
	return e.ids.Len()
}

// Stop cancels the battle in flight, discards pending ids and waits for the
// loop to end.
func (e *Enricher) Stop() {
	e.ids.Close()
	e.cancel()
	e.start.Do(func() { close(e.done) })
	<-e.done
}

func (e *Enricher) run() {
	defer close(e.done)

	for {
		id, ok := e.ids.Pop()
		if !ok {
			return
		}
		if e.ctx.Err() != nil {
			e.logger.Info("Discarding pending battles on shutdown", zap.Int("count", e.ids.Len()+1))
			return
		}
		e.process(id)
	}
}

func (e *Enricher) process(id uint64) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Battle enrichment recovered from panic",
				zap.Uint64("battle_id", id),
				zap.Any("panic", r),
			)
		}
	}()

	start := time.Now()
	if err := e.Enrich(e.ctx, id); err != nil {
		e.logger.Error("Failed to enrich battle",
			logger.Flow(logger.Process),
			zap.Uint64("battle_id", id),
			zap.Error(err),
		)
		return
	}
	e.metrics.RecordBattleEnriched()

	if e.cfg.Debug {
		e.logger.Debug("Battle enriched",
			logger.Flow(logger.Queue),
			zap.Uint64("battle_id", id),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

// Enrich fetches, names and queues one battle synchronously.
func (e *Enricher) Enrich(ctx context.Context, id uint64) error {
	journal, err := e.game.Journal(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch journal %d: %w", id, err)
	}

	players, err := e.resolvePlayers(ctx, participants(journal))
	if err != nil {
		return err
	}
	if err := e.resolveAlliances(ctx, players); err != nil {
		return err
	}

	record := entity.NewRecord(entity.Battles, entity.Fields{
		"names":   players,
		"journal": json.RawMessage(journal),
	})
	env, err := entity.NewEnvelope(entity.Battles, []entity.Record{record}, false)
	if err != nil {
		return err
	}
	return e.sink.Enqueue(env)
}

func (e *Enricher) resolvePlayers(ctx context.Context, uids []string) (map[string]*names.Player, error) {
	players, missing := e.resolver.ResolvePlayers(uids)
	if len(missing) == 0 {
		return players, nil
	}

	if e.cfg.Debug {
		e.logger.Debug("Fetching player profiles", logger.Flow(logger.Download), zap.Int("count", len(missing)))
	}
	profiles, err := e.game.Profiles(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("fetch %d player profiles: %w", len(missing), err)
	}

	fetched := make(map[string]names.PlayerEntry, len(profiles))
	for uid, p := range profiles {
		allianceID := p.AllianceID
		fetched[uid] = names.PlayerEntry{Name: p.Name, AllianceID: allianceID}
		players[uid] = &names.Player{Name: p.Name, AllianceID: &allianceID}
	}
	e.resolver.StorePlayers(fetched)
	return players, nil
}

func (e *Enricher) resolveAlliances(ctx context.Context, players map[string]*names.Player) error {
	var ids []int64
	for _, p := range players {
		if id, ok := p.PendingAlliance(); ok && id > 0 && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	slices.Sort(ids)

	missing := e.resolver.ResolveAlliances(ids, players)
	if len(missing) == 0 {
		return nil
	}

	if e.cfg.Debug {
		e.logger.Debug("Fetching alliance profiles", logger.Flow(logger.Download), zap.Int("count", len(missing)))
	}
	alliances, err := e.game.Alliances(ctx, missing)
	if err != nil {
		return fmt.Errorf("fetch %d alliance profiles: %w", len(missing), err)
	}

	fetched := make(map[int64]names.Alliance, len(alliances))
	for id, a := range alliances {
		fetched[id] = names.Alliance{Name: a.Name, Tag: a.Tag}
	}
	e.resolver.StoreAlliances(fetched)

	for _, p := range players {
		if id, ok := p.PendingAlliance(); ok {
			if a, ok := fetched[id]; ok {
				p.SetAlliance(a)
			}
		}
	}
	return nil
}

// participants returns the sorted user ids of both fleets. A side that
// references other entities by ref_ids has no player fleets.
func participants(journal []byte) []string {
	var uids []string
	for _, side := range []string{"target_fleet_data", "initiator_fleet_data"} {
		data := gjson.GetBytes(journal, side)
		if refs := data.Get("ref_ids"); refs.Exists() && refs.Type != gjson.Null {
			continue
		}
		data.Get("deployed_fleets").ForEach(func(_, fleet gjson.Result) bool {
			if uid := fleet.Get("uid"); uid.Type == gjson.String && !slices.Contains(uids, uid.String()) {
				uids = append(uids, uid.String())
			}
			return true
		})
	}
	slices.Sort(uids)
	return uids
}
