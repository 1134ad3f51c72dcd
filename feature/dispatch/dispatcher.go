package dispatch

import (
	"fmt"
	"sync"

	"prime-sync/core/entity"

	"go.uber.org/zap"
)

// Dispatcher fans envelopes out from the SyncQueue to target workers.
type Dispatcher struct {
	queue   *SyncQueue
	targets []Target
	pool    *Pool
	logger  *zap.Logger

	noTargets sync.Once
	done      chan struct{}
}

// NewDispatcher creates a dispatcher; call Start to run it.
func NewDispatcher(q *SyncQueue, targets []Target, pool *Pool, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		queue:   q,
		targets: targets,
		pool:    pool,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Start runs the dispatch loop on its own goroutine.
func (d *Dispatcher) Start() {
	go d.run()
}

// Done is closed when the loop has exited.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

// Targets returns the configured targets.
func (d *Dispatcher) Targets() []Target {
	return d.targets
}

func (d *Dispatcher) run() {
	defer close(d.done)
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("dispatcher terminated", zap.Any("panic", r))
		}
	}()

	for {
		env, ok := d.queue.pop()
		if !ok {
			return
		}
		d.dispatchOne(env)
	}
}

func (d *Dispatcher) dispatchOne(env entity.Envelope) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Failed to dispatch envelope",
				zap.Stringer("type", env.Type),
				zap.Error(fmt.Errorf("panic: %v", r)),
			)
		}
	}()

	if len(d.targets) == 0 {
		d.noTargets.Do(func() {
			d.logger.Warn("No sync targets configured, dropping sync data")
		})
		return
	}

	for _, t := range d.targets {
		if !t.Accepts(env.Type) {
			continue
		}
		if err := d.pool.Enqueue(t, env); err != nil {
			d.logger.Warn("Failed to queue envelope for target",
				zap.String("target", t.Name),
				zap.Stringer("type", env.Type),
				zap.Error(err),
			)
		}
	}
}
