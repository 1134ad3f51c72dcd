package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"prime-sync/core/entity"
	"prime-sync/core/metrics"
	"prime-sync/core/queue"

	"go.uber.org/zap"
)

// ErrPoolStopped is returned by Enqueue after Stop.
var ErrPoolStopped = errors.New("target pool is stopped")

// Sender delivers one envelope to one target.
type Sender interface {
	Send(ctx context.Context, t Target, env entity.Envelope) error
}

// Pool owns one worker per target, created on first use.
type Pool struct {
	sender  Sender
	logger  *zap.Logger
	metrics *metrics.Collector

	mu      sync.Mutex
	workers map[string]*worker
	stopped bool
	wg      sync.WaitGroup
}

// NewPool creates an empty pool.
func NewPool(sender Sender, logger *zap.Logger, m *metrics.Collector) *Pool {
	return &Pool{
		sender:  sender,
		logger:  logger,
		metrics: m,
		workers: make(map[string]*worker),
	}
}

// Enqueue queues env on the worker of t, starting the worker if needed.
func (p *Pool) Enqueue(t Target, env entity.Envelope) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrPoolStopped
	}
	w, ok := p.workers[t.Name]
	if !ok {
		w = &worker{target: t, queue: queue.New[entity.Envelope]()}
		p.workers[t.Name] = w
		p.wg.Add(1)
		go p.run(w)
	}
	p.mu.Unlock()

	if err := w.queue.Push(env); err != nil {
		return fmt.Errorf("target %s: %w", t.Name, err)
	}
	p.metrics.RecordFanOut(t.Name)
	return nil
}

// Workers returns the number of started workers.
func (p *Pool) Workers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}

// Stop closes every worker queue and waits until all queued envelopes have
// been sent.
func (p *Pool) Stop() {
	p.mu.Lock()
	p.stopped = true
	for _, w := range p.workers {
		w.queue.Close()
	}
	p.mu.Unlock()

	p.wg.Wait()
}

type worker struct {
	target Target
	queue  *queue.Queue[entity.Envelope]
}

func (p *Pool) run(w *worker) {
	defer p.wg.Done()

	for {
		env, ok := w.queue.Pop()
		if !ok {
			return
		}
		p.deliver(w.target, env)
	}
}

func (p *Pool) deliver(t Target, env entity.Envelope) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Target worker recovered from panic",
				zap.String("target", t.Name),
				zap.Any("panic", r),
			)
		}
	}()

	// Failures are logged by the sender; delivery is never retried.
	_ = p.sender.Send(context.Background(), t, env)
}
