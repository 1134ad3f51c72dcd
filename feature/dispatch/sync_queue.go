package dispatch

import (
	"prime-sync/core/entity"
	"prime-sync/core/metrics"
	"prime-sync/core/queue"
)

// SyncQueue buffers envelopes between producers and the Dispatcher.
type SyncQueue struct {
	q       *queue.Queue[entity.Envelope]
	metrics *metrics.Collector
}

// NewSyncQueue creates an empty queue.
func NewSyncQueue(m *metrics.Collector) *SyncQueue {
	return &SyncQueue{q: queue.New[entity.Envelope](), metrics: m}
}

// Enqueue adds env without blocking. It fails only after Close.
func (s *SyncQueue) Enqueue(env entity.Envelope) error {
	if err := s.q.Push(env); err != nil {
		return err
	}
	s.metrics.RecordEnqueue(env.Type.String(), s.q.Len())
	return nil
}

// Len returns the number of waiting envelopes.
func (s *SyncQueue) Len() int {
	return s.q.Len()
}

// Close stops accepting envelopes; queued ones are still dispatched.
func (s *SyncQueue) Close() {
	s.q.Close()
}

func (s *SyncQueue) pop() (entity.Envelope, bool) {
	env, ok := s.q.Pop()
	s.metrics.SetQueueDepth(s.q.Len())
	return env, ok
}
