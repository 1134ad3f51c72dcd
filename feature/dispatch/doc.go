// Package dispatch delivers envelopes to the configured remote targets.
//
// # Flow
//
//	SyncQueue -> Dispatcher -> Pool -> one worker per target -> POST <url>
//
// The SyncQueue never blocks producers. A single Dispatcher goroutine pops
// envelopes in order and hands each one to every target subscribed to its
// entity type. Each target owns a worker with its own HTTP client and FIFO
// queue, created the first time the target receives an envelope.
//
// Delivery is at most once: a failed upload is logged by outcome and dropped.
//
// # Shutdown
//
// Close the SyncQueue, wait for the Dispatcher to drain it, then Stop the
// Pool: every worker finishes its remaining envelopes before Stop returns.
package dispatch
