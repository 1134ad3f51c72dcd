// Package queue provides the unbounded FIFO used between pipeline stages.
//
// Push never blocks the producer. Pop blocks until an item is available or
// the queue is closed; after Close, remaining items are still handed out so
// consumers can drain before exiting.
package queue
