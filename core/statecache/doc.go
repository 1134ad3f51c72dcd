// Package statecache holds the last observed state of every tracked entity
// and reports only the changes.
//
// Three shapes cover every entity type:
//
//   - Cache: keyed state with per-type equality. ObserveAll diffs a batch;
//     Sync additionally evicts keys missing from a full snapshot and reports
//     them as removed.
//   - SetCache: a whole set compared for equality (active missions).
//   - SequenceCache: an append-only sequence diffed by set difference
//     (completed missions).
//
// Every instance carries its own mutex. A changed entry is written back
// before the lock is released, so no observer can see a stale value after a
// reported change.
package statecache
