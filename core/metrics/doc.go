// Package metrics exposes pipeline counters and gauges to Prometheus.
//
// A nil *Collector is valid and records nothing, so components can be built
// without metrics in tests.
//
// # Metrics
//
// All series carry the sync_ prefix. They cover queue depth, envelopes
// enqueued per type, fan-out and upload outcome per target, upload latency,
// decode failures, name cache hits and misses, ledger size and enriched
// battles. Handler serves the registry in the Prometheus text format.
package metrics
