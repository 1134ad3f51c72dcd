// Package status exposes read-only views of the running pipeline: a health
// summary, the battle ledger and the prometheus metrics.
package status
