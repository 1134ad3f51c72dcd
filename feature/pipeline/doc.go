// Package pipeline wires the sync components together.
//
// A Pipeline owns every cache, queue and worker of one running instance:
//
//	Ingest -> ingest.Ingestor -> dispatch.SyncQueue -> dispatch.Dispatcher -> dispatch.Pool -> targets
//	                  |
//	                  +-> ledger.Ledger -> combat.Enricher -> dispatch.SyncQueue
//
// Start loads the ledger and launches the goroutines; Stop shuts them down in
// dependency order so that everything already accepted is delivered.
package pipeline
