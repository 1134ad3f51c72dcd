// Package combat turns admitted battle ids into Battles records.
//
// The Enricher owns one goroutine fed by an unbounded queue. For every id it
// fetches the battle journal from the game server, resolves the display
// names of the participants through the name caches, fetching what is
// missing in one batch per cache, and queues a single record of the form
//
//	{"type": "Battles", "names": {<uid>: {...}}, "journal": {...}}
//
// for delivery. A failure at any step is logged and the battle is skipped;
// its id stays in the ledger so it is never fetched again.
package combat
