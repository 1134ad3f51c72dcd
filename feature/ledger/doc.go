// Package ledger remembers the most recent battle ids so each battle is
// enriched and sent at most once, across restarts.
//
// The ledger is a ring of Capacity ids with linear-scan membership. A capture
// batch is admitted with Admit: ids arrive newest first, are walked oldest
// first, and every unseen id is appended, evicting the oldest when full. The
// whole ring is written to the Store once per batch that added anything.
//
// # Stores
//
//   - FileStore: a flat JSON array on local disk, replaced atomically.
//   - ObjectStore: the same array as one object in S3/MinIO.
//
// A missing or unreadable store loads as an empty ledger.
package ledger
