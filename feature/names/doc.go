// Package names caches player and alliance display names fetched from the
// game server, each entry valid for a fixed TTL.
//
// Expired entries are evicted when looked up, never swept. Each cache has its
// own lock and an enrichment pass always resolves players before alliances.
//
// # Usage
//
//	players, missing := r.ResolvePlayers(uids)
//	// fetch missing, then
//	r.StorePlayers(fetched)
package names
