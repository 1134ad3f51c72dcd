// Package syncerr defines the error taxonomy of the sync pipeline.
//
// Every failure that can surface from a pipeline stage is tagged with a Kind
// so callers branch on the tag instead of inspecting messages:
//
//	if syncerr.Is(err, syncerr.RemoteRejection) { ... }
//
// A cache miss is not an error; it drives a remote fetch.
package syncerr
