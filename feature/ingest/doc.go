// Package ingest turns captured game payloads into change records.
//
// A payload arrives as (Kind, bytes). Each kind has a handler that decodes
// the payload, diffs it against the state cache of its entity type and
// enqueues one envelope holding every changed record. Nothing is emitted
// when nothing changed.
//
// # Formats
//
// Binary kinds are protobuf messages read field by field with protowire;
// the field numbers form the capture contract and are listed in schema.go.
// The json kind is a document with several sections (battle headers,
// resources, starbase modules, ships) read with gjson, and slot_update is a
// single realtime slot message in JSON.
//
// A payload that fails to decode is dropped whole before any cache is
// touched, so a malformed batch never leaves partial state behind.
//
// # Concurrency
//
// Submit hands payloads to a bounded worker pool and never blocks: when the
// queue is full the payload is rejected with ErrIngestQueueFull.
package ingest
