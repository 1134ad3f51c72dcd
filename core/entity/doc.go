// Package entity defines the closed set of entity types tracked by the sync
// pipeline and the units of work that flow through it.
//
// # Entity Types
//
// Type is a closed enumeration (Missions, Inventory, ..., Battles). Every type
// maps to exactly one wire discriminator which is written into the "type"
// field of each outbound record.
//
// # Records and Envelopes
//
// A Record is one change detected by ingestion. Records of the same type are
// batched and serialized into an Envelope, which is what the dispatcher fans
// out to remote targets.
//
// # Usage
//
//	rec := entity.NewRecord(entity.Ships, entity.Fields{"psid": 42, "level": 3})
//	env, err := entity.NewEnvelope(entity.Ships, []entity.Record{rec}, false)
package entity
