package entity

import (
	"fmt"
	"sync/atomic"

	"github.com/goccy/go-json"
)

// Fields holds the type-specific payload of a record.
type Fields map[string]any

// Record is a single detected change. It serializes as one flat JSON object
// whose "type" key carries the discriminator.
type Record struct {
	discriminator string
	fields        Fields
}

// NewRecord creates a record carrying the discriminator of t.
func NewRecord(t Type, fields Fields) Record {
	return Record{discriminator: t.String(), fields: fields}
}

// NewDerivedRecord creates a record with a prefixed discriminator, used for
// synthetic removals such as "expired_Buffs" or "completed_Jobs".
func NewDerivedRecord(t Type, prefix string, fields Fields) Record {
	return Record{discriminator: t.Prefixed(prefix), fields: fields}
}

// Discriminator returns the value written to the "type" key.
func (r Record) Discriminator() string {
	return r.discriminator
}

// Get returns one field value.
func (r Record) Get(key string) (any, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// MarshalJSON flattens the discriminator and fields into one object.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.fields)+1)
	for k, v := range r.fields {
		out[k] = v
	}
	out["type"] = r.discriminator
	return json.Marshal(out)
}

// Envelope is the unit of work queued for delivery.
type Envelope struct {
	Type      Type
	Body      []byte
	FirstSync bool
	// Count is the number of records serialized in Body.
	Count int
}

// NewEnvelope serializes records into a JSON array body.
func NewEnvelope(t Type, records []Record, firstSync bool) (Envelope, error) {
	body, err := json.Marshal(records)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode %s records: %w", t, err)
	}
	return Envelope{Type: t, Body: body, FirstSync: firstSync, Count: len(records)}, nil
}

// FirstSync is a one-shot flag per entity type: Consume returns true exactly
// once per process for types that track it.
type FirstSync struct {
	pending [typeCount]atomic.Bool
}

// NewFirstSync arms the flag for the given types.
func NewFirstSync(types ...Type) *FirstSync {
	f := &FirstSync{}
	for _, t := range types {
		if t.Valid() {
			f.pending[t].Store(true)
		}
	}
	return f
}

// Consume returns true the first time it is called for an armed type.
func (f *FirstSync) Consume(t Type) bool {
	if !t.Valid() {
		return false
	}
	return f.pending[t].Swap(false)
}
