package ingest_test

import (
	"context"
	"sync"
	"testing"

	"prime-sync/core/entity"
	"prime-sync/feature/ingest"
	"prime-sync/feature/names"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

type captureSink struct {
	mu   sync.Mutex
	envs []entity.Envelope
}

func (s *captureSink) Enqueue(env entity.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envs = append(s.envs, env)
	return nil
}

func (s *captureSink) take() []entity.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.envs
	s.envs = nil
	return out
}

type fakeLedger struct {
	seen map[uint64]bool
}

func (l *fakeLedger) Admit(_ context.Context, ids []uint64) []uint64 {
	var out []uint64
	for i := len(ids) - 1; i >= 0; i-- {
		if !l.seen[ids[i]] {
			l.seen[ids[i]] = true
			out = append(out, ids[i])
		}
	}
	return out
}

type fakeBattles struct {
	ids []uint64
}

func (b *fakeBattles) Enqueue(ids ...uint64) {
	b.ids = append(b.ids, ids...)
}

type fakeNames struct {
	players   map[string]names.PlayerEntry
	alliances map[int64]names.Alliance
}

func (n *fakeNames) StorePlayers(p map[string]names.PlayerEntry) { n.players = p }

func (n *fakeNames) StoreAlliances(a map[int64]names.Alliance) { n.alliances = a }

func newTestIngestor(t *testing.T, opts ingest.Options) (*ingest.Ingestor, *captureSink) {
	t.Helper()
	sink := &captureSink{}
	in := ingest.New(ingest.Config{Workers: 1, QueueSize: 4, Options: opts}, ingest.Dependencies{Sink: sink})
	return in, sink
}

func records(t *testing.T, env entity.Envelope) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(env.Body, &out))
	require.Len(t, out, env.Count)
	return out
}

// Protobuf builders.

func msg(fields ...[]byte) []byte {
	var b []byte
	for _, f := range fields {
		b = append(b, f...)
	}
	return b
}

func varint(num protowire.Number, v int64) []byte {
	b := protowire.AppendTag(nil, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func embed(num protowire.Number, m []byte) []byte {
	b := protowire.AppendTag(nil, num, protowire.BytesType)
	return protowire.AppendBytes(b, m)
}

func str(num protowire.Number, s string) []byte {
	b := protowire.AppendTag(nil, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func packed(num protowire.Number, vs ...int64) []byte {
	var p []byte
	for _, v := range vs {
		p = protowire.AppendVarint(p, uint64(v))
	}
	return embed(num, p)
}

func timestamp(num protowire.Number, sec int64) []byte {
	return embed(num, varint(1, sec))
}
