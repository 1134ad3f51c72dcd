package entity_test

import (
	"testing"

	"prime-sync/core/entity"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    entity.Type
		wantErr bool
	}{
		{"Ships", entity.Ships, false},
		{"ships", entity.Ships, false},
		{"EMERALDCHAIN", entity.EmeraldChain, false},
		{"battles", entity.Battles, false},
		{"starships", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := entity.ParseType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllTypesHaveDistinctNames(t *testing.T) {
	seen := map[string]bool{}
	for _, typ := range entity.AllTypes() {
		name := typ.String()
		assert.False(t, seen[name], "duplicate discriminator %s", name)
		seen[name] = true
	}
	assert.Len(t, seen, 14)
}

func TestRecordMarshalFlattensType(t *testing.T) {
	rec := entity.NewRecord(entity.Ships, entity.Fields{"psid": 42, "level": 3})

	b, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "Ships", decoded["type"])
	assert.EqualValues(t, 42, decoded["psid"])
	assert.EqualValues(t, 3, decoded["level"])
}

func TestDerivedRecord(t *testing.T) {
	rec := entity.NewDerivedRecord(entity.Buffs, "expired", entity.Fields{"bid": 5})
	assert.Equal(t, "expired_Buffs", rec.Discriminator())
}

func TestNewEnvelope(t *testing.T) {
	records := []entity.Record{
		entity.NewRecord(entity.Research, entity.Fields{"rid": 1, "level": 2}),
		entity.NewRecord(entity.Research, entity.Fields{"rid": 3, "level": 4}),
	}

	env, err := entity.NewEnvelope(entity.Research, records, true)
	require.NoError(t, err)
	assert.Equal(t, entity.Research, env.Type)
	assert.True(t, env.FirstSync)
	assert.Equal(t, 2, env.Count)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(env.Body, &decoded))
	assert.Len(t, decoded, 2)
	assert.Equal(t, "Research", decoded[1]["type"])
}

func TestFirstSyncConsumedOnce(t *testing.T) {
	fs := entity.NewFirstSync(entity.Ships, entity.Jobs)

	assert.True(t, fs.Consume(entity.Ships))
	assert.False(t, fs.Consume(entity.Ships))
	assert.True(t, fs.Consume(entity.Jobs))
	assert.False(t, fs.Consume(entity.Officer), "untracked types never report first sync")
}
