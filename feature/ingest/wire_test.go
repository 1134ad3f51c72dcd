package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestParseMessageLastScalarWins(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, 5)
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, 9)
	b = protowire.AppendTag(b, 2, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 1)

	m, err := parseMessage(b)
	require.NoError(t, err)
	assert.Equal(t, int64(9), m.i64(1))
	assert.Equal(t, int64(0), m.i64(3), "absent scalars read as zero")
	assert.True(t, m.has(2))
}

func TestVarintsPackedAndUnpacked(t *testing.T) {
	var packed []byte
	packed = protowire.AppendVarint(packed, 1)
	packed = protowire.AppendVarint(packed, 2)

	var b []byte
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendBytes(b, packed)
	b = protowire.AppendTag(b, 4, protowire.VarintType)
	b = protowire.AppendVarint(b, 3)

	m, err := parseMessage(b)
	require.NoError(t, err)
	ids, err := m.i64s(4)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestNegativeInt64RoundTrips(t *testing.T) {
	neg := int64(-1)
	b := protowire.AppendTag(nil, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(neg))

	m, err := parseMessage(b)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), m.i64(1))
}

func TestParseMessageRejectsTruncatedInput(t *testing.T) {
	b := protowire.AppendTag(nil, 1, protowire.BytesType)
	b = protowire.AppendVarint(b, 10)
	b = append(b, 'x')

	_, err := parseMessage(b)
	assert.Error(t, err)
}

func TestSubMessage(t *testing.T) {
	inner := protowire.AppendTag(nil, 1, protowire.VarintType)
	inner = protowire.AppendVarint(inner, 1700000000)
	b := protowire.AppendTag(nil, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, inner)

	m, err := parseMessage(b)
	require.NoError(t, err)

	sec, ok, err := m.timestamp(3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000), sec)

	_, ok, err = m.timestamp(4)
	require.NoError(t, err)
	assert.False(t, ok)
}
