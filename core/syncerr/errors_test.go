package syncerr_test

import (
	"errors"
	"fmt"
	"testing"

	"prime-sync/core/syncerr"

	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	base := syncerr.New(syncerr.DecodeFailure, "decode officers", errors.New("truncated"))
	wrapped := fmt.Errorf("ingest: %w", base)

	kind, ok := syncerr.KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, syncerr.DecodeFailure, kind)
	assert.True(t, syncerr.Is(wrapped, syncerr.DecodeFailure))
	assert.False(t, syncerr.Is(wrapped, syncerr.TransportFailure))
	assert.Contains(t, wrapped.Error(), "truncated")
}

func TestRejectedCarriesStatus(t *testing.T) {
	err := syncerr.Rejected("upload", 503, "503 Service Unavailable")

	assert.Equal(t, 503, err.Status)
	assert.Contains(t, err.Error(), "status 503")
	assert.True(t, syncerr.Is(err, syncerr.RemoteRejection))
}

func TestPlainErrorHasNoKind(t *testing.T) {
	_, ok := syncerr.KindOf(errors.New("plain"))
	assert.False(t, ok)
}
