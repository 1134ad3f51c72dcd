package ingest_test

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"prime-sync/core/gameserver"
	"prime-sync/feature/ingest"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSubmitter struct {
	err     error
	kind    ingest.Kind
	payload []byte
}

func (s *stubSubmitter) Submit(kind ingest.Kind, payload []byte) error {
	s.kind, s.payload = kind, payload
	return s.err
}

type stubSessions struct {
	got *gameserver.Session
}

func (s *stubSessions) SetSession(sess gameserver.Session) { s.got = &sess }

func TestHandleIngest(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"accepted", "/ingest/officers", nil, fiber.StatusAccepted},
		{"unknown kind", "/ingest/starships", nil, fiber.StatusBadRequest},
		{"queue full", "/ingest/officers", ingest.ErrIngestQueueFull, fiber.StatusTooManyRequests},
		{"stopped", "/ingest/json", ingest.ErrStopped, fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &stubSubmitter{err: tt.err}
			app := fiber.New()
			ingest.NewHandler(sub, &stubSessions{}, zap.NewNop()).RegisterRoutes(app)

			req := httptest.NewRequest("POST", tt.path, bytes.NewReader([]byte{0x08, 0x01}))
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestHandleIngestCopiesBody(t *testing.T) {
	sub := &stubSubmitter{}
	app := fiber.New()
	ingest.NewHandler(sub, &stubSessions{}, zap.NewNop()).RegisterRoutes(app)

	req := httptest.NewRequest("POST", "/ingest/Officers", bytes.NewReader([]byte{0x08, 0x01}))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Equal(t, ingest.KindOfficers, sub.kind)
	assert.Equal(t, []byte{0x08, 0x01}, sub.payload)
}

func TestHandleSession(t *testing.T) {
	sessions := &stubSessions{}
	app := fiber.New()
	ingest.NewHandler(&stubSubmitter{}, sessions, zap.NewNop()).RegisterRoutes(app)

	body := `{"server_url":"https://game.example","session_id":"abc","instance_id":7}`
	req := httptest.NewRequest("PUT", "/session", bytes.NewReader([]byte(body)))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	require.NotNil(t, sessions.got)
	assert.Equal(t, "abc", sessions.got.SessionID)
	assert.Equal(t, 7, sessions.got.InstanceID)

	req = httptest.NewRequest("PUT", "/session", bytes.NewReader([]byte(`{}`)))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestFeature(t *testing.T) {
	f := ingest.NewFeature(&stubSubmitter{}, &stubSessions{}, zap.NewNop())
	assert.Equal(t, "ingest", f.Name())
	assert.True(t, f.IsEnabled())
	assert.NoError(t, f.Load(fiber.New()))
}
