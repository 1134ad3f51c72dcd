package status_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"prime-sync/core/metrics"
	"prime-sync/feature/pipeline"
	"prime-sync/feature/status"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct{}

func (stubSource) Targets() []string { return []string{"primary"} }

func (stubSource) Stats() pipeline.Stats { return pipeline.Stats{SyncQueue: 2, Ledger: 3} }

func (stubSource) LedgerIDs() []uint64 { return []uint64{1, 2, 3} }

func newApp(t *testing.T, withMetrics bool) *fiber.App {
	t.Helper()
	app := fiber.New()
	var f *status.Feature
	if withMetrics {
		m := metrics.NewCollector(prometheus.NewRegistry())
		m.SetLedgerSize(3)
		f = status.NewFeature(stubSource{}, m.Handler())
	} else {
		f = status.NewFeature(stubSource{}, nil)
	}
	require.NoError(t, f.Load(app))
	return app
}

func TestHandleHealth(t *testing.T) {
	resp, err := newApp(t, false).Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Status  string         `json:"status"`
		Targets []string       `json:"targets"`
		Stats   pipeline.Stats `json:"stats"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, []string{"primary"}, body.Targets)
	assert.Equal(t, 2, body.Stats.SyncQueue)
}

func TestHandleLedger(t *testing.T) {
	resp, err := newApp(t, false).Test(httptest.NewRequest("GET", "/ledger", nil))
	require.NoError(t, err)

	var body struct {
		Count int      `json:"count"`
		IDs   []uint64 `json:"ids"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, []uint64{1, 2, 3}, body.IDs)
}

func TestMetricsRoute(t *testing.T) {
	tests := []struct {
		name        string
		withMetrics bool
		status      int
	}{
		{"enabled", true, fiber.StatusOK},
		{"disabled", false, fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newApp(t, tt.withMetrics).Test(httptest.NewRequest("GET", "/metrics", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.withMetrics {
				body, _ := io.ReadAll(resp.Body)
				assert.Contains(t, string(body), "sync_ledger_size 3")
			}
		})
	}
}

func TestFeature(t *testing.T) {
	f := status.NewFeature(stubSource{}, nil)
	assert.Equal(t, "status", f.Name())
	assert.True(t, f.IsEnabled())
}
