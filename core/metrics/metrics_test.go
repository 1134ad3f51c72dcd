package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	assert.NotNil(t, c.envelopesEnqueued)
	assert.NotNil(t, c.uploads)
	assert.NotNil(t, c.ledgerSize)
}

func TestRecordUpload(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordUpload("main", OutcomeSuccess, 0.2)
	c.RecordUpload("main", OutcomeSuccess, 0.1)
	c.RecordUpload("main", OutcomeRejected, 0.1)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.uploads.WithLabelValues("main", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.uploads.WithLabelValues("main", OutcomeRejected)))
}

func TestRecordEnqueueSetsDepth(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordEnqueue("Ships", 3)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.envelopesEnqueued.WithLabelValues("Ships")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.syncQueueDepth))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.RecordEnqueue("Ships", 1)
		c.RecordFanOut("main")
		c.RecordUpload("main", OutcomeSuccess, 1)
		c.RecordDecodeFailure("officers")
		c.RecordBattleEnriched()
		c.RecordNameLookups("player", 1, 1)
		c.SetLedgerSize(10)
		c.SetQueueDepth(0)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	c.RecordBattleEnriched()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "sync_battles_enriched_total 1")
}
