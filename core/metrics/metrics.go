package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload outcomes recorded per target.
const (
	OutcomeSuccess   = "success"
	OutcomeTransport = "transport_failure"
	OutcomeRejected  = "rejected"
)

// Collector holds every pipeline metric.
type Collector struct {
	registry prometheus.Gatherer

	envelopesEnqueued *prometheus.CounterVec
	fanOut            *prometheus.CounterVec
	uploads           *prometheus.CounterVec
	uploadLatency     *prometheus.HistogramVec
	decodeFailures    *prometheus.CounterVec
	battlesEnriched   prometheus.Counter
	nameLookups       *prometheus.CounterVec

	syncQueueDepth prometheus.Gauge
	ledgerSize     prometheus.Gauge
}

// NewCollector creates the collector and registers it on reg.
func NewCollector(reg *prometheus.Registry) *Collector {
	c := &Collector{
		registry: reg,
		envelopesEnqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_envelopes_enqueued_total",
			Help: "Envelopes added to the sync queue",
		}, []string{"type"}),
		fanOut: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_fanout_total",
			Help: "Envelopes handed to a target worker",
		}, []string{"target"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_uploads_total",
			Help: "Upload attempts by target and outcome",
		}, []string{"target", "outcome"}),
		uploadLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sync_upload_seconds",
			Help:    "Upload round-trip time",
			Buckets: prometheus.DefBuckets,
		}, []string{"target"}),
		decodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_decode_failures_total",
			Help: "Capture batches dropped because they could not be decoded",
		}, []string{"kind"}),
		battlesEnriched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_battles_enriched_total",
			Help: "Battle records emitted by the combat log enricher",
		}),
		nameLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_name_lookups_total",
			Help: "Name cache lookups by cache and result",
		}, []string{"cache", "result"}),
		syncQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sync_queue_depth",
			Help: "Envelopes waiting for the dispatcher",
		}),
		ledgerSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sync_ledger_size",
			Help: "Battle ids held by the dedup ledger",
		}),
	}

	reg.MustRegister(
		c.envelopesEnqueued,
		c.fanOut,
		c.uploads,
		c.uploadLatency,
		c.decodeFailures,
		c.battlesEnriched,
		c.nameLookups,
		c.syncQueueDepth,
		c.ledgerSize,
	)

	return c
}

// Handler returns the exposition handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) RecordEnqueue(entityType string, depth int) {
	if c == nil {
		return
	}
	c.envelopesEnqueued.WithLabelValues(entityType).Inc()
	c.syncQueueDepth.Set(float64(depth))
}

func (c *Collector) SetQueueDepth(depth int) {
	if c == nil {
		return
	}
	c.syncQueueDepth.Set(float64(depth))
}

func (c *Collector) RecordFanOut(target string) {
	if c == nil {
		return
	}
	c.fanOut.WithLabelValues(target).Inc()
}

// RecordUpload records one upload attempt and its latency.
func (c *Collector) RecordUpload(target, outcome string, seconds float64) {
	if c == nil {
		return
	}
	c.uploads.WithLabelValues(target, outcome).Inc()
	c.uploadLatency.WithLabelValues(target).Observe(seconds)
}

func (c *Collector) RecordDecodeFailure(kind string) {
	if c == nil {
		return
	}
	c.decodeFailures.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordBattleEnriched() {
	if c == nil {
		return
	}
	c.battlesEnriched.Inc()
}

// RecordNameLookups adds hit and miss counts for one cache.
func (c *Collector) RecordNameLookups(cache string, hits, misses int) {
	if c == nil {
		return
	}
	c.nameLookups.WithLabelValues(cache, "hit").Add(float64(hits))
	c.nameLookups.WithLabelValues(cache, "miss").Add(float64(misses))
}

func (c *Collector) SetLedgerSize(n int) {
	if c == nil {
		return
	}
	c.ledgerSize.Set(float64(n))
}
