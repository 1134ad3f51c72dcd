package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"prime-sync/core/entity"
	"prime-sync/core/logger"
	"prime-sync/core/metrics"
	"prime-sync/core/syncerr"

	"go.uber.org/zap"
)

const (
	HeaderToken     = "stfc-sync-token"
	HeaderPrimeSync = "X-Prime-Sync"
)

// Uploader posts envelopes to targets over HTTP.
type Uploader struct {
	agent   string
	debug   bool
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewUploader creates an uploader sending agent as X-Powered-By and User-Agent.
func NewUploader(agent string, debug bool, logger *zap.Logger, m *metrics.Collector) *Uploader {
	return &Uploader{agent: agent, debug: debug, logger: logger, metrics: m}
}

// Send posts env.Body to the target and logs the outcome. The returned error
// is tagged TransportFailure or RemoteRejection.
func (u *Uploader) Send(ctx context.Context, t Target, env entity.Envelope) error {
	log := u.logger.With(
		logger.Flow(logger.Upload),
		zap.String("target", t.Name),
		zap.Stringer("type", env.Type),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, bytes.NewReader(env.Body))
	if err != nil {
		err = syncerr.New(syncerr.ConfigurationGap, "upload", err)
		log.Error("Failed to build upload request", zap.Error(err))
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Powered-By", u.agent)
	req.Header.Set("User-Agent", u.agent)
	req.Header.Set(HeaderToken, t.Token)
	if env.FirstSync {
		req.Header.Set(HeaderPrimeSync, "2")
	}

	start := time.Now()
	resp, err := t.Client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		u.metrics.RecordUpload(t.Name, metrics.OutcomeTransport, elapsed.Seconds())
		err = syncerr.New(syncerr.TransportFailure, "upload", err)
		log.Error("Failed to send sync data", zap.Duration("elapsed", elapsed), zap.Error(err))
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		u.metrics.RecordUpload(t.Name, metrics.OutcomeRejected, elapsed.Seconds())
		err := syncerr.Rejected("upload", resp.StatusCode, resp.Status)
		log.Error(fmt.Sprintf("Failed to communicate with server: %s (after %.2f s)", resp.Status, elapsed.Seconds()),
			zap.Int("status", resp.StatusCode),
		)
		return err
	}

	u.metrics.RecordUpload(t.Name, metrics.OutcomeSuccess, elapsed.Seconds())
	if u.debug {
		log.Debug("Sync data accepted",
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", elapsed),
			zap.Int("records", env.Count),
			zap.Bool("first_sync", env.FirstSync),
			zap.ByteString("response", body),
		)
	}
	return nil
}
