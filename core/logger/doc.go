// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates seamlessly with the Fiber web framework.
//
// # Context Awareness
//
// Capture payloads arrive over HTTP. The WithRayID helper extracts the RayID
// from a Fiber context and attaches it to the log entry so that the ingestion
// of one payload can be correlated across log lines.
//
// # Sync Logging
//
// ForSync derives the pipeline logger: a no-op logger when sync logging is
// switched off, otherwise a child named "sync". Pipeline log lines carry a
// "direction" field built with Flow (upload, download, queue or process).
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error (anything else is rejected)
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("Pipeline started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
