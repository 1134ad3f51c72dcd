package logger

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Direction tags a sync log line with the way data is flowing.
type Direction string

const (
	// Upload is data sent to a sync target.
	Upload Direction = "upload"
	// Download is data fetched from the game server.
	Download Direction = "download"
	// Queue is data handed between pipeline stages.
	Queue Direction = "queue"
	// Process is a capture being decoded or enriched.
	Process Direction = "process"
)

// Flow returns the structured direction field.
func Flow(d Direction) zap.Field {
	return zap.String("direction", string(d))
}

// New creates a new zap logger based on the configuration.
func New(cfg *Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var config zap.Config
	if level == zapcore.DebugLevel {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.Level = zap.NewAtomicLevelAt(level)

	switch cfg.Format {
	case "console":
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	case "json", "":
		config.Encoding = "json"
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"

	return config.Build()
}

// ForSync returns the logger used by the sync pipeline: a no-op logger when
// sync logging is switched off, otherwise l named "sync".
func ForSync(l *zap.Logger, enabled bool) *zap.Logger {
	if !enabled || l == nil {
		return zap.NewNop()
	}
	return l.Named("sync")
}

// WithRayID returns a logger with the ray_id field set from the Fiber context.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	rid := c.Locals("ray_id")
	if str, ok := rid.(string); ok && str != "" {
		return l.With(zap.String("ray_id", str))
	}
	return l
}
