package pipeline

import (
	"time"

	"prime-sync/feature/dispatch"
	"prime-sync/feature/ingest"
)

// Config is the sync section of the configuration.
type Config struct {
	// Logging disables every pipeline log line when false.
	Logging bool `mapstructure:"logging" yaml:"logging" default:"true"`
	// Debug enables per-request and per-batch debug lines.
	Debug bool `mapstructure:"debug" yaml:"debug" default:"false"`
	// ResolverCacheTTL is the lifetime of cached names, in seconds.
	ResolverCacheTTL int `mapstructure:"resolver_cache_ttl" yaml:"resolver_cache_ttl" default:"600"`
	IngestWorkers    int `mapstructure:"ingest_workers" yaml:"ingest_workers" default:"4"`
	IngestQueue      int `mapstructure:"ingest_queue" yaml:"ingest_queue" default:"256"`
	// Agent is sent as User-Agent and X-Powered-By.
	Agent string `mapstructure:"agent" yaml:"agent" default:"prime-sync"`
	// Proxy and VerifySSL apply to the game server client.
	Proxy     string `mapstructure:"proxy" yaml:"proxy" default:""`
	VerifySSL bool   `mapstructure:"verify_ssl" yaml:"verify_ssl" default:"true"`

	Options ingest.Options                   `mapstructure:"options" yaml:"options"`
	Targets map[string]dispatch.TargetConfig `mapstructure:"targets" yaml:"targets"`
}

// TTL returns the name cache lifetime.
func (c Config) TTL() time.Duration {
	return time.Duration(c.ResolverCacheTTL) * time.Second
}
