package server

// Config holds configuration for the local HTTP server that receives
// capture payloads.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" yaml:"port" default:"8787"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" yaml:"api_key" default:""`
	// Metrics exposes GET /metrics when true.
	Metrics bool `mapstructure:"metrics" yaml:"metrics" default:"true"`
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return ":" + c.Port
}
