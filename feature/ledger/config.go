package ledger

const (
	BackendFile   = "file"
	BackendObject = "object"
)

// Config selects and configures the ledger store.
type Config struct {
	// Backend is "file" or "object".
	Backend string `mapstructure:"backend" yaml:"backend" default:"file"`
	// Path is the ledger file for the file backend.
	Path string `mapstructure:"path" yaml:"path" default:"battles.json"`
	// Object is the object key for the object backend.
	Object string `mapstructure:"object" yaml:"object" default:"ledger/battles.json"`
}

// IsValidBackend checks if the configured backend is known.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendFile, BackendObject:
		return true
	default:
		return false
	}
}
