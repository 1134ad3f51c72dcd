package storage

// Config holds configuration for the object storage backend of the ledger.
type Config struct {
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" yaml:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" yaml:"use_ssl" default:"false"`
	// Bucket holds the ledger object.
	Bucket string `mapstructure:"bucket" yaml:"bucket" default:"prime-sync"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" yaml:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds" default:"10"`
}
