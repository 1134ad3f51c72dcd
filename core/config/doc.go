// Package config provides configuration management for prime-sync.
//
// It utilizes Viper for loading configuration from environment variables,
// an optional config.yaml and a .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: local HTTP server settings (port, API key, metrics)
//   - Log: Logging level and format
//   - Sync: pipeline settings, per-type options and the remote targets
//   - Game: game server session used to enrich battles
//   - Ledger: battle ledger backend (file or object)
//   - Storage: S3/MinIO credentials for the object ledger backend
//
// Defaults come from the `default` struct tags of each partial config. Every
// scalar key can be overridden by an environment variable named after its
// path (sync.ingest_workers -> SYNC_INGEST_WORKERS). The targets map can only
// be set in config.yaml:
//
//	sync:
//	  targets:
//	    primary:
//	      url: https://collector.example/sync
//	      token: secret
//	      types: [ships, officer, battles]
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
