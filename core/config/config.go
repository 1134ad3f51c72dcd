package config

import (
	"errors"
	"reflect"
	"strings"

	"prime-sync/core/gameserver"
	"prime-sync/core/logger"
	"prime-sync/core/server"
	"prime-sync/core/storage"
	"prime-sync/feature/ledger"
	"prime-sync/feature/pipeline"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the local HTTP server.
	Server server.Config `mapstructure:"server" yaml:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log" yaml:"log"`
	// Sync holds the pipeline settings and the remote targets.
	Sync pipeline.Config `mapstructure:"sync" yaml:"sync"`
	// Game holds the initial game server session.
	Game gameserver.Session `mapstructure:"game" yaml:"game"`
	// Ledger selects where seen battle ids are persisted.
	Ledger ledger.Config `mapstructure:"ledger" yaml:"ledger"`
	// Storage holds configuration for the object storage ledger backend.
	Storage storage.Config `mapstructure:"storage" yaml:"storage"`
}

// LoadConfig loads configuration from config.yaml, environment variables and
// the .env file found in path.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Targets are a map and only come from the config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Map environment variables to nested keys (e.g. SYNC_DEBUG -> sync.debug)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		switch field.Type.Kind() {
		case reflect.Struct:
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		case reflect.Map, reflect.Slice, reflect.Ptr:
			// No scalar default; an empty string would not decode.
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
