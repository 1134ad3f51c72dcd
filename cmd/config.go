package cmd

import (
	"fmt"

	"prime-sync/core/config"
	"prime-sync/feature/dispatch"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const redacted = "<redacted>"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long:  `Loads the configuration the way start does and prints it as YAML with secrets redacted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		out, err := yaml.Marshal(redact(*cfg))
		if err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

// redact blanks every credential of cfg.
func redact(cfg config.Config) config.Config {
	hide := func(s *string) {
		if *s != "" {
			*s = redacted
		}
	}

	hide(&cfg.Server.ApiKey)
	hide(&cfg.Game.SessionID)
	hide(&cfg.Storage.AccessKey)
	hide(&cfg.Storage.SecretKey)

	targets := make(map[string]dispatch.TargetConfig, len(cfg.Sync.Targets))
	for name, t := range cfg.Sync.Targets {
		hide(&t.Token)
		targets[name] = t
	}
	cfg.Sync.Targets = targets
	return cfg
}

func init() {
	RootCmd.AddCommand(configCmd)
}
