package cmd

import (
	"fmt"

	"prime-sync/core/config"
	"prime-sync/feature/ledger"

	"github.com/spf13/cobra"
)

// ledgerCmd represents the ledger command
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Print the battle ids held by the ledger",
	Long:  `Reads the configured ledger store and prints the remembered battle ids, oldest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		store, err := ledger.OpenStore(cmd.Context(), cfg.Ledger, cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to open ledger store: %w", err)
		}
		ids, err := store.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read ledger: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d battle ids (capacity %d)\n", len(ids), ledger.Capacity)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(ledgerCmd)
}
