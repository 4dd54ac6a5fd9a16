package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-sync/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "lead-sync",
	Short: "Salesforce to Instantly lead synchronization",
	Long:  "Pulls newly-created Salesforce leads, validates deliverability via Debounce, deduplicates against the tracker ledger, and pushes accepted contacts and their colleagues into Instantly campaigns.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
