package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-sync/internal/ledger"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect and export the dedup tracker",
}

var ledgerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tracker set sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := initLedgerStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck

		if err := store.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate ledger store")
		}

		led := ledger.New(store)
		if err := led.Load(ctx); err != nil {
			return err
		}

		stats := led.Stats()
		fmt.Printf("Processed emails:          %d\n", stats.Emails)
		fmt.Printf("Company-campaign claims:   %d\n", stats.CompanyCampaigns)
		return nil
	},
}

var ledgerExportOut string

var ledgerExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the tracker to an .xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := initLedgerStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck

		if err := store.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate ledger store")
		}

		emails, err := store.ProcessedEmails(ctx)
		if err != nil {
			return err
		}
		pairs, err := store.CompanyCampaigns(ctx)
		if err != nil {
			return err
		}

		if err := ledger.ExportXLSX(ledgerExportOut, emails, pairs); err != nil {
			return err
		}

		zap.L().Info("exported tracker",
			zap.String("path", ledgerExportOut),
			zap.Int("emails", len(emails)),
			zap.Int("company_campaigns", len(pairs)),
		)
		fmt.Printf("Wrote %s\n", ledgerExportOut)
		return nil
	},
}

func init() {
	ledgerExportCmd.Flags().StringVar(&ledgerExportOut, "out", "leadsync_tracker.xlsx", "output .xlsx path")
	ledgerCmd.AddCommand(ledgerStatusCmd)
	ledgerCmd.AddCommand(ledgerExportCmd)
	rootCmd.AddCommand(ledgerCmd)
}
