package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one lead sync pass",
	Long: `Run one lead sync pass.

Fetches Salesforce leads created inside the configured trailing window,
applies person and company-campaign dedup gates, validates deliverability,
and pushes accepted contacts (plus same-company colleagues) into Instantly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		stats, err := env.pipeline.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "sync")
		}

		fmt.Printf("Sync complete: %d leads scanned, %d submitted, %d colleagues, %d rejected, %d failed\n",
			stats.Leads, stats.Submitted, stats.Colleagues, stats.Rejected, stats.Failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
