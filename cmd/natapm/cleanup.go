package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Latif080790/NataCarePM-sub017/internal/config"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Prune audit events past their retention period",
	Long: `Delete audit events past their retention period: info events older than
the configured retention window, warnings and errors after a longer one.

Retention is configured via the NATAPM_EVENT_* environment variables.
Defaults: info events 90 days, warning/error events 365 days.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := config.EventRetentionConfigFromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		deleted, err := store.PruneEvents(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		if deleted == 0 {
			fmt.Printf("%s Nothing to prune\n", green("✓"))
			return
		}
		fmt.Printf("%s Pruned %d event(s)\n", green("✓"), deleted)
		fmt.Printf("  %s\n", gray(cfg.String()))
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
