package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Latif080790/NataCarePM-sub017/internal/storage"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recompute the project schedule on an interval until interrupted",
	Long: `Run the background recompute loop: the project's schedule is recomputed
at the configured interval and each pass is recorded as an audit event.

Requires recompute_interval to be set, either in the --config file or via
NATAPM_RECOMPUTE_INTERVAL. Stop with Ctrl+C.

The loop holds an exclusive lock on the database while it runs.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		lockPath, err := storage.AcquireExclusiveLock(resolvedDBPath, Version)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if lockPath != "" {
				_ = storage.ReleaseExclusiveLock(lockPath)
			}
		}()

		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Printf("%s Watching project %s (Ctrl+C to stop)\n", gray("→"), projectID)

		err = svc.RunRecomputeLoop(ctx, projectID)
		if errors.Is(err, context.Canceled) {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("\n%s Stopped\n", green("✓"))
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
