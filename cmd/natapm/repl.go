package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Latif080790/NataCarePM-sub017/internal/repl"
	"github.com/Latif080790/NataCarePM-sub017/internal/storage"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive shell over the project plan",
	Long: `Start an interactive read-only shell for inspecting the project:
tasks, dependencies, the computed schedule, allocations, and events.

The shell holds an exclusive lock on the database while it runs.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

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

		shell, err := repl.New(&repl.Config{
			Service:   svc,
			ProjectID: projectID,
			Actor:     actor,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := shell.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
