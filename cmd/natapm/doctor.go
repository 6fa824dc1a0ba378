package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Latif080790/NataCarePM-sub017/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run plan health checks",
	Long: `Run diagnostics over the project plan: the dependency graph still
computes, no tasks are stuck with stale dates, and no resource is committed
past capacity.

Exits non-zero when any check is critical.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan(fmt.Sprintf("=== Plan Health: %s ===", projectID)))

		results := health.DefaultRegistry().RunAll(ctx, store, projectID)
		for _, result := range results {
			icon := green("✓")
			switch result.Result.Status {
			case health.StatusWarning:
				icon = yellow("⚠")
			case health.StatusCritical:
				icon = red("✗")
			}
			fmt.Printf("  %s %-14s %s\n", icon, result.Name, result.Result.Message)
			for _, detail := range result.Result.Details {
				fmt.Printf("      %s\n", gray(detail))
			}
		}
		fmt.Println()

		if health.Worst(results) == health.StatusCritical {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
