package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

var (
	allocListResource string
	allocListTask     string
)

var allocCmd = &cobra.Command{
	Use:   "alloc",
	Short: "Manage resource allocations",
}

var allocListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the project's resource allocations",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		filter := types.AllocationFilter{
			ProjectID:  projectID,
			ResourceID: allocListResource,
			TaskID:     allocListTask,
		}
		allocs, err := svc.ListAllocations(ctx, filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		if len(allocs) == 0 {
			fmt.Printf("%s\n", gray("No allocations"))
			return
		}

		for _, a := range allocs {
			fmt.Printf("%s\n", a.ID)
			fmt.Printf("  %s (%s) at %d%% on %s\n", a.ResourceID, a.ResourceType, a.Percent, a.TaskID)
			fmt.Printf("  %s → %s  %s  est %s\n",
				a.StartDate.Format("2006-01-02"), a.EndDate.Format("2006-01-02"),
				allocStatusLabel(a.Status), formatCents(a.EstimatedCostCents))
		}
	},
}

var allocAdvanceCmd = &cobra.Command{
	Use:   "advance <allocation-id> <status>",
	Short: "Advance an allocation's lifecycle (planned → active → completed)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		target := types.AllocationStatus(args[1])
		if !target.IsValid() {
			fmt.Fprintf(os.Stderr, "Error: invalid status %q: expected active, completed, or cancelled\n", args[1])
			os.Exit(1)
		}
		if err := svc.AdvanceAllocation(ctx, args[0], target, actor); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Allocation %s is now %s\n", green("✓"), args[0], target)
	},
}

var allocCancelCmd = &cobra.Command{
	Use:   "cancel <allocation-id>",
	Short: "Cancel an allocation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		if err := svc.AdvanceAllocation(ctx, args[0], types.AllocationCancelled, actor); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Cancelled allocation %s\n", green("✓"), args[0])
	},
}

var allocLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Show committed load per resource",
	Long: `Show the aggregate planned and active load per resource in the project:
allocation count, total committed percentage, and total estimated cost.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		loads, err := store.GetResourceLoad(ctx, projectID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		if len(loads) == 0 {
			fmt.Printf("%s\n", gray("No committed allocations"))
			return
		}

		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%-20s %-10s %6s %8s %12s\n", "RESOURCE", "TYPE", "COUNT", "PERCENT", "EST COST")
		for _, load := range loads {
			percent := fmt.Sprintf("%d%%", load.TotalPercent)
			if load.TotalPercent > 100 {
				percent = yellow(percent)
			}
			fmt.Printf("%-20s %-10s %6d %8s %12s\n",
				load.ResourceID, load.ResourceType, load.AllocationCount,
				percent, formatCents(load.TotalCostCents))
		}
	},
}

func allocStatusLabel(status types.AllocationStatus) string {
	switch status {
	case types.AllocationActive:
		return color.New(color.FgGreen).Sprint(string(status))
	case types.AllocationCancelled:
		return color.New(color.FgHiBlack).Sprint(string(status))
	default:
		return string(status)
	}
}

func init() {
	rootCmd.AddCommand(allocCmd)
	allocCmd.AddCommand(allocListCmd)
	allocCmd.AddCommand(allocAdvanceCmd)
	allocCmd.AddCommand(allocCancelCmd)
	allocCmd.AddCommand(allocLoadCmd)

	allocListCmd.Flags().StringVar(&allocListResource, "resource", "", "Filter by resource ID")
	allocListCmd.Flags().StringVar(&allocListTask, "task", "", "Filter by task ID")
}
