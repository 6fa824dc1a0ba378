package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Latif080790/NataCarePM-sub017/internal/allocation"
	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

var (
	allocateResource  string
	allocateType      string
	allocateStart     string
	allocateEnd       string
	allocatePercent   int
	allocateDailyRate int64
)

var allocateCmd = &cobra.Command{
	Use:   "allocate <task-id>",
	Short: "Allocate a resource to a task",
	Long: `Allocate a percentage of a resource's capacity to a task over a date
range. The request is validated against the allocation policy and the
resource's existing planned and active allocations across all projects;
over-allocation is rejected with the conflicting allocation ids.

The cost estimate is derived from the percentage, the inclusive duration in
days, and the daily rate:

  natapm allocate task-42 --resource mason-crew-1 --type worker \
      --start 2026-03-02 --end 2026-03-13 --percent 60 --daily-rate-cents 50000`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		resourceType := types.ResourceType(allocateType)
		if !resourceType.IsValid() {
			fmt.Fprintf(os.Stderr, "Error: invalid --type %q: expected worker, equipment, or material\n", allocateType)
			os.Exit(1)
		}
		start, err := parseDateArg("start", allocateStart)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		end, err := parseDateArg("end", allocateEnd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		req := allocation.Request{
			TaskID:         args[0],
			ResourceID:     allocateResource,
			ResourceType:   resourceType,
			StartDate:      start,
			EndDate:        end,
			Percent:        allocatePercent,
			DailyRateCents: allocateDailyRate,
		}
		alloc, err := svc.AllocateResource(ctx, req, actor)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("%s Allocated %s at %d%% to %s\n", green("✓"), allocateResource, alloc.Percent, args[0])
		fmt.Printf("  Allocation:     %s\n", cyan(alloc.ID))
		fmt.Printf("  Range:          %s → %s (%dd)\n",
			alloc.StartDate.Format("2006-01-02"), alloc.EndDate.Format("2006-01-02"),
			alloc.DurationDays())
		fmt.Printf("  Estimated cost: %s\n", formatCents(alloc.EstimatedCostCents))
	},
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func init() {
	rootCmd.AddCommand(allocateCmd)

	allocateCmd.Flags().StringVar(&allocateResource, "resource", "", "Resource ID (required)")
	allocateCmd.Flags().StringVar(&allocateType, "type", "worker", "Resource type: worker, equipment, or material")
	allocateCmd.Flags().StringVar(&allocateStart, "start", "", "Start date, YYYY-MM-DD (required)")
	allocateCmd.Flags().StringVar(&allocateEnd, "end", "", "End date, YYYY-MM-DD, inclusive (required)")
	allocateCmd.Flags().IntVar(&allocatePercent, "percent", 100, "Capacity percentage to commit")
	allocateCmd.Flags().Int64Var(&allocateDailyRate, "daily-rate-cents", 0, "Resource daily rate in cents (for cost estimation)")
	_ = allocateCmd.MarkFlagRequired("resource")
	_ = allocateCmd.MarkFlagRequired("start")
	_ = allocateCmd.MarkFlagRequired("end")
}
