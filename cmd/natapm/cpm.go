package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Latif080790/NataCarePM-sub017/internal/schedule"
)

var cpmCmd = &cobra.Command{
	Use:   "cpm",
	Short: "Compute the project schedule and critical path",
	Long: `Run the Critical Path Method over the project: earliest and latest start
and finish dates for every task, total slack, and the critical path.

Dates are inclusive calendar days; no working-day calendar is applied.
Critical tasks (zero slack) are highlighted.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		sched, err := svc.CriticalPath(ctx, projectID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan(fmt.Sprintf("=== Schedule: %s ===", projectID)))

		if len(sched.Tasks) == 0 {
			fmt.Printf("  %s\n\n", gray("No tasks to schedule"))
			return
		}

		fmt.Printf("  Anchor:   %s\n", sched.Anchor.Format("2006-01-02"))
		fmt.Printf("  Duration: %d days\n", sched.DurationDays)
		fmt.Println()

		fmt.Printf("  %-24s %4s  %-10s %-10s %-10s %-10s %5s\n",
			"TASK", "DUR", "ES", "EF", "LS", "LF", "SLACK")
		for _, id := range scheduleOrder(sched) {
			ts := sched.Tasks[id]
			row := fmt.Sprintf("  %-24s %3dd  %-10s %-10s %-10s %-10s %4dd",
				id, ts.DurationDays,
				sched.EarliestStartDate(id).Format("2006-01-02"),
				sched.EarliestFinishDate(id).Format("2006-01-02"),
				sched.LatestStartDate(id).Format("2006-01-02"),
				sched.LatestFinishDate(id).Format("2006-01-02"),
				ts.TotalSlack)
			if ts.Critical {
				row = red(row)
			}
			fmt.Println(row)
		}

		fmt.Println()
		fmt.Printf("  Critical path: %s\n", red(strings.Join(sched.CriticalPath, " → ")))
		fmt.Println()
	},
}

// scheduleOrder sorts task ids by earliest start, then id, for stable output.
func scheduleOrder(sched *schedule.Schedule) []string {
	ids := make([]string, 0, len(sched.Tasks))
	for id := range sched.Tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := sched.Tasks[ids[i]], sched.Tasks[ids[j]]
		if a.EarliestStart != b.EarliestStart {
			return a.EarliestStart < b.EarliestStart
		}
		return ids[i] < ids[j]
	})
	return ids
}

func init() {
	rootCmd.AddCommand(cpmCmd)
}
