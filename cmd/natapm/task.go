package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Latif080790/NataCarePM-sub017/internal/engine"
	"github.com/Latif080790/NataCarePM-sub017/internal/schedule"
	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

var (
	taskAddID    string
	taskAddName  string
	taskAddStart string
	taskAddEnd   string

	taskUpdateStart string
	taskUpdateEnd   string

	taskListStale bool
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a task to the project",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		start, err := parseDateArg("start", taskAddStart)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		end, err := parseDateArg("end", taskAddEnd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		task := &types.Task{
			ID:        taskAddID,
			ProjectID: projectID,
			Name:      taskAddName,
			StartDate: start,
			EndDate:   end,
		}
		if err := svc.CreateTask(ctx, task, actor); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("%s Created task %s\n", green("✓"), cyan(task.ID))
		fmt.Printf("  %s  %s → %s (%dd)\n", task.Name,
			task.StartDate.Format("2006-01-02"), task.EndDate.Format("2006-01-02"),
			task.DurationDays())
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Change a task's dates and propagate the consequences",
	Long: `Change a task's start and/or end date. Downstream tasks whose dependency
constraints are violated by the change are shifted: in auto scheduling mode
their stored dates are rewritten, in manual mode they are flagged stale for
a human to resolve.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		var patch schedule.SchedulePatch
		if taskUpdateStart != "" {
			start, err := parseDateArg("start", taskUpdateStart)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			patch.StartDate = &start
		}
		if taskUpdateEnd != "" {
			end, err := parseDateArg("end", taskUpdateEnd)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			patch.EndDate = &end
		}
		if patch.StartDate == nil && patch.EndDate == nil {
			fmt.Fprintf(os.Stderr, "Error: at least one of --start or --end is required\n")
			os.Exit(1)
		}

		result, err := svc.UpdateTaskSchedule(ctx, args[0], patch, actor)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%s Rescheduled %s to %s → %s\n", green("✓"), args[0],
			result.Updated.StartDate.Format("2006-01-02"),
			result.Updated.EndDate.Format("2006-01-02"))

		if len(result.Propagation) > 0 {
			if svc.Mode() == engine.ModeAuto {
				fmt.Printf("  Shifted %d dependent task(s):\n", len(result.Propagation))
				for _, shift := range result.Propagation {
					fmt.Printf("    %s: %s → %s (was %s → %s)\n", shift.TaskID,
						shift.NewStartDate.Format("2006-01-02"), shift.NewEndDate.Format("2006-01-02"),
						shift.OldStartDate.Format("2006-01-02"), shift.OldEndDate.Format("2006-01-02"))
				}
			} else {
				fmt.Printf("  %s %d dependent task(s) flagged with stale dates\n",
					yellow("⚠"), len(result.Propagation))
				fmt.Printf("  Run 'natapm task list --stale' to review them\n")
			}
		}
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the project's tasks",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		filter := types.TaskFilter{ProjectID: projectID}
		if taskListStale {
			stale := true
			filter.Stale = &stale
		}
		tasks, err := svc.ListTasks(ctx, filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()

		if len(tasks) == 0 {
			fmt.Printf("%s\n", gray("No tasks"))
			return
		}

		for _, task := range tasks {
			marker := " "
			if task.CompletedAt != nil {
				marker = green("✓")
			}
			line := fmt.Sprintf("%s %-24s %s → %s (%dd)", marker, task.ID,
				task.StartDate.Format("2006-01-02"), task.EndDate.Format("2006-01-02"),
				task.DurationDays())
			if task.DatesStale {
				line += " " + yellow("[stale]")
			}
			fmt.Println(line)
			fmt.Printf("    %s\n", gray(task.Name))
		}
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		if err := svc.CompleteTask(ctx, args[0], actor); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Completed task %s\n", green("✓"), args[0])
	},
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDoneCmd)

	taskAddCmd.Flags().StringVar(&taskAddID, "id", "", "Task ID (default: generated UUID)")
	taskAddCmd.Flags().StringVar(&taskAddName, "name", "", "Task name (required)")
	taskAddCmd.Flags().StringVar(&taskAddStart, "start", "", "Start date, YYYY-MM-DD (required)")
	taskAddCmd.Flags().StringVar(&taskAddEnd, "end", "", "End date, YYYY-MM-DD, inclusive (required)")
	_ = taskAddCmd.MarkFlagRequired("name")
	_ = taskAddCmd.MarkFlagRequired("start")
	_ = taskAddCmd.MarkFlagRequired("end")

	taskUpdateCmd.Flags().StringVar(&taskUpdateStart, "start", "", "New start date, YYYY-MM-DD")
	taskUpdateCmd.Flags().StringVar(&taskUpdateEnd, "end", "", "New end date, YYYY-MM-DD, inclusive")

	taskListCmd.Flags().BoolVar(&taskListStale, "stale", false, "Only show tasks with stale dates")
}
