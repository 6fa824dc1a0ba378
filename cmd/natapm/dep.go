package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

var (
	depAddType string
	depAddLag  int
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Manage dependency edges between tasks",
}

var depAddCmd = &cobra.Command{
	Use:   "add <predecessor-id> <successor-id>",
	Short: "Add a dependency edge",
	Long: `Add a typed dependency edge between two tasks of the same project.

Types (--type):
  fs  finish-to-start: successor starts after predecessor finishes (default)
  ss  start-to-start:  successor starts after predecessor starts
  ff  finish-to-finish: successor finishes after predecessor finishes
  sf  start-to-finish: successor finishes after predecessor starts

Lag (--lag) is in calendar days and may be negative (a lead). Edges that
would close a cycle are rejected before anything is written.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		depType, err := parseDependencyType(depAddType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		dep := &types.TaskDependency{
			PredecessorID: args[0],
			SuccessorID:   args[1],
			Type:          depType,
			LagDays:       depAddLag,
		}
		sched, err := svc.AddTaskDependency(ctx, dep, actor)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Added dependency %s → %s (%s", green("✓"), args[0], args[1], depType)
		if depAddLag != 0 {
			fmt.Printf(", lag %+dd", depAddLag)
		}
		fmt.Printf(")\n")
		fmt.Printf("  Project duration is now %d days\n", sched.DurationDays)
	},
}

var depRmCmd = &cobra.Command{
	Use:   "rm <predecessor-id> <successor-id>",
	Short: "Remove a dependency edge",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		sched, err := svc.RemoveTaskDependency(ctx, args[0], args[1], actor)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Removed dependency %s → %s\n", green("✓"), args[0], args[1])
		fmt.Printf("  Project duration is now %d days\n", sched.DurationDays)
	},
}

var depListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the project's dependency edges",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		deps, err := svc.ListDependencies(ctx, projectID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		if len(deps) == 0 {
			fmt.Printf("%s\n", gray("No dependencies"))
			return
		}

		for _, dep := range deps {
			lag := ""
			if dep.LagDays != 0 {
				lag = fmt.Sprintf(" lag %+dd", dep.LagDays)
			}
			fmt.Printf("%s → %s (%s%s)\n", dep.PredecessorID, dep.SuccessorID, dep.Type, lag)
		}
	},
}

// parseDependencyType accepts the short aliases (fs, ss, ff, sf) as well as
// the full stored names.
func parseDependencyType(value string) (types.DependencyType, error) {
	switch strings.ToLower(value) {
	case "fs", string(types.DepFinishToStart):
		return types.DepFinishToStart, nil
	case "ss", string(types.DepStartToStart):
		return types.DepStartToStart, nil
	case "ff", string(types.DepFinishToFinish):
		return types.DepFinishToFinish, nil
	case "sf", string(types.DepStartToFinish):
		return types.DepStartToFinish, nil
	}
	return "", fmt.Errorf("invalid dependency type %q: expected fs, ss, ff, or sf", value)
}

func init() {
	rootCmd.AddCommand(depCmd)
	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depRmCmd)
	depCmd.AddCommand(depListCmd)

	depAddCmd.Flags().StringVar(&depAddType, "type", "fs", "Dependency type: fs, ss, ff, or sf")
	depAddCmd.Flags().IntVar(&depAddLag, "lag", 0, "Lag in calendar days (negative for a lead)")
}
