package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Latif080790/NataCarePM-sub017/internal/events"
)

var (
	eventsTask  string
	eventsLimit int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the project's audit trail, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		var (
			evts []*events.Event
			err  error
		)
		if eventsTask != "" {
			evts, err = store.GetEventsByTask(ctx, eventsTask, eventsLimit)
		} else {
			evts, err = svc.Events(ctx, projectID, eventsLimit)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		if len(evts) == 0 {
			fmt.Printf("%s\n", gray("No events"))
			return
		}

		yellow := color.New(color.FgYellow).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		for _, e := range evts {
			severity := string(e.Severity)
			switch e.Severity {
			case events.SeverityWarning:
				severity = yellow(severity)
			case events.SeverityError:
				severity = red(severity)
			}
			fmt.Printf("%s %-8s %-24s %s\n",
				e.Timestamp.Format("2006-01-02 15:04:05"), severity, e.Type, e.Message)
			if e.TaskID != "" {
				fmt.Printf("  %s\n", gray(fmt.Sprintf("task %s, by %s", e.TaskID, e.Actor)))
			} else {
				fmt.Printf("  %s\n", gray(fmt.Sprintf("by %s", e.Actor)))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().StringVar(&eventsTask, "task", "", "Show events for one task instead of the whole project")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 50, "Maximum number of events to show (0 for all)")
}
