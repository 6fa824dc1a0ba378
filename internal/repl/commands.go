package repl

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/fatih/color"

	"github.com/Latif080790/NataCarePM-sub017/internal/events"
	"github.com/Latif080790/NataCarePM-sub017/internal/schedule"
	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

const dateLayout = "2006-01-02"

// cmdTasks lists the project's tasks
func (r *REPL) cmdTasks(args []string) error {
	tasks, err := r.svc.ListTasks(r.ctx, types.TaskFilter{ProjectID: r.projectID})
	if err != nil {
		return err
	}

	gray := color.New(color.FgHiBlack).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	if len(tasks) == 0 {
		fmt.Printf("  %s\n", gray("No tasks"))
		return nil
	}

	for _, task := range tasks {
		marker := " "
		if task.CompletedAt != nil {
			marker = "✓"
		}
		line := fmt.Sprintf("  %s %-24s %s → %s (%dd)",
			marker, task.ID,
			task.StartDate.Format(dateLayout), task.EndDate.Format(dateLayout),
			task.DurationDays())
		if task.DatesStale {
			line += " " + yellow("[stale]")
		}
		fmt.Println(line)
		fmt.Printf("      %s\n", gray(task.Name))
	}
	return nil
}

// cmdDeps lists the project's dependency edges
func (r *REPL) cmdDeps(args []string) error {
	deps, err := r.svc.ListDependencies(r.ctx, r.projectID)
	if err != nil {
		return err
	}

	gray := color.New(color.FgHiBlack).SprintFunc()
	if len(deps) == 0 {
		fmt.Printf("  %s\n", gray("No dependencies"))
		return nil
	}

	for _, dep := range deps {
		lag := ""
		if dep.LagDays != 0 {
			lag = fmt.Sprintf(" lag %+dd", dep.LagDays)
		}
		fmt.Printf("  %s → %s (%s%s)\n", dep.PredecessorID, dep.SuccessorID, dep.Type, lag)
	}
	return nil
}

// cmdCPM computes and prints the project schedule
func (r *REPL) cmdCPM(args []string) error {
	sched, err := r.svc.CriticalPath(r.ctx, r.projectID)
	if err != nil {
		return err
	}

	gray := color.New(color.FgHiBlack).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	if len(sched.Tasks) == 0 {
		fmt.Printf("  %s\n", gray("No tasks to schedule"))
		return nil
	}

	fmt.Printf("  Anchor:   %s\n", sched.Anchor.Format(dateLayout))
	fmt.Printf("  Duration: %d days\n", sched.DurationDays)
	fmt.Printf("  Critical: %s\n", red(joinPath(sched.CriticalPath)))
	fmt.Println()

	for _, id := range sortedTaskIDs(sched.Tasks) {
		ts := sched.Tasks[id]
		name := id
		if ts.Critical {
			name = red(id)
		}
		fmt.Printf("  %-24s ES %s  LS %s  slack %dd\n",
			name,
			sched.EarliestStartDate(id).Format(dateLayout),
			sched.LatestStartDate(id).Format(dateLayout),
			ts.TotalSlack)
	}
	return nil
}

// cmdAllocs lists the project's resource allocations
func (r *REPL) cmdAllocs(args []string) error {
	allocs, err := r.svc.ListAllocations(r.ctx, types.AllocationFilter{ProjectID: r.projectID})
	if err != nil {
		return err
	}

	gray := color.New(color.FgHiBlack).SprintFunc()
	if len(allocs) == 0 {
		fmt.Printf("  %s\n", gray("No allocations"))
		return nil
	}

	for _, a := range allocs {
		fmt.Printf("  %-12s %s %d%% on %s  %s → %s  %s  est %s\n",
			a.ResourceID, a.ResourceType, a.Percent, a.TaskID,
			a.StartDate.Format(dateLayout), a.EndDate.Format(dateLayout),
			a.Status, formatCents(a.EstimatedCostCents))
	}
	return nil
}

// cmdEvents shows the most recent audit events
func (r *REPL) cmdEvents(args []string) error {
	limit := 20
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("usage: events [n]")
		}
		limit = n
	}

	evts, err := r.svc.Events(r.ctx, r.projectID, limit)
	if err != nil {
		return err
	}

	gray := color.New(color.FgHiBlack).SprintFunc()
	if len(evts) == 0 {
		fmt.Printf("  %s\n", gray("No events"))
		return nil
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
		fmt.Printf("  %s %-8s %-22s %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), severity, e.Type, e.Message)
	}
	return nil
}

// sortedTaskIDs orders tasks by earliest start, then id, for stable output.
func sortedTaskIDs(tasks map[string]schedule.TaskSchedule) []string {
	ids := make([]string, 0, len(tasks))
	for id := range tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := tasks[ids[i]], tasks[ids[j]]
		if a.EarliestStart != b.EarliestStart {
			return a.EarliestStart < b.EarliestStart
		}
		return ids[i] < ids[j]
	})
	return ids
}

func joinPath(path []string) string {
	out := ""
	for i, id := range path {
		if i > 0 {
			out += " → "
		}
		out += id
	}
	return out
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
