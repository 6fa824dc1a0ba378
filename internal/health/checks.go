package health

import (
	"context"
	"fmt"

	"github.com/Latif080790/NataCarePM-sub017/internal/schedule"
	"github.com/Latif080790/NataCarePM-sub017/internal/storage"
	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

// ScheduleCheck verifies that the project's dependency graph still computes:
// no cycles, no dangling references. A healthy plan reports its makespan.
type ScheduleCheck struct{}

func (c *ScheduleCheck) Name() string { return "schedule" }

func (c *ScheduleCheck) Description() string {
	return "dependency graph is acyclic and the schedule computes"
}

func (c *ScheduleCheck) Run(ctx context.Context, store storage.Storage, projectID string) (*Result, error) {
	taskPtrs, err := store.ListTasks(ctx, types.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	depPtrs, err := store.ListDependencies(ctx, projectID)
	if err != nil {
		return nil, err
	}

	tasks := make([]types.Task, 0, len(taskPtrs))
	for _, t := range taskPtrs {
		tasks = append(tasks, *t)
	}
	deps := make([]types.TaskDependency, 0, len(depPtrs))
	for _, d := range depPtrs {
		deps = append(deps, *d)
	}

	sched, err := schedule.CalculateCriticalPath(tasks, deps)
	if err != nil {
		return &Result{
			Status:  StatusCritical,
			Message: fmt.Sprintf("schedule does not compute: %v", err),
		}, nil
	}
	if len(sched.Tasks) == 0 {
		return &Result{Status: StatusOK, Message: "no tasks yet"}, nil
	}
	return &Result{
		Status:  StatusOK,
		Message: fmt.Sprintf("%d tasks, %d day makespan", len(sched.Tasks), sched.DurationDays),
	}, nil
}

// StaleTasksCheck finds tasks flagged with stale dates, the manual-mode
// residue of unresolved schedule drift.
type StaleTasksCheck struct{}

func (c *StaleTasksCheck) Name() string { return "stale-tasks" }

func (c *StaleTasksCheck) Description() string {
	return "no tasks are waiting on a manual date resolution"
}

func (c *StaleTasksCheck) Run(ctx context.Context, store storage.Storage, projectID string) (*Result, error) {
	stale := true
	tasks, err := store.ListTasks(ctx, types.TaskFilter{ProjectID: projectID, Stale: &stale})
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return &Result{Status: StatusOK, Message: "no stale tasks"}, nil
	}

	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return &Result{
		Status:  StatusWarning,
		Message: fmt.Sprintf("%d task(s) have stale dates", len(ids)),
		Details: ids,
	}, nil
}

// ResourceLoadCheck finds resources whose committed allocations sum past
// full capacity. The sum ignores date ranges, so it over-reports for
// resources allocated sequentially; it is a prompt to look, not a verdict.
type ResourceLoadCheck struct{}

func (c *ResourceLoadCheck) Name() string { return "resource-load" }

func (c *ResourceLoadCheck) Description() string {
	return "no resource's committed allocations sum past 100%"
}

func (c *ResourceLoadCheck) Run(ctx context.Context, store storage.Storage, projectID string) (*Result, error) {
	loads, err := store.GetResourceLoad(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var over []string
	for _, load := range loads {
		if load.TotalPercent > 100 {
			over = append(over, fmt.Sprintf("%s (%d%%)", load.ResourceID, load.TotalPercent))
		}
	}
	if len(over) == 0 {
		return &Result{
			Status:  StatusOK,
			Message: fmt.Sprintf("%d resource(s) within capacity", len(loads)),
		}, nil
	}
	return &Result{
		Status:  StatusWarning,
		Message: fmt.Sprintf("%d resource(s) committed past 100%%", len(over)),
		Details: over,
	}, nil
}
