// Package engine orchestrates the pure scheduling computations against the
// storage layer. The schedule package computes on snapshots and never
// persists; Service is the caller that takes snapshots, serializes mutations
// per project, and decides what the results mean for stored dates (auto
// propagation versus stale flagging).
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/Latif080790/NataCarePM-sub017/internal/allocation"
	"github.com/Latif080790/NataCarePM-sub017/internal/events"
	"github.com/Latif080790/NataCarePM-sub017/internal/schedule"
	"github.com/Latif080790/NataCarePM-sub017/internal/storage"
	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

// Service is the scheduling engine's public face.
type Service struct {
	store     storage.Storage
	cfg       ServiceConfig
	validator *allocation.Validator

	mu            sync.Mutex
	projectLocks  map[string]*sync.Mutex
	resourceLocks map[string]*sync.Mutex

	// cpGroup collapses concurrent critical-path requests for the same
	// project into one computation.
	cpGroup singleflight.Group

	// limiter paces the background recompute loop. Nil when disabled.
	limiter *rate.Limiter
}

// NewService creates an engine service over the given storage backend.
func NewService(store storage.Storage, cfg ServiceConfig) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	validator, err := allocation.NewValidator(cfg.Allocation.Config())
	if err != nil {
		return nil, err
	}

	s := &Service{
		store:         store,
		cfg:           cfg,
		validator:     validator,
		projectLocks:  make(map[string]*sync.Mutex),
		resourceLocks: make(map[string]*sync.Mutex),
	}
	if every, _ := cfg.recomputeEvery(); every > 0 {
		s.limiter = rate.NewLimiter(rate.Every(every), 1)
	}
	return s, nil
}

// Mode returns the configured scheduling mode.
func (s *Service) Mode() SchedulingMode {
	return s.cfg.Mode
}

// projectLock returns the mutex serializing mutations of one project.
func (s *Service) projectLock(projectID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.projectLocks[projectID]
	if !ok {
		lock = &sync.Mutex{}
		s.projectLocks[projectID] = lock
	}
	return lock
}

// resourceLock returns the mutex serializing allocations of one resource.
// Capacity is global across projects, so the project lock cannot serialize
// the read-validate-insert window of the allocation path; two projects
// allocating the same resource must contend on the same lock.
func (s *Service) resourceLock(resourceID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.resourceLocks[resourceID]
	if !ok {
		lock = &sync.Mutex{}
		s.resourceLocks[resourceID] = lock
	}
	return lock
}

// snapshot reads a project's tasks and dependencies as value slices, the
// form the pure scheduling functions consume.
func (s *Service) snapshot(ctx context.Context, projectID string) ([]types.Task, []types.TaskDependency, error) {
	taskPtrs, err := s.store.ListTasks(ctx, types.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, nil, err
	}
	depPtrs, err := s.store.ListDependencies(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	tasks := make([]types.Task, 0, len(taskPtrs))
	for _, t := range taskPtrs {
		tasks = append(tasks, *t)
	}
	deps := make([]types.TaskDependency, 0, len(depPtrs))
	for _, d := range depPtrs {
		deps = append(deps, *d)
	}
	return tasks, deps, nil
}

// CriticalPath computes the project's full schedule: earliest/latest dates,
// slack, and the critical path. Concurrent calls for the same project share
// one computation.
func (s *Service) CriticalPath(ctx context.Context, projectID string) (*schedule.Schedule, error) {
	v, err, _ := s.cpGroup.Do(projectID, func() (interface{}, error) {
		tasks, deps, err := s.snapshot(ctx, projectID)
		if err != nil {
			return nil, err
		}
		return schedule.CalculateCriticalPath(tasks, deps)
	})
	if err != nil {
		return nil, err
	}
	return v.(*schedule.Schedule), nil
}

// AddTaskDependency creates a dependency edge and settles the project's
// schedule around it. The storage layer proves acyclicity before the edge is
// written; nothing is persisted when the edge is rejected.
func (s *Service) AddTaskDependency(ctx context.Context, dep *types.TaskDependency, actor string) (*schedule.Schedule, error) {
	succ, err := s.store.GetTask(ctx, dep.SuccessorID)
	if errors.Is(err, types.ErrNotFound) {
		return nil, &types.ReferenceError{TaskID: dep.SuccessorID, Role: "successor"}
	}
	if err != nil {
		return nil, err
	}

	lock := s.projectLock(succ.ProjectID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.AddDependency(ctx, dep, actor); err != nil {
		return nil, err
	}
	return s.settleSchedule(ctx, succ.ProjectID, actor)
}

// RemoveTaskDependency deletes a dependency edge and settles the schedule.
func (s *Service) RemoveTaskDependency(ctx context.Context, predecessorID, successorID, actor string) (*schedule.Schedule, error) {
	succ, err := s.store.GetTask(ctx, successorID)
	if err != nil {
		return nil, err
	}

	lock := s.projectLock(succ.ProjectID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.RemoveDependency(ctx, predecessorID, successorID, actor); err != nil {
		return nil, err
	}
	return s.settleSchedule(ctx, succ.ProjectID, actor)
}

// settleSchedule recomputes a project's schedule after a dependency change
// and reconciles stored dates with the computed earliest dates: auto mode
// rewrites them, manual mode flags the drifted tasks stale. Must be called
// with the project lock held.
func (s *Service) settleSchedule(ctx context.Context, projectID, actor string) (*schedule.Schedule, error) {
	tasks, deps, err := s.snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	sched, err := schedule.CalculateCriticalPath(tasks, deps)
	if err != nil {
		return nil, err
	}

	shifts := driftedTasks(tasks, sched)
	if len(shifts) > 0 {
		if s.cfg.Mode == ModeAuto {
			if err := s.store.ApplyTaskShifts(ctx, shifts); err != nil {
				return nil, err
			}
		} else {
			ids := shiftIDs(shifts)
			if err := s.store.SetDatesStale(ctx, ids, true); err != nil {
				return nil, err
			}
			stale := events.NewSimpleEvent(events.EventTypeTasksFlaggedStale, projectID, "", actor,
				events.SeverityWarning,
				fmt.Sprintf("%d task(s) have stale dates after dependency change", len(ids)))
			if err := s.store.StoreEvent(ctx, stale); err != nil {
				return nil, err
			}
		}
	}

	event, err := events.NewScheduleRecomputedEvent(projectID, actor,
		fmt.Sprintf("recomputed schedule: %d tasks, %d days", len(sched.Tasks), sched.DurationDays),
		events.ScheduleRecomputedData{
			TaskCount:    len(sched.Tasks),
			DurationDays: sched.DurationDays,
			CriticalPath: sched.CriticalPath,
		})
	if err != nil {
		return nil, err
	}
	if err := s.store.StoreEvent(ctx, event); err != nil {
		return nil, err
	}
	return sched, nil
}

// UpdateTaskSchedule changes one task's dates and propagates the
// consequences downstream. In auto mode every shifted task's stored dates
// are rewritten; in manual mode they are flagged stale instead.
func (s *Service) UpdateTaskSchedule(ctx context.Context, taskID string, patch schedule.SchedulePatch, actor string) (*schedule.MutationResult, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	lock := s.projectLock(task.ProjectID)
	lock.Lock()
	defer lock.Unlock()

	tasks, deps, err := s.snapshot(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	result, err := schedule.ApplySchedulePatch(tasks, deps, taskID, patch)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateTaskDates(ctx, taskID, result.Updated.StartDate, result.Updated.EndDate, actor); err != nil {
		return nil, err
	}

	mode := "auto"
	severity := events.SeverityInfo
	shiftedIDs := shiftIDs(result.Propagation)
	if len(result.Propagation) > 0 {
		if s.cfg.Mode == ModeAuto {
			if err := s.store.ApplyTaskShifts(ctx, result.Propagation); err != nil {
				return nil, err
			}
		} else {
			mode = "manual"
			severity = events.SeverityWarning
			if err := s.store.SetDatesStale(ctx, shiftedIDs, true); err != nil {
				return nil, err
			}
		}
	} else if s.cfg.Mode == ModeManual {
		mode = "manual"
	}

	event, err := events.NewScheduleUpdatedEvent(task.ProjectID, taskID, actor,
		fmt.Sprintf("rescheduled task %s (%d dependent task(s) affected)", taskID, len(shiftedIDs)),
		severity,
		events.ScheduleUpdatedData{
			OldStartDate:   task.StartDate,
			OldEndDate:     task.EndDate,
			NewStartDate:   result.Updated.StartDate,
			NewEndDate:     result.Updated.EndDate,
			ShiftedTaskIDs: shiftedIDs,
			Mode:           mode,
		})
	if err != nil {
		return nil, err
	}
	if err := s.store.StoreEvent(ctx, event); err != nil {
		return nil, err
	}
	return result, nil
}

// AllocateResource validates a resource allocation request against the
// configured policy and the resource's committed load, derives the cost
// estimate, and persists the allocation in planned status.
func (s *Service) AllocateResource(ctx context.Context, req allocation.Request, actor string) (*types.ResourceAllocation, error) {
	task, err := s.store.GetTask(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}
	req.ProjectID = task.ProjectID

	lock := s.resourceLock(req.ResourceID)
	lock.Lock()
	defer lock.Unlock()

	// A resource's capacity is global, so the committed load is read across
	// projects.
	existingPtrs, err := s.store.ListAllocations(ctx, types.AllocationFilter{
		ResourceID: req.ResourceID,
		Statuses:   []types.AllocationStatus{types.AllocationPlanned, types.AllocationActive},
	})
	if err != nil {
		return nil, err
	}
	existing := make([]types.ResourceAllocation, 0, len(existingPtrs))
	for _, a := range existingPtrs {
		existing = append(existing, *a)
	}

	if err := s.validator.Validate(req, existing); err != nil {
		return nil, err
	}

	alloc := s.validator.Build(req)
	alloc.ID = uuid.New().String()
	if err := s.store.CreateAllocation(ctx, &alloc, actor); err != nil {
		return nil, err
	}
	return &alloc, nil
}

// AdvanceAllocation moves an allocation through its lifecycle (planned →
// active → completed, cancel from any non-terminal state).
func (s *Service) AdvanceAllocation(ctx context.Context, id string, target types.AllocationStatus, actor string) error {
	return s.store.UpdateAllocationStatus(ctx, id, target, actor)
}

// RunRecomputeLoop recomputes a project's schedule at the configured
// interval until the context is cancelled. Returns an error immediately if
// no recompute_interval is configured.
func (s *Service) RunRecomputeLoop(ctx context.Context, projectID string) error {
	if s.limiter == nil {
		return fmt.Errorf("recompute_interval is not configured")
	}
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		sched, err := s.CriticalPath(ctx, projectID)
		if err != nil {
			return err
		}
		event, err := events.NewScheduleRecomputedEvent(projectID, "system",
			fmt.Sprintf("background recompute: %d tasks, %d days", len(sched.Tasks), sched.DurationDays),
			events.ScheduleRecomputedData{
				TaskCount:    len(sched.Tasks),
				DurationDays: sched.DurationDays,
				CriticalPath: sched.CriticalPath,
			})
		if err != nil {
			return err
		}
		if err := s.store.StoreEvent(ctx, event); err != nil {
			return err
		}
	}
}

// CreateTask persists a new task.
func (s *Service) CreateTask(ctx context.Context, task *types.Task, actor string) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	return s.store.CreateTask(ctx, task, actor)
}

// GetTask returns one task.
func (s *Service) GetTask(ctx context.Context, id string) (*types.Task, error) {
	return s.store.GetTask(ctx, id)
}

// ListTasks returns tasks matching the filter.
func (s *Service) ListTasks(ctx context.Context, filter types.TaskFilter) ([]*types.Task, error) {
	return s.store.ListTasks(ctx, filter)
}

// CompleteTask stamps a task's completion time.
func (s *Service) CompleteTask(ctx context.Context, id, actor string) error {
	return s.store.CompleteTask(ctx, id, actor)
}

// ListDependencies returns a project's dependency edges.
func (s *Service) ListDependencies(ctx context.Context, projectID string) ([]*types.TaskDependency, error) {
	return s.store.ListDependencies(ctx, projectID)
}

// ListAllocations returns allocations matching the filter.
func (s *Service) ListAllocations(ctx context.Context, filter types.AllocationFilter) ([]*types.ResourceAllocation, error) {
	return s.store.ListAllocations(ctx, filter)
}

// Events returns a project's audit trail, newest first.
func (s *Service) Events(ctx context.Context, projectID string, limit int) ([]*events.Event, error) {
	return s.store.GetEvents(ctx, projectID, limit)
}

// driftedTasks lists the tasks whose stored dates no longer match their
// computed earliest dates. Root tasks never drift: their computed earliest
// start is their stored start by definition.
func driftedTasks(tasks []types.Task, sched *schedule.Schedule) []schedule.TaskShift {
	var shifts []schedule.TaskShift
	for _, task := range tasks {
		if _, ok := sched.Tasks[task.ID]; !ok {
			continue
		}
		oldStart, oldEnd := types.DayOf(task.StartDate), types.DayOf(task.EndDate)
		newStart, newEnd := sched.EarliestStartDate(task.ID), sched.EarliestFinishDate(task.ID)
		if oldStart.Equal(newStart) && oldEnd.Equal(newEnd) {
			continue
		}
		shifts = append(shifts, schedule.TaskShift{
			TaskID:       task.ID,
			OldStartDate: oldStart,
			NewStartDate: newStart,
			OldEndDate:   oldEnd,
			NewEndDate:   newEnd,
		})
	}
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].TaskID < shifts[j].TaskID })
	return shifts
}

func shiftIDs(shifts []schedule.TaskShift) []string {
	ids := make([]string, 0, len(shifts))
	for _, shift := range shifts {
		ids = append(ids, shift.TaskID)
	}
	return ids
}
