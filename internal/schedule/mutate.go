package schedule

import (
	"sort"
	"time"

	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

// SchedulePatch is a partial update to one task's dates. Nil fields are left
// unchanged.
type SchedulePatch struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// TaskShift describes one downstream task whose computed earliest dates
// moved as a consequence of a schedule mutation. Dates are calendar dates
// (not offsets) so they stay comparable even when the mutation moved the
// project anchor itself.
type TaskShift struct {
	TaskID string `json:"task_id"`

	OldStartDate time.Time `json:"old_start_date"`
	NewStartDate time.Time `json:"new_start_date"`
	OldEndDate   time.Time `json:"old_end_date"`
	NewEndDate   time.Time `json:"new_end_date"`
}

// MutationResult carries everything a caller needs to commit (or merely
// flag) a schedule change. The mutator itself never writes anywhere: it
// computes on copies and returns the deltas, leaving the auto-vs-manual
// persistence decision to the caller.
type MutationResult struct {
	// Updated is the target task with the patch applied.
	Updated types.Task `json:"updated"`

	// Before and After are the full schedules from the previous and the
	// proposed snapshots.
	Before *Schedule `json:"before"`
	After  *Schedule `json:"after"`

	// Propagation lists every other task whose computed earliest start or
	// finish changed, sorted by task id. The patched task itself is not
	// included.
	Propagation []TaskShift `json:"propagation"`
}

// ApplySchedulePatch updates one task's dates on a copy of the snapshot and
// recomputes the whole project schedule. A local change can shift every
// downstream date and change which tasks are critical, so the recomputation
// is always global.
//
// Fails with types.ErrNotFound for an unknown task id and with *types.InvalidRangeError
// when the patched dates are inverted. The input slices are never mutated.
func ApplySchedulePatch(tasks []types.Task, deps []types.TaskDependency, taskID string, patch SchedulePatch) (*MutationResult, error) {
	before, err := CalculateCriticalPath(tasks, deps)
	if err != nil {
		return nil, err
	}

	proposed := make([]types.Task, len(tasks))
	copy(proposed, tasks)

	idx := -1
	for i := range proposed {
		if proposed[i].ID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, types.ErrNotFound
	}

	if patch.StartDate != nil {
		proposed[idx].StartDate = types.DayOf(*patch.StartDate)
	}
	if patch.EndDate != nil {
		proposed[idx].EndDate = types.DayOf(*patch.EndDate)
	}
	if types.DayOf(proposed[idx].EndDate).Before(types.DayOf(proposed[idx].StartDate)) {
		return nil, &types.InvalidRangeError{Reason: "end_date precedes start_date"}
	}

	after, err := CalculateCriticalPath(proposed, deps)
	if err != nil {
		return nil, err
	}

	result := &MutationResult{
		Updated: proposed[idx],
		Before:  before,
		After:   after,
	}

	for id := range after.Tasks {
		if id == taskID {
			continue
		}
		oldStart, newStart := before.EarliestStartDate(id), after.EarliestStartDate(id)
		oldEnd, newEnd := before.EarliestFinishDate(id), after.EarliestFinishDate(id)
		if oldStart.Equal(newStart) && oldEnd.Equal(newEnd) {
			continue
		}
		result.Propagation = append(result.Propagation, TaskShift{
			TaskID:       id,
			OldStartDate: oldStart,
			NewStartDate: newStart,
			OldEndDate:   oldEnd,
			NewEndDate:   newEnd,
		})
	}
	sort.Slice(result.Propagation, func(i, j int) bool {
		return result.Propagation[i].TaskID < result.Propagation[j].TaskID
	})

	return result, nil
}
