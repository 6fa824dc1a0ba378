package schedule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

func ptr[T any](v T) *T { return &v }

// Extending A's end date pushes its finish-to-start successor: B must appear
// in the propagation set with a new start equal to the day after A's new end.
func TestApplySchedulePatch_PropagatesToSuccessor(t *testing.T) {
	tasks := []types.Task{task("a", 1, 5), task("b", 6, 10)}
	deps := []types.TaskDependency{fs("a", "b", 0)}

	res, err := ApplySchedulePatch(tasks, deps, "a", SchedulePatch{EndDate: ptr(day(8))})
	require.NoError(t, err)

	assert.Equal(t, day(8), res.Updated.EndDate)
	require.Len(t, res.Propagation, 1)

	shift := res.Propagation[0]
	assert.Equal(t, "b", shift.TaskID)
	assert.Equal(t, day(6), shift.OldStartDate)
	assert.Equal(t, day(9), shift.NewStartDate)
	assert.Equal(t, day(10), shift.OldEndDate)
	assert.Equal(t, day(13), shift.NewEndDate)

	assert.Equal(t, 13, res.After.DurationDays)
	assert.Equal(t, 10, res.Before.DurationDays)
}

func TestApplySchedulePatch_TransitivePropagation(t *testing.T) {
	tasks := []types.Task{task("a", 1, 5), task("b", 6, 10), task("c", 11, 12)}
	deps := []types.TaskDependency{fs("a", "b", 0), fs("b", "c", 0)}

	res, err := ApplySchedulePatch(tasks, deps, "a", SchedulePatch{EndDate: ptr(day(7))})
	require.NoError(t, err)

	require.Len(t, res.Propagation, 2)
	assert.Equal(t, "b", res.Propagation[0].TaskID)
	assert.Equal(t, "c", res.Propagation[1].TaskID)
	assert.Equal(t, day(13), res.Propagation[1].NewStartDate)
}

func TestApplySchedulePatch_NoDependentsNoPropagation(t *testing.T) {
	tasks := []types.Task{task("a", 1, 5), task("b", 6, 10)}

	res, err := ApplySchedulePatch(tasks, nil, "a", SchedulePatch{EndDate: ptr(day(7))})
	require.NoError(t, err)
	assert.Empty(t, res.Propagation)
}

func TestApplySchedulePatch_ShrinkingPullsSuccessorEarlier(t *testing.T) {
	tasks := []types.Task{task("a", 1, 5), task("b", 6, 10)}
	deps := []types.TaskDependency{fs("a", "b", 0)}

	res, err := ApplySchedulePatch(tasks, deps, "a", SchedulePatch{EndDate: ptr(day(3))})
	require.NoError(t, err)

	require.Len(t, res.Propagation, 1)
	assert.Equal(t, day(4), res.Propagation[0].NewStartDate)
	assert.Equal(t, 8, res.After.DurationDays)
}

func TestApplySchedulePatch_CriticalityCanFlip(t *testing.T) {
	// Two branches joining at d; initially b's branch is longer.
	tasks := []types.Task{task("a", 1, 3), task("b", 1, 8), task("d", 9, 10)}
	deps := []types.TaskDependency{fs("a", "d", 0), fs("b", "d", 0)}

	res, err := ApplySchedulePatch(tasks, deps, "a", SchedulePatch{EndDate: ptr(day(12))})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "d"}, res.Before.CriticalPath)
	assert.Equal(t, []string{"a", "d"}, res.After.CriticalPath)
	assert.True(t, res.After.Tasks["a"].Critical)
	assert.False(t, res.After.Tasks["b"].Critical)
}

func TestApplySchedulePatch_UnknownTask(t *testing.T) {
	tasks := []types.Task{task("a", 1, 5)}
	_, err := ApplySchedulePatch(tasks, nil, "ghost", SchedulePatch{EndDate: ptr(day(9))})
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestApplySchedulePatch_InvalidRange(t *testing.T) {
	tasks := []types.Task{task("a", 3, 5)}
	_, err := ApplySchedulePatch(tasks, nil, "a", SchedulePatch{EndDate: ptr(day(1))})

	var rangeErr *types.InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)
}

func TestApplySchedulePatch_BothDates(t *testing.T) {
	tasks := []types.Task{task("a", 1, 5)}

	res, err := ApplySchedulePatch(tasks, nil, "a", SchedulePatch{
		StartDate: ptr(day(3)),
		EndDate:   ptr(day(9)),
	})
	require.NoError(t, err)
	assert.Equal(t, day(3), res.Updated.StartDate)
	assert.Equal(t, day(9), res.Updated.EndDate)
	assert.Equal(t, 9, res.After.DurationDays)
}

func TestApplySchedulePatch_InputSlicesUntouched(t *testing.T) {
	tasks := []types.Task{task("a", 1, 5), task("b", 6, 10)}
	deps := []types.TaskDependency{fs("a", "b", 0)}
	original := tasks[0]

	_, err := ApplySchedulePatch(tasks, deps, "a", SchedulePatch{EndDate: ptr(day(8))})
	require.NoError(t, err)
	assert.Equal(t, original, tasks[0])
}

func TestApplySchedulePatch_EmptyPatchIsNoop(t *testing.T) {
	tasks := []types.Task{task("a", 1, 5), task("b", 6, 10)}
	deps := []types.TaskDependency{fs("a", "b", 0)}

	res, err := ApplySchedulePatch(tasks, deps, "a", SchedulePatch{})
	require.NoError(t, err)
	assert.Empty(t, res.Propagation)
	assert.Equal(t, res.Before.DurationDays, res.After.DurationDays)
}
