package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validTask() Task {
	return Task{
		ID:        "t-1",
		ProjectID: "p-1",
		Name:      "Pour foundation",
		StartDate: date(2026, time.January, 1),
		EndDate:   date(2026, time.January, 5),
	}
}

func TestTaskValidate(t *testing.T) {
	t.Run("valid task", func(t *testing.T) {
		task := validTask()
		assert.NoError(t, task.Validate())
	})

	t.Run("single-day task is valid", func(t *testing.T) {
		task := validTask()
		task.EndDate = task.StartDate
		assert.NoError(t, task.Validate())
	})

	t.Run("end before start", func(t *testing.T) {
		task := validTask()
		task.EndDate = date(2025, time.December, 31)
		assert.Error(t, task.Validate())
	})

	t.Run("missing fields", func(t *testing.T) {
		for _, mutate := range []func(*Task){
			func(x *Task) { x.ID = "" },
			func(x *Task) { x.ProjectID = "" },
			func(x *Task) { x.Name = "" },
			func(x *Task) { x.StartDate = time.Time{} },
		} {
			task := validTask()
			mutate(&task)
			assert.Error(t, task.Validate())
		}
	})
}

func TestTaskDurationDays(t *testing.T) {
	task := validTask()
	assert.Equal(t, 5, task.DurationDays())

	task.EndDate = task.StartDate
	assert.Equal(t, 1, task.DurationDays())
}

func TestDaysBetweenInclusive(t *testing.T) {
	assert.Equal(t, 10, DaysBetweenInclusive(date(2026, time.January, 1), date(2026, time.January, 10)))
	assert.Equal(t, 1, DaysBetweenInclusive(date(2026, time.January, 1), date(2026, time.January, 1)))
	assert.Equal(t, 0, DaysBetweenInclusive(date(2026, time.January, 2), date(2026, time.January, 1)))
}

func TestDayOfNormalizesTimeOfDay(t *testing.T) {
	late := time.Date(2026, time.March, 3, 23, 59, 0, 0, time.UTC)
	early := time.Date(2026, time.March, 3, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, DayOf(late), DayOf(early))
	assert.Equal(t, 1, DaysBetweenInclusive(early, late))
}

func TestDependencyTypeIsValid(t *testing.T) {
	for _, dt := range []DependencyType{DepFinishToStart, DepStartToStart, DepFinishToFinish, DepStartToFinish} {
		assert.True(t, dt.IsValid(), "expected %s to be valid", dt)
	}
	assert.False(t, DependencyType("blocks").IsValid())
	assert.False(t, DependencyType("").IsValid())
}

func TestTaskDependencyValidate(t *testing.T) {
	dep := TaskDependency{
		PredecessorID: "t-1",
		SuccessorID:   "t-2",
		Type:          DepFinishToStart,
		LagDays:       2,
	}
	require.NoError(t, dep.Validate())

	t.Run("self reference", func(t *testing.T) {
		d := dep
		d.SuccessorID = d.PredecessorID
		assert.Error(t, d.Validate())
	})

	t.Run("negative lag is a lead, still valid", func(t *testing.T) {
		d := dep
		d.LagDays = -3
		assert.NoError(t, d.Validate())
	})

	t.Run("bad type", func(t *testing.T) {
		d := dep
		d.Type = "overlap"
		assert.Error(t, d.Validate())
	})
}

func TestAllocationStatusTransitions(t *testing.T) {
	assert.True(t, AllocationPlanned.CanTransitionTo(AllocationActive))
	assert.True(t, AllocationPlanned.CanTransitionTo(AllocationCancelled))
	assert.True(t, AllocationActive.CanTransitionTo(AllocationCompleted))
	assert.True(t, AllocationActive.CanTransitionTo(AllocationCancelled))

	// Forward-only: no resurrection, no skipping backward.
	assert.False(t, AllocationCancelled.CanTransitionTo(AllocationPlanned))
	assert.False(t, AllocationCancelled.CanTransitionTo(AllocationActive))
	assert.False(t, AllocationCompleted.CanTransitionTo(AllocationActive))
	assert.False(t, AllocationActive.CanTransitionTo(AllocationPlanned))
	assert.False(t, AllocationPlanned.CanTransitionTo(AllocationCompleted))

	assert.Empty(t, AllocationCompleted.ValidTransitions())
	assert.Empty(t, AllocationCancelled.ValidTransitions())
}

func validAllocation() ResourceAllocation {
	return ResourceAllocation{
		ID:           "alloc-1",
		ProjectID:    "p-1",
		TaskID:       "t-1",
		ResourceID:   "r-1",
		ResourceType: ResourceWorker,
		StartDate:    date(2026, time.January, 1),
		EndDate:      date(2026, time.January, 10),
		Percent:      60,
		Status:       AllocationPlanned,
	}
}

func TestResourceAllocationValidate(t *testing.T) {
	alloc := validAllocation()
	require.NoError(t, alloc.Validate())

	t.Run("start must precede end", func(t *testing.T) {
		a := validAllocation()
		a.EndDate = a.StartDate
		assert.Error(t, a.Validate())
	})

	t.Run("zero percent rejected", func(t *testing.T) {
		a := validAllocation()
		a.Percent = 0
		assert.Error(t, a.Validate())
	})

	t.Run("invalid resource type", func(t *testing.T) {
		a := validAllocation()
		a.ResourceType = "robot"
		assert.Error(t, a.Validate())
	})

	t.Run("invalid status", func(t *testing.T) {
		a := validAllocation()
		a.Status = "archived"
		assert.Error(t, a.Validate())
	})
}

func TestAllocationOverlaps(t *testing.T) {
	alloc := validAllocation() // 1-10 Jan

	assert.True(t, alloc.Overlaps(date(2026, time.January, 5), date(2026, time.January, 15)))
	assert.True(t, alloc.Overlaps(date(2026, time.January, 10), date(2026, time.January, 20)))
	assert.False(t, alloc.Overlaps(date(2026, time.January, 11), date(2026, time.January, 20)))
	assert.False(t, alloc.Overlaps(date(2025, time.December, 1), date(2025, time.December, 31)))
}
