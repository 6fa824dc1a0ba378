package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeIsValid(t *testing.T) {
	valid := []EventType{
		EventTypeTaskCreated,
		EventTypeTaskUpdated,
		EventTypeScheduleUpdated,
		EventTypeScheduleRecomputed,
		EventTypeDependencyAdded,
		EventTypeDependencyRemoved,
		EventTypeResourceAllocated,
		EventTypeAllocationStatusChanged,
		EventTypeTasksFlaggedStale,
	}
	for _, et := range valid {
		assert.True(t, et.IsValid(), "expected %s to be valid", et)
	}
	assert.False(t, EventType("bogus").IsValid())
	assert.False(t, EventType("").IsValid())
}

func TestNewDependencyAddedEvent(t *testing.T) {
	data := DependencyChangeData{
		PredecessorID:  "task-a",
		SuccessorID:    "task-b",
		DependencyType: "finish_to_start",
		LagDays:        2,
	}
	event, err := NewDependencyAddedEvent("proj-1", "task-b", "alice", "added dependency", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventTypeDependencyAdded, event.Type)
	assert.Equal(t, "proj-1", event.ProjectID)
	assert.Equal(t, "task-b", event.TaskID)
	assert.Equal(t, "alice", event.Actor)
	assert.Equal(t, SeverityInfo, event.Severity)
	assert.False(t, event.Timestamp.IsZero())

	got, err := event.GetDependencyChangeData()
	require.NoError(t, err)
	assert.Equal(t, data, *got)
}

func TestNewScheduleUpdatedEvent_RoundTrip(t *testing.T) {
	data := ScheduleUpdatedData{
		ShiftedTaskIDs: []string{"task-b", "task-c"},
		Mode:           "auto",
	}
	event, err := NewScheduleUpdatedEvent("proj-1", "task-a", "bob", "moved task", SeverityInfo, data)
	require.NoError(t, err)

	got, err := event.GetScheduleUpdatedData()
	require.NoError(t, err)
	assert.Equal(t, []string{"task-b", "task-c"}, got.ShiftedTaskIDs)
	assert.Equal(t, "auto", got.Mode)
}

func TestNewScheduleUpdatedEvent_WarningSeverity(t *testing.T) {
	event, err := NewScheduleUpdatedEvent("proj-1", "task-a", "bob", "dependents stale", SeverityWarning, ScheduleUpdatedData{Mode: "manual"})
	require.NoError(t, err)
	assert.Equal(t, SeverityWarning, event.Severity)
}

func TestNewResourceAllocatedEvent(t *testing.T) {
	data := AllocationData{
		AllocationID:       "alloc-1",
		ResourceID:         "r-1",
		ResourceType:       "worker",
		Percent:            60,
		EstimatedCostCents: 300000,
	}
	event, err := NewResourceAllocatedEvent("proj-1", "task-a", "carol", "allocated worker", data)
	require.NoError(t, err)

	got, err := event.GetAllocationData()
	require.NoError(t, err)
	assert.Equal(t, int64(300000), got.EstimatedCostCents)
	assert.Equal(t, 60, got.Percent)
}

func TestNewAllocationStatusChangedEvent(t *testing.T) {
	data := AllocationStatusChangedData{
		AllocationID: "alloc-1",
		OldStatus:    "planned",
		NewStatus:    "active",
	}
	event, err := NewAllocationStatusChangedEvent("proj-1", "task-a", "carol", "activated allocation", data)
	require.NoError(t, err)

	got, err := event.GetAllocationStatusChangedData()
	require.NoError(t, err)
	assert.Equal(t, "planned", got.OldStatus)
	assert.Equal(t, "active", got.NewStatus)
}

func TestNewScheduleRecomputedEvent(t *testing.T) {
	data := ScheduleRecomputedData{
		TaskCount:    4,
		DurationDays: 21,
		CriticalPath: []string{"a", "c", "d"},
	}
	event, err := NewScheduleRecomputedEvent("proj-1", "system", "recomputed schedule", data)
	require.NoError(t, err)
	assert.Empty(t, event.TaskID)

	got, err := event.GetScheduleRecomputedData()
	require.NoError(t, err)
	assert.Equal(t, 21, got.DurationDays)
	assert.Equal(t, []string{"a", "c", "d"}, got.CriticalPath)
}

func TestNewSimpleEvent(t *testing.T) {
	event := NewSimpleEvent(EventTypeTaskCreated, "proj-1", "task-a", "alice", SeverityInfo, "created task")
	assert.NotEmpty(t, event.ID)
	assert.NotNil(t, event.Data)
	assert.Empty(t, event.Data)
}

func TestEventIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		event := NewSimpleEvent(EventTypeTaskCreated, "proj-1", "", "alice", SeverityInfo, "x")
		assert.False(t, seen[event.ID])
		seen[event.ID] = true
	}
}
