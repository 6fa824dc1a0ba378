package events

import (
	"time"

	"github.com/google/uuid"
)

// NewDependencyAddedEvent creates an Event recording a new dependency edge.
func NewDependencyAddedEvent(projectID, taskID, actor, message string, data DependencyChangeData) (*Event, error) {
	event := &Event{
		ID:        uuid.New().String(),
		Type:      EventTypeDependencyAdded,
		Timestamp: time.Now().UTC(),
		ProjectID: projectID,
		TaskID:    taskID,
		Actor:     actor,
		Severity:  SeverityInfo,
		Message:   message,
	}
	if err := event.SetDependencyChangeData(data); err != nil {
		return nil, err
	}
	return event, nil
}

// NewDependencyRemovedEvent creates an Event recording a removed dependency edge.
func NewDependencyRemovedEvent(projectID, taskID, actor, message string, data DependencyChangeData) (*Event, error) {
	event := &Event{
		ID:        uuid.New().String(),
		Type:      EventTypeDependencyRemoved,
		Timestamp: time.Now().UTC(),
		ProjectID: projectID,
		TaskID:    taskID,
		Actor:     actor,
		Severity:  SeverityInfo,
		Message:   message,
	}
	if err := event.SetDependencyChangeData(data); err != nil {
		return nil, err
	}
	return event, nil
}

// NewScheduleUpdatedEvent creates an Event recording a task date change and
// its downstream effect. Severity is a warning when the change left
// dependents stale instead of propagating.
func NewScheduleUpdatedEvent(projectID, taskID, actor, message string, severity EventSeverity, data ScheduleUpdatedData) (*Event, error) {
	event := &Event{
		ID:        uuid.New().String(),
		Type:      EventTypeScheduleUpdated,
		Timestamp: time.Now().UTC(),
		ProjectID: projectID,
		TaskID:    taskID,
		Actor:     actor,
		Severity:  severity,
		Message:   message,
	}
	if err := event.SetScheduleUpdatedData(data); err != nil {
		return nil, err
	}
	return event, nil
}

// NewResourceAllocatedEvent creates an Event recording a new allocation.
func NewResourceAllocatedEvent(projectID, taskID, actor, message string, data AllocationData) (*Event, error) {
	event := &Event{
		ID:        uuid.New().String(),
		Type:      EventTypeResourceAllocated,
		Timestamp: time.Now().UTC(),
		ProjectID: projectID,
		TaskID:    taskID,
		Actor:     actor,
		Severity:  SeverityInfo,
		Message:   message,
	}
	if err := event.SetAllocationData(data); err != nil {
		return nil, err
	}
	return event, nil
}

// NewAllocationStatusChangedEvent creates an Event recording an allocation
// lifecycle transition.
func NewAllocationStatusChangedEvent(projectID, taskID, actor, message string, data AllocationStatusChangedData) (*Event, error) {
	event := &Event{
		ID:        uuid.New().String(),
		Type:      EventTypeAllocationStatusChanged,
		Timestamp: time.Now().UTC(),
		ProjectID: projectID,
		TaskID:    taskID,
		Actor:     actor,
		Severity:  SeverityInfo,
		Message:   message,
	}
	if err := event.SetAllocationStatusChangedData(data); err != nil {
		return nil, err
	}
	return event, nil
}

// NewScheduleRecomputedEvent creates an Event recording a full critical-path
// recompute.
func NewScheduleRecomputedEvent(projectID, actor, message string, data ScheduleRecomputedData) (*Event, error) {
	event := &Event{
		ID:        uuid.New().String(),
		Type:      EventTypeScheduleRecomputed,
		Timestamp: time.Now().UTC(),
		ProjectID: projectID,
		Actor:     actor,
		Severity:  SeverityInfo,
		Message:   message,
	}
	if err := event.SetScheduleRecomputedData(data); err != nil {
		return nil, err
	}
	return event, nil
}

// NewSimpleEvent creates an Event with no structured data, for task CRUD and
// stale-flag notices.
func NewSimpleEvent(eventType EventType, projectID, taskID, actor string, severity EventSeverity, message string) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		ProjectID: projectID,
		TaskID:    taskID,
		Actor:     actor,
		Severity:  severity,
		Message:   message,
		Data:      make(map[string]interface{}),
	}
}
