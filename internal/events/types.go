// Package events defines the audit trail records emitted by the scheduling
// engine. Every mutation of the project plan (tasks, dependencies,
// allocations) produces an event naming the actor, so the history of a
// schedule can be reconstructed and reviewed.
package events

import "time"

// EventType represents the kind of change that occurred in a project plan.
type EventType string

const (
	// EventTypeTaskCreated indicates a task was added to a project
	EventTypeTaskCreated EventType = "task_created"
	// EventTypeTaskUpdated indicates a task's fields were changed
	EventTypeTaskUpdated EventType = "task_updated"
	// EventTypeScheduleUpdated indicates a task's dates were changed and
	// downstream dates recomputed
	EventTypeScheduleUpdated EventType = "schedule_updated"
	// EventTypeScheduleRecomputed indicates a full critical-path recompute ran
	EventTypeScheduleRecomputed EventType = "schedule_recomputed"
	// EventTypeDependencyAdded indicates a dependency edge was created
	EventTypeDependencyAdded EventType = "dependency_added"
	// EventTypeDependencyRemoved indicates a dependency edge was removed
	EventTypeDependencyRemoved EventType = "dependency_removed"
	// EventTypeResourceAllocated indicates a resource allocation was created
	EventTypeResourceAllocated EventType = "resource_allocated"
	// EventTypeAllocationStatusChanged indicates an allocation moved through
	// its lifecycle (planned, active, completed, cancelled)
	EventTypeAllocationStatusChanged EventType = "allocation_status_changed"
	// EventTypeTasksFlaggedStale indicates manual-mode edits left dependent
	// tasks with stale dates
	EventTypeTasksFlaggedStale EventType = "tasks_flagged_stale"
)

// IsValid checks if the event type is one of the known values.
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeTaskCreated, EventTypeTaskUpdated, EventTypeScheduleUpdated,
		EventTypeScheduleRecomputed, EventTypeDependencyAdded, EventTypeDependencyRemoved,
		EventTypeResourceAllocated, EventTypeAllocationStatusChanged, EventTypeTasksFlaggedStale:
		return true
	}
	return false
}

// EventSeverity indicates how notable an event is.
type EventSeverity string

const (
	// SeverityInfo indicates routine plan changes
	SeverityInfo EventSeverity = "info"
	// SeverityWarning indicates changes that left the plan in a degraded
	// state, such as stale dependent dates
	SeverityWarning EventSeverity = "warning"
	// SeverityError indicates a change that was attempted but failed
	SeverityError EventSeverity = "error"
)

// Event is one audit record. Events are immutable once written.
type Event struct {
	// ID is the unique identifier for this event
	ID string `json:"id"`
	// Type is the kind of change
	Type EventType `json:"type"`
	// Timestamp is when the change occurred
	Timestamp time.Time `json:"timestamp"`
	// ProjectID scopes the event to a project
	ProjectID string `json:"project_id"`
	// TaskID is the primary task affected, when the change targets one
	TaskID string `json:"task_id,omitempty"`
	// Actor is who made the change
	Actor string `json:"actor"`
	// Severity is the severity level of this event
	Severity EventSeverity `json:"severity"`
	// Message is a human-readable description of the change
	Message string `json:"message"`
	// Data contains structured, type-specific data (must be JSON-serializable)
	Data map[string]interface{} `json:"data"`
}

// DependencyChangeData contains structured data for dependency add/remove
// events.
type DependencyChangeData struct {
	// PredecessorID is the task that constrains
	PredecessorID string `json:"predecessor_id"`
	// SuccessorID is the task that is constrained
	SuccessorID string `json:"successor_id"`
	// DependencyType is the constraint kind (finish_to_start etc.)
	DependencyType string `json:"dependency_type"`
	// LagDays is the signed lag applied to the constraint
	LagDays int `json:"lag_days"`
}

// ScheduleUpdatedData contains structured data for schedule change events.
type ScheduleUpdatedData struct {
	// OldStartDate and OldEndDate are the task's dates before the change
	OldStartDate time.Time `json:"old_start_date"`
	OldEndDate   time.Time `json:"old_end_date"`
	// NewStartDate and NewEndDate are the task's dates after the change
	NewStartDate time.Time `json:"new_start_date"`
	NewEndDate   time.Time `json:"new_end_date"`
	// ShiftedTaskIDs lists downstream tasks whose dates moved as a result
	ShiftedTaskIDs []string `json:"shifted_task_ids,omitempty"`
	// Mode records whether propagation was automatic or dates were flagged stale
	Mode string `json:"mode"`
}

// AllocationData contains structured data for resource allocation events.
type AllocationData struct {
	// AllocationID is the allocation record's identifier
	AllocationID string `json:"allocation_id"`
	// ResourceID is the allocated resource
	ResourceID string `json:"resource_id"`
	// ResourceType is the resource's kind (worker, equipment, material)
	ResourceType string `json:"resource_type"`
	// Percent is the allocation percentage
	Percent int `json:"percent"`
	// EstimatedCostCents is the derived cost estimate
	EstimatedCostCents int64 `json:"estimated_cost_cents"`
}

// AllocationStatusChangedData contains structured data for allocation
// lifecycle events.
type AllocationStatusChangedData struct {
	// AllocationID is the allocation record's identifier
	AllocationID string `json:"allocation_id"`
	// OldStatus and NewStatus record the transition
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// ScheduleRecomputedData contains structured data for full recompute events.
type ScheduleRecomputedData struct {
	// TaskCount is how many tasks the schedule covered
	TaskCount int `json:"task_count"`
	// DurationDays is the computed make-span
	DurationDays int `json:"duration_days"`
	// CriticalPath lists the critical task IDs in order
	CriticalPath []string `json:"critical_path"`
}
