package types

import (
	"fmt"
	"time"
)

// Task represents a schedulable unit of project work.
//
// The engine treats tasks as read-mostly input: only the scheduling layer
// rewrites StartDate/EndDate (auto-scheduling mode), and only through the
// storage layer. Creation and deletion belong to the surrounding application.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Name        string     `json:"name"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	DatesStale  bool       `json:"dates_stale"` // set in manual scheduling mode when computed dates drift
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Validate checks if the task has valid field values.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("id is required")
	}
	if t.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	if len(t.Name) == 0 {
		return fmt.Errorf("name is required")
	}
	if len(t.Name) > 500 {
		return fmt.Errorf("name must be 500 characters or less (got %d)", len(t.Name))
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("start_date and end_date are required")
	}
	if DayOf(t.EndDate).Before(DayOf(t.StartDate)) {
		return fmt.Errorf("end_date %s is before start_date %s",
			t.EndDate.Format("2006-01-02"), t.StartDate.Format("2006-01-02"))
	}
	return nil
}

// DurationDays returns the task duration in whole calendar days, inclusive
// of both endpoint dates. A task spanning a single day has duration 1.
func (t *Task) DurationDays() int {
	return DaysBetweenInclusive(t.StartDate, t.EndDate)
}

// DayOf truncates a timestamp to its calendar day in UTC. All engine date
// arithmetic happens on day granularity; fractional-day scheduling is not
// supported.
func DayOf(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetweenInclusive counts calendar days from start to end, counting both
// endpoints. Returns 0 when end precedes start.
func DaysBetweenInclusive(start, end time.Time) int {
	days := int(DayOf(end).Sub(DayOf(start)).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}

// DependencyType categorizes which date of the predecessor constrains which
// date of the successor.
type DependencyType string

const (
	// DepFinishToStart means the successor may start once the predecessor finishes.
	DepFinishToStart DependencyType = "finish_to_start"
	// DepStartToStart means the successor may start once the predecessor starts.
	DepStartToStart DependencyType = "start_to_start"
	// DepFinishToFinish means the successor may finish once the predecessor finishes.
	DepFinishToFinish DependencyType = "finish_to_finish"
	// DepStartToFinish means the successor may finish once the predecessor starts.
	DepStartToFinish DependencyType = "start_to_finish"
)

// IsValid checks if the dependency type value is valid.
func (d DependencyType) IsValid() bool {
	switch d {
	case DepFinishToStart, DepStartToStart, DepFinishToFinish, DepStartToFinish:
		return true
	}
	return false
}

// TaskDependency represents a precedence constraint between two tasks.
//
// LagDays is signed: positive delays the successor, negative permits overlap
// (a lead). The set of dependencies for a project must stay acyclic; the
// scheduling layer rejects any edge that would close a cycle before it is
// persisted.
type TaskDependency struct {
	PredecessorID string         `json:"predecessor_id"`
	SuccessorID   string         `json:"successor_id"`
	Type          DependencyType `json:"type"`
	LagDays       int            `json:"lag_days"`
	CreatedAt     time.Time      `json:"created_at"`
	CreatedBy     string         `json:"created_by"`
}

// Validate checks if the dependency has valid field values.
func (d *TaskDependency) Validate() error {
	if d.PredecessorID == "" || d.SuccessorID == "" {
		return fmt.Errorf("predecessor_id and successor_id are required")
	}
	if d.PredecessorID == d.SuccessorID {
		return fmt.Errorf("task %s cannot depend on itself", d.SuccessorID)
	}
	if !d.Type.IsValid() {
		return fmt.Errorf("invalid dependency type: %s", d.Type)
	}
	return nil
}

// ResourceType categorizes the kind of resource being allocated.
type ResourceType string

const (
	ResourceWorker    ResourceType = "worker"
	ResourceEquipment ResourceType = "equipment"
	ResourceMaterial  ResourceType = "material"
)

// IsValid checks if the resource type value is valid.
func (r ResourceType) IsValid() bool {
	switch r {
	case ResourceWorker, ResourceEquipment, ResourceMaterial:
		return true
	}
	return false
}

// AllocationStatus represents the lifecycle state of a resource allocation.
type AllocationStatus string

const (
	AllocationPlanned   AllocationStatus = "planned"
	AllocationActive    AllocationStatus = "active"
	AllocationCompleted AllocationStatus = "completed"
	AllocationCancelled AllocationStatus = "cancelled"
)

// IsValid checks if the allocation status value is valid.
func (s AllocationStatus) IsValid() bool {
	switch s {
	case AllocationPlanned, AllocationActive, AllocationCompleted, AllocationCancelled:
		return true
	}
	return false
}

// ValidTransitions defines the forward-only allocation state machine.
//
//	planned → active → completed
//	    ↓        ↓
//	cancelled  cancelled
//
// Completed and cancelled are terminal: an allocation is never resurrected,
// and never hard-deleted, so the history stays auditable.
func (s AllocationStatus) ValidTransitions() []AllocationStatus {
	switch s {
	case AllocationPlanned:
		return []AllocationStatus{AllocationActive, AllocationCancelled}
	case AllocationActive:
		return []AllocationStatus{AllocationCompleted, AllocationCancelled}
	case AllocationCompleted, AllocationCancelled:
		return []AllocationStatus{}
	default:
		return []AllocationStatus{}
	}
}

// CanTransitionTo checks if a transition from this status to the target is valid.
func (s AllocationStatus) CanTransitionTo(target AllocationStatus) bool {
	for _, valid := range s.ValidTransitions() {
		if valid == target {
			return true
		}
	}
	return false
}

// ResourceAllocation represents a commitment of a resource's capacity to a
// task over a date range.
type ResourceAllocation struct {
	ID                 string           `json:"id"`
	ProjectID          string           `json:"project_id"`
	TaskID             string           `json:"task_id"`
	ResourceID         string           `json:"resource_id"`
	ResourceType       ResourceType     `json:"resource_type"`
	StartDate          time.Time        `json:"start_date"`
	EndDate            time.Time        `json:"end_date"`
	Percent            int              `json:"percent"`
	EstimatedCostCents int64            `json:"estimated_cost_cents"` // derived, never independently settable
	Status             AllocationStatus `json:"status"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	CreatedBy          string           `json:"created_by"`
}

// Validate checks if the allocation has valid field values. Percentage
// bounds beyond the basic >0 check are policy and live in the allocation
// validator, which knows whether overtime is permitted.
func (a *ResourceAllocation) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("id is required")
	}
	if a.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	if a.TaskID == "" {
		return fmt.Errorf("task_id is required")
	}
	if a.ResourceID == "" {
		return fmt.Errorf("resource_id is required")
	}
	if !a.ResourceType.IsValid() {
		return fmt.Errorf("invalid resource type: %s", a.ResourceType)
	}
	if !DayOf(a.StartDate).Before(DayOf(a.EndDate)) {
		return fmt.Errorf("start_date must be before end_date")
	}
	if a.Percent <= 0 {
		return fmt.Errorf("percent must be positive (got %d)", a.Percent)
	}
	if !a.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	return nil
}

// DurationDays returns the allocation span in inclusive calendar days.
func (a *ResourceAllocation) DurationDays() int {
	return DaysBetweenInclusive(a.StartDate, a.EndDate)
}

// Overlaps reports whether the allocation's date range shares at least one
// calendar day with [start, end].
func (a *ResourceAllocation) Overlaps(start, end time.Time) bool {
	return !DayOf(a.EndDate).Before(DayOf(start)) && !DayOf(end).Before(DayOf(a.StartDate))
}

// TaskFilter is used to filter task queries.
type TaskFilter struct {
	ProjectID string
	Stale     *bool
	Limit     int
}

// AllocationFilter is used to filter allocation queries.
type AllocationFilter struct {
	ProjectID  string
	TaskID     string
	ResourceID string
	Statuses   []AllocationStatus
	Limit      int
}
