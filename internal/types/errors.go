package types

import (
	"errors"
	"fmt"
	"strings"
)

// The engine returns typed, recoverable errors: nothing here is fatal, the
// caller decides whether to retry after fixing the input. Mutations are
// never partially applied - validation happens on the proposed state before
// any commit.

// ErrNotFound indicates a task, dependency, or allocation id is unknown.
// Matched with errors.Is.
var ErrNotFound = errors.New("not found")

// ReferenceError indicates a dependency or allocation refers to a task that
// does not exist in the supplied snapshot.
type ReferenceError struct {
	TaskID string
	Role   string // "predecessor", "successor", or "allocation target"
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("reference to unknown %s task %s", e.Role, e.TaskID)
}

// CycleError indicates the dependency set contains a cycle. Path holds the
// tasks on the detected cycle, closed (first element repeated last).
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Path, " → "))
}

// InvalidRangeError indicates a date range or percentage is out of bounds.
type InvalidRangeError struct {
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: %s", e.Reason)
}

// OverAllocationError indicates a proposed allocation would push a
// resource's concurrent planned and active load past the configured ceiling.
type OverAllocationError struct {
	ResourceID  string
	PeakPercent int
	Ceiling     int
	ConflictIDs []string // allocations overlapping the proposed range
}

func (e *OverAllocationError) Error() string {
	return fmt.Sprintf("resource %s over-allocated: peak %d%% exceeds ceiling %d%% (conflicts: %s)",
		e.ResourceID, e.PeakPercent, e.Ceiling, strings.Join(e.ConflictIDs, ", "))
}
