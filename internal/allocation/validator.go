// Package allocation validates resource allocation requests against
// temporal and capacity rules and estimates their cost.
//
// The validator is pure: it judges a proposed allocation against a snapshot
// of the resource's existing allocations supplied by the caller. It holds no
// state of its own, so cross-request consistency (two concurrent requests
// for the same resource) must be serialized by the caller.
package allocation

import (
	"fmt"
	"sort"
	"time"

	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

// Request is a proposed resource allocation, before validation.
type Request struct {
	ProjectID    string
	TaskID       string
	ResourceID   string
	ResourceType types.ResourceType
	StartDate    time.Time
	EndDate      time.Time
	Percent      int

	// DailyRateCents is the resource's daily rate, supplied by the caller
	// (rates live outside the engine).
	DailyRateCents int64
}

// Validator checks allocation requests against the configured policy.
type Validator struct {
	cfg Config
}

// NewValidator creates a validator with the given policy.
func NewValidator(cfg Config) (*Validator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Validator{cfg: cfg}, nil
}

// Validate checks the request's own ranges and, when enabled, the aggregate
// concurrent load of the resource against existing planned and active
// allocations. Completed and cancelled allocations never count against
// capacity. Allocations belonging to other resources are ignored.
//
// Returns *types.InvalidRangeError for bad dates or percentages and
// *types.OverAllocationError when the combined load would exceed the
// ceiling, naming the conflicting allocations.
func (v *Validator) Validate(req Request, existing []types.ResourceAllocation) error {
	if !req.ResourceType.IsValid() {
		return fmt.Errorf("invalid resource type: %s", req.ResourceType)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return &types.InvalidRangeError{Reason: "start_date and end_date are required"}
	}
	if !types.DayOf(req.StartDate).Before(types.DayOf(req.EndDate)) {
		return &types.InvalidRangeError{Reason: "start_date must be before end_date"}
	}
	if req.Percent <= 0 {
		return &types.InvalidRangeError{Reason: fmt.Sprintf("percent must be positive (got %d)", req.Percent)}
	}
	if max := v.cfg.MaxPercent(); req.Percent > max {
		return &types.InvalidRangeError{
			Reason: fmt.Sprintf("percent %d exceeds maximum %d for this policy", req.Percent, max),
		}
	}

	if !v.cfg.CheckOverAllocation {
		return nil
	}
	return v.checkConcurrentLoad(req, existing)
}

// checkConcurrentLoad sums the resource's planned+active percentages on the
// days the proposed range overlaps. Ranges are short (projects span months,
// not millennia), so a per-boundary sweep over overlapping allocations is
// plenty; the peak day is what matters, not the profile.
func (v *Validator) checkConcurrentLoad(req Request, existing []types.ResourceAllocation) error {
	var overlapping []types.ResourceAllocation
	for _, a := range existing {
		if a.ResourceID != req.ResourceID {
			continue
		}
		if a.Status != types.AllocationPlanned && a.Status != types.AllocationActive {
			continue
		}
		if a.Overlaps(req.StartDate, req.EndDate) {
			overlapping = append(overlapping, a)
		}
	}
	if len(overlapping) == 0 {
		return nil
	}

	// Load only changes at range boundaries; evaluating each overlapping
	// allocation's start day (plus the request's own) finds the peak.
	candidates := []time.Time{types.DayOf(req.StartDate)}
	for _, a := range overlapping {
		start := types.DayOf(a.StartDate)
		if start.After(types.DayOf(req.StartDate)) {
			candidates = append(candidates, start)
		}
	}

	peak := 0
	var conflicts []string
	for _, day := range candidates {
		if day.After(types.DayOf(req.EndDate)) {
			continue
		}
		load := req.Percent
		var active []string
		for _, a := range overlapping {
			if a.Overlaps(day, day) {
				load += a.Percent
				active = append(active, a.ID)
			}
		}
		if load > peak {
			peak = load
			conflicts = active
		}
	}

	if peak > v.cfg.Ceiling {
		sort.Strings(conflicts)
		return &types.OverAllocationError{
			ResourceID:  req.ResourceID,
			PeakPercent: peak,
			Ceiling:     v.cfg.Ceiling,
			ConflictIDs: conflicts,
		}
	}
	return nil
}

// Build turns a validated request into an allocation record with derived
// cost and planned status. Identity fields (ID, timestamps, actor) are the
// caller's to fill, since the validator does not own persistence.
func (v *Validator) Build(req Request) types.ResourceAllocation {
	return types.ResourceAllocation{
		ProjectID:    req.ProjectID,
		TaskID:       req.TaskID,
		ResourceID:   req.ResourceID,
		ResourceType: req.ResourceType,
		StartDate:    types.DayOf(req.StartDate),
		EndDate:      types.DayOf(req.EndDate),
		Percent:      req.Percent,
		EstimatedCostCents: EstimateCostCents(
			req.Percent,
			types.DaysBetweenInclusive(req.StartDate, req.EndDate),
			req.DailyRateCents,
		),
		Status: types.AllocationPlanned,
	}
}
