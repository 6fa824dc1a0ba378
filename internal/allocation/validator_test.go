package allocation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func request(percent int, start, end time.Time) Request {
	return Request{
		ProjectID:      "p-1",
		TaskID:         "t-1",
		ResourceID:     "r-1",
		ResourceType:   types.ResourceWorker,
		StartDate:      start,
		EndDate:        end,
		Percent:        percent,
		DailyRateCents: 50000,
	}
}

func existingAllocation(id string, percent int, start, end time.Time, status types.AllocationStatus) types.ResourceAllocation {
	return types.ResourceAllocation{
		ID:           id,
		ProjectID:    "p-1",
		TaskID:       "t-x",
		ResourceID:   "r-1",
		ResourceType: types.ResourceWorker,
		StartDate:    start,
		EndDate:      end,
		Percent:      percent,
		Status:       status,
	}
}

func newValidator(t *testing.T, cfg Config) *Validator {
	t.Helper()
	v, err := NewValidator(cfg)
	require.NoError(t, err)
	return v
}

func TestValidator_AcceptsValidRequest(t *testing.T) {
	v := newValidator(t, DefaultConfig())
	req := request(60, date(2026, time.January, 1), date(2026, time.January, 10))
	assert.NoError(t, v.Validate(req, nil))
}

func TestValidator_RejectsInvertedRange(t *testing.T) {
	v := newValidator(t, DefaultConfig())
	req := request(60, date(2026, time.January, 10), date(2026, time.January, 1))

	err := v.Validate(req, nil)
	var rangeErr *types.InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)
}

func TestValidator_RejectsEqualStartEnd(t *testing.T) {
	v := newValidator(t, DefaultConfig())
	req := request(60, date(2026, time.January, 5), date(2026, time.January, 5))

	var rangeErr *types.InvalidRangeError
	require.ErrorAs(t, v.Validate(req, nil), &rangeErr)
}

func TestValidator_PercentBounds(t *testing.T) {
	v := newValidator(t, DefaultConfig())
	start, end := date(2026, time.January, 1), date(2026, time.January, 10)

	var rangeErr *types.InvalidRangeError
	assert.ErrorAs(t, v.Validate(request(0, start, end), nil), &rangeErr)
	assert.ErrorAs(t, v.Validate(request(-5, start, end), nil), &rangeErr)
	assert.NoError(t, v.Validate(request(100, start, end), nil))
	// Overtime disabled by default: >100 is out of range.
	assert.ErrorAs(t, v.Validate(request(101, start, end), nil), &rangeErr)
}

func TestValidator_OvertimePolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowOvertime = true
	cfg.OvertimeCeiling = 150
	cfg.Ceiling = 150
	v := newValidator(t, cfg)
	start, end := date(2026, time.January, 1), date(2026, time.January, 10)

	assert.NoError(t, v.Validate(request(150, start, end), nil))

	var rangeErr *types.InvalidRangeError
	assert.ErrorAs(t, v.Validate(request(151, start, end), nil), &rangeErr)
}

// 60% on 1-10 Jan already committed; asking 50% on 5-15 Jan must fail with a
// 100% ceiling, since both run concurrently on 5-10 Jan.
func TestValidator_OverAllocation(t *testing.T) {
	v := newValidator(t, DefaultConfig())
	existing := []types.ResourceAllocation{
		existingAllocation("alloc-x", 60, date(2026, time.January, 1), date(2026, time.January, 10), types.AllocationPlanned),
	}
	req := request(50, date(2026, time.January, 5), date(2026, time.January, 15))

	err := v.Validate(req, existing)
	var overErr *types.OverAllocationError
	require.ErrorAs(t, err, &overErr)
	assert.Equal(t, "r-1", overErr.ResourceID)
	assert.Equal(t, 110, overErr.PeakPercent)
	assert.Equal(t, 100, overErr.Ceiling)
	assert.Equal(t, []string{"alloc-x"}, overErr.ConflictIDs)
}

func TestValidator_ExactCeilingAllowed(t *testing.T) {
	v := newValidator(t, DefaultConfig())
	existing := []types.ResourceAllocation{
		existingAllocation("alloc-x", 60, date(2026, time.January, 1), date(2026, time.January, 10), types.AllocationActive),
	}
	req := request(40, date(2026, time.January, 5), date(2026, time.January, 15))

	assert.NoError(t, v.Validate(req, existing))
}

func TestValidator_NonOverlappingRangesDoNotConflict(t *testing.T) {
	v := newValidator(t, DefaultConfig())
	existing := []types.ResourceAllocation{
		existingAllocation("alloc-x", 100, date(2026, time.January, 1), date(2026, time.January, 10), types.AllocationPlanned),
	}
	req := request(100, date(2026, time.January, 11), date(2026, time.January, 20))

	assert.NoError(t, v.Validate(req, existing))
}

func TestValidator_TerminalStatusesDoNotCount(t *testing.T) {
	v := newValidator(t, DefaultConfig())
	existing := []types.ResourceAllocation{
		existingAllocation("done", 80, date(2026, time.January, 1), date(2026, time.January, 31), types.AllocationCompleted),
		existingAllocation("gone", 80, date(2026, time.January, 1), date(2026, time.January, 31), types.AllocationCancelled),
	}
	req := request(100, date(2026, time.January, 5), date(2026, time.January, 15))

	assert.NoError(t, v.Validate(req, existing))
}

func TestValidator_OtherResourcesIgnored(t *testing.T) {
	v := newValidator(t, DefaultConfig())
	other := existingAllocation("alloc-other", 100, date(2026, time.January, 1), date(2026, time.January, 31), types.AllocationActive)
	other.ResourceID = "r-2"

	req := request(100, date(2026, time.January, 5), date(2026, time.January, 15))
	assert.NoError(t, v.Validate(req, []types.ResourceAllocation{other}))
}

// Three staggered allocations where no pair exceeds the ceiling but all
// three together do on their common days.
func TestValidator_PeakAcrossMultipleAllocations(t *testing.T) {
	v := newValidator(t, DefaultConfig())
	existing := []types.ResourceAllocation{
		existingAllocation("a1", 40, date(2026, time.January, 1), date(2026, time.January, 20), types.AllocationPlanned),
		existingAllocation("a2", 40, date(2026, time.January, 10), date(2026, time.January, 30), types.AllocationActive),
	}
	req := request(30, date(2026, time.January, 5), date(2026, time.January, 15))

	err := v.Validate(req, existing)
	var overErr *types.OverAllocationError
	require.ErrorAs(t, err, &overErr)
	assert.Equal(t, 110, overErr.PeakPercent) // 40 + 40 + 30 on 10-15 Jan
	assert.Equal(t, []string{"a1", "a2"}, overErr.ConflictIDs)
}

func TestValidator_GuardCanBeDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckOverAllocation = false
	v := newValidator(t, cfg)

	existing := []types.ResourceAllocation{
		existingAllocation("alloc-x", 100, date(2026, time.January, 1), date(2026, time.January, 31), types.AllocationActive),
	}
	req := request(100, date(2026, time.January, 5), date(2026, time.January, 15))
	assert.NoError(t, v.Validate(req, existing))
}

func TestValidator_Build(t *testing.T) {
	v := newValidator(t, DefaultConfig())
	req := request(60, date(2026, time.January, 1), date(2026, time.January, 10))

	alloc := v.Build(req)
	assert.Equal(t, types.AllocationPlanned, alloc.Status)
	assert.Equal(t, 60, alloc.Percent)
	// 60% × 10 days × 500.00/day = 3000.00
	assert.Equal(t, int64(300000), alloc.EstimatedCostCents)
	assert.Equal(t, "r-1", alloc.ResourceID)
	assert.Equal(t, "t-1", alloc.TaskID)
}

func TestNewValidator_RejectsBadConfig(t *testing.T) {
	_, err := NewValidator(Config{Ceiling: 0})
	assert.Error(t, err)
}
