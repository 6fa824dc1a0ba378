package health

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Latif080790/NataCarePM-sub017/internal/storage"
	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

func newTestStore(t *testing.T) storage.Storage {
	t.Helper()
	store, err := storage.NewStorage(context.Background(), &storage.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func date(day int) time.Time {
	return time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC)
}

func seedTask(t *testing.T, store storage.Storage, id string, start, end int) {
	t.Helper()
	task := &types.Task{
		ID:        id,
		ProjectID: "proj-1",
		Name:      "task " + id,
		StartDate: date(start),
		EndDate:   date(end),
	}
	require.NoError(t, store.CreateTask(context.Background(), task, "tester"))
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"resource-load", "schedule", "stale-tasks"}, r.Names())
}

func TestRegistry_RejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&ScheduleCheck{}))
	assert.Error(t, r.Register(&ScheduleCheck{}))
}

func TestRunAll_HealthyProject(t *testing.T) {
	store := newTestStore(t)
	seedTask(t, store, "a", 1, 5)
	seedTask(t, store, "b", 6, 10)

	results := DefaultRegistry().RunAll(context.Background(), store, "proj-1")
	require.Len(t, results, 3)
	for _, result := range results {
		assert.Equal(t, StatusOK, result.Result.Status, result.Name)
	}
	assert.Equal(t, StatusOK, Worst(results))
}

func TestStaleTasksCheck_FlagsStale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedTask(t, store, "a", 1, 5)
	require.NoError(t, store.SetDatesStale(ctx, []string{"a"}, true))

	result, err := (&StaleTasksCheck{}).Run(ctx, store, "proj-1")
	require.NoError(t, err)
	assert.Equal(t, StatusWarning, result.Status)
	assert.Equal(t, []string{"a"}, result.Details)
}

func TestResourceLoadCheck_OverCommitted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedTask(t, store, "a", 1, 10)

	for i, percent := range []int{60, 60} {
		alloc := &types.ResourceAllocation{
			ID:           string(rune('x' + i)),
			ProjectID:    "proj-1",
			TaskID:       "a",
			ResourceID:   "crane-1",
			ResourceType: types.ResourceEquipment,
			StartDate:    date(1),
			EndDate:      date(10),
			Percent:      percent,
			Status:       types.AllocationPlanned,
		}
		require.NoError(t, store.CreateAllocation(ctx, alloc, "tester"))
	}

	result, err := (&ResourceLoadCheck{}).Run(ctx, store, "proj-1")
	require.NoError(t, err)
	assert.Equal(t, StatusWarning, result.Status)
	require.Len(t, result.Details, 1)
	assert.Contains(t, result.Details[0], "crane-1")
	assert.Contains(t, result.Details[0], "120%")
}

func TestScheduleCheck_EmptyProject(t *testing.T) {
	store := newTestStore(t)
	result, err := (&ScheduleCheck{}).Run(context.Background(), store, "proj-1")
	require.NoError(t, err)
	assert.Equal(t, StatusOK, result.Status)
}

func TestWorst(t *testing.T) {
	assert.Equal(t, StatusOK, Worst(nil))
	assert.Equal(t, StatusWarning, Worst([]NamedResult{
		{Result: &Result{Status: StatusOK}},
		{Result: &Result{Status: StatusWarning}},
	}))
	assert.Equal(t, StatusCritical, Worst([]NamedResult{
		{Result: &Result{Status: StatusWarning}},
		{Result: &Result{Status: StatusCritical}},
	}))
}
