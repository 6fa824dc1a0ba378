package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Latif080790/NataCarePM-sub017/internal/config"
	"github.com/Latif080790/NataCarePM-sub017/internal/events"
)

func TestStoreAndGetEvents(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	event, err := events.NewScheduleRecomputedEvent("proj-1", "system", "recomputed schedule",
		events.ScheduleRecomputedData{
			TaskCount:    3,
			DurationDays: 15,
			CriticalPath: []string{"a", "b"},
		})
	require.NoError(t, err)
	require.NoError(t, s.StoreEvent(ctx, event))

	got, err := s.GetEvents(ctx, "proj-1", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, event.ID, got[0].ID)
	assert.Equal(t, events.EventTypeScheduleRecomputed, got[0].Type)
	assert.Equal(t, "system", got[0].Actor)
	assert.Empty(t, got[0].TaskID)

	data, err := got[0].GetScheduleRecomputedData()
	require.NoError(t, err)
	assert.Equal(t, 15, data.DurationDays)
	assert.Equal(t, []string{"a", "b"}, data.CriticalPath)
}

func TestStoreEvent_RejectsUnknownType(t *testing.T) {
	s := newTestStorage(t)
	event := events.NewSimpleEvent("bogus_type", "proj-1", "", "tester", events.SeverityInfo, "x")
	err := s.StoreEvent(context.Background(), event)
	assert.ErrorContains(t, err, "invalid event type")
}

func TestGetEvents_NewestFirstAndLimited(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		event := events.NewSimpleEvent(events.EventTypeTaskUpdated, "proj-1", "a", "tester",
			events.SeverityInfo, "update")
		require.NoError(t, s.StoreEvent(ctx, event))
	}

	got, err := s.GetEvents(ctx, "proj-1", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Timestamp.After(got[i-1].Timestamp))
	}
}

func TestGetEventsByTask(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.StoreEvent(ctx, events.NewSimpleEvent(events.EventTypeTaskUpdated, "proj-1", "a", "tester", events.SeverityInfo, "a update")))
	require.NoError(t, s.StoreEvent(ctx, events.NewSimpleEvent(events.EventTypeTaskUpdated, "proj-1", "b", "tester", events.SeverityInfo, "b update")))

	got, err := s.GetEventsByTask(ctx, "a", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a update", got[0].Message)
}

func agedEvent(severity events.EventSeverity, ageDays int, message string) *events.Event {
	event := events.NewSimpleEvent(events.EventTypeTaskUpdated, "proj-1", "", "tester", severity, message)
	event.Timestamp = time.Now().UTC().AddDate(0, 0, -ageDays)
	return event
}

func TestPruneEvents(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.StoreEvent(ctx, agedEvent(events.SeverityInfo, 120, "old info")))
	require.NoError(t, s.StoreEvent(ctx, agedEvent(events.SeverityInfo, 10, "recent info")))
	require.NoError(t, s.StoreEvent(ctx, agedEvent(events.SeverityWarning, 120, "old warning")))
	require.NoError(t, s.StoreEvent(ctx, agedEvent(events.SeverityWarning, 400, "ancient warning")))

	deleted, err := s.PruneEvents(ctx, config.DefaultEventRetentionConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	got, err := s.GetEvents(ctx, "proj-1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	messages := []string{got[0].Message, got[1].Message}
	assert.Contains(t, messages, "recent info")
	assert.Contains(t, messages, "old warning")
}

func TestPruneEvents_DisabledDeletesNothing(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.StoreEvent(ctx, agedEvent(events.SeverityInfo, 300, "old info")))

	cfg := config.DefaultEventRetentionConfig()
	cfg.CleanupEnabled = false
	deleted, err := s.PruneEvents(ctx, cfg)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	got, err := s.GetEvents(ctx, "proj-1", 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestPruneEvents_InvalidConfig(t *testing.T) {
	s := newTestStorage(t)
	cfg := config.DefaultEventRetentionConfig()
	cfg.RetentionDays = 0
	_, err := s.PruneEvents(context.Background(), cfg)
	assert.Error(t, err)
}

func TestEventsScopedByProject(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.StoreEvent(ctx, events.NewSimpleEvent(events.EventTypeTaskUpdated, "proj-1", "", "tester", events.SeverityInfo, "one")))
	require.NoError(t, s.StoreEvent(ctx, events.NewSimpleEvent(events.EventTypeTaskUpdated, "proj-2", "", "tester", events.SeverityInfo, "two")))

	got, err := s.GetEvents(ctx, "proj-2", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "two", got[0].Message)
}
