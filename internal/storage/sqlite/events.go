package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Latif080790/NataCarePM-sub017/internal/config"
	"github.com/Latif080790/NataCarePM-sub017/internal/events"
)

const eventColumns = "id, type, timestamp, project_id, task_id, actor, severity, message, data"

// StoreEvent persists a standalone audit event. Events tied to another
// mutation are written inside that mutation's transaction instead.
func (s *SQLiteStorage) StoreEvent(ctx context.Context, event *events.Event) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return insertEvent(ctx, tx, event)
	})
}

// GetEvents returns a project's audit trail, newest first.
func (s *SQLiteStorage) GetEvents(ctx context.Context, projectID string, limit int) ([]*events.Event, error) {
	return s.queryEvents(ctx, "project_id = ?", projectID, limit)
}

// GetEventsByTask returns the audit trail entries naming one task, newest
// first.
func (s *SQLiteStorage) GetEventsByTask(ctx context.Context, taskID string, limit int) ([]*events.Event, error) {
	return s.queryEvents(ctx, "task_id = ?", taskID, limit)
}

func (s *SQLiteStorage) queryEvents(ctx context.Context, cond string, arg interface{}, limit int) ([]*events.Event, error) {
	query := "SELECT " + eventColumns + " FROM events WHERE " + cond + " ORDER BY timestamp DESC, id"
	args := []interface{}{arg}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var result []*events.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

// PruneEvents deletes audit events past their retention period: info events
// older than RetentionDays, warnings and errors older than
// RetentionWarningDays. Deletion happens in batches so the write lock is
// never held long. Returns the number of events deleted.
func (s *SQLiteStorage) PruneEvents(ctx context.Context, cfg config.EventRetentionConfig) (int64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if !cfg.CleanupEnabled {
		return 0, nil
	}

	now := time.Now().UTC()
	infoCutoff := formatTime(now.AddDate(0, 0, -cfg.RetentionDays))
	warnCutoff := formatTime(now.AddDate(0, 0, -cfg.RetentionWarningDays))

	var total int64
	for {
		res, err := s.db.ExecContext(ctx, `
			DELETE FROM events WHERE id IN (
				SELECT id FROM events
				WHERE (severity = 'info' AND timestamp < ?)
				   OR timestamp < ?
				ORDER BY timestamp
				LIMIT ?
			)`, infoCutoff, warnCutoff, cfg.CleanupBatchSize)
		if err != nil {
			return total, fmt.Errorf("failed to prune events: %w", err)
		}
		deleted, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += deleted
		if deleted < int64(cfg.CleanupBatchSize) {
			return total, nil
		}
	}
}

// insertEvent writes one event inside an existing transaction.
func insertEvent(ctx context.Context, tx *sql.Tx, event *events.Event) error {
	if !event.Type.IsValid() {
		return fmt.Errorf("invalid event type: %s", event.Type)
	}
	data := event.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	var taskID sql.NullString
	if event.TaskID != "" {
		taskID = sql.NullString{String: event.TaskID, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, string(event.Type), formatTime(event.Timestamp), event.ProjectID,
		taskID, event.Actor, string(event.Severity), event.Message, string(dataJSON))
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

func scanEvent(row scanner) (*events.Event, error) {
	var event events.Event
	var eventType, timestamp, severity, dataJSON string
	var taskID sql.NullString

	err := row.Scan(&event.ID, &eventType, &timestamp, &event.ProjectID,
		&taskID, &event.Actor, &severity, &event.Message, &dataJSON)
	if err != nil {
		return nil, err
	}

	event.Type = events.EventType(eventType)
	event.Severity = events.EventSeverity(severity)
	event.TaskID = taskID.String
	if event.Timestamp, err = parseTime(timestamp); err != nil {
		return nil, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	if err := json.Unmarshal([]byte(dataJSON), &event.Data); err != nil {
		return nil, fmt.Errorf("failed to parse event data: %w", err)
	}
	return &event, nil
}
