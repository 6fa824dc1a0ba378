package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Latif080790/NataCarePM-sub017/internal/events"
	"github.com/Latif080790/NataCarePM-sub017/internal/schedule"
	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

const taskColumns = "id, project_id, name, start_date, end_date, dates_stale, created_at, updated_at, completed_at"

// CreateTask inserts a new task and records a task_created audit event in
// the same transaction.
func (s *SQLiteStorage) CreateTask(ctx context.Context, task *types.Task, actor string) error {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	task.StartDate = types.DayOf(task.StartDate)
	task.EndDate = types.DayOf(task.EndDate)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, project_id, name, start_date, end_date, dates_stale, created_at, updated_at, completed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			task.ID, task.ProjectID, task.Name,
			formatDate(task.StartDate), formatDate(task.EndDate),
			boolToInt(task.DatesStale),
			formatTime(task.CreatedAt), formatTime(task.UpdatedAt),
			formatNullableTime(task.CompletedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert task: %w", err)
		}

		event := events.NewSimpleEvent(events.EventTypeTaskCreated, task.ProjectID, task.ID, actor,
			events.SeverityInfo, fmt.Sprintf("created task %q (%s to %s)", task.Name,
				formatDate(task.StartDate), formatDate(task.EndDate)))
		return insertEvent(ctx, tx, event)
	})
}

// GetTask retrieves a task by ID. Returns types.ErrNotFound when no task
// with the given ID exists.
func (s *SQLiteStorage) GetTask(ctx context.Context, id string) (*types.Task, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, types.ErrNotFound)
	}
	return task, err
}

// ListTasks returns tasks matching the filter, ordered by start date then ID
// so listings are stable.
func (s *SQLiteStorage) ListTasks(ctx context.Context, filter types.TaskFilter) ([]*types.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks"
	var conds []string
	var args []interface{}

	if filter.ProjectID != "" {
		conds = append(conds, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.Stale != nil {
		conds = append(conds, "dates_stale = ?")
		args = append(args, boolToInt(*filter.Stale))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY start_date, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*types.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// UpdateTaskDates rewrites a task's date range and clears its stale flag.
// The caller is responsible for the schedule_updated audit event, which
// carries propagation details this layer does not know about.
func (s *SQLiteStorage) UpdateTaskDates(ctx context.Context, id string, startDate, endDate time.Time, actor string) error {
	startDate, endDate = types.DayOf(startDate), types.DayOf(endDate)
	if endDate.Before(startDate) {
		return &types.InvalidRangeError{Reason: fmt.Sprintf("end_date %s is before start_date %s",
			endDate.Format(dateLayout), startDate.Format(dateLayout))}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET start_date = ?, end_date = ?, dates_stale = 0, updated_at = ?
		WHERE id = ?`,
		formatDate(startDate), formatDate(endDate), formatTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("failed to update task dates: %w", err)
	}
	return requireRow(result, id)
}

// ApplyTaskShifts persists the date changes from a schedule propagation in a
// single transaction, so a crash never leaves half a cascade applied.
func (s *SQLiteStorage) ApplyTaskShifts(ctx context.Context, shifts []schedule.TaskShift) error {
	if len(shifts) == 0 {
		return nil
	}
	now := formatTime(time.Now().UTC())
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, shift := range shifts {
			result, err := tx.ExecContext(ctx, `
				UPDATE tasks SET start_date = ?, end_date = ?, dates_stale = 0, updated_at = ?
				WHERE id = ?`,
				formatDate(shift.NewStartDate), formatDate(shift.NewEndDate), now, shift.TaskID)
			if err != nil {
				return fmt.Errorf("failed to shift task %s: %w", shift.TaskID, err)
			}
			if err := requireRow(result, shift.TaskID); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetDatesStale flips the stale marker on the given tasks. Used in manual
// scheduling mode, where dependent dates are flagged instead of rewritten.
func (s *SQLiteStorage) SetDatesStale(ctx context.Context, ids []string, stale bool) error {
	if len(ids) == 0 {
		return nil
	}
	now := formatTime(time.Now().UTC())
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			result, err := tx.ExecContext(ctx,
				"UPDATE tasks SET dates_stale = ?, updated_at = ? WHERE id = ?",
				boolToInt(stale), now, id)
			if err != nil {
				return fmt.Errorf("failed to flag task %s: %w", id, err)
			}
			if err := requireRow(result, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// CompleteTask stamps a task's completion time and records the audit event.
func (s *SQLiteStorage) CompleteTask(ctx context.Context, id, actor string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var projectID string
		err := tx.QueryRowContext(ctx, "SELECT project_id FROM tasks WHERE id = ?", id).Scan(&projectID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("task %s: %w", id, types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to look up task: %w", err)
		}

		now := time.Now().UTC()
		_, err = tx.ExecContext(ctx,
			"UPDATE tasks SET completed_at = ?, updated_at = ? WHERE id = ?",
			formatTime(now), formatTime(now), id)
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		event := events.NewSimpleEvent(events.EventTypeTaskUpdated, projectID, id, actor,
			events.SeverityInfo, "marked task completed")
		return insertEvent(ctx, tx, event)
	})
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row scanner) (*types.Task, error) {
	var task types.Task
	var startDate, endDate, createdAt, updatedAt string
	var staleInt int
	var completedAt sql.NullString

	err := row.Scan(&task.ID, &task.ProjectID, &task.Name,
		&startDate, &endDate, &staleInt, &createdAt, &updatedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	if task.StartDate, err = parseDate(startDate); err != nil {
		return nil, fmt.Errorf("failed to parse start_date: %w", err)
	}
	if task.EndDate, err = parseDate(endDate); err != nil {
		return nil, fmt.Errorf("failed to parse end_date: %w", err)
	}
	if task.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if task.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	if task.CompletedAt, err = parseNullableTime(completedAt); err != nil {
		return nil, fmt.Errorf("failed to parse completed_at: %w", err)
	}
	task.DatesStale = staleInt != 0
	return &task, nil
}

func requireRow(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task %s: %w", id, types.ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
