package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Latif080790/NataCarePM-sub017/internal/events"
	"github.com/Latif080790/NataCarePM-sub017/internal/schedule"
	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

const dependencyColumns = "predecessor_id, successor_id, type, lag_days, created_at, created_by"

// AddDependency inserts a dependency edge after proving the project's graph
// stays acyclic with the new edge included. The validation and the insert
// happen in one transaction, so a concurrent writer cannot sneak a
// cycle-closing edge in between.
//
// Returns *types.ReferenceError when either endpoint is missing,
// *types.CycleError when the edge would close a cycle, and a plain error for
// duplicate edges.
func (s *SQLiteStorage) AddDependency(ctx context.Context, dep *types.TaskDependency, actor string) error {
	if err := dep.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		pred, err := getTaskTx(ctx, tx, dep.PredecessorID)
		if errors.Is(err, types.ErrNotFound) {
			return &types.ReferenceError{TaskID: dep.PredecessorID, Role: "predecessor"}
		}
		if err != nil {
			return err
		}
		succ, err := getTaskTx(ctx, tx, dep.SuccessorID)
		if errors.Is(err, types.ErrNotFound) {
			return &types.ReferenceError{TaskID: dep.SuccessorID, Role: "successor"}
		}
		if err != nil {
			return err
		}
		if pred.ProjectID != succ.ProjectID {
			return fmt.Errorf("tasks %s and %s belong to different projects", pred.ID, succ.ID)
		}

		var exists int
		err = tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM task_dependencies WHERE predecessor_id = ? AND successor_id = ?",
			dep.PredecessorID, dep.SuccessorID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check for existing dependency: %w", err)
		}
		if exists > 0 {
			return fmt.Errorf("dependency from %s to %s already exists", dep.PredecessorID, dep.SuccessorID)
		}

		tasks, deps, err := loadProjectTx(ctx, tx, pred.ProjectID)
		if err != nil {
			return err
		}
		deps = append(deps, *dep)
		if _, err := schedule.BuildGraph(tasks, deps); err != nil {
			return err
		}

		dep.CreatedAt = time.Now().UTC()
		dep.CreatedBy = actor
		_, err = tx.ExecContext(ctx, `
			INSERT INTO task_dependencies (predecessor_id, successor_id, type, lag_days, created_at, created_by)
			VALUES (?, ?, ?, ?, ?, ?)`,
			dep.PredecessorID, dep.SuccessorID, string(dep.Type), dep.LagDays,
			formatTime(dep.CreatedAt), dep.CreatedBy)
		if err != nil {
			return fmt.Errorf("failed to insert dependency: %w", err)
		}

		event, err := events.NewDependencyAddedEvent(pred.ProjectID, dep.SuccessorID, actor,
			fmt.Sprintf("added %s dependency from %s to %s (lag %d)", dep.Type, dep.PredecessorID, dep.SuccessorID, dep.LagDays),
			events.DependencyChangeData{
				PredecessorID:  dep.PredecessorID,
				SuccessorID:    dep.SuccessorID,
				DependencyType: string(dep.Type),
				LagDays:        dep.LagDays,
			})
		if err != nil {
			return err
		}
		return insertEvent(ctx, tx, event)
	})
}

// RemoveDependency deletes a dependency edge. Removing an edge can never
// create a cycle, so no graph validation is needed.
func (s *SQLiteStorage) RemoveDependency(ctx context.Context, predecessorID, successorID, actor string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var projectID string
		var depType string
		var lagDays int
		err := tx.QueryRowContext(ctx, `
			SELECT t.project_id, d.type, d.lag_days
			FROM task_dependencies d JOIN tasks t ON t.id = d.successor_id
			WHERE d.predecessor_id = ? AND d.successor_id = ?`,
			predecessorID, successorID).Scan(&projectID, &depType, &lagDays)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("dependency from %s to %s: %w", predecessorID, successorID, types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to look up dependency: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			"DELETE FROM task_dependencies WHERE predecessor_id = ? AND successor_id = ?",
			predecessorID, successorID)
		if err != nil {
			return fmt.Errorf("failed to delete dependency: %w", err)
		}

		event, err := events.NewDependencyRemovedEvent(projectID, successorID, actor,
			fmt.Sprintf("removed %s dependency from %s to %s", depType, predecessorID, successorID),
			events.DependencyChangeData{
				PredecessorID:  predecessorID,
				SuccessorID:    successorID,
				DependencyType: depType,
				LagDays:        lagDays,
			})
		if err != nil {
			return err
		}
		return insertEvent(ctx, tx, event)
	})
}

// ListDependencies returns every dependency edge in a project, ordered for
// stable output.
func (s *SQLiteStorage) ListDependencies(ctx context.Context, projectID string) ([]*types.TaskDependency, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixedDependencyColumns("d")+`
		FROM task_dependencies d JOIN tasks t ON t.id = d.successor_id
		WHERE t.project_id = ?
		ORDER BY d.predecessor_id, d.successor_id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dependencies: %w", err)
	}
	defer rows.Close()
	return collectDependencies(rows)
}

// GetPredecessors returns the edges that constrain the given task.
func (s *SQLiteStorage) GetPredecessors(ctx context.Context, taskID string) ([]*types.TaskDependency, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+dependencyColumns+" FROM task_dependencies WHERE successor_id = ? ORDER BY predecessor_id", taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query predecessors: %w", err)
	}
	defer rows.Close()
	return collectDependencies(rows)
}

// GetSuccessors returns the edges the given task constrains.
func (s *SQLiteStorage) GetSuccessors(ctx context.Context, taskID string) ([]*types.TaskDependency, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+dependencyColumns+" FROM task_dependencies WHERE predecessor_id = ? ORDER BY successor_id", taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query successors: %w", err)
	}
	defer rows.Close()
	return collectDependencies(rows)
}

func prefixedDependencyColumns(alias string) string {
	return alias + ".predecessor_id, " + alias + ".successor_id, " + alias + ".type, " +
		alias + ".lag_days, " + alias + ".created_at, " + alias + ".created_by"
}

func collectDependencies(rows *sql.Rows) ([]*types.TaskDependency, error) {
	var deps []*types.TaskDependency
	for rows.Next() {
		var dep types.TaskDependency
		var depType, createdAt string
		if err := rows.Scan(&dep.PredecessorID, &dep.SuccessorID, &depType, &dep.LagDays, &createdAt, &dep.CreatedBy); err != nil {
			return nil, err
		}
		dep.Type = types.DependencyType(depType)
		var err error
		if dep.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		deps = append(deps, &dep)
	}
	return deps, rows.Err()
}

func getTaskTx(ctx context.Context, tx *sql.Tx, id string) (*types.Task, error) {
	row := tx.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, types.ErrNotFound)
	}
	return task, err
}

// loadProjectTx reads a project's full task and dependency sets inside the
// current transaction, as value slices ready for graph construction.
func loadProjectTx(ctx context.Context, tx *sql.Tx, projectID string) ([]types.Task, []types.TaskDependency, error) {
	rows, err := tx.QueryContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE project_id = ?", projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query project tasks: %w", err)
	}
	defer rows.Close()

	var tasks []types.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	depRows, err := tx.QueryContext(ctx, `
		SELECT `+prefixedDependencyColumns("d")+`
		FROM task_dependencies d JOIN tasks t ON t.id = d.successor_id
		WHERE t.project_id = ?`, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query project dependencies: %w", err)
	}
	defer depRows.Close()

	depPtrs, err := collectDependencies(depRows)
	if err != nil {
		return nil, nil, err
	}
	deps := make([]types.TaskDependency, 0, len(depPtrs))
	for _, d := range depPtrs {
		deps = append(deps, *d)
	}
	return tasks, deps, nil
}
