package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Latif080790/NataCarePM-sub017/internal/events"
	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

const allocationColumns = "id, project_id, task_id, resource_id, resource_type, start_date, end_date, " +
	"percent, estimated_cost_cents, status, created_at, updated_at, created_by"

// ResourceLoad is one row of the active_resource_load view: the committed
// (planned plus active) load on a single resource within a project.
type ResourceLoad struct {
	ProjectID       string
	ResourceID      string
	ResourceType    types.ResourceType
	AllocationCount int
	TotalPercent    int
	TotalCostCents  int64
}

// CreateAllocation inserts a new allocation and records the audit event.
// Capacity policy is the allocation validator's job; by the time a record
// reaches this layer it is assumed approved.
func (s *SQLiteStorage) CreateAllocation(ctx context.Context, alloc *types.ResourceAllocation, actor string) error {
	now := time.Now().UTC()
	alloc.CreatedAt = now
	alloc.UpdatedAt = now
	alloc.CreatedBy = actor
	alloc.StartDate = types.DayOf(alloc.StartDate)
	alloc.EndDate = types.DayOf(alloc.EndDate)

	if err := alloc.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		var taskExists int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE id = ?", alloc.TaskID).Scan(&taskExists); err != nil {
			return fmt.Errorf("failed to check task: %w", err)
		}
		if taskExists == 0 {
			return &types.ReferenceError{TaskID: alloc.TaskID, Role: "allocation target"}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO resource_allocations (`+allocationColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			alloc.ID, alloc.ProjectID, alloc.TaskID, alloc.ResourceID, string(alloc.ResourceType),
			formatDate(alloc.StartDate), formatDate(alloc.EndDate),
			alloc.Percent, alloc.EstimatedCostCents, string(alloc.Status),
			formatTime(alloc.CreatedAt), formatTime(alloc.UpdatedAt), alloc.CreatedBy)
		if err != nil {
			return fmt.Errorf("failed to insert allocation: %w", err)
		}

		event, err := events.NewResourceAllocatedEvent(alloc.ProjectID, alloc.TaskID, actor,
			fmt.Sprintf("allocated %d%% of %s %s to task %s", alloc.Percent, alloc.ResourceType, alloc.ResourceID, alloc.TaskID),
			events.AllocationData{
				AllocationID:       alloc.ID,
				ResourceID:         alloc.ResourceID,
				ResourceType:       string(alloc.ResourceType),
				Percent:            alloc.Percent,
				EstimatedCostCents: alloc.EstimatedCostCents,
			})
		if err != nil {
			return err
		}
		return insertEvent(ctx, tx, event)
	})
}

// GetAllocation retrieves an allocation by ID.
func (s *SQLiteStorage) GetAllocation(ctx context.Context, id string) (*types.ResourceAllocation, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+allocationColumns+" FROM resource_allocations WHERE id = ?", id)
	alloc, err := scanAllocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("allocation %s: %w", id, types.ErrNotFound)
	}
	return alloc, err
}

// ListAllocations returns allocations matching the filter, ordered by start
// date then ID.
func (s *SQLiteStorage) ListAllocations(ctx context.Context, filter types.AllocationFilter) ([]*types.ResourceAllocation, error) {
	query := "SELECT " + allocationColumns + " FROM resource_allocations"
	var conds []string
	var args []interface{}

	if filter.ProjectID != "" {
		conds = append(conds, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.TaskID != "" {
		conds = append(conds, "task_id = ?")
		args = append(args, filter.TaskID)
	}
	if filter.ResourceID != "" {
		conds = append(conds, "resource_id = ?")
		args = append(args, filter.ResourceID)
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		conds = append(conds, "status IN ("+strings.Join(placeholders, ", ")+")")
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
		return nil, fmt.Errorf("failed to query allocations: %w", err)
	}
	defer rows.Close()

	var allocs []*types.ResourceAllocation
	for rows.Next() {
		alloc, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		allocs = append(allocs, alloc)
	}
	return allocs, rows.Err()
}

// UpdateAllocationStatus advances an allocation through its lifecycle,
// enforcing the forward-only state machine. Terminal rows are never deleted.
func (s *SQLiteStorage) UpdateAllocationStatus(ctx context.Context, id string, target types.AllocationStatus, actor string) error {
	if !target.IsValid() {
		return fmt.Errorf("invalid status: %s", target)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		var current, projectID, taskID string
		err := tx.QueryRowContext(ctx,
			"SELECT status, project_id, task_id FROM resource_allocations WHERE id = ?", id).
			Scan(&current, &projectID, &taskID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("allocation %s: %w", id, types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to look up allocation: %w", err)
		}

		currentStatus := types.AllocationStatus(current)
		if !currentStatus.CanTransitionTo(target) {
			return fmt.Errorf("invalid status transition for allocation %s: %s → %s", id, current, target)
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE resource_allocations SET status = ?, updated_at = ? WHERE id = ?",
			string(target), formatTime(time.Now().UTC()), id)
		if err != nil {
			return fmt.Errorf("failed to update allocation status: %w", err)
		}

		event, err := events.NewAllocationStatusChangedEvent(projectID, taskID, actor,
			fmt.Sprintf("allocation %s: %s → %s", id, current, target),
			events.AllocationStatusChangedData{
				AllocationID: id,
				OldStatus:    current,
				NewStatus:    string(target),
			})
		if err != nil {
			return err
		}
		return insertEvent(ctx, tx, event)
	})
}

// GetResourceLoad reads the active_resource_load view for one project.
func (s *SQLiteStorage) GetResourceLoad(ctx context.Context, projectID string) ([]*ResourceLoad, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project_id, resource_id, resource_type, allocation_count, total_percent, total_cost_cents
		FROM active_resource_load
		WHERE project_id = ?
		ORDER BY resource_id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query resource load: %w", err)
	}
	defer rows.Close()

	var loads []*ResourceLoad
	for rows.Next() {
		var load ResourceLoad
		var resourceType string
		if err := rows.Scan(&load.ProjectID, &load.ResourceID, &resourceType,
			&load.AllocationCount, &load.TotalPercent, &load.TotalCostCents); err != nil {
			return nil, err
		}
		load.ResourceType = types.ResourceType(resourceType)
		loads = append(loads, &load)
	}
	return loads, rows.Err()
}

func scanAllocation(row scanner) (*types.ResourceAllocation, error) {
	var alloc types.ResourceAllocation
	var resourceType, startDate, endDate, status, createdAt, updatedAt string

	err := row.Scan(&alloc.ID, &alloc.ProjectID, &alloc.TaskID, &alloc.ResourceID, &resourceType,
		&startDate, &endDate, &alloc.Percent, &alloc.EstimatedCostCents, &status,
		&createdAt, &updatedAt, &alloc.CreatedBy)
	if err != nil {
		return nil, err
	}

	alloc.ResourceType = types.ResourceType(resourceType)
	alloc.Status = types.AllocationStatus(status)
	if alloc.StartDate, err = parseDate(startDate); err != nil {
		return nil, fmt.Errorf("failed to parse start_date: %w", err)
	}
	if alloc.EndDate, err = parseDate(endDate); err != nil {
		return nil, fmt.Errorf("failed to parse end_date: %w", err)
	}
	if alloc.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if alloc.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return &alloc, nil
}
