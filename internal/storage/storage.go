package storage

import (
	"context"
	"time"

	"github.com/Latif080790/NataCarePM-sub017/internal/config"
	"github.com/Latif080790/NataCarePM-sub017/internal/events"
	"github.com/Latif080790/NataCarePM-sub017/internal/schedule"
	"github.com/Latif080790/NataCarePM-sub017/internal/storage/sqlite"
	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

// Storage defines the interface for project plan storage backends
type Storage interface {
	// Tasks
	CreateTask(ctx context.Context, task *types.Task, actor string) error
	GetTask(ctx context.Context, id string) (*types.Task, error)
	ListTasks(ctx context.Context, filter types.TaskFilter) ([]*types.Task, error)
	UpdateTaskDates(ctx context.Context, id string, startDate, endDate time.Time, actor string) error
	ApplyTaskShifts(ctx context.Context, shifts []schedule.TaskShift) error
	SetDatesStale(ctx context.Context, ids []string, stale bool) error
	CompleteTask(ctx context.Context, id, actor string) error

	// Dependencies
	AddDependency(ctx context.Context, dep *types.TaskDependency, actor string) error
	RemoveDependency(ctx context.Context, predecessorID, successorID, actor string) error
	ListDependencies(ctx context.Context, projectID string) ([]*types.TaskDependency, error)
	GetPredecessors(ctx context.Context, taskID string) ([]*types.TaskDependency, error)
	GetSuccessors(ctx context.Context, taskID string) ([]*types.TaskDependency, error)

	// Resource allocations
	CreateAllocation(ctx context.Context, alloc *types.ResourceAllocation, actor string) error
	GetAllocation(ctx context.Context, id string) (*types.ResourceAllocation, error)
	ListAllocations(ctx context.Context, filter types.AllocationFilter) ([]*types.ResourceAllocation, error)
	UpdateAllocationStatus(ctx context.Context, id string, target types.AllocationStatus, actor string) error
	GetResourceLoad(ctx context.Context, projectID string) ([]*sqlite.ResourceLoad, error)

	// Audit events
	StoreEvent(ctx context.Context, event *events.Event) error
	GetEvents(ctx context.Context, projectID string, limit int) ([]*events.Event, error)
	GetEventsByTask(ctx context.Context, taskID string, limit int) ([]*events.Event, error)
	PruneEvents(ctx context.Context, cfg config.EventRetentionConfig) (int64, error)

	// Lifecycle
	Close() error
}

// Config holds database configuration
type Config struct {
	// Path is the SQLite database file path
	// Default: ".natapm/natapm.db"
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path: ".natapm/natapm.db",
	}
}

// NewStorage creates a new SQLite storage backend
// The ctx parameter is currently unused but kept for API consistency
// and future extension possibilities
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if cfg.Path == "" {
		cfg.Path = ".natapm/natapm.db"
	}

	return sqlite.New(cfg.Path)
}
