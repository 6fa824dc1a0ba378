// Package health implements plan health checks: small diagnostics run over a
// project's stored state, surfaced by the doctor command.
package health

import (
	"context"

	"github.com/Latif080790/NataCarePM-sub017/internal/storage"
)

// Status classifies a check outcome.
type Status string

const (
	StatusOK       Status = "ok"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Result is the outcome of one health check.
type Result struct {
	Status  Status
	Message string

	// Details lists the specific items behind a non-ok status, e.g. the
	// stale task ids or over-committed resource ids.
	Details []string
}

// Check examines one aspect of a project's plan.
type Check interface {
	// Name returns the unique identifier for this check.
	Name() string

	// Description says what the check looks for, in one line.
	Description() string

	// Run examines the project and reports what it found. An error means
	// the check itself could not run, not that the plan is unhealthy.
	Run(ctx context.Context, store storage.Storage, projectID string) (*Result, error)
}
