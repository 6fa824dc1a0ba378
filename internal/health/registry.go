package health

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Latif080790/NataCarePM-sub017/internal/storage"
)

// Registry manages the set of health checks.
type Registry struct {
	mu     sync.RWMutex
	checks map[string]Check
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{checks: make(map[string]Check)}
}

// DefaultRegistry returns a registry with the standard plan checks
// registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// Names are unique by construction here, so Register cannot fail.
	_ = r.Register(&ScheduleCheck{})
	_ = r.Register(&StaleTasksCheck{})
	_ = r.Register(&ResourceLoadCheck{})
	return r
}

// Register adds a health check to the registry.
func (r *Registry) Register(check Check) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := check.Name()
	if _, exists := r.checks[name]; exists {
		return fmt.Errorf("check %q already registered", name)
	}
	r.checks[name] = check
	return nil
}

// Names returns all registered check names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NamedResult pairs a check with its outcome.
type NamedResult struct {
	Name        string
	Description string
	Result      *Result
}

// RunAll runs every registered check in name order. A check that fails to
// run is reported as critical rather than aborting the rest.
func (r *Registry) RunAll(ctx context.Context, store storage.Storage, projectID string) []NamedResult {
	var results []NamedResult
	for _, name := range r.Names() {
		r.mu.RLock()
		check := r.checks[name]
		r.mu.RUnlock()

		result, err := check.Run(ctx, store, projectID)
		if err != nil {
			result = &Result{
				Status:  StatusCritical,
				Message: fmt.Sprintf("check failed to run: %v", err),
			}
		}
		results = append(results, NamedResult{
			Name:        name,
			Description: check.Description(),
			Result:      result,
		})
	}
	return results
}

// Worst returns the most severe status among the results.
func Worst(results []NamedResult) Status {
	worst := StatusOK
	for _, r := range results {
		switch r.Result.Status {
		case StatusCritical:
			return StatusCritical
		case StatusWarning:
			worst = StatusWarning
		}
	}
	return worst
}
