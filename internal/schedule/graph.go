package schedule

import (
	"fmt"
	"sort"

	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

// Edge is a typed, lagged precedence constraint between two tasks in the graph.
type Edge struct {
	PredecessorID string
	SuccessorID   string
	Type          types.DependencyType
	LagDays       int
}

// Graph is an immutable in-memory dependency graph over a project's tasks.
// It is built fresh for each computation from a snapshot of task and
// dependency records; nothing in the engine mutates it after construction,
// which keeps every computation over it a pure function of its inputs.
type Graph struct {
	tasks      map[string]*types.Task
	successors map[string][]Edge // predecessor id → outgoing edges
	preds      map[string][]Edge // successor id → incoming edges
	order      []string          // topological order, dependencies first
}

// BuildGraph constructs a dependency graph from raw records and validates it.
//
// It fails with a *types.ReferenceError when an edge names a task missing from the
// task set, with the dependency's own Validate error for malformed edges
// (self-reference, bad type), and with a *types.CycleError when the edges do not
// form a DAG. Duplicate (predecessor, successor) pairs are rejected: one
// constraint per task pair.
func BuildGraph(tasks []types.Task, deps []types.TaskDependency) (*Graph, error) {
	g := &Graph{
		tasks:      make(map[string]*types.Task, len(tasks)),
		successors: make(map[string][]Edge),
		preds:      make(map[string][]Edge),
	}

	for i := range tasks {
		t := tasks[i] // copy: the graph must not alias caller-owned records
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("invalid task %s: %w", t.ID, err)
		}
		if _, dup := g.tasks[t.ID]; dup {
			return nil, fmt.Errorf("duplicate task id %s", t.ID)
		}
		g.tasks[t.ID] = &t
	}

	seen := make(map[[2]string]bool, len(deps))
	for i := range deps {
		d := deps[i]
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("invalid dependency %s → %s: %w", d.PredecessorID, d.SuccessorID, err)
		}
		if _, ok := g.tasks[d.PredecessorID]; !ok {
			return nil, &types.ReferenceError{TaskID: d.PredecessorID, Role: "predecessor"}
		}
		if _, ok := g.tasks[d.SuccessorID]; !ok {
			return nil, &types.ReferenceError{TaskID: d.SuccessorID, Role: "successor"}
		}
		key := [2]string{d.PredecessorID, d.SuccessorID}
		if seen[key] {
			return nil, fmt.Errorf("duplicate dependency %s → %s", d.PredecessorID, d.SuccessorID)
		}
		seen[key] = true

		edge := Edge{
			PredecessorID: d.PredecessorID,
			SuccessorID:   d.SuccessorID,
			Type:          d.Type,
			LagDays:       d.LagDays,
		}
		g.successors[d.PredecessorID] = append(g.successors[d.PredecessorID], edge)
		g.preds[d.SuccessorID] = append(g.preds[d.SuccessorID], edge)
	}

	if cycle := g.findCycle(); len(cycle) > 0 {
		return nil, &types.CycleError{Path: cycle}
	}

	order, err := g.topoSort()
	if err != nil {
		return nil, err
	}
	g.order = order

	return g, nil
}

// Task returns the task with the given id, or nil.
func (g *Graph) Task(id string) *types.Task {
	return g.tasks[id]
}

// Len returns the number of tasks in the graph.
func (g *Graph) Len() int {
	return len(g.tasks)
}

// TopoOrder returns task ids in topological order, dependencies first.
// The order is deterministic: among tasks whose predecessors are all
// resolved, lexically smaller ids come first.
func (g *Graph) TopoOrder() []string {
	return g.order
}

// Successors returns the outgoing edges of a task.
func (g *Graph) Successors(id string) []Edge {
	return g.successors[id]
}

// Predecessors returns the incoming edges of a task.
func (g *Graph) Predecessors(id string) []Edge {
	return g.preds[id]
}

// Roots returns ids of tasks with no predecessors, sorted.
func (g *Graph) Roots() []string {
	var roots []string
	for id := range g.tasks {
		if len(g.preds[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// Sinks returns ids of tasks with no successors, sorted.
func (g *Graph) Sinks() []string {
	var sinks []string
	for id := range g.tasks {
		if len(g.successors[id]) == 0 {
			sinks = append(sinks, id)
		}
	}
	sort.Strings(sinks)
	return sinks
}

// findCycle runs a DFS with recursion-stack coloring over the dependency
// edges and returns the closed cycle path if one exists, nil otherwise.
func (g *Graph) findCycle() []string {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	var path []string

	var dfs func(string) bool
	dfs = func(node string) bool {
		visited[node] = true
		recStack[node] = true
		path = append(path, node)

		for _, edge := range g.successors[node] {
			next := edge.SuccessorID
			if !visited[next] {
				if dfs(next) {
					return true
				}
			} else if recStack[next] {
				// Found a cycle - trim the path to where it closes.
				cycleStart := 0
				for i, p := range path {
					if p == next {
						cycleStart = i
						break
					}
				}
				path = append(path[cycleStart:], next)
				return true
			}
		}

		recStack[node] = false
		path = path[:len(path)-1]
		return false
	}

	// Iterate ids in sorted order so the reported cycle is deterministic.
	ids := make([]string, 0, len(g.tasks))
	for id := range g.tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if !visited[id] {
			path = path[:0]
			if dfs(id) {
				return path
			}
		}
	}
	return nil
}

// topoSort produces a deterministic topological order via Kahn's algorithm
// with a remaining in-degree count. It is kept separate from the forward and
// backward passes so ordering and scheduling are independently testable.
// findCycle runs first during BuildGraph, so a non-empty remainder here is a
// programming error rather than bad input.
func (g *Graph) topoSort() ([]string, error) {
	indegree := make(map[string]int, len(g.tasks))
	for id := range g.tasks {
		indegree[id] = len(g.preds[id])
	}

	var ready []string
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.tasks))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		released := false
		for _, edge := range g.successors[id] {
			indegree[edge.SuccessorID]--
			if indegree[edge.SuccessorID] == 0 {
				ready = append(ready, edge.SuccessorID)
				released = true
			}
		}
		if released {
			sort.Strings(ready)
		}
	}

	if len(order) != len(g.tasks) {
		return nil, fmt.Errorf("topological sort incomplete: %d of %d tasks ordered", len(order), len(g.tasks))
	}
	return order, nil
}
