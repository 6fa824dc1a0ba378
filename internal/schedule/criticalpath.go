package schedule

import (
	"sort"
	"time"

	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

// TaskSchedule holds the computed schedule for a single task. All values are
// whole-day offsets from the project anchor; finishes are exclusive, so
// EarliestFinish == EarliestStart + DurationDays. Use the date helpers on
// Schedule to convert offsets back to inclusive calendar dates.
type TaskSchedule struct {
	TaskID         string `json:"task_id"`
	DurationDays   int    `json:"duration_days"`
	EarliestStart  int    `json:"earliest_start"`
	EarliestFinish int    `json:"earliest_finish"`
	LatestStart    int    `json:"latest_start"`
	LatestFinish   int    `json:"latest_finish"`
	TotalSlack     int    `json:"total_slack"`
	FreeSlack      int    `json:"free_slack"`
	Critical       bool   `json:"critical"`
}

// Schedule is the result of a critical path computation over one project
// snapshot. It is derived data: callers may persist it for reporting, the
// engine never requires that.
type Schedule struct {
	// Anchor is the project origin: the earliest start date among all tasks.
	// Day offset 0 corresponds to this date.
	Anchor time.Time `json:"anchor"`

	// DurationDays is the make-span: the minimum possible project length in
	// whole calendar days given the dependency constraints.
	DurationDays int `json:"duration_days"`

	// Tasks maps task id to its computed schedule.
	Tasks map[string]TaskSchedule `json:"tasks"`

	// CriticalPath is one longest path through the graph, ordered from a
	// zero-slack source to a zero-slack sink. When several longest paths
	// exist the tie-break is: prefer the task with the latest earliest
	// finish, then the lexically smallest task id.
	CriticalPath []string `json:"critical_path"`

	// CriticalTasks lists every task with zero total slack, sorted by id.
	// Every task on CriticalPath appears here; the reverse need not hold
	// when parallel longest paths tie.
	CriticalTasks []string `json:"critical_tasks"`
}

// EarliestStartDate returns the computed earliest start as a calendar date.
func (s *Schedule) EarliestStartDate(id string) time.Time {
	return s.Anchor.AddDate(0, 0, s.Tasks[id].EarliestStart)
}

// EarliestFinishDate returns the computed earliest finish as an inclusive
// calendar date (the last day the task occupies).
func (s *Schedule) EarliestFinishDate(id string) time.Time {
	return s.Anchor.AddDate(0, 0, s.Tasks[id].EarliestFinish-1)
}

// LatestStartDate returns the computed latest start as a calendar date.
func (s *Schedule) LatestStartDate(id string) time.Time {
	return s.Anchor.AddDate(0, 0, s.Tasks[id].LatestStart)
}

// LatestFinishDate returns the computed latest finish as an inclusive
// calendar date.
func (s *Schedule) LatestFinishDate(id string) time.Time {
	return s.Anchor.AddDate(0, 0, s.Tasks[id].LatestFinish-1)
}

// CalculateCriticalPath performs the Critical Path Method over a snapshot of
// tasks and dependencies: build and validate the graph, forward pass for
// earliest dates, backward pass for latest dates, then slack and path
// extraction. Malformed input (unknown references, cycles) fails here before
// any pass runs; the computation itself is pure and deterministic.
//
// Durations and lags are whole calendar days; no working-day calendar is
// applied.
func CalculateCriticalPath(tasks []types.Task, deps []types.TaskDependency) (*Schedule, error) {
	g, err := BuildGraph(tasks, deps)
	if err != nil {
		return nil, err
	}
	return ComputeSchedule(g), nil
}

// ComputeSchedule runs the forward and backward passes over an already
// validated graph. Split from CalculateCriticalPath so callers holding a
// graph (the mutator, tests) can reuse it.
//
// Stored start dates matter only for root tasks. A non-root's earliest start
// comes from its predecessor constraints alone, so a stored start later than
// the constraints imply does not hold the task back; reconciling stored dates
// with computed ones is the caller's concern.
func ComputeSchedule(g *Graph) *Schedule {
	order := g.TopoOrder()
	result := &Schedule{
		Tasks: make(map[string]TaskSchedule, g.Len()),
	}
	if g.Len() == 0 {
		return result
	}

	// Anchor: earliest start date over all tasks. Offsets are measured from it.
	anchor := time.Time{}
	for _, id := range order {
		start := types.DayOf(g.Task(id).StartDate)
		if anchor.IsZero() || start.Before(anchor) {
			anchor = start
		}
	}
	result.Anchor = anchor

	es := make(map[string]int, g.Len())
	ef := make(map[string]int, g.Len())
	dur := make(map[string]int, g.Len())

	// Forward pass. Roots keep their own given start; every other task is
	// purely constraint-driven, clamped at the anchor.
	for _, id := range order {
		task := g.Task(id)
		dur[id] = task.DurationDays()

		if len(g.Predecessors(id)) == 0 {
			es[id] = types.DaysBetweenInclusive(anchor, task.StartDate) - 1
		} else {
			start := 0
			for _, edge := range g.Predecessors(id) {
				if bound := forwardBound(edge, es, ef, dur[id]); bound > start {
					start = bound
				}
			}
			es[id] = start
		}
		ef[id] = es[id] + dur[id]
	}

	// Make-span: the maximum earliest finish. With non-negative lags this is
	// always realized at a sink; parallel finish branches are covered by
	// taking the max.
	makespan := 0
	for _, id := range order {
		if ef[id] > makespan {
			makespan = ef[id]
		}
	}
	result.DurationDays = makespan

	// Backward pass in reverse topological order. Sinks take LF = make-span.
	lf := make(map[string]int, g.Len())
	ls := make(map[string]int, g.Len())
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		if len(g.Successors(id)) == 0 {
			lf[id] = makespan
		} else {
			finish := makespan
			for _, edge := range g.Successors(id) {
				if bound := backwardBound(edge, ls, lf, dur[id]); bound < finish {
					finish = bound
				}
			}
			lf[id] = finish
		}
		ls[id] = lf[id] - dur[id]
	}

	for _, id := range order {
		slack := ls[id] - es[id]
		result.Tasks[id] = TaskSchedule{
			TaskID:         id,
			DurationDays:   dur[id],
			EarliestStart:  es[id],
			EarliestFinish: ef[id],
			LatestStart:    ls[id],
			LatestFinish:   lf[id],
			TotalSlack:     slack,
			FreeSlack:      freeSlack(g, id, es, ef, dur, makespan),
			Critical:       slack == 0,
		}
		if slack == 0 {
			result.CriticalTasks = append(result.CriticalTasks, id)
		}
	}
	sort.Strings(result.CriticalTasks)

	result.CriticalPath = extractCriticalPath(g, result.Tasks)
	return result
}

// forwardBound returns the lower bound this edge places on the successor's
// earliest start, given the successor's duration.
func forwardBound(edge Edge, es, ef map[string]int, succDur int) int {
	switch edge.Type {
	case types.DepFinishToStart:
		return ef[edge.PredecessorID] + edge.LagDays
	case types.DepStartToStart:
		return es[edge.PredecessorID] + edge.LagDays
	case types.DepFinishToFinish:
		return ef[edge.PredecessorID] + edge.LagDays - succDur
	case types.DepStartToFinish:
		return es[edge.PredecessorID] + edge.LagDays - succDur
	}
	return 0
}

// backwardBound returns the upper bound this edge places on the
// predecessor's latest finish, given the predecessor's duration.
func backwardBound(edge Edge, ls, lf map[string]int, predDur int) int {
	switch edge.Type {
	case types.DepFinishToStart:
		return ls[edge.SuccessorID] - edge.LagDays
	case types.DepStartToStart:
		return ls[edge.SuccessorID] - edge.LagDays + predDur
	case types.DepFinishToFinish:
		return lf[edge.SuccessorID] - edge.LagDays
	case types.DepStartToFinish:
		return lf[edge.SuccessorID] - edge.LagDays + predDur
	}
	return lf[edge.SuccessorID]
}

// freeSlack is the number of days a task can slip without moving any
// successor's earliest start. Sinks measure against the make-span.
func freeSlack(g *Graph, id string, es, ef, dur map[string]int, makespan int) int {
	succs := g.Successors(id)
	if len(succs) == 0 {
		return makespan - ef[id]
	}
	free := makespan
	for _, edge := range succs {
		headroom := es[edge.SuccessorID] - forwardBound(edge, es, ef, dur[edge.SuccessorID])
		if headroom < free {
			free = headroom
		}
	}
	if free < 0 {
		return 0
	}
	return free
}

// extractCriticalPath walks tight zero-slack edges backwards from the chosen
// zero-slack sink. The tie-break is deliberate and documented: among
// candidates prefer the latest earliest finish, then the lexically smallest
// task id, so repeated runs over the same snapshot report the same path even
// when several longest paths exist.
func extractCriticalPath(g *Graph, sched map[string]TaskSchedule) []string {
	// Pick the terminal task: zero slack, no successors, latest EF. With
	// start-to-start or finish-to-finish chains the make-span can be realized
	// at an interior task and leave every sink slack-positive; fall back to
	// the latest-finishing zero-slack task in that case.
	terminal := ""
	for _, id := range g.Sinks() {
		ts := sched[id]
		if ts.TotalSlack != 0 {
			continue
		}
		if terminal == "" || betterCandidate(ts, sched[terminal]) {
			terminal = id
		}
	}
	if terminal == "" {
		for _, id := range g.TopoOrder() {
			ts := sched[id]
			if ts.TotalSlack != 0 {
				continue
			}
			if terminal == "" || betterCandidate(ts, sched[terminal]) {
				terminal = id
			}
		}
	}
	if terminal == "" {
		return nil
	}

	path := []string{terminal}
	current := terminal
	for {
		currentES := sched[current].EarliestStart
		next := ""
		for _, edge := range g.Predecessors(current) {
			pred := edge.PredecessorID
			if sched[pred].TotalSlack != 0 {
				continue
			}
			// An edge is tight when it is the constraint that fixed the
			// successor's earliest start.
			bound := forwardBoundFromSchedule(edge, sched)
			if bound != currentES {
				continue
			}
			if next == "" || betterCandidate(sched[pred], sched[next]) {
				next = pred
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		current = next
	}

	// Walked sink → source; report source → sink.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func forwardBoundFromSchedule(edge Edge, sched map[string]TaskSchedule) int {
	pred := sched[edge.PredecessorID]
	succ := sched[edge.SuccessorID]
	switch edge.Type {
	case types.DepFinishToStart:
		return pred.EarliestFinish + edge.LagDays
	case types.DepStartToStart:
		return pred.EarliestStart + edge.LagDays
	case types.DepFinishToFinish:
		return pred.EarliestFinish + edge.LagDays - succ.DurationDays
	case types.DepStartToFinish:
		return pred.EarliestStart + edge.LagDays - succ.DurationDays
	}
	return 0
}

func betterCandidate(candidate, incumbent TaskSchedule) bool {
	if candidate.EarliestFinish != incumbent.EarliestFinish {
		return candidate.EarliestFinish > incumbent.EarliestFinish
	}
	return candidate.TaskID < incumbent.TaskID
}
