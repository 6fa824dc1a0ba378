package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Latif080790/NataCarePM-sub017/internal/types"
)

func day(d int) time.Time {
	return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d-1)
}

func task(id string, startDay, endDay int) types.Task {
	return types.Task{
		ID:        id,
		ProjectID: "p-1",
		Name:      "task " + id,
		StartDate: day(startDay),
		EndDate:   day(endDay),
	}
}

func fs(pred, succ string, lag int) types.TaskDependency {
	return types.TaskDependency{
		PredecessorID: pred,
		SuccessorID:   succ,
		Type:          types.DepFinishToStart,
		LagDays:       lag,
	}
}

func TestBuildGraph_Valid(t *testing.T) {
	tasks := []types.Task{task("a", 1, 5), task("b", 6, 10), task("c", 6, 8)}
	deps := []types.TaskDependency{fs("a", "b", 0), fs("a", "c", 0)}

	g, err := BuildGraph(tasks, deps)
	require.NoError(t, err)

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []string{"a", "b", "c"}, g.TopoOrder())
	assert.Equal(t, []string{"a"}, g.Roots())
	assert.Equal(t, []string{"b", "c"}, g.Sinks())
	assert.Len(t, g.Successors("a"), 2)
	assert.Len(t, g.Predecessors("b"), 1)
}

func TestBuildGraph_UnknownTask(t *testing.T) {
	tasks := []types.Task{task("a", 1, 5)}

	_, err := BuildGraph(tasks, []types.TaskDependency{fs("a", "ghost", 0)})
	var refErr *types.ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "ghost", refErr.TaskID)
	assert.Equal(t, "successor", refErr.Role)

	_, err = BuildGraph(tasks, []types.TaskDependency{fs("ghost", "a", 0)})
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "predecessor", refErr.Role)
}

func TestBuildGraph_SelfReference(t *testing.T) {
	tasks := []types.Task{task("a", 1, 5)}
	_, err := BuildGraph(tasks, []types.TaskDependency{fs("a", "a", 0)})
	assert.Error(t, err)
}

func TestBuildGraph_DuplicateEdge(t *testing.T) {
	tasks := []types.Task{task("a", 1, 5), task("b", 6, 10)}
	deps := []types.TaskDependency{fs("a", "b", 0), fs("a", "b", 2)}
	_, err := BuildGraph(tasks, deps)
	assert.ErrorContains(t, err, "duplicate dependency")
}

func TestBuildGraph_Cycle(t *testing.T) {
	tasks := []types.Task{task("a", 1, 5), task("b", 6, 10), task("c", 11, 12)}
	deps := []types.TaskDependency{fs("a", "b", 0), fs("b", "c", 0), fs("c", "a", 0)}

	_, err := BuildGraph(tasks, deps)
	var cycleErr *types.CycleError
	require.ErrorAs(t, err, &cycleErr)

	// Path is closed: first and last element match, and every edge on it exists.
	require.GreaterOrEqual(t, len(cycleErr.Path), 4)
	assert.Equal(t, cycleErr.Path[0], cycleErr.Path[len(cycleErr.Path)-1])
	assert.Contains(t, cycleErr.Path, "a")
	assert.Contains(t, cycleErr.Path, "b")
	assert.Contains(t, cycleErr.Path, "c")
}

func TestBuildGraph_TwoNodeCycle(t *testing.T) {
	tasks := []types.Task{task("a", 1, 5), task("b", 6, 10)}
	deps := []types.TaskDependency{fs("a", "b", 0), fs("b", "a", 0)}

	_, err := BuildGraph(tasks, deps)
	var cycleErr *types.CycleError
	require.ErrorAs(t, err, &cycleErr)
}

func TestBuildGraph_AcyclicNeverCycleError(t *testing.T) {
	// Diamond: a → b, a → c, b → d, c → d.
	tasks := []types.Task{task("a", 1, 2), task("b", 3, 4), task("c", 3, 5), task("d", 6, 7)}
	deps := []types.TaskDependency{fs("a", "b", 0), fs("a", "c", 0), fs("b", "d", 0), fs("c", "d", 0)}

	g, err := BuildGraph(tasks, deps)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, g.TopoOrder())
}

func TestBuildGraph_DisconnectedComponents(t *testing.T) {
	tasks := []types.Task{task("a", 1, 5), task("b", 6, 10), task("x", 1, 2), task("y", 3, 4)}
	deps := []types.TaskDependency{fs("a", "b", 0), fs("x", "y", 0)}

	g, err := BuildGraph(tasks, deps)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "x"}, g.Roots())
	assert.ElementsMatch(t, []string{"b", "y"}, g.Sinks())
}

func TestBuildGraph_DuplicateTaskID(t *testing.T) {
	tasks := []types.Task{task("a", 1, 5), task("a", 6, 10)}
	_, err := BuildGraph(tasks, nil)
	assert.ErrorContains(t, err, "duplicate task id")
}

func TestTopoOrder_Deterministic(t *testing.T) {
	// No edges at all: order falls back to lexical ids.
	tasks := []types.Task{task("c", 1, 2), task("a", 1, 2), task("b", 1, 2)}
	g, err := BuildGraph(tasks, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, g.TopoOrder())
}

func TestBuildGraph_DoesNotMutateInputs(t *testing.T) {
	tasks := []types.Task{task("a", 1, 5), task("b", 6, 10)}
	deps := []types.TaskDependency{fs("a", "b", 0)}
	before := tasks[0]

	_, err := BuildGraph(tasks, deps)
	require.NoError(t, err)
	assert.Equal(t, before, tasks[0])
}
