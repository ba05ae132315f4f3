package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkflowStartNode(t *testing.T) {
	workflow := &Workflow{
		Nodes: []*Node{
			{ID: "a", Type: NodeTypeEmail},
			{ID: "b", Type: NodeTypeStart},
			{ID: "c", Type: NodeTypeEnd},
		},
	}

	start := workflow.StartNode()
	assert.NotNil(t, start)
	assert.Equal(t, "b", start.ID)
}

func TestWorkflowStartNodeMissing(t *testing.T) {
	workflow := &Workflow{
		Nodes: []*Node{
			{ID: "a", Type: NodeTypeEmail},
		},
	}

	assert.Nil(t, workflow.StartNode())
}

func TestWorkflowEdgesFrom(t *testing.T) {
	workflow := &Workflow{
		Edges: []*Edge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e2", Source: "a", Target: "c"},
			{ID: "e3", Source: "b", Target: "c"},
		},
	}

	edges := workflow.EdgesFrom("a")
	assert.Len(t, edges, 2)
	assert.Equal(t, "e1", edges[0].ID)
	assert.Equal(t, "e2", edges[1].ID)

	assert.Empty(t, workflow.EdgesFrom("c"))
}

func TestExecutionStatusTerminal(t *testing.T) {
	assert.False(t, ExecutionStatusPending.Terminal())
	assert.False(t, ExecutionStatusRunning.Terminal())
	assert.True(t, ExecutionStatusCompleted.Terminal())
	assert.True(t, ExecutionStatusFailed.Terminal())
	assert.True(t, ExecutionStatusCancelled.Terminal())
}

func TestExecutionProgress(t *testing.T) {
	execution := &Execution{
		Status: ExecutionStatusRunning,
		NodeExecutions: []*NodeExecution{
			{Status: ExecutionStatusCompleted},
			{Status: ExecutionStatusCompleted},
			{Status: ExecutionStatusRunning},
			{Status: ExecutionStatusFailed},
		},
	}

	// The running node is excluded: two of three settled nodes completed.
	assert.Equal(t, 66, execution.Progress())

	execution.Status = ExecutionStatusCompleted
	assert.Equal(t, 100, execution.Progress())

	execution.Status = ExecutionStatusFailed
	assert.Equal(t, 0, execution.Progress())
}

func TestExecutionProgressNoNodes(t *testing.T) {
	execution := &Execution{Status: ExecutionStatusRunning}
	assert.Equal(t, 0, execution.Progress())
}

func TestExecutionProgressOnlyRunningNodes(t *testing.T) {
	execution := &Execution{
		Status: ExecutionStatusRunning,
		NodeExecutions: []*NodeExecution{
			{Status: ExecutionStatusRunning},
		},
	}

	assert.Equal(t, 0, execution.Progress())
}

func TestExecutionFinish(t *testing.T) {
	execution := &Execution{
		Status:    ExecutionStatusRunning,
		StartedAt: time.Now().UTC().Add(-2 * time.Second),
	}

	execution.Finish(ExecutionStatusCompleted)

	assert.Equal(t, ExecutionStatusCompleted, execution.Status)
	assert.NotNil(t, execution.CompletedAt)
	assert.GreaterOrEqual(t, execution.Duration, 2*time.Second)
}

func TestSettingsTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), WorkflowSettings{}.Timeout())
	assert.Equal(t, 90*time.Second, WorkflowSettings{TimeoutSeconds: 90}.Timeout())
}
