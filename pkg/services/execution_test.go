package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automaton-hq/automaton/pkg/engine"
	"github.com/automaton-hq/automaton/pkg/eventbus"
	"github.com/automaton-hq/automaton/pkg/models"
	"github.com/automaton-hq/automaton/pkg/persistence"
	"github.com/automaton-hq/automaton/pkg/persistence/file"
	"github.com/automaton-hq/automaton/pkg/registry"
)

type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, _ string, _ eventbus.Event) error {
	return nil
}

func newExecutionService(t *testing.T) (*Execution, *Workflow) {
	t.Helper()

	logger := slog.Default()
	store := file.NewPersistence(t.TempDir())

	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultHandlers(registry.Dependencies{})

	workflows := NewWorkflow(store, reg)
	eng := engine.NewEngine(logger, store.ExecutionRepository(), noopPublisher{}, reg)

	return NewExecution(logger, store, eng, workflows), workflows
}

func TestExecuteActiveWorkflow(t *testing.T) {
	service, workflows := newExecutionService(t)
	ctx := context.Background()

	created, err := workflows.Create(ctx, validWorkflow())
	require.NoError(t, err)

	execution, err := service.Execute(ctx, created.ID, map[string]any{"invoice": "INV-9"}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)
	assert.Equal(t, created.ID, execution.WorkflowID)
	assert.Equal(t, "org-1", execution.OrganizationID)
	assert.Equal(t, "user-1", execution.Trigger.Data["actor_id"])

	stored, err := service.FetchByID(ctx, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCompleted, stored.Status)
}

func TestExecuteInactiveWorkflowConflicts(t *testing.T) {
	service, workflows := newExecutionService(t)
	ctx := context.Background()

	draft := validWorkflow()
	draft.Status = models.WorkflowStatusDraft

	created, err := workflows.Create(ctx, draft)
	require.NoError(t, err)

	_, err = service.Execute(ctx, created.ID, nil, "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWorkflowNotActive)
	assert.True(t, IsConflictError(err))
}

func TestExecuteMissingWorkflow(t *testing.T) {
	service, _ := newExecutionService(t)

	_, err := service.Execute(context.Background(), "missing", nil, "user-1")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestListExecutionsByWorkflow(t *testing.T) {
	service, workflows := newExecutionService(t)
	ctx := context.Background()

	created, err := workflows.Create(ctx, validWorkflow())
	require.NoError(t, err)

	for range 3 {
		_, err = service.Execute(ctx, created.ID, nil, "user-1")
		require.NoError(t, err)
	}

	result, err := service.List(ctx, ListExecutionsRequest{WorkflowID: created.ID, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.TotalCount)
	assert.Len(t, result.Executions, 2)
	assert.True(t, result.HasNextPage)
}

func TestCancelFinishedExecutionConflicts(t *testing.T) {
	service, workflows := newExecutionService(t)
	ctx := context.Background()

	created, err := workflows.Create(ctx, validWorkflow())
	require.NoError(t, err)

	execution, err := service.Execute(ctx, created.ID, nil, "user-1")
	require.NoError(t, err)

	err = service.Cancel(ctx, execution.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutionNotRunning)
}

func TestRetryRules(t *testing.T) {
	service, workflows := newExecutionService(t)
	ctx := context.Background()

	created, err := workflows.Create(ctx, validWorkflow())
	require.NoError(t, err)

	completed, err := service.Execute(ctx, created.ID, nil, "user-1")
	require.NoError(t, err)

	_, err = service.Retry(ctx, completed.ID, "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutionNotRetryable)

	// Force a failed execution by removing the workflow's start node.
	broken := validWorkflow()
	broken.Nodes[0].Type = models.NodeTypeEmail
	broken.ID = created.ID
	// Bypass the service validation on purpose; the engine has to cope with
	// whatever is stored.
	brokenCopy := *created
	brokenCopy.Nodes = broken.Nodes
	require.NoError(t, workflows.persistence.WorkflowRepository().Save(ctx, &brokenCopy))

	failed, err := service.Execute(ctx, created.ID, map[string]any{"attempt": 1}, "user-1")
	require.NoError(t, err)
	require.Equal(t, models.ExecutionStatusFailed, failed.Status)

	retried, err := service.Retry(ctx, failed.ID, "user-2")
	require.NoError(t, err)

	assert.Equal(t, failed.ID, retried.Trigger.Data["retry_of"])
	assert.Equal(t, "user-2", retried.Trigger.Data["actor_id"])
	assert.Equal(t, float64(1), asFloat(retried.Input["attempt"]))
}

// asFloat normalizes numeric values that round-tripped through JSON.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return -1
	}
}

func TestAnalyticsWindow(t *testing.T) {
	service, workflows := newExecutionService(t)
	ctx := context.Background()

	created, err := workflows.Create(ctx, validWorkflow())
	require.NoError(t, err)

	_, err = service.Execute(ctx, created.ID, nil, "user-1")
	require.NoError(t, err)

	analytics, err := service.Analytics(ctx, persistence.AnalyticsOptions{
		WorkflowID: created.ID,
		Since:      time.Now().UTC().Add(-time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), analytics.TotalExecutions)
	assert.Equal(t, int64(1), analytics.ByStatus[models.ExecutionStatusCompleted])
	assert.InDelta(t, 1.0, analytics.SuccessRate, 0.001)
}
