package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automaton-hq/automaton/pkg/models"
	"github.com/automaton-hq/automaton/pkg/persistence"
)

func TestNewPersistenceStripsFileScheme(t *testing.T) {
	dir := t.TempDir()
	p := NewPersistence("file://" + dir)

	require.NoError(t, p.HealthCheck(context.Background()))
	require.NoError(t, p.Close(context.Background()))
}

func TestWorkflowRepositorySaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkflowRepository(t.TempDir())

	workflow := &models.Workflow{
		ID:             "wf-1",
		Name:           "Order processing",
		OrganizationID: "org-1",
		Status:         models.WorkflowStatusActive,
		Nodes: []*models.Node{
			{ID: "start-1", Type: models.NodeTypeStart},
		},
	}

	require.NoError(t, repo.Save(ctx, workflow))
	assert.False(t, workflow.CreatedAt.IsZero())

	loaded, err := repo.GetByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Order processing", loaded.Name)
	require.Len(t, loaded.Nodes, 1)
	assert.Equal(t, models.NodeTypeStart, loaded.Nodes[0].Type)
}

func TestWorkflowRepositoryGetByIDNotFound(t *testing.T) {
	repo := NewWorkflowRepository(t.TempDir())

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowRepositoryListFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkflowRepository(t.TempDir())

	active := models.WorkflowStatusActive

	for _, workflow := range []*models.Workflow{
		{ID: "wf-a", Name: "A", OrganizationID: "org-1", Status: models.WorkflowStatusActive},
		{ID: "wf-b", Name: "B", OrganizationID: "org-1", Status: models.WorkflowStatusDraft},
		{ID: "wf-c", Name: "C", OrganizationID: "org-2", Status: models.WorkflowStatusActive},
	} {
		require.NoError(t, repo.Save(ctx, workflow))
	}

	result, err := repo.List(ctx, persistence.ListWorkflowsOptions{
		OrganizationID: "org-1",
		Status:         &active,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalCount)
	require.Len(t, result.Workflows, 1)
	assert.Equal(t, "wf-a", result.Workflows[0].ID)

	paged, err := repo.List(ctx, persistence.ListWorkflowsOptions{Limit: 2, SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), paged.TotalCount)
	assert.True(t, paged.HasNextPage)
	require.Len(t, paged.Workflows, 2)
	assert.Equal(t, "wf-a", paged.Workflows[0].ID)
}

func TestWorkflowRepositoryListRejectsUnknownSortField(t *testing.T) {
	repo := NewWorkflowRepository(t.TempDir())

	_, err := repo.List(context.Background(), persistence.ListWorkflowsOptions{SortBy: "owner; DROP TABLE"})
	require.Error(t, err)
}

func TestWorkflowRepositoryDeleteMissing(t *testing.T) {
	repo := NewWorkflowRepository(t.TempDir())

	err := repo.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestExecutionRepositoryCreateUpdateAndStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewExecutionRepository(t.TempDir())

	execution := &models.Execution{
		ID:             "exec-1",
		WorkflowID:     "wf-1",
		OrganizationID: "org-1",
		Status:         models.ExecutionStatusPending,
		StartedAt:      time.Now().UTC(),
		Trigger:        models.Trigger{Type: models.TriggerTypeManual},
	}

	require.NoError(t, repo.Create(ctx, execution))

	require.NoError(t, repo.UpdateStatus(ctx, "exec-1", models.ExecutionStatusRunning))

	execution.Status = models.ExecutionStatusCompleted
	execution.NodeExecutions = append(execution.NodeExecutions, &models.NodeExecution{
		ID:     "ne-1",
		NodeID: "start-1",
		Status: models.ExecutionStatusCompleted,
	})
	require.NoError(t, repo.Update(ctx, execution))

	loaded, err := repo.GetByID(ctx, "exec-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCompleted, loaded.Status)
	require.Len(t, loaded.NodeExecutions, 1)
}

func TestExecutionRepositoryUpdateMissingFails(t *testing.T) {
	repo := NewExecutionRepository(t.TempDir())

	err := repo.Update(context.Background(), &models.Execution{ID: "missing"})
	require.Error(t, err)
	assert.True(t, persistence.IsExecutionNotFound(err))
}

func TestExecutionRepositoryRejectsPathTraversal(t *testing.T) {
	repo := NewExecutionRepository(t.TempDir())

	_, err := repo.GetByID(context.Background(), "../escape")
	require.Error(t, err)

	err = repo.Create(context.Background(), &models.Execution{ID: "a/b"})
	require.Error(t, err)
}

func TestExecutionRepositoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewExecutionRepository(t.TempDir())

	base := time.Now().UTC()

	for i, id := range []string{"exec-old", "exec-mid", "exec-new"} {
		require.NoError(t, repo.Create(ctx, &models.Execution{
			ID:         id,
			WorkflowID: "wf-1",
			Status:     models.ExecutionStatusCompleted,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	result, err := repo.List(ctx, persistence.ListExecutionsOptions{WorkflowID: "wf-1"})
	require.NoError(t, err)
	require.Len(t, result.Executions, 3)
	assert.Equal(t, "exec-new", result.Executions[0].ID)
	assert.Equal(t, "exec-old", result.Executions[2].ID)
}

func TestExecutionRepositoryAnalytics(t *testing.T) {
	ctx := context.Background()
	repo := NewExecutionRepository(t.TempDir())

	now := time.Now().UTC()

	for _, execution := range []*models.Execution{
		{ID: "exec-1", WorkflowID: "wf-1", OrganizationID: "org-1", Status: models.ExecutionStatusCompleted, StartedAt: now.Add(-time.Hour), Duration: 2 * time.Second},
		{ID: "exec-2", WorkflowID: "wf-1", OrganizationID: "org-1", Status: models.ExecutionStatusFailed, StartedAt: now.Add(-30 * time.Minute), Duration: 4 * time.Second},
		{ID: "exec-3", WorkflowID: "wf-1", OrganizationID: "org-1", Status: models.ExecutionStatusRunning, StartedAt: now},
		{ID: "exec-4", WorkflowID: "wf-1", OrganizationID: "org-1", Status: models.ExecutionStatusCompleted, StartedAt: now.Add(-48 * time.Hour), Duration: 10 * time.Second},
	} {
		require.NoError(t, repo.Create(ctx, execution))
	}

	analytics, err := repo.Analytics(ctx, persistence.AnalyticsOptions{
		OrganizationID: "org-1",
		Since:          now.Add(-24 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), analytics.TotalExecutions)
	assert.Equal(t, int64(1), analytics.ByStatus[models.ExecutionStatusCompleted])
	assert.Equal(t, int64(1), analytics.ByStatus[models.ExecutionStatusFailed])
	assert.Equal(t, int64(1), analytics.ByStatus[models.ExecutionStatusRunning])
	assert.Equal(t, 3*time.Second, analytics.AverageDuration)
	assert.InDelta(t, 0.5, analytics.SuccessRate, 0.001)
}
