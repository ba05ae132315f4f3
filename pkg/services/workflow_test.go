package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/automaton-hq/automaton/pkg/mocks"
	"github.com/automaton-hq/automaton/pkg/models"
	"github.com/automaton-hq/automaton/pkg/persistence"
	"github.com/automaton-hq/automaton/pkg/persistence/file"
	"github.com/automaton-hq/automaton/pkg/registry"
)

func newWorkflowService(t *testing.T) *Workflow {
	t.Helper()

	reg := registry.NewRegistry(slog.Default())
	reg.RegisterDefaultHandlers(registry.Dependencies{})

	return NewWorkflow(file.NewPersistence(t.TempDir()), reg)
}

func validWorkflow() *models.Workflow {
	return &models.Workflow{
		Name:           "Invoice approval",
		OrganizationID: "org-1",
		Status:         models.WorkflowStatusActive,
		Nodes: []*models.Node{
			{ID: "start-1", Type: models.NodeTypeStart},
			{ID: "approval-1", Type: models.NodeTypeApproval},
			{ID: "end-1", Type: models.NodeTypeEnd},
		},
		Edges: []*models.Edge{
			{ID: "e1", Source: "start-1", Target: "approval-1"},
			{ID: "e2", Source: "approval-1", Target: "end-1"},
		},
	}
}

func TestCreateAssignsIDAndVersion(t *testing.T) {
	service := newWorkflowService(t)

	created, err := service.Create(context.Background(), validWorkflow())
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, created.Version)
	assert.False(t, created.CreatedAt.IsZero())

	loaded, err := service.FetchByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Invoice approval", loaded.Name)
}

func TestCreateDefaultsToDraft(t *testing.T) {
	service := newWorkflowService(t)

	workflow := validWorkflow()
	workflow.Status = ""

	created, err := service.Create(context.Background(), workflow)
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusDraft, created.Status)
}

func TestUpdateBumpsVersionAndKeepsOrganization(t *testing.T) {
	service := newWorkflowService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, validWorkflow())
	require.NoError(t, err)

	updated := validWorkflow()
	updated.Name = "Invoice approval v2"
	updated.OrganizationID = "org-other"

	result, err := service.Update(ctx, created.ID, updated)
	require.NoError(t, err)

	assert.Equal(t, "Invoice approval v2", result.Name)
	assert.Equal(t, 2, result.Version)
	assert.Equal(t, "org-1", result.OrganizationID, "organization must not change on update")
	assert.Equal(t, created.CreatedAt, result.CreatedAt)
}

func TestUpdateMissingWorkflow(t *testing.T) {
	service := newWorkflowService(t)

	_, err := service.Update(context.Background(), "missing", validWorkflow())
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestValidateGraph(t *testing.T) {
	service := newWorkflowService(t)
	ctx := context.Background()

	t.Run("nil workflow", func(t *testing.T) {
		err := service.ValidateGraph(ctx, nil)
		assert.ErrorIs(t, err, ErrWorkflowNil)
	})

	t.Run("missing name", func(t *testing.T) {
		workflow := validWorkflow()
		workflow.Name = "  "

		err := service.ValidateGraph(ctx, workflow)
		assert.ErrorIs(t, err, ErrWorkflowNameRequired)
	})

	t.Run("no nodes", func(t *testing.T) {
		workflow := validWorkflow()
		workflow.Nodes = nil

		err := service.ValidateGraph(ctx, workflow)
		assert.ErrorIs(t, err, ErrNodesRequired)
	})

	t.Run("no start node", func(t *testing.T) {
		workflow := validWorkflow()
		workflow.Nodes[0].Type = models.NodeTypeEmail

		err := service.ValidateGraph(ctx, workflow)
		assert.ErrorIs(t, err, ErrStartNodeRequired)
	})

	t.Run("two start nodes", func(t *testing.T) {
		workflow := validWorkflow()
		workflow.Nodes = append(workflow.Nodes, &models.Node{ID: "start-2", Type: models.NodeTypeStart})

		err := service.ValidateGraph(ctx, workflow)
		assert.ErrorIs(t, err, ErrStartNodeRequired)
	})

	t.Run("duplicate node ids", func(t *testing.T) {
		workflow := validWorkflow()
		workflow.Nodes = append(workflow.Nodes, &models.Node{ID: "end-1", Type: models.NodeTypeEmail})

		err := service.ValidateGraph(ctx, workflow)
		assert.ErrorIs(t, err, ErrDuplicateNodeID)
	})

	t.Run("dangling edge target", func(t *testing.T) {
		workflow := validWorkflow()
		workflow.Edges = append(workflow.Edges, &models.Edge{ID: "e3", Source: "end-1", Target: "ghost"})

		err := service.ValidateGraph(ctx, workflow)
		assert.ErrorIs(t, err, ErrDanglingEdge)
	})

	t.Run("unknown node type", func(t *testing.T) {
		workflow := validWorkflow()
		workflow.Nodes = append(workflow.Nodes, &models.Node{ID: "x-1", Type: "quantum"})
		workflow.Edges = append(workflow.Edges, &models.Edge{ID: "e3", Source: "end-1", Target: "x-1"})

		err := service.ValidateGraph(ctx, workflow)
		assert.ErrorIs(t, err, ErrInvalidNodeConfig)
	})

	t.Run("invalid node config", func(t *testing.T) {
		workflow := validWorkflow()
		// condition nodes require a 'condition' string
		workflow.Nodes = append(workflow.Nodes, &models.Node{
			ID:     "check-1",
			Type:   models.NodeTypeCondition,
			Config: map[string]any{"condition": 42},
		})
		workflow.Edges = append(workflow.Edges, &models.Edge{ID: "e3", Source: "end-1", Target: "check-1"})

		err := service.ValidateGraph(ctx, workflow)
		assert.ErrorIs(t, err, ErrInvalidNodeConfig)
	})

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, service.ValidateGraph(ctx, validWorkflow()))
	})
}

func TestListWorkflowsValidation(t *testing.T) {
	service := newWorkflowService(t)

	_, err := service.ListWorkflows(context.Background(), ListWorkflowsRequest{SortBy: "secret"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	status := models.WorkflowStatus("bogus")
	_, err = service.ListWorkflows(context.Background(), ListWorkflowsRequest{Status: &status})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestListWorkflowsFiltersByOrganization(t *testing.T) {
	service := newWorkflowService(t)
	ctx := context.Background()

	first := validWorkflow()
	_, err := service.Create(ctx, first)
	require.NoError(t, err)

	second := validWorkflow()
	second.OrganizationID = "org-2"
	_, err = service.Create(ctx, second)
	require.NoError(t, err)

	result, err := service.ListWorkflows(ctx, ListWorkflowsRequest{OrganizationID: "org-2"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalCount)
}

func TestDeleteWorkflow(t *testing.T) {
	service := newWorkflowService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, validWorkflow())
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, created.ID))

	_, err = service.FetchByID(ctx, created.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func newMockedWorkflowService() (*Workflow, *mocks.MockPersistence) {
	reg := registry.NewRegistry(slog.Default())
	reg.RegisterDefaultHandlers(registry.Dependencies{})

	store := mocks.NewMockPersistence()

	return NewWorkflow(store, reg), store
}

func TestListWorkflowsStorageFailure(t *testing.T) {
	service, store := newMockedWorkflowService()

	store.GetMockWorkflowRepository().
		On("List", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))

	_, err := service.ListWorkflows(context.Background(), ListWorkflowsRequest{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to list workflows")
	store.GetMockWorkflowRepository().AssertExpectations(t)
}

func TestCreateStorageFailure(t *testing.T) {
	service, store := newMockedWorkflowService()

	store.GetMockWorkflowRepository().
		On("Save", mock.Anything, mock.Anything).
		Return(errors.New("disk full"))

	_, err := service.Create(context.Background(), validWorkflow())
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
	store.GetMockWorkflowRepository().AssertExpectations(t)
}

func TestHealthCheckReportsUnhealthyStorage(t *testing.T) {
	service, store := newMockedWorkflowService()

	store.On("HealthCheck", mock.Anything).Return(errors.New("no route to host"))

	message, healthy := service.HealthCheck(context.Background())
	assert.False(t, healthy)
	assert.Contains(t, message, "no route to host")
	store.AssertExpectations(t)
}
