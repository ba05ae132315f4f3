package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/automaton-hq/automaton/pkg/engine"
	"github.com/automaton-hq/automaton/pkg/models"
	"github.com/automaton-hq/automaton/pkg/persistence"
)

// ErrExecutionNotFound is returned when an execution is not found.
var ErrExecutionNotFound = persistence.ErrExecutionNotFound

// Execution is the facade over the engine and the execution store used by
// the API and the trigger runners.
type Execution struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	engine      *engine.Engine
	workflows   *Workflow
}

// NewExecution creates a new execution service.
func NewExecution(logger *slog.Logger, p persistence.Persistence, eng *engine.Engine, workflows *Workflow) *Execution {
	return &Execution{
		logger:      logger.With("module", "execution_service"),
		persistence: p,
		engine:      eng,
		workflows:   workflows,
	}
}

// Execute runs an active workflow synchronously and returns the finished
// execution record.
func (s *Execution) Execute(ctx context.Context, workflowID string, input map[string]any, actorID string) (*models.Execution, error) {
	return s.execute(ctx, workflowID, input, models.Trigger{
		Type: models.TriggerTypeManual,
		Data: map[string]any{"actor_id": actorID},
	})
}

// ExecuteTriggered runs an active workflow on behalf of a trigger runner.
func (s *Execution) ExecuteTriggered(ctx context.Context, workflowID string, input map[string]any, trigger models.Trigger) (*models.Execution, error) {
	return s.execute(ctx, workflowID, input, trigger)
}

func (s *Execution) execute(ctx context.Context, workflowID string, input map[string]any, trigger models.Trigger) (*models.Execution, error) {
	workflow, err := s.workflows.FetchByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if workflow.Status != models.WorkflowStatusActive {
		return nil, NewValidationError("Execute", "WORKFLOW_NOT_ACTIVE",
			fmt.Sprintf("workflow %s is %s, only active workflows execute", workflowID, workflow.Status),
			ErrWorkflowNotActive)
	}

	execution, err := s.engine.ExecuteTriggered(ctx, workflow, input, trigger)
	if err != nil {
		return execution, fmt.Errorf("failed to execute workflow %s: %w", workflowID, err)
	}

	return execution, nil
}

// FetchByID retrieves an execution by its ID.
func (s *Execution) FetchByID(ctx context.Context, id string) (*models.Execution, error) {
	return s.persistence.ExecutionRepository().GetByID(ctx, id)
}

// ListExecutionsRequest contains options for listing executions.
type ListExecutionsRequest struct {
	OrganizationID string
	WorkflowID     string
	Status         *models.ExecutionStatus
	Limit          int `validate:"min=1,max=100"`
	Offset         int `validate:"min=0"`
}

// ListExecutionsResponse contains the result of listing executions.
type ListExecutionsResponse struct {
	Executions  []*models.Execution `json:"executions"`
	TotalCount  int64               `json:"total_count"`
	HasNextPage bool                `json:"has_next_page"`
}

// List retrieves executions with filtering and pagination, newest first.
func (s *Execution) List(ctx context.Context, req ListExecutionsRequest) (*ListExecutionsResponse, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		req.Limit = 100
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	result, err := s.persistence.ExecutionRepository().List(ctx, persistence.ListExecutionsOptions{
		OrganizationID: req.OrganizationID,
		WorkflowID:     req.WorkflowID,
		Status:         req.Status,
		Limit:          req.Limit,
		Offset:         req.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}

	return &ListExecutionsResponse{
		Executions:  result.Executions,
		TotalCount:  result.TotalCount,
		HasNextPage: result.HasNextPage,
	}, nil
}

// Cancel requests cooperative cancellation of a running execution. The
// engine honors the request at the next dispatch boundary.
func (s *Execution) Cancel(ctx context.Context, id string) error {
	execution, err := s.FetchByID(ctx, id)
	if err != nil {
		return err
	}

	if execution.Status.Terminal() {
		return NewValidationError("Cancel", "EXECUTION_NOT_RUNNING",
			fmt.Sprintf("execution %s already finished with status %s", id, execution.Status),
			ErrExecutionNotRunning)
	}

	s.engine.RequestCancel(id)
	s.logger.InfoContext(ctx, "Cancellation requested", "execution_id", id)

	return nil
}

// Retry starts a fresh execution of the same workflow with the original
// input. Only failed or cancelled executions are retryable.
func (s *Execution) Retry(ctx context.Context, id string, actorID string) (*models.Execution, error) {
	execution, err := s.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if execution.Status != models.ExecutionStatusFailed && execution.Status != models.ExecutionStatusCancelled {
		return nil, NewValidationError("Retry", "EXECUTION_NOT_RETRYABLE",
			fmt.Sprintf("execution %s is %s, only failed or cancelled executions retry", id, execution.Status),
			ErrExecutionNotRetryable)
	}

	trigger := models.Trigger{
		Type: models.TriggerTypeManual,
		Data: map[string]any{"actor_id": actorID, "retry_of": id},
	}

	return s.execute(ctx, execution.WorkflowID, execution.Input, trigger)
}

// Analytics aggregates execution outcomes over a time window.
func (s *Execution) Analytics(ctx context.Context, opts persistence.AnalyticsOptions) (*persistence.ExecutionAnalytics, error) {
	analytics, err := s.persistence.ExecutionRepository().Analytics(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate execution analytics: %w", err)
	}

	return analytics, nil
}
