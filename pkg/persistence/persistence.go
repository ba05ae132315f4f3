// Package persistence provides the data storage abstraction for workflows
// and executions.
package persistence

import (
	"context"
	"time"

	"github.com/automaton-hq/automaton/pkg/models"
)

// Persistence is the storage entry point. Backends expose repositories for
// each aggregate plus connection lifecycle operations.
type Persistence interface {
	WorkflowRepository() WorkflowRepository
	ExecutionRepository() ExecutionRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// WorkflowRepository handles workflow definition storage.
type WorkflowRepository interface {
	Save(ctx context.Context, workflow *models.Workflow) error
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	List(ctx context.Context, opts ListWorkflowsOptions) (*WorkflowListResult, error)
	Delete(ctx context.Context, id string) error
}

// ExecutionRepository handles execution records. Create inserts a new
// execution, Update replaces the whole record (the engine persists after
// every node transition), UpdateStatus patches only the status column.
type ExecutionRepository interface {
	Create(ctx context.Context, execution *models.Execution) error
	Update(ctx context.Context, execution *models.Execution) error
	UpdateStatus(ctx context.Context, id string, status models.ExecutionStatus) error
	GetByID(ctx context.Context, id string) (*models.Execution, error)
	List(ctx context.Context, opts ListExecutionsOptions) (*ExecutionListResult, error)
	Analytics(ctx context.Context, opts AnalyticsOptions) (*ExecutionAnalytics, error)
}

// ListWorkflowsOptions controls filtering, sorting and pagination of
// workflow listings.
type ListWorkflowsOptions struct {
	OrganizationID string
	Status         *models.WorkflowStatus
	Limit          int
	Offset         int
	SortBy         string // created_at, updated_at, name
	SortOrder      string // asc, desc
}

// WorkflowListResult is one page of workflows.
type WorkflowListResult struct {
	Workflows   []*models.Workflow
	TotalCount  int64
	HasNextPage bool
}

// ListExecutionsOptions controls filtering and pagination of execution
// listings. WorkflowID and Status are optional filters.
type ListExecutionsOptions struct {
	OrganizationID string
	WorkflowID     string
	Status         *models.ExecutionStatus
	Limit          int
	Offset         int
}

// ExecutionListResult is one page of executions, newest first.
type ExecutionListResult struct {
	Executions  []*models.Execution
	TotalCount  int64
	HasNextPage bool
}

// AnalyticsOptions scopes the aggregation window. A zero Since means no
// lower bound, a zero Until means now.
type AnalyticsOptions struct {
	OrganizationID string
	WorkflowID     string
	Since          time.Time
	Until          time.Time
}

// ExecutionAnalytics aggregates execution outcomes over a time window.
type ExecutionAnalytics struct {
	TotalExecutions int64                            `json:"total_executions"`
	ByStatus        map[models.ExecutionStatus]int64 `json:"by_status"`
	AverageDuration time.Duration                    `json:"average_duration"`
	SuccessRate     float64                          `json:"success_rate"`
}
