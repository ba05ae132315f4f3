package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/automaton-hq/automaton/pkg/models"
	"github.com/automaton-hq/automaton/pkg/persistence"
)

// ExecutionRepository handles execution-related database operations.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(db *sql.DB, logger *slog.Logger) *ExecutionRepository {
	return &ExecutionRepository{db: db, logger: logger}
}

const executionColumns = `
	id
  , workflow_id
  , organization_id
  , status
  , started_at
  , completed_at
  , duration_ms
  , trigger_data
  , input
  , output
  , node_executions
  , error
  , metadata
`

func (r *ExecutionRepository) scanExecution(row rowScanner) (*models.Execution, error) {
	var (
		execution          models.Execution
		durationMS         int64
		triggerJSON        []byte
		inputJSON          []byte
		outputJSON         []byte
		nodeExecutionsJSON []byte
		errorJSON          []byte
		metadataJSON       []byte
	)

	err := row.Scan(
		&execution.ID,
		&execution.WorkflowID,
		&execution.OrganizationID,
		&execution.Status,
		&execution.StartedAt,
		&execution.CompletedAt,
		&durationMS,
		&triggerJSON,
		&inputJSON,
		&outputJSON,
		&nodeExecutionsJSON,
		&errorJSON,
		&metadataJSON,
	)
	if err != nil {
		return nil, err
	}

	execution.Duration = time.Duration(durationMS) * time.Millisecond

	if err := json.Unmarshal(triggerJSON, &execution.Trigger); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trigger: %w", err)
	}

	if err := json.Unmarshal(inputJSON, &execution.Input); err != nil {
		return nil, fmt.Errorf("failed to unmarshal input: %w", err)
	}

	if outputJSON != nil {
		if err := json.Unmarshal(outputJSON, &execution.Output); err != nil {
			return nil, fmt.Errorf("failed to unmarshal output: %w", err)
		}
	}

	if err := json.Unmarshal(nodeExecutionsJSON, &execution.NodeExecutions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal node executions: %w", err)
	}

	if errorJSON != nil {
		if err := json.Unmarshal(errorJSON, &execution.Error); err != nil {
			return nil, fmt.Errorf("failed to unmarshal error: %w", err)
		}
	}

	if metadataJSON != nil {
		if err := json.Unmarshal(metadataJSON, &execution.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &execution, nil
}

func (r *ExecutionRepository) marshalFields(execution *models.Execution) (triggerJSON, inputJSON, outputJSON, nodeExecutionsJSON, errorJSON, metadataJSON []byte, err error) {
	triggerJSON, err = json.Marshal(execution.Trigger)
	if err != nil {
		return nil, nil, nil, nil, nil, nil, fmt.Errorf("failed to marshal trigger: %w", err)
	}

	input := execution.Input
	if input == nil {
		input = map[string]any{}
	}

	inputJSON, err = json.Marshal(input)
	if err != nil {
		return nil, nil, nil, nil, nil, nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	if execution.Output != nil {
		outputJSON, err = json.Marshal(execution.Output)
		if err != nil {
			return nil, nil, nil, nil, nil, nil, fmt.Errorf("failed to marshal output: %w", err)
		}
	}

	nodeExecutions := execution.NodeExecutions
	if nodeExecutions == nil {
		nodeExecutions = []*models.NodeExecution{}
	}

	nodeExecutionsJSON, err = json.Marshal(nodeExecutions)
	if err != nil {
		return nil, nil, nil, nil, nil, nil, fmt.Errorf("failed to marshal node executions: %w", err)
	}

	if execution.Error != nil {
		errorJSON, err = json.Marshal(execution.Error)
		if err != nil {
			return nil, nil, nil, nil, nil, nil, fmt.Errorf("failed to marshal error: %w", err)
		}
	}

	if execution.Metadata != nil {
		metadataJSON, err = json.Marshal(execution.Metadata)
		if err != nil {
			return nil, nil, nil, nil, nil, nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	return triggerJSON, inputJSON, outputJSON, nodeExecutionsJSON, errorJSON, metadataJSON, nil
}

// Create inserts a new execution record.
func (r *ExecutionRepository) Create(ctx context.Context, execution *models.Execution) error {
	triggerJSON, inputJSON, outputJSON, nodeExecutionsJSON, errorJSON, metadataJSON, err := r.marshalFields(execution)
	if err != nil {
		return persistence.NewExecutionError("Create", execution.ID, err)
	}

	query := `
		INSERT INTO executions (id, workflow_id, organization_id, status, started_at,
			completed_at, duration_ms, trigger_data, input, output, node_executions, error, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.ExecContext(ctx, query,
		execution.ID,
		execution.WorkflowID,
		execution.OrganizationID,
		execution.Status,
		execution.StartedAt,
		execution.CompletedAt,
		execution.Duration.Milliseconds(),
		triggerJSON,
		inputJSON,
		outputJSON,
		nodeExecutionsJSON,
		errorJSON,
		metadataJSON,
	)
	if err != nil {
		return persistence.NewExecutionError("Create", execution.ID, err)
	}

	return nil
}

// Update replaces an existing execution record.
func (r *ExecutionRepository) Update(ctx context.Context, execution *models.Execution) error {
	triggerJSON, inputJSON, outputJSON, nodeExecutionsJSON, errorJSON, metadataJSON, err := r.marshalFields(execution)
	if err != nil {
		return persistence.NewExecutionError("Update", execution.ID, err)
	}

	query := `
		UPDATE executions SET
			status = $2,
			completed_at = $3,
			duration_ms = $4,
			trigger_data = $5,
			input = $6,
			output = $7,
			node_executions = $8,
			error = $9,
			metadata = $10
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		execution.ID,
		execution.Status,
		execution.CompletedAt,
		execution.Duration.Milliseconds(),
		triggerJSON,
		inputJSON,
		outputJSON,
		nodeExecutionsJSON,
		errorJSON,
		metadataJSON,
	)
	if err != nil {
		return persistence.NewExecutionError("Update", execution.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return persistence.NewExecutionError("Update", execution.ID, persistence.ErrExecutionNotFound)
	}

	return nil
}

// UpdateStatus patches only the status column.
func (r *ExecutionRepository) UpdateStatus(ctx context.Context, id string, status models.ExecutionStatus) error {
	result, err := r.db.ExecContext(ctx, "UPDATE executions SET status = $2 WHERE id = $1", id, status)
	if err != nil {
		return persistence.NewExecutionError("UpdateStatus", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return persistence.NewExecutionError("UpdateStatus", id, persistence.ErrExecutionNotFound)
	}

	return nil
}

// GetByID returns an execution by its ID.
func (r *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.Execution, error) {
	query := `SELECT ` + executionColumns + ` FROM executions WHERE id = $1`

	execution, err := r.scanExecution(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewExecutionError("GetByID", id, persistence.ErrExecutionNotFound)
		}

		return nil, fmt.Errorf("failed to scan execution: %w", err)
	}

	return execution, nil
}

// List returns paginated executions, newest first.
func (r *ExecutionRepository) List(ctx context.Context, opts persistence.ListExecutionsOptions) (*persistence.ExecutionListResult, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 20
	}

	where := "WHERE TRUE"
	args := make([]any, 0, 5)

	if opts.OrganizationID != "" {
		args = append(args, opts.OrganizationID)
		where += fmt.Sprintf(" AND organization_id = $%d", len(args))
	}

	if opts.WorkflowID != "" {
		args = append(args, opts.WorkflowID)
		where += fmt.Sprintf(" AND workflow_id = $%d", len(args))
	}

	if opts.Status != nil {
		args = append(args, *opts.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var totalCount int64

	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM executions "+where, args...).Scan(&totalCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count executions: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM executions %s ORDER BY started_at DESC LIMIT $%d OFFSET $%d",
		executionColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	executions := make([]*models.Execution, 0)

	for rows.Next() {
		execution, err := r.scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		executions = append(executions, execution)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}

	return &persistence.ExecutionListResult{
		Executions:  executions,
		TotalCount:  totalCount,
		HasNextPage: int64(opts.Offset+len(executions)) < totalCount,
	}, nil
}

// Analytics aggregates execution outcomes over a time window with a single
// grouped query.
func (r *ExecutionRepository) Analytics(ctx context.Context, opts persistence.AnalyticsOptions) (*persistence.ExecutionAnalytics, error) {
	until := opts.Until
	if until.IsZero() {
		until = time.Now().UTC()
	}

	where := "WHERE started_at <= $1"
	args := []any{until}

	if !opts.Since.IsZero() {
		args = append(args, opts.Since)
		where += fmt.Sprintf(" AND started_at >= $%d", len(args))
	}

	if opts.OrganizationID != "" {
		args = append(args, opts.OrganizationID)
		where += fmt.Sprintf(" AND organization_id = $%d", len(args))
	}

	if opts.WorkflowID != "" {
		args = append(args, opts.WorkflowID)
		where += fmt.Sprintf(" AND workflow_id = $%d", len(args))
	}

	query := `
		SELECT status, COUNT(*), COALESCE(SUM(duration_ms), 0)
		FROM executions ` + where + `
		GROUP BY status
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query execution analytics: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	analytics := &persistence.ExecutionAnalytics{
		ByStatus: make(map[models.ExecutionStatus]int64),
	}

	var (
		totalDurationMS int64
		finished        int64
	)

	for rows.Next() {
		var (
			status     models.ExecutionStatus
			count      int64
			durationMS int64
		)

		if err := rows.Scan(&status, &count, &durationMS); err != nil {
			return nil, fmt.Errorf("failed to scan analytics row: %w", err)
		}

		analytics.ByStatus[status] = count
		analytics.TotalExecutions += count

		if status.Terminal() {
			finished += count
			totalDurationMS += durationMS
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analytics rows: %w", err)
	}

	if finished > 0 {
		analytics.AverageDuration = time.Duration(totalDurationMS/finished) * time.Millisecond
		analytics.SuccessRate = float64(analytics.ByStatus[models.ExecutionStatusCompleted]) / float64(finished)
	}

	return analytics, nil
}
