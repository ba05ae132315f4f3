package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/automaton-hq/automaton/pkg/models"
	"github.com/automaton-hq/automaton/pkg/persistence"
)

// ExecutionRepository handles execution-related file operations.
type ExecutionRepository struct {
	root string // File system root for storing executions
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(root string) *ExecutionRepository {
	return &ExecutionRepository{root: root}
}

// validateExecutionID validates that the execution ID is safe for file operations.
func (er *ExecutionRepository) validateExecutionID(executionID string) error {
	if executionID == "" {
		return errors.New("execution ID cannot be empty")
	}

	// Check for path traversal attempts
	if strings.Contains(executionID, "..") || strings.Contains(executionID, "/") || strings.Contains(executionID, "\\") {
		return errors.New("execution ID contains invalid characters")
	}

	return nil
}

func (er *ExecutionRepository) write(execution *models.Execution) error {
	executionsDir := filepath.Join(er.root, "executions")

	err := os.MkdirAll(executionsDir, 0750)
	if err != nil {
		return fmt.Errorf("failed to create executions directory: %w", err)
	}

	data, err := json.Marshal(execution)
	if err != nil {
		return fmt.Errorf("failed to marshal execution %s: %w", execution.ID, err)
	}

	filePath := filepath.Join(executionsDir, execution.ID+".json")

	err = os.WriteFile(filePath, data, 0600)
	if err != nil {
		return fmt.Errorf("failed to write execution %s: %w", execution.ID, err)
	}

	return nil
}

// Create stores a new execution record.
func (er *ExecutionRepository) Create(_ context.Context, execution *models.Execution) error {
	if err := er.validateExecutionID(execution.ID); err != nil {
		return fmt.Errorf("invalid execution ID: %w", err)
	}

	return er.write(execution)
}

// Update replaces an existing execution record.
func (er *ExecutionRepository) Update(ctx context.Context, execution *models.Execution) error {
	// Check if execution exists first
	_, err := er.GetByID(ctx, execution.ID)
	if err != nil {
		return err
	}

	return er.write(execution)
}

// UpdateStatus patches only the status of an existing execution.
func (er *ExecutionRepository) UpdateStatus(ctx context.Context, id string, status models.ExecutionStatus) error {
	execution, err := er.GetByID(ctx, id)
	if err != nil {
		return err
	}

	execution.Status = status

	return er.write(execution)
}

// GetByID retrieves an execution by its ID from the file system.
func (er *ExecutionRepository) GetByID(_ context.Context, executionID string) (*models.Execution, error) {
	// Validate execution ID to prevent path traversal
	if err := er.validateExecutionID(executionID); err != nil {
		return nil, fmt.Errorf("invalid execution ID: %w", err)
	}

	filePath := filepath.Join(er.root, "executions", executionID+".json")

	data, err := os.ReadFile(filePath) // #nosec G304 -- filePath is validated and constructed safely
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewExecutionError("GetByID", executionID, persistence.ErrExecutionNotFound)
		}

		return nil, fmt.Errorf("failed to read execution %s: %w", executionID, err)
	}

	var execution models.Execution

	err = json.Unmarshal(data, &execution)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution %s: %w", executionID, err)
	}

	return &execution, nil
}

// List returns executions matching the options, newest first.
func (er *ExecutionRepository) List(ctx context.Context, opts persistence.ListExecutionsOptions) (*persistence.ExecutionListResult, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 20
	}

	all, err := er.load(ctx, func(execution *models.Execution) bool {
		if opts.OrganizationID != "" && execution.OrganizationID != opts.OrganizationID {
			return false
		}

		if opts.WorkflowID != "" && execution.WorkflowID != opts.WorkflowID {
			return false
		}

		if opts.Status != nil && execution.Status != *opts.Status {
			return false
		}

		return true
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].StartedAt.After(all[j].StartedAt)
	})

	totalCount := int64(len(all))
	startIdx := opts.Offset
	endIdx := opts.Offset + opts.Limit

	if startIdx >= len(all) {
		return &persistence.ExecutionListResult{
			Executions:  make([]*models.Execution, 0),
			TotalCount:  totalCount,
			HasNextPage: false,
		}, nil
	}

	if endIdx > len(all) {
		endIdx = len(all)
	}

	return &persistence.ExecutionListResult{
		Executions:  all[startIdx:endIdx],
		TotalCount:  totalCount,
		HasNextPage: endIdx < len(all),
	}, nil
}

// Analytics aggregates execution outcomes over the given window in memory.
func (er *ExecutionRepository) Analytics(ctx context.Context, opts persistence.AnalyticsOptions) (*persistence.ExecutionAnalytics, error) {
	until := opts.Until
	if until.IsZero() {
		until = time.Now().UTC()
	}

	matched, err := er.load(ctx, func(execution *models.Execution) bool {
		if opts.OrganizationID != "" && execution.OrganizationID != opts.OrganizationID {
			return false
		}

		if opts.WorkflowID != "" && execution.WorkflowID != opts.WorkflowID {
			return false
		}

		if !opts.Since.IsZero() && execution.StartedAt.Before(opts.Since) {
			return false
		}

		return !execution.StartedAt.After(until)
	})
	if err != nil {
		return nil, err
	}

	analytics := &persistence.ExecutionAnalytics{
		TotalExecutions: int64(len(matched)),
		ByStatus:        make(map[models.ExecutionStatus]int64),
	}

	var (
		totalDuration time.Duration
		finished      int64
	)

	for _, execution := range matched {
		analytics.ByStatus[execution.Status]++

		if execution.Status.Terminal() {
			finished++
			totalDuration += execution.Duration
		}
	}

	if finished > 0 {
		analytics.AverageDuration = totalDuration / time.Duration(finished)
		analytics.SuccessRate = float64(analytics.ByStatus[models.ExecutionStatusCompleted]) / float64(finished)
	}

	return analytics, nil
}

// load reads every execution file and keeps those matching the filter.
// Unreadable files are skipped.
func (er *ExecutionRepository) load(ctx context.Context, match func(*models.Execution) bool) ([]*models.Execution, error) {
	executionsDir := filepath.Join(er.root, "executions")

	if _, err := os.Stat(executionsDir); os.IsNotExist(err) {
		return []*models.Execution{}, nil
	}

	entries, err := os.ReadDir(executionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read executions directory: %w", err)
	}

	executions := make([]*models.Execution, 0)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		executionID := strings.TrimSuffix(entry.Name(), ".json")

		execution, err := er.GetByID(ctx, executionID)
		if err != nil {
			continue
		}

		if match(execution) {
			executions = append(executions, execution)
		}
	}

	return executions, nil
}
