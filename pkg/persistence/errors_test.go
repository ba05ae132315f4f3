package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflowErrorWrapping(t *testing.T) {
	err := NewWorkflowError("GetByID", "wf-1", ErrWorkflowNotFound)

	assert.Contains(t, err.Error(), "GetByID")
	assert.Contains(t, err.Error(), "wf-1")
	assert.True(t, errors.Is(err, ErrWorkflowNotFound))
	assert.True(t, IsWorkflowNotFound(err))
	assert.False(t, IsExecutionNotFound(err))
}

func TestExecutionErrorWrapping(t *testing.T) {
	err := NewExecutionError("Update", "exec-1", ErrExecutionNotFound)

	assert.Contains(t, err.Error(), "Update")
	assert.Contains(t, err.Error(), "exec-1")
	assert.True(t, IsExecutionNotFound(err))
	assert.False(t, IsWorkflowNotFound(err))
}

func TestSentinelsSurviveDoubleWrapping(t *testing.T) {
	inner := NewWorkflowError("Save", "wf-2", ErrWorkflowAlreadyExists)
	outer := fmt.Errorf("service layer: %w", inner)

	require.True(t, IsWorkflowAlreadyExists(outer))

	var workflowErr *WorkflowError

	require.True(t, errors.As(outer, &workflowErr))
	assert.Equal(t, "wf-2", workflowErr.WorkflowID)
}
