package condition

import (
	"context"
	"testing"

	"github.com/automaton-hq/automaton/pkg/expression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandlerRequiresCondition(t *testing.T) {
	_, err := NewHandler(map[string]any{}, expression.NewEvaluator())
	assert.Error(t, err)
}

func TestHandleTrue(t *testing.T) {
	handler, err := NewHandler(map[string]any{
		"condition": `amount > 100`,
	}, expression.NewEvaluator())
	require.NoError(t, err)

	output, err := handler.Handle(context.Background(), map[string]any{"amount": 250})
	require.NoError(t, err)
	assert.Equal(t, true, output["condition_result"])
}

func TestHandleFalse(t *testing.T) {
	handler, err := NewHandler(map[string]any{
		"condition": `status == "active"`,
	}, expression.NewEvaluator())
	require.NoError(t, err)

	output, err := handler.Handle(context.Background(), map[string]any{"status": "archived"})
	require.NoError(t, err)
	assert.Equal(t, false, output["condition_result"])
}

func TestHandleEvaluationErrorIsFalse(t *testing.T) {
	handler, err := NewHandler(map[string]any{
		"condition": `status ==`,
	}, expression.NewEvaluator())
	require.NoError(t, err)

	// Evaluation failures produce a false result, not a handler error.
	output, err := handler.Handle(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, false, output["condition_result"])
	assert.NotEmpty(t, output["evaluation_error"])
}
