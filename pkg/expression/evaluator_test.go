package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateComparison(t *testing.T) {
	evaluator := NewEvaluator()

	result, err := evaluator.EvaluateBool(`status == "completed"`, map[string]any{
		"status": "completed",
	})
	require.NoError(t, err)
	assert.True(t, result)

	result, err = evaluator.EvaluateBool(`status == "completed"`, map[string]any{
		"status": "failed",
	})
	require.NoError(t, err)
	assert.False(t, result)
}

func TestEvaluateBooleanOperators(t *testing.T) {
	evaluator := NewEvaluator()

	data := map[string]any{
		"output": map[string]any{"approved": true, "score": 42},
	}

	result, err := evaluator.EvaluateBool(`output.approved && output.score > 40`, data)
	require.NoError(t, err)
	assert.True(t, result)

	result, err = evaluator.EvaluateBool(`!output.approved || output.score >= 100`, data)
	require.NoError(t, err)
	assert.False(t, result)
}

func TestEvaluateUndefinedVariable(t *testing.T) {
	evaluator := NewEvaluator()

	// Unknown fields resolve to nil, which is falsy.
	result, err := evaluator.EvaluateBool(`nonexistent`, map[string]any{})
	require.NoError(t, err)
	assert.False(t, result)
}

func TestEvaluateTruthiness(t *testing.T) {
	evaluator := NewEvaluator()

	result, err := evaluator.EvaluateBool(`count`, map[string]any{"count": 3})
	require.NoError(t, err)
	assert.True(t, result)

	result, err = evaluator.EvaluateBool(`count`, map[string]any{"count": 0})
	require.NoError(t, err)
	assert.False(t, result)
}

func TestEvaluateEmptyExpression(t *testing.T) {
	evaluator := NewEvaluator()

	_, err := evaluator.Evaluate("", nil)
	assert.Error(t, err)
}

func TestEvaluateSyntaxError(t *testing.T) {
	evaluator := NewEvaluator()

	_, err := evaluator.EvaluateBool(`status ==`, map[string]any{})
	assert.Error(t, err)
}

func TestCompileCacheReuse(t *testing.T) {
	evaluator := NewEvaluator()

	_, err := evaluator.Evaluate(`a > 1`, map[string]any{"a": 2})
	require.NoError(t, err)

	// Same expression, different data: cached program must still see the
	// new environment values.
	result, err := evaluator.EvaluateBool(`a > 1`, map[string]any{"a": 0})
	require.NoError(t, err)
	assert.False(t, result)
}
