package transform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandlerRequiresExpression(t *testing.T) {
	_, err := NewHandler(map[string]any{})
	assert.Error(t, err)
}

func TestNewHandlerRejectsInvalidExpression(t *testing.T) {
	_, err := NewHandler(map[string]any{"expression": `{broken`})
	assert.Error(t, err)
}

func TestHandleObjectResult(t *testing.T) {
	handler, err := NewHandler(map[string]any{
		"expression": `{total: (.items | length), first: .items[0]}`,
	})
	require.NoError(t, err)

	output, err := handler.Handle(context.Background(), map[string]any{
		"items": []any{"a", "b", "c"},
	})
	require.NoError(t, err)

	assert.Equal(t, true, output["transformed"])
	assert.Equal(t, 3, output["total"])
	assert.Equal(t, "a", output["first"])
}

func TestHandleScalarResult(t *testing.T) {
	handler, err := NewHandler(map[string]any{
		"expression": `.count * 2`,
	})
	require.NoError(t, err)

	output, err := handler.Handle(context.Background(), map[string]any{"count": 4})
	require.NoError(t, err)

	assert.Equal(t, true, output["transformed"])
	assert.EqualValues(t, 8, output["result"])
}

func TestHandleRuntimeError(t *testing.T) {
	handler, err := NewHandler(map[string]any{
		"expression": `.value | keys`,
	})
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), map[string]any{"value": 7})
	assert.Error(t, err)
}
