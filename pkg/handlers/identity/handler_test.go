package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlePassesContextThrough(t *testing.T) {
	handler := NewHandler()

	input := map[string]any{"a": 1, "b": "two"}

	output, err := handler.Handle(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, input, output)

	// Output is a copy, not an alias.
	output["c"] = true
	assert.NotContains(t, input, "c")
}

func TestFactories(t *testing.T) {
	assert.Equal(t, "start", NewStartFactory().ID())
	assert.Equal(t, "end", NewEndFactory().ID())
}
