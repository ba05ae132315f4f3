// Package identity provides the start and end node handlers. Both pass the
// execution context through unchanged; they exist so every node in a graph
// dispatches through the same registry path.
package identity

import (
	"context"
	"maps"
)

// Handler copies its input snapshot to its output.
type Handler struct{}

// NewHandler creates an identity handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Handle returns a copy of the input map.
func (h *Handler) Handle(_ context.Context, input map[string]any) (map[string]any, error) {
	output := make(map[string]any, len(input))
	maps.Copy(output, input)

	return output, nil
}
