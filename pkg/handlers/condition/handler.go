// Package condition provides the condition node handler, which evaluates a
// sandboxed boolean expression against the execution context.
package condition

import (
	"context"
	"errors"

	"github.com/automaton-hq/automaton/pkg/expression"
)

// Handler evaluates the configured expression. An evaluation failure yields
// condition_result=false rather than a handler error; whether downstream
// paths run is decided by the edges, not by this handler.
type Handler struct {
	condition string
	evaluator *expression.Evaluator
}

// NewHandler creates a condition handler from the node config.
func NewHandler(config map[string]any, evaluator *expression.Evaluator) (*Handler, error) {
	condition, ok := config["condition"].(string)
	if !ok || condition == "" {
		return nil, errors.New("missing required field 'condition'")
	}

	return &Handler{
		condition: condition,
		evaluator: evaluator,
	}, nil
}

func (h *Handler) Handle(_ context.Context, input map[string]any) (map[string]any, error) {
	result, err := h.evaluator.EvaluateBool(h.condition, input)
	if err != nil {
		return map[string]any{
			"condition_result": false,
			"evaluation_error": err.Error(),
		}, nil
	}

	return map[string]any{
		"condition_result": result,
	}, nil
}
