package condition

import (
	"context"

	"github.com/automaton-hq/automaton/pkg/expression"
	"github.com/automaton-hq/automaton/pkg/protocol"
)

// Factory creates condition handlers sharing one compiled-expression cache.
type Factory struct {
	evaluator *expression.Evaluator
}

func NewFactory() protocol.HandlerFactory {
	return &Factory{evaluator: expression.NewEvaluator()}
}

func (f *Factory) Create(_ context.Context, config map[string]any) (protocol.NodeHandler, error) {
	return NewHandler(config, f.evaluator)
}

func (f *Factory) ID() string {
	return "condition"
}

func (f *Factory) Name() string {
	return "Condition"
}

func (f *Factory) Description() string {
	return "Evaluates a boolean expression against the execution context and records the result for downstream routing."
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"condition": map[string]any{
				"type":        "string",
				"description": "Boolean expression over execution context fields",
				"examples": []string{
					`status == "active"`,
					`amount > 1000`,
					`approved && region == "eu"`,
				},
			},
		},
		"required": []string{"condition"},
	}
}
