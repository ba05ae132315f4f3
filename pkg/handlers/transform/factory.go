package transform

import (
	"context"

	"github.com/automaton-hq/automaton/pkg/protocol"
)

type Factory struct{}

func NewFactory() protocol.HandlerFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, config map[string]any) (protocol.NodeHandler, error) {
	return NewHandler(config)
}

func (f *Factory) ID() string {
	return "transform"
}

func (f *Factory) Name() string {
	return "Transform"
}

func (f *Factory) Description() string {
	return "Reshapes the execution context with a jq expression. Object results merge into the context; other results land under 'result'."
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"expression": map[string]any{
				"type":        "string",
				"description": "jq expression evaluated against the execution context",
				"examples": []string{
					`{total: (.items | length)}`,
					`.order | {order_id: .id, amount: .total}`,
					`{flagged: (.score > 80)}`,
				},
			},
		},
		"required": []string{"expression"},
	}
}
