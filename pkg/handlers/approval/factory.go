package approval

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
	return "approval"
}

func (f *Factory) Name() string {
	return "Approval"
}

func (f *Factory) Description() string {
	return "Waits on an approval decision and records the approver and outcome in the execution context."
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"approver": map[string]any{
				"type":        "string",
				"description": "Identifier of the approver",
			},
			"auto_approve": map[string]any{
				"type":        "boolean",
				"description": "Resolve the approval immediately without waiting",
				"default":     true,
			},
		},
	}
}
