package integration

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
	return "integration"
}

func (f *Factory) Name() string {
	return "Integration"
}

func (f *Factory) Description() string {
	return "Invokes a named external integration service."
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"service": map[string]any{
				"type":        "string",
				"description": "Identifier of the integration service",
			},
			"action": map[string]any{
				"type":        "string",
				"description": "Service-specific action to perform",
			},
		},
	}
}
