package delay

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
	return "delay"
}

func (f *Factory) Name() string {
	return "Delay"
}

func (f *Factory) Description() string {
	return "Pauses the workflow for a configured number of milliseconds."
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"delay_ms": map[string]any{
				"type":        "number",
				"description": "Milliseconds to wait before continuing",
				"default":     1000,
			},
		},
	}
}
