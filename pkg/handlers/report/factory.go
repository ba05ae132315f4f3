package report

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
	return "report"
}

func (f *Factory) Name() string {
	return "Report"
}

func (f *Factory) Description() string {
	return "Generates a report artifact from the execution context."
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type": map[string]any{
				"type":        "string",
				"description": "Report kind",
				"default":     "summary",
			},
			"title": map[string]any{
				"type":        "string",
				"description": "Report title. Supports templating.",
			},
		},
	}
}
