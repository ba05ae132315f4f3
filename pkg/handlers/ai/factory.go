package ai

import (
	"context"

	"github.com/automaton-hq/automaton/pkg/protocol"
)

// Factory creates ai handlers bound to a language-model client.
type Factory struct {
	client protocol.AIClient
}

// NewFactory creates a factory. A nil client falls back to the static local
// client.
func NewFactory(client protocol.AIClient) protocol.HandlerFactory {
	if client == nil {
		client = NewStaticClient()
	}

	return &Factory{client: client}
}

func (f *Factory) Create(_ context.Context, config map[string]any) (protocol.NodeHandler, error) {
	return NewHandler(config, f.client)
}

func (f *Factory) ID() string {
	return "ai"
}

func (f *Factory) Name() string {
	return "AI"
}

func (f *Factory) Description() string {
	return "Sends a prompt and the execution context to the configured language model and records the response."
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt": map[string]any{
				"type":        "string",
				"description": "Prompt for the model. Supports templating with execution context data.",
			},
		},
		"required": []string{"prompt"},
	}
}
