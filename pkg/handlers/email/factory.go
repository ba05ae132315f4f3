package email

import (
	"context"

	"github.com/automaton-hq/automaton/pkg/protocol"
)

// Factory creates email handlers.
type Factory struct{}

// NewFactory creates a new factory instance.
func NewFactory() protocol.HandlerFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, config map[string]any) (protocol.NodeHandler, error) {
	return NewHandler(config)
}

func (f *Factory) ID() string {
	return "email"
}

func (f *Factory) Name() string {
	return "Email"
}

func (f *Factory) Description() string {
	return "Sends an email to the configured recipient. Subject and body support templating with execution context data."
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"recipient": map[string]any{
				"type":        "string",
				"description": "Email address of the recipient",
			},
			"subject": map[string]any{
				"type":        "string",
				"description": "Subject line. Supports templating, e.g. \"Order {{.order_id}} shipped\".",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Message body. Supports templating with execution context data.",
			},
		},
	}
}
