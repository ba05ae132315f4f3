package notification

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
	return "notification"
}

func (f *Factory) Name() string {
	return "Notification"
}

func (f *Factory) Description() string {
	return "Sends a message to a notification channel. The message supports templating with execution context data."
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"channel": map[string]any{
				"type":        "string",
				"description": "Notification channel (email, slack, sms, ...)",
				"default":     "email",
			},
			"message": map[string]any{
				"type":        "string",
				"description": "Message to send. Supports templating.",
			},
		},
	}
}
