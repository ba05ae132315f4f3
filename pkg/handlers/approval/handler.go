// Package approval provides the approval node handler.
package approval

import "context"

const defaultApprover = "system"

// Handler resolves an approval step. Auto-approval is the default; when the
// node is configured with auto_approve=false the handler reports a pending
// decision that downstream edges can route on.
type Handler struct {
	approver    string
	autoApprove bool
}

// NewHandler creates an approval handler from the node config.
func NewHandler(config map[string]any) (*Handler, error) {
	handler := &Handler{
		approver:    defaultApprover,
		autoApprove: true,
	}

	if approver, ok := config["approver"].(string); ok && approver != "" {
		handler.approver = approver
	}

	if auto, ok := config["auto_approve"].(bool); ok {
		handler.autoApprove = auto
	}

	return handler, nil
}

func (h *Handler) Handle(_ context.Context, _ map[string]any) (map[string]any, error) {
	return map[string]any{
		"approved": h.autoApprove,
		"approver": h.approver,
	}, nil
}
