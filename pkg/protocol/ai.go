package protocol

import "context"

// AIClient is the external language-model collaborator consumed by the ai
// node handler. The engine depends only on this contract.
type AIClient interface {
	// Complete sends a prompt plus contextual data and returns the model's
	// response payload.
	Complete(ctx context.Context, prompt string, data map[string]any) (map[string]any, error)
}
