// Package ai provides the ai node handler, which delegates to an injected
// language-model client.
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/automaton-hq/automaton/pkg/protocol"
	"github.com/automaton-hq/automaton/pkg/template"
)

// Handler sends a prompt plus the execution context to the AI collaborator.
type Handler struct {
	prompt string
	client protocol.AIClient
}

// NewHandler creates an ai handler from the node config.
func NewHandler(config map[string]any, client protocol.AIClient) (*Handler, error) {
	if client == nil {
		return nil, errors.New("ai client is not configured")
	}

	prompt, ok := config["prompt"].(string)
	if !ok || prompt == "" {
		return nil, errors.New("missing required field 'prompt'")
	}

	return &Handler{
		prompt: prompt,
		client: client,
	}, nil
}

func (h *Handler) Handle(ctx context.Context, input map[string]any) (map[string]any, error) {
	prompt, err := template.Render(h.prompt, input)
	if err != nil {
		return nil, fmt.Errorf("failed to render prompt template: %w", err)
	}

	response, err := h.client.Complete(ctx, prompt, input)
	if err != nil {
		return nil, fmt.Errorf("ai completion failed: %w", err)
	}

	output := map[string]any{
		"ai_processed": true,
	}

	for key, value := range response {
		output[key] = value
	}

	return output, nil
}

// StaticClient is a local AIClient used when no external model is wired. It
// echoes the prompt back as the analysis result.
type StaticClient struct{}

// NewStaticClient creates a StaticClient.
func NewStaticClient() protocol.AIClient {
	return &StaticClient{}
}

func (c *StaticClient) Complete(_ context.Context, prompt string, _ map[string]any) (map[string]any, error) {
	return map[string]any{
		"result": "AI analysis completed",
		"prompt": prompt,
	}, nil
}
