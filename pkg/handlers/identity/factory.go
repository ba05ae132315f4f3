package identity

import (
	"context"

	"github.com/automaton-hq/automaton/pkg/protocol"
)

// Factory serves the start or end node type, depending on construction.
type Factory struct {
	id          string
	name        string
	description string
}

// NewStartFactory creates the factory for start nodes.
func NewStartFactory() protocol.HandlerFactory {
	return &Factory{
		id:          "start",
		name:        "Start",
		description: "Entry point of the workflow. Passes the initial input through unchanged.",
	}
}

// NewEndFactory creates the factory for end nodes.
func NewEndFactory() protocol.HandlerFactory {
	return &Factory{
		id:          "end",
		name:        "End",
		description: "Terminal marker of a workflow path. Passes the accumulated context through unchanged.",
	}
}

func (f *Factory) Create(_ context.Context, _ map[string]any) (protocol.NodeHandler, error) {
	return NewHandler(), nil
}

func (f *Factory) ID() string {
	return f.id
}

func (f *Factory) Name() string {
	return f.name
}

func (f *Factory) Description() string {
	return f.description
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
