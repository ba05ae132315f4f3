// Package protocol defines the contracts between the execution engine and
// its pluggable collaborators: node handlers, triggers and the AI client.
package protocol

import (
	"context"
)

// NodeHandler performs one node type's work. Handle receives a snapshot of
// the accumulated execution context and returns the node's output map; it
// never mutates the snapshot. Handlers may block on I/O and must honor ctx
// cancellation for long waits.
type NodeHandler interface {
	Handle(ctx context.Context, input map[string]any) (map[string]any, error)
}

// HandlerFactory creates handler instances from a node's configuration bag
// and describes the node type it serves.
type HandlerFactory interface {
	// Create builds a handler bound to the given node configuration.
	Create(ctx context.Context, config map[string]any) (NodeHandler, error)

	// ID returns the node type this factory serves.
	ID() string

	// Name returns the human-readable name for this node type.
	Name() string

	// Description explains what the node does.
	Description() string

	// Schema returns the JSON schema for the node's configuration bag.
	Schema() map[string]any
}
