// Package registry maps node types to their handler factories. The engine
// dispatches every node through this table; adding a node type means
// registering a factory, never touching the engine.
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/automaton-hq/automaton/pkg/models"
	"github.com/automaton-hq/automaton/pkg/protocol"
)

// Registry holds handler factories keyed by node type.
type Registry struct {
	logger           *slog.Logger
	handlerFactories map[string]protocol.HandlerFactory
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:           logger,
		handlerFactories: make(map[string]protocol.HandlerFactory),
	}
}

// RegisterHandler adds a factory, replacing any previous registration for
// the same node type.
func (r *Registry) RegisterHandler(factory protocol.HandlerFactory) {
	r.handlerFactories[factory.ID()] = factory
}

// CreateHandler builds a handler for the node's type from its config. The
// config is validated against the factory's schema first.
func (r *Registry) CreateHandler(ctx context.Context, node *models.Node) (protocol.NodeHandler, error) {
	factory, ok := r.handlerFactories[string(node.Type)]
	if !ok {
		return nil, fmt.Errorf("node type %q not registered", node.Type)
	}

	err := validateConfig(factory.Schema(), node.Config)
	if err != nil {
		return nil, fmt.Errorf("invalid config for node %s (%s): %w", node.ID, node.Type, err)
	}

	return factory.Create(ctx, node.Config)
}

// HandlerFactory returns the factory registered for a node type.
func (r *Registry) HandlerFactory(nodeType models.NodeType) (protocol.HandlerFactory, bool) {
	factory, ok := r.handlerFactories[string(nodeType)]

	return factory, ok
}

// IsRegistered reports whether a node type has a handler.
func (r *Registry) IsRegistered(nodeType models.NodeType) bool {
	_, ok := r.handlerFactories[string(nodeType)]

	return ok
}

// RegisteredTypes returns the registered node type ids.
func (r *Registry) RegisteredTypes() []string {
	types := make([]string, 0, len(r.handlerFactories))
	for id := range r.handlerFactories {
		types = append(types, id)
	}

	return types
}

// HealthCheck reports whether the registry has handlers for every built-in
// node type.
func (r *Registry) HealthCheck() (string, bool) {
	for _, nodeType := range models.NodeTypes() {
		if !r.IsRegistered(nodeType) {
			return fmt.Sprintf("node type %q has no registered handler", nodeType), false
		}
	}

	return fmt.Sprintf("%d node types registered", len(r.handlerFactories)), true
}
