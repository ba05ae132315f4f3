package registry

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/automaton-hq/automaton/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	registry := NewRegistry(logger)
	registry.RegisterDefaultHandlers(Dependencies{})

	return registry
}

func TestRegisterDefaultHandlersCoversAllNodeTypes(t *testing.T) {
	registry := newTestRegistry()

	for _, nodeType := range models.NodeTypes() {
		assert.True(t, registry.IsRegistered(nodeType), "missing handler for %s", nodeType)
	}

	message, healthy := registry.HealthCheck()
	assert.True(t, healthy, message)
}

func TestCreateHandlerUnknownType(t *testing.T) {
	registry := newTestRegistry()

	_, err := registry.CreateHandler(context.Background(), &models.Node{
		ID:   "n1",
		Type: models.NodeType("teleport"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestCreateHandlerValidatesConfig(t *testing.T) {
	registry := newTestRegistry()

	// condition requires a 'condition' string
	_, err := registry.CreateHandler(context.Background(), &models.Node{
		ID:     "n1",
		Type:   models.NodeTypeCondition,
		Config: map[string]any{},
	})
	assert.Error(t, err)

	handler, err := registry.CreateHandler(context.Background(), &models.Node{
		ID:     "n2",
		Type:   models.NodeTypeCondition,
		Config: map[string]any{"condition": "ready"},
	})
	require.NoError(t, err)
	assert.NotNil(t, handler)
}

func TestCreateHandlerIdentity(t *testing.T) {
	registry := newTestRegistry()

	handler, err := registry.CreateHandler(context.Background(), &models.Node{
		ID:   "start-1",
		Type: models.NodeTypeStart,
	})
	require.NoError(t, err)

	output, err := handler.Handle(context.Background(), map[string]any{"k": "v"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": "v"}, output)
}
