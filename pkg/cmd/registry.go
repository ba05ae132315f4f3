package cmd

import (
	"database/sql"
	"log/slog"

	"github.com/automaton-hq/automaton/pkg/handlers/ai"
	"github.com/automaton-hq/automaton/pkg/registry"
)

// NewRegistry builds a handler registry with every built-in node type
// registered. db may be nil when no SQL backend is configured; the
// database node handler then rejects its configuration at create time.
func NewRegistry(logger *slog.Logger, db *sql.DB) *registry.Registry {
	reg := registry.NewRegistry(logger)

	reg.RegisterDefaultHandlers(registry.Dependencies{
		AIClient: ai.NewStaticClient(),
		DB:       db,
	})

	return reg
}
