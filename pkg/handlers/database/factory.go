package database

import (
	"context"
	"database/sql"

	"github.com/automaton-hq/automaton/pkg/protocol"
)

// Factory creates database handlers bound to an optional shared connection.
type Factory struct {
	db *sql.DB
}

// NewFactory creates a factory. db may be nil when no database is wired.
func NewFactory(db *sql.DB) protocol.HandlerFactory {
	return &Factory{db: db}
}

func (f *Factory) Create(_ context.Context, config map[string]any) (protocol.NodeHandler, error) {
	return NewHandler(config, f.db)
}

func (f *Factory) ID() string {
	return "database"
}

func (f *Factory) Name() string {
	return "Database"
}

func (f *Factory) Description() string {
	return "Runs a SQL operation against the platform database and records the result."
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type":        "string",
				"description": "SQL operation kind",
				"enum":        []string{"select", "insert", "update", "delete"},
				"default":     "select",
			},
			"query": map[string]any{
				"type":        "string",
				"description": "SQL statement to run. Supports templating.",
			},
		},
	}
}
