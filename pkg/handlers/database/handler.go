// Package database provides the database node handler.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/automaton-hq/automaton/pkg/template"
)

var allowedOperations = map[string]bool{
	"select": true,
	"insert": true,
	"update": true,
	"delete": true,
}

// Handler runs a parameter-free SQL statement against the injected database.
// Without a database connection the handler records the operation without
// executing it, which keeps graphs runnable against the file backend.
type Handler struct {
	db        *sql.DB
	operation string
	query     string
}

// NewHandler creates a database handler from the node config. db may be nil.
func NewHandler(config map[string]any, db *sql.DB) (*Handler, error) {
	operation, _ := config["operation"].(string)
	if operation == "" {
		operation = "select"
	}

	operation = strings.ToLower(operation)
	if !allowedOperations[operation] {
		return nil, fmt.Errorf("unsupported database operation %q", operation)
	}

	query, _ := config["query"].(string)
	if db != nil && query == "" {
		return nil, errors.New("missing required field 'query'")
	}

	return &Handler{
		db:        db,
		operation: operation,
		query:     query,
	}, nil
}

func (h *Handler) Handle(ctx context.Context, input map[string]any) (map[string]any, error) {
	if h.db == nil {
		return map[string]any{
			"database_operation": "completed",
			"operation":          h.operation,
		}, nil
	}

	query, err := template.Render(h.query, input)
	if err != nil {
		return nil, fmt.Errorf("failed to render query template: %w", err)
	}

	if h.operation == "select" {
		return h.runQuery(ctx, query)
	}

	result, err := h.db.ExecContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("database %s failed: %w", h.operation, err)
	}

	affected, _ := result.RowsAffected()

	return map[string]any{
		"database_operation": "completed",
		"operation":          h.operation,
		"rows_affected":      affected,
	}, nil
}

func (h *Handler) runQuery(ctx context.Context, query string) (map[string]any, error) {
	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("database select failed: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	records := make([]map[string]any, 0)

	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))

		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make(map[string]any, len(columns))
		for i, column := range columns {
			record[column] = values[i]
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return map[string]any{
		"database_operation": "completed",
		"operation":          h.operation,
		"rows":               records,
		"row_count":          len(records),
	}, nil
}
