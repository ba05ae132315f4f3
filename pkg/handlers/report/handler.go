// Package report provides the report node handler.
package report

import (
	"context"
	"time"

	"github.com/automaton-hq/automaton/pkg/template"
)

const defaultReportType = "summary"

// Handler generates a report artifact from the execution context.
type Handler struct {
	reportType string
	title      string
}

// NewHandler creates a report handler from the node config.
func NewHandler(config map[string]any) (*Handler, error) {
	handler := &Handler{
		reportType: defaultReportType,
	}

	if reportType, ok := config["type"].(string); ok && reportType != "" {
		handler.reportType = reportType
	}

	if title, ok := config["title"].(string); ok {
		handler.title = title
	}

	return handler, nil
}

func (h *Handler) Handle(_ context.Context, input map[string]any) (map[string]any, error) {
	title, err := template.Render(h.title, input)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"report_generated": true,
		"report_type":      h.reportType,
		"title":            title,
		"generated_at":     time.Now().UTC().Format(time.RFC3339),
	}, nil
}
