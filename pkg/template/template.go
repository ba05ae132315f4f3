// Package template renders node configuration strings against the execution
// context, so handler config can reference accumulated context values.
package template

import (
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Render executes the template string with the context map exposed as dot.
// Returns the input unchanged when it contains no template actions.
func Render(templateStr string, data map[string]any) (string, error) {
	if !strings.Contains(templateStr, "{{") {
		return templateStr, nil
	}

	tmpl, err := template.
		New("config").
		Option("missingkey=zero").
		Funcs(template.FuncMap{
			"now": func() string {
				return time.Now().UTC().Format(time.RFC3339)
			},
		}).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %q: %w", templateStr, err)
	}

	var buf strings.Builder

	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute template %q: %w", templateStr, err)
	}

	return buf.String(), nil
}
