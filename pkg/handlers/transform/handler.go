// Package transform provides the transform node handler, which reshapes the
// execution context with a jq expression.
package transform

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/itchyny/gojq"
)

// Handler runs a compiled jq program over the context snapshot. Programs are
// compiled once per expression and shared across executions.
type Handler struct {
	expression string
	code       *gojq.Code
}

var (
	codeCacheMu sync.RWMutex
	codeCache   = make(map[string]*gojq.Code)
)

// NewHandler creates a transform handler from the node config.
func NewHandler(config map[string]any) (*Handler, error) {
	expression, ok := config["expression"].(string)
	if !ok || expression == "" {
		return nil, errors.New("missing required field 'expression'")
	}

	code, err := getOrCompile(expression)
	if err != nil {
		return nil, err
	}

	return &Handler{
		expression: expression,
		code:       code,
	}, nil
}

// Handle evaluates the jq expression. Object results merge into the output
// map directly; scalar and array results land under the "result" key.
func (h *Handler) Handle(ctx context.Context, input map[string]any) (map[string]any, error) {
	iter := h.code.RunWithContext(ctx, input)

	results := make([]any, 0, 1)

	for {
		value, ok := iter.Next()
		if !ok {
			break
		}

		if err, isErr := value.(error); isErr {
			return nil, fmt.Errorf("transform expression %q failed: %w", h.expression, err)
		}

		results = append(results, value)
	}

	var result any

	switch len(results) {
	case 0:
		result = nil
	case 1:
		result = results[0]
	default:
		result = results
	}

	if object, ok := result.(map[string]any); ok {
		object["transformed"] = true

		return object, nil
	}

	return map[string]any{
		"transformed": true,
		"result":      result,
	}, nil
}

func getOrCompile(expression string) (*gojq.Code, error) {
	codeCacheMu.RLock()
	if code, ok := codeCache[expression]; ok {
		codeCacheMu.RUnlock()

		return code, nil
	}
	codeCacheMu.RUnlock()

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid transform expression %q: %w", expression, err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile transform expression %q: %w", expression, err)
	}

	codeCacheMu.Lock()
	codeCache[expression] = code
	codeCacheMu.Unlock()

	return code, nil
}
