// Package expression evaluates caller-supplied boolean expressions inside a
// restricted sandbox. Expressions are compiled by expr-lang over named fields
// of the data map only; they cannot reach the runtime, the filesystem or the
// network.
package expression

import (
	"errors"
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Evaluator compiles and runs sandboxed expressions. Compiled programs are
// cached and reused across goroutines.
type Evaluator struct {
	mu    sync.RWMutex
	cache map[string]*vm.Program
}

// NewEvaluator creates an empty evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		cache: make(map[string]*vm.Program),
	}
}

// Evaluate runs the expression against the data map. Every key in data is
// available as a top-level variable; unknown variables resolve to nil rather
// than failing compilation.
func (e *Evaluator) Evaluate(expression string, data map[string]any) (any, error) {
	if expression == "" {
		return nil, errors.New("empty expression")
	}

	prg, err := e.getOrCompile(expression)
	if err != nil {
		return nil, err
	}

	env := data
	if env == nil {
		env = map[string]any{}
	}

	out, err := vm.Run(prg, env)
	if err != nil {
		return nil, fmt.Errorf("expression %q evaluation failed: %w", expression, err)
	}

	return out, nil
}

// EvaluateBool runs the expression and coerces the result to a boolean.
// Non-boolean results follow truthiness rules: non-zero numbers and non-empty
// strings are true, nil is false.
func (e *Evaluator) EvaluateBool(expression string, data map[string]any) (bool, error) {
	out, err := e.Evaluate(expression, data)
	if err != nil {
		return false, err
	}

	switch v := out.(type) {
	case bool:
		return v, nil
	case nil:
		return false, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case string:
		return v != "", nil
	default:
		return false, fmt.Errorf("expression %q returned non-boolean %T", expression, out)
	}
}

func (e *Evaluator) getOrCompile(expression string) (*vm.Program, error) {
	e.mu.RLock()
	if prg, ok := e.cache[expression]; ok {
		e.mu.RUnlock()

		return prg, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if prg, ok := e.cache[expression]; ok {
		return prg, nil
	}

	prg, err := expr.Compile(expression,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("expression %q compile error: %w", expression, err)
	}

	e.cache[expression] = prg

	return prg, nil
}
