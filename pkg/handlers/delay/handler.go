// Package delay provides the delay node handler.
package delay

import (
	"context"
	"time"
)

const defaultDelay = time.Second

// Handler pauses the traversal for a configured duration. The wait is
// context-aware so an execution deadline or cancellation interrupts it.
type Handler struct {
	delay time.Duration
}

// NewHandler creates a delay handler from the node config. delay_ms accepts
// a number of milliseconds.
func NewHandler(config map[string]any) (*Handler, error) {
	delay := defaultDelay

	switch v := config["delay_ms"].(type) {
	case float64:
		delay = time.Duration(v) * time.Millisecond
	case int:
		delay = time.Duration(v) * time.Millisecond
	}

	return &Handler{delay: delay}, nil
}

func (h *Handler) Handle(ctx context.Context, _ map[string]any) (map[string]any, error) {
	timer := time.NewTimer(h.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	return map[string]any{
		"delayed":  true,
		"delay_ms": h.delay.Milliseconds(),
	}, nil
}
