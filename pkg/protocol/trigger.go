package protocol

import (
	"context"
	"log/slog"
)

// TriggerCallback is invoked by a trigger each time it fires. The data map
// becomes the execution's trigger descriptor payload.
type TriggerCallback func(ctx context.Context, workflowID string, data map[string]any) error

// Trigger is a long-running source of execution requests (cron schedule,
// queue consumer, webhook receiver).
type Trigger interface {
	Start(ctx context.Context, callback TriggerCallback) error
	Stop(ctx context.Context) error
	Validate() error
}

// TriggerFactory creates trigger instances from configuration.
type TriggerFactory interface {
	Create(config map[string]any, logger *slog.Logger) (Trigger, error)
	ID() string
}
