package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/automaton-hq/automaton/pkg/models"
	"github.com/automaton-hq/automaton/pkg/protocol"
	"github.com/automaton-hq/automaton/pkg/services"
	"github.com/automaton-hq/automaton/pkg/triggers/queue"
	"github.com/automaton-hq/automaton/pkg/triggers/schedule"
)

// Runner owns the lifecycle of every configured trigger. Each firing
// starts one workflow execution through the execution service.
type Runner struct {
	logger     *slog.Logger
	executions *services.Execution
	factories  map[string]protocol.TriggerFactory

	mu      sync.Mutex
	running []protocol.Trigger
}

func NewRunner(logger *slog.Logger, executions *services.Execution) *Runner {
	factories := make(map[string]protocol.TriggerFactory)
	for _, factory := range []protocol.TriggerFactory{
		schedule.NewFactory(),
		queue.NewFactory(),
	} {
		factories[factory.ID()] = factory
	}

	return &Runner{
		logger:     logger.With("module", "trigger_runner"),
		executions: executions,
		factories:  factories,
	}
}

// Start creates and starts every configured trigger. A trigger that fails
// to start aborts the runner; partially started triggers are stopped by
// the caller via Stop.
func (r *Runner) Start(ctx context.Context, config *Config) error {
	for _, tc := range config.Triggers {
		factory, ok := r.factories[tc.Type]
		if !ok {
			return fmt.Errorf("unknown trigger type: %s", tc.Type)
		}

		trigger, err := factory.Create(tc.Config, r.logger)
		if err != nil {
			return fmt.Errorf("failed to create %s trigger: %w", tc.Type, err)
		}

		if err := trigger.Start(ctx, r.callback(tc.Type)); err != nil {
			return fmt.Errorf("failed to start %s trigger: %w", tc.Type, err)
		}

		r.mu.Lock()
		r.running = append(r.running, trigger)
		r.mu.Unlock()

		r.logger.InfoContext(ctx, "Started trigger", "type", tc.Type)
	}

	return nil
}

func (r *Runner) callback(triggerType string) protocol.TriggerCallback {
	return func(ctx context.Context, workflowID string, data map[string]any) error {
		logger := r.logger.With("workflow_id", workflowID, "trigger_type", triggerType)
		logger.InfoContext(ctx, "Trigger fired, starting execution")

		execution, err := r.executions.ExecuteTriggered(ctx, workflowID, nil, models.Trigger{
			Type: triggerTypeFor(triggerType),
			Data: data,
		})
		if err != nil {
			logger.ErrorContext(ctx, "Failed to execute workflow", "error", err)

			return err
		}

		logger.InfoContext(ctx, "Execution finished",
			"execution_id", execution.ID,
			"status", execution.Status,
		)

		return nil
	}
}

func triggerTypeFor(factoryID string) models.TriggerType {
	switch factoryID {
	case "schedule":
		return models.TriggerTypeSchedule
	case "queue":
		return models.TriggerTypeEvent
	default:
		return models.TriggerTypeManual
	}
}

// Stop stops every running trigger, newest first.
func (r *Runner) Stop(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.running) - 1; i >= 0; i-- {
		if err := r.running[i].Stop(ctx); err != nil {
			r.logger.ErrorContext(ctx, "Error stopping trigger", "error", err)
		}
	}

	r.running = nil
	r.logger.InfoContext(ctx, "All triggers stopped")
}
