// Package engine drives workflow executions from pending to a terminal
// state. The engine walks the workflow graph breadth-first, dispatches each
// reachable node through the handler registry, merges node outputs into the
// shared execution context and follows the edges whose conditions hold.
//
// Node failures never fail an execution by themselves; authors route around
// them with onError edges. An execution only fails on structural problems
// (no start node, an unregistered node type) or when the configured timeout
// expires.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/automaton-hq/automaton/pkg/eventbus"
	"github.com/automaton-hq/automaton/pkg/events"
	"github.com/automaton-hq/automaton/pkg/expression"
	"github.com/automaton-hq/automaton/pkg/models"
	"github.com/automaton-hq/automaton/pkg/otelhelper"
	"github.com/automaton-hq/automaton/pkg/persistence"
	"github.com/automaton-hq/automaton/pkg/registry"
)

// Error codes recorded on failed executions.
const (
	ErrCodeNoStartNode      = "NO_START_NODE"
	ErrCodeUnknownNodeType  = "UNKNOWN_NODE_TYPE"
	ErrCodeExecutionTimeout = "EXECUTION_TIMEOUT"

	errCodeNodeFailed = "NODE_EXECUTION_FAILED"
)

// Engine orchestrates executions. It is safe for concurrent use; each call
// to Execute runs one execution to completion.
type Engine struct {
	logger     *slog.Logger
	executions persistence.ExecutionRepository
	publisher  eventbus.EventPublisher
	registry   *registry.Registry
	evaluator  *expression.Evaluator
	tracer     trace.Tracer

	cancelMu  sync.Mutex
	cancelled map[string]bool

	progressMu   sync.Mutex
	lastProgress map[string]int
}

// NewEngine creates an engine wired to the given collaborators.
func NewEngine(
	logger *slog.Logger,
	executions persistence.ExecutionRepository,
	publisher eventbus.EventPublisher,
	reg *registry.Registry,
) *Engine {
	return &Engine{
		logger:       logger.With("module", "engine"),
		executions:   executions,
		publisher:    publisher,
		registry:     reg,
		evaluator:    expression.NewEvaluator(),
		tracer:       otel.Tracer("github.com/automaton-hq/automaton/pkg/engine"),
		cancelled:    make(map[string]bool),
		lastProgress: make(map[string]int),
	}
}

// RequestCancel asks a running execution to stop. The request is honored
// cooperatively: the current node finishes, nothing further is dispatched.
func (e *Engine) RequestCancel(executionID string) {
	e.cancelMu.Lock()
	defer e.cancelMu.Unlock()

	e.cancelled[executionID] = true
}

func (e *Engine) cancelRequested(executionID string) bool {
	e.cancelMu.Lock()
	defer e.cancelMu.Unlock()

	return e.cancelled[executionID]
}

func (e *Engine) clearCancel(executionID string) {
	e.cancelMu.Lock()
	defer e.cancelMu.Unlock()

	delete(e.cancelled, executionID)
}

// reportProgress returns the progress to broadcast for the execution.
// Subscribers must never observe a regression within one execution, so the
// value is pinned to the highest one reported so far; a node that fails
// mid-run shrinks the computed share without shrinking what was already
// announced.
func (e *Engine) reportProgress(execution *models.Execution) int {
	e.progressMu.Lock()
	defer e.progressMu.Unlock()

	progress := execution.Progress()
	if last, ok := e.lastProgress[execution.ID]; ok && last > progress {
		return last
	}

	e.lastProgress[execution.ID] = progress

	return progress
}

func (e *Engine) clearProgress(executionID string) {
	e.progressMu.Lock()
	defer e.progressMu.Unlock()

	delete(e.lastProgress, executionID)
}

// Execute runs the workflow against the input on behalf of an actor. The
// returned execution is always the persisted record, including when it
// failed structurally; the error is non-nil only when storage broke.
func (e *Engine) Execute(ctx context.Context, workflow *models.Workflow, input map[string]any, actorID string) (*models.Execution, error) {
	trigger := models.Trigger{Type: models.TriggerTypeManual}
	if actorID != "" {
		trigger.Data = map[string]any{"actor_id": actorID}
	}

	return e.ExecuteTriggered(ctx, workflow, input, trigger)
}

// ExecuteTriggered runs the workflow with an explicit trigger descriptor.
// The descriptor is stored and forwarded, never interpreted.
func (e *Engine) ExecuteTriggered(ctx context.Context, workflow *models.Workflow, input map[string]any, trigger models.Trigger) (*models.Execution, error) {
	executionID, err := newID()
	if err != nil {
		return nil, err
	}

	execution := &models.Execution{
		ID:             executionID,
		WorkflowID:     workflow.ID,
		OrganizationID: workflow.OrganizationID,
		Status:         models.ExecutionStatusPending,
		StartedAt:      time.Now().UTC(),
		Trigger:        trigger,
		Input:          input,
		NodeExecutions: make([]*models.NodeExecution, 0),
	}

	defer e.clearCancel(execution.ID)
	defer e.clearProgress(execution.ID)

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.execute",
		attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
		attribute.String(otelhelper.ExecutionIDKey, execution.ID),
	)
	defer span.End()

	logger := e.logger.With("workflow_id", workflow.ID, "execution_id", execution.ID)
	logger.InfoContext(ctx, "Starting workflow execution", "trigger_type", trigger.Type)

	err = e.executions.Create(ctx, execution)
	if err != nil {
		return nil, fmt.Errorf("failed to create execution record: %w", err)
	}

	e.broadcast(ctx, execution, events.ExecutionStarted{Trigger: trigger})

	startNode := workflow.StartNode()
	if startNode == nil {
		logger.WarnContext(ctx, "Workflow has no start node")

		return execution, e.fail(ctx, execution, ErrCodeNoStartNode, "workflow has no start node")
	}

	execution.Status = models.ExecutionStatusRunning

	err = e.executions.UpdateStatus(ctx, execution.ID, execution.Status)
	if err != nil {
		return execution, fmt.Errorf("failed to mark execution running: %w", err)
	}

	e.broadcastUpdated(ctx, execution)

	err = e.traverse(ctx, logger, workflow, execution, startNode)

	return execution, err
}

// traverse walks the graph breadth-first from the start node until the
// frontier drains or a terminal condition interrupts it.
func (e *Engine) traverse(ctx context.Context, logger *slog.Logger, workflow *models.Workflow, execution *models.Execution, startNode *models.Node) error {
	var deadline time.Time
	if timeout := workflow.Settings.Timeout(); timeout > 0 {
		deadline = execution.StartedAt.Add(timeout)
	}

	execContext := make(map[string]any)
	maps.Copy(execContext, execution.Input)

	frontier := []string{startNode.ID}
	visited := make(map[string]bool)

	for len(frontier) > 0 {
		nodeID := frontier[0]
		frontier = frontier[1:]

		// Cancellation and the deadline are checked before the visited-set
		// skip; a cancel must be honored even when everything left in the
		// frontier has already run.
		if e.cancelRequested(execution.ID) || ctx.Err() != nil {
			logger.InfoContext(ctx, "Execution cancelled", "pending_nodes", len(frontier))

			return e.settle(ctx, execution, models.ExecutionStatusCancelled)
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			logger.WarnContext(ctx, "Execution exceeded configured timeout", "timeout", workflow.Settings.Timeout())

			return e.fail(ctx, execution, ErrCodeExecutionTimeout,
				fmt.Sprintf("execution exceeded timeout of %ds", workflow.Settings.TimeoutSeconds))
		}

		// Re-enqueueing the same node through converging edges is fine,
		// re-executing it is not.
		if visited[nodeID] {
			continue
		}

		node := workflow.NodeByID(nodeID)
		if node == nil {
			logger.WarnContext(ctx, "Edge references unknown node, skipping", "node_id", nodeID)

			continue
		}

		if !e.registry.IsRegistered(node.Type) {
			logger.ErrorContext(ctx, "Node type has no registered handler", "node_id", node.ID, "node_type", node.Type)

			return e.fail(ctx, execution, ErrCodeUnknownNodeType,
				fmt.Sprintf("no handler registered for node type %q", node.Type))
		}

		visited[nodeID] = true

		nodeExecution, err := e.dispatch(ctx, logger, execution, node, execContext)
		if err != nil {
			return err
		}

		if nodeExecution.Output != nil {
			maps.Copy(execContext, nodeExecution.Output)
		}

		for _, edge := range workflow.EdgesFrom(node.ID) {
			if e.shouldFollow(ctx, logger, edge, nodeExecution, execContext) {
				frontier = append(frontier, edge.Target)
			}
		}
	}

	execution.Output = execContext

	return e.settle(ctx, execution, models.ExecutionStatusCompleted)
}

// dispatch runs a single node and records the attempt on the execution.
// Handler errors are absorbed into the node execution record; the only
// errors returned are storage failures.
func (e *Engine) dispatch(ctx context.Context, logger *slog.Logger, execution *models.Execution, node *models.Node, execContext map[string]any) (*models.NodeExecution, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.dispatch",
		attribute.String(otelhelper.NodeIDKey, node.ID),
		attribute.String(otelhelper.NodeTypeKey, string(node.Type)),
	)
	defer span.End()

	nodeExecutionID, err := newID()
	if err != nil {
		return nil, err
	}

	nodeExecution := &models.NodeExecution{
		ID:        nodeExecutionID,
		NodeID:    node.ID,
		Status:    models.ExecutionStatusRunning,
		StartedAt: time.Now().UTC(),
		Input:     maps.Clone(execContext),
	}

	execution.NodeExecutions = append(execution.NodeExecutions, nodeExecution)

	err = e.executions.Update(ctx, execution)
	if err != nil {
		return nil, fmt.Errorf("failed to persist node dispatch: %w", err)
	}

	e.broadcast(ctx, execution, events.NodeExecutionStarted{
		NodeExecutionID: nodeExecution.ID,
		NodeID:          node.ID,
		NodeType:        string(node.Type),
	})
	e.broadcastUpdated(ctx, execution)

	logger.InfoContext(ctx, "Dispatching node", "node_id", node.ID, "node_type", node.Type)

	output, handleErr := e.runHandler(ctx, node, nodeExecution.Input)

	// The handler may have returned because the request context was
	// cancelled mid-flight; its settlement record still has to land.
	ctx = context.WithoutCancel(ctx)

	now := time.Now().UTC()
	nodeExecution.CompletedAt = &now
	nodeExecution.Duration = now.Sub(nodeExecution.StartedAt)
	// Partial output survives a failed handler; webhook handlers return the
	// response body alongside the status error.
	nodeExecution.Output = output

	if handleErr != nil {
		nodeExecution.Status = models.ExecutionStatusFailed
		nodeExecution.Error = &models.ExecutionError{
			Code:    errCodeNodeFailed,
			Message: handleErr.Error(),
		}
		nodeExecution.AppendLog("error", handleErr.Error(), nil)
		otelhelper.SetError(span, handleErr,
			attribute.String(otelhelper.NodeIDKey, node.ID),
		)

		logger.WarnContext(ctx, "Node execution failed", "node_id", node.ID, "error", handleErr)
	} else {
		nodeExecution.Status = models.ExecutionStatusCompleted

		logger.InfoContext(ctx, "Node execution completed", "node_id", node.ID, "duration", nodeExecution.Duration)
	}

	err = e.executions.Update(ctx, execution)
	if err != nil {
		return nil, fmt.Errorf("failed to persist node settlement: %w", err)
	}

	errorMessage := ""
	if nodeExecution.Error != nil {
		errorMessage = nodeExecution.Error.Message
	}

	e.broadcast(ctx, execution, events.NodeExecutionSettled{
		NodeExecutionID: nodeExecution.ID,
		NodeID:          node.ID,
		Status:          nodeExecution.Status,
		ErrorMessage:    errorMessage,
		DurationMs:      nodeExecution.Duration.Milliseconds(),
	})
	e.broadcastUpdated(ctx, execution)

	return nodeExecution, nil
}

func (e *Engine) runHandler(ctx context.Context, node *models.Node, input map[string]any) (map[string]any, error) {
	handler, err := e.registry.CreateHandler(ctx, node)
	if err != nil {
		return nil, err
	}

	return handler.Handle(ctx, input)
}

// fail stamps a terminal failure with a machine-readable code.
func (e *Engine) fail(ctx context.Context, execution *models.Execution, code, message string) error {
	// The terminal record must land even when the request context has
	// already been cancelled.
	ctx = context.WithoutCancel(ctx)

	execution.Error = &models.ExecutionError{Code: code, Message: message}
	execution.Finish(models.ExecutionStatusFailed)

	err := e.executions.Update(ctx, execution)
	if err != nil {
		return fmt.Errorf("failed to persist failed execution: %w", err)
	}

	e.broadcast(ctx, execution, events.ExecutionFailed{
		ErrorCode:    code,
		ErrorMessage: message,
		Duration:     execution.Duration,
	})

	return nil
}

// settle stamps a completed or cancelled terminal state. Cancellation often
// arrives through the very context the store would be asked to write with,
// so the terminal persist and broadcast run detached from it.
func (e *Engine) settle(ctx context.Context, execution *models.Execution, status models.ExecutionStatus) error {
	ctx = context.WithoutCancel(ctx)

	execution.Finish(status)

	err := e.executions.Update(ctx, execution)
	if err != nil {
		return fmt.Errorf("failed to persist execution settlement: %w", err)
	}

	switch status {
	case models.ExecutionStatusCompleted:
		e.broadcast(ctx, execution, events.ExecutionCompleted{
			Output:   execution.Output,
			Duration: execution.Duration,
		})
	case models.ExecutionStatusCancelled:
		e.broadcast(ctx, execution, events.ExecutionCancelled{
			Duration: execution.Duration,
		})
	}

	return nil
}

func (e *Engine) broadcastUpdated(ctx context.Context, execution *models.Execution) {
	e.broadcast(ctx, execution, events.ExecutionUpdated{
		Status:   execution.Status,
		Progress: e.reportProgress(execution),
	})
}

// broadcast publishes an event, filling in the base fields. Publishing is
// best effort; a broken bus never blocks the execution.
func (e *Engine) broadcast(ctx context.Context, execution *models.Execution, event eventbus.Event) {
	enriched := withBase(event, execution)

	err := e.publisher.Publish(ctx, execution.ID, enriched)
	if err != nil {
		e.logger.WarnContext(ctx, "Failed to publish execution event",
			"execution_id", execution.ID, "event_type", event.GetType(), "error", err)
	}
}

// withBase returns a copy of the event with its BaseEvent populated.
func withBase(event eventbus.Event, execution *models.Execution) eventbus.Event {
	base := events.BaseEvent{
		ID:          uuid.NewString(),
		Type:        event.GetType(),
		Timestamp:   time.Now().UTC(),
		ExecutionID: execution.ID,
		WorkflowID:  execution.WorkflowID,
	}

	switch ev := event.(type) {
	case events.ExecutionStarted:
		ev.BaseEvent = base

		return ev
	case events.ExecutionUpdated:
		ev.BaseEvent = base

		return ev
	case events.ExecutionCompleted:
		ev.BaseEvent = base

		return ev
	case events.ExecutionFailed:
		ev.BaseEvent = base

		return ev
	case events.ExecutionCancelled:
		ev.BaseEvent = base

		return ev
	case events.NodeExecutionStarted:
		ev.BaseEvent = base

		return ev
	case events.NodeExecutionSettled:
		ev.BaseEvent = base

		return ev
	default:
		return event
	}
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}

	return id.String(), nil
}
