package engine

import (
	"context"
	"log/slog"
	"maps"

	"github.com/automaton-hq/automaton/pkg/models"
)

// shouldFollow decides whether an outgoing edge is satisfied by the settled
// node execution. Branching keys on the node execution's status, never on
// the handler's output payload.
func (e *Engine) shouldFollow(ctx context.Context, logger *slog.Logger, edge *models.Edge, nodeExecution *models.NodeExecution, execContext map[string]any) bool {
	if edge.Condition == nil {
		return true
	}

	switch edge.Condition.Type {
	case models.ConditionAlways:
		return true
	case models.ConditionOnSuccess:
		return nodeExecution.Status == models.ExecutionStatusCompleted
	case models.ConditionOnError:
		return nodeExecution.Status == models.ExecutionStatusFailed
	case models.ConditionCustom:
		return e.evaluateCustom(ctx, logger, edge, nodeExecution, execContext)
	default:
		logger.WarnContext(ctx, "Unrecognized edge condition type, treating as always",
			"edge_id", edge.ID, "condition_type", edge.Condition.Type)

		return true
	}
}

// evaluateCustom runs a sandboxed expression over the execution context plus
// the settled node's status and output. Evaluation failures block the edge
// rather than the execution.
func (e *Engine) evaluateCustom(ctx context.Context, logger *slog.Logger, edge *models.Edge, nodeExecution *models.NodeExecution, execContext map[string]any) bool {
	data := maps.Clone(execContext)
	if data == nil {
		data = make(map[string]any)
	}

	data["status"] = string(nodeExecution.Status)
	data["output"] = nodeExecution.Output

	result, err := e.evaluator.EvaluateBool(edge.Condition.Expression, data)
	if err != nil {
		logger.WarnContext(ctx, "Edge condition evaluation failed, not following edge",
			"edge_id", edge.ID, "expression", edge.Condition.Expression, "error", err)

		return false
	}

	return result
}
