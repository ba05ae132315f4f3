// Package events defines the event types published while executions run.
package events

import (
	"time"

	"github.com/automaton-hq/automaton/pkg/models"
)

// EventType identifies the concrete event struct on the wire.
type EventType string

// Topic is the channel all execution events are published on.
const Topic = "automaton.executions"

const EventKeyMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ExecutionStartedEvent   EventType = "execution.started"
	ExecutionUpdatedEvent   EventType = "execution.updated"
	ExecutionCompletedEvent EventType = "execution.completed"
	ExecutionFailedEvent    EventType = "execution.failed"
	ExecutionCancelledEvent EventType = "execution.cancelled"

	NodeExecutionStartedEvent EventType = "node.execution.started"
	NodeExecutionSettledEvent EventType = "node.execution.settled"
)

// BaseEvent carries the fields shared by every execution event.
type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	ExecutionID string    `json:"execution_id"`
	WorkflowID  string    `json:"workflow_id"`
}

// ExecutionStarted signals a new execution record was created.
type ExecutionStarted struct {
	BaseEvent

	Trigger models.Trigger `json:"trigger"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

// ExecutionUpdated is published on every status transition and node append.
// Progress is monotonically non-decreasing for a running execution.
type ExecutionUpdated struct {
	BaseEvent

	Status   models.ExecutionStatus `json:"status"`
	Progress int                    `json:"progress"`
}

func (e ExecutionUpdated) GetType() EventType {
	return ExecutionUpdatedEvent
}

// ExecutionCompleted signals a successful terminal transition.
type ExecutionCompleted struct {
	BaseEvent

	Output   map[string]any `json:"output,omitempty"`
	Duration time.Duration  `json:"duration"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

// ExecutionFailed signals an unrecoverable terminal transition.
type ExecutionFailed struct {
	BaseEvent

	ErrorCode    string        `json:"error_code"`
	ErrorMessage string        `json:"error_message"`
	Duration     time.Duration `json:"duration"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

// ExecutionCancelled signals a cooperative cancellation was honored.
type ExecutionCancelled struct {
	BaseEvent

	Duration time.Duration `json:"duration"`
}

func (e ExecutionCancelled) GetType() EventType {
	return ExecutionCancelledEvent
}

// NodeExecutionStarted signals a node was dispatched.
type NodeExecutionStarted struct {
	BaseEvent

	NodeExecutionID string `json:"node_execution_id"`
	NodeID          string `json:"node_id"`
	NodeType        string `json:"node_type"`
}

func (e NodeExecutionStarted) GetType() EventType {
	return NodeExecutionStartedEvent
}

// NodeExecutionSettled signals a dispatched node finished, successfully or
// not.
type NodeExecutionSettled struct {
	BaseEvent

	NodeExecutionID string                 `json:"node_execution_id"`
	NodeID          string                 `json:"node_id"`
	Status          models.ExecutionStatus `json:"status"`
	ErrorMessage    string                 `json:"error_message,omitempty"`
	DurationMs      int64                  `json:"duration_ms"`
}

func (e NodeExecutionSettled) GetType() EventType {
	return NodeExecutionSettledEvent
}
