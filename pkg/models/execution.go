package models

import "time"

// ExecutionStatus is the state machine shared by executions and node
// executions. An execution ends in exactly one of completed, failed or
// cancelled; a node execution ends completed or failed.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
	ExecutionStatusCancelled ExecutionStatus = "cancelled"
)

// Terminal reports whether the status is one of the terminal states.
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionStatusCompleted || s == ExecutionStatusFailed || s == ExecutionStatusCancelled
}

// TriggerType describes what started an execution.
type TriggerType string

const (
	TriggerTypeManual   TriggerType = "manual"
	TriggerTypeSchedule TriggerType = "schedule"
	TriggerTypeWebhook  TriggerType = "webhook"
	TriggerTypeEvent    TriggerType = "event"
)

// Trigger is the opaque descriptor attached to an execution at creation.
// The engine stores and forwards it without interpreting Data.
type Trigger struct {
	Type TriggerType    `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// ExecutionError carries a stable machine-readable code alongside the
// human-readable message.
type ExecutionError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// LogEntry is one line of a node execution's log.
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

// Execution is one run of a workflow against a given input. It exclusively
// owns its NodeExecutions sequence: entries are appended in dispatch order
// and updated in place as they settle, never removed.
type Execution struct {
	ID             string           `json:"id"`
	WorkflowID     string           `json:"workflow_id"`
	OrganizationID string           `json:"organization_id"`
	Status         ExecutionStatus  `json:"status"`
	StartedAt      time.Time        `json:"started_at"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
	Duration       time.Duration    `json:"duration,omitempty"`
	Trigger        Trigger          `json:"trigger"`
	Input          map[string]any   `json:"input"`
	Output         map[string]any   `json:"output"`
	NodeExecutions []*NodeExecution `json:"node_executions"`
	Error          *ExecutionError  `json:"error,omitempty"`
	Metadata       map[string]any   `json:"metadata,omitempty"`
}

// NodeExecution records executing one node within one execution.
type NodeExecution struct {
	ID          string          `json:"id"`
	NodeID      string          `json:"node_id"`
	Status      ExecutionStatus `json:"status"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Duration    time.Duration   `json:"duration,omitempty"`
	Input       map[string]any  `json:"input"`
	Output      map[string]any  `json:"output"`
	Error       *ExecutionError `json:"error,omitempty"`
	Logs        []LogEntry      `json:"logs,omitempty"`
}

// AppendLog adds a log entry stamped with the current time.
func (n *NodeExecution) AppendLog(level, message string, data map[string]any) {
	n.Logs = append(n.Logs, LogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		Data:      data,
	})
}

// Progress reports completion as a percentage. Completed executions report
// 100 and failed ones 0 regardless of node counts; otherwise the successful
// share of the settled node executions. A node that is still running does
// not count against the total, so appending the next dispatch never drags
// the value down.
func (e *Execution) Progress() int {
	switch e.Status {
	case ExecutionStatusCompleted:
		return 100
	case ExecutionStatusFailed:
		return 0
	}

	settled := 0
	completed := 0

	for _, nodeExec := range e.NodeExecutions {
		if !nodeExec.Status.Terminal() {
			continue
		}

		settled++

		if nodeExec.Status == ExecutionStatusCompleted {
			completed++
		}
	}

	if settled == 0 {
		return 0
	}

	return completed * 100 / settled
}

// Finish stamps the terminal status, completion time and duration.
func (e *Execution) Finish(status ExecutionStatus) {
	now := time.Now().UTC()
	e.Status = status
	e.CompletedAt = &now
	e.Duration = now.Sub(e.StartedAt)
}
