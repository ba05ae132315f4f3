// Package models defines the core domain models for graph-based workflow automation.
package models

import "time"

// WorkflowStatus represents the lifecycle state of a workflow definition.
type WorkflowStatus string

const (
	WorkflowStatusDraft    WorkflowStatus = "draft"    // Editable, not executable
	WorkflowStatusActive   WorkflowStatus = "active"   // Executable
	WorkflowStatusArchived WorkflowStatus = "archived" // Historical, not executable
)

// Workflow is a directed graph of typed nodes connected by conditional edges.
// A workflow is read-only input to an execution; the engine never mutates it.
type Workflow struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"            validate:"required,min=3"`
	Description    string           `json:"description"`
	OrganizationID string           `json:"organization_id" validate:"required"`
	CreatedBy      string           `json:"created_by"`
	Nodes          []*Node          `json:"nodes"`
	Edges          []*Edge          `json:"edges"`
	Settings       WorkflowSettings `json:"settings"`
	Status         WorkflowStatus   `json:"status"`
	Version        int              `json:"version"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// WorkflowSettings carries run-level policies configured by the author.
// ParallelExecution and MaxConcurrentExecutions are stored and surfaced but
// traversal is sequential; see engine documentation.
type WorkflowSettings struct {
	TimeoutSeconds          int                  `json:"timeout_seconds"`
	RetryAttempts           int                  `json:"retry_attempts"`
	RetryDelaySeconds       int                  `json:"retry_delay_seconds"`
	ParallelExecution       bool                 `json:"parallel_execution"`
	MaxConcurrentExecutions int                  `json:"max_concurrent_executions"`
	Notifications           NotificationSettings `json:"notifications"`
}

// NotificationSettings selects which run transitions notify which recipients.
type NotificationSettings struct {
	OnStart    bool     `json:"on_start"`
	OnSuccess  bool     `json:"on_success"`
	OnError    bool     `json:"on_error"`
	OnTimeout  bool     `json:"on_timeout"`
	Channels   []string `json:"channels,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
}

// StartNode returns the workflow's start node, or nil when the graph has none.
func (w *Workflow) StartNode() *Node {
	for _, node := range w.Nodes {
		if node.Type == NodeTypeStart {
			return node
		}
	}

	return nil
}

// NodeByID returns the node with the given id, or nil when absent.
func (w *Workflow) NodeByID(id string) *Node {
	for _, node := range w.Nodes {
		if node.ID == id {
			return node
		}
	}

	return nil
}

// EdgesFrom returns every edge whose source is the given node id, in
// definition order.
func (w *Workflow) EdgesFrom(nodeID string) []*Edge {
	edges := make([]*Edge, 0)

	for _, edge := range w.Edges {
		if edge.Source == nodeID {
			edges = append(edges, edge)
		}
	}

	return edges
}

// Timeout returns the configured overall run timeout, zero when unset.
func (s WorkflowSettings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 0
	}

	return time.Duration(s.TimeoutSeconds) * time.Second
}
