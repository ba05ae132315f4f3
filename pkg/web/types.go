// Package web provides HTTP request and response types for the workflow API.
package web

import "github.com/automaton-hq/automaton/pkg/models"

// CreateWorkflowRequest represents the request body for creating a new workflow.
// The full graph travels with the request; the service validates it before
// anything is stored.
type CreateWorkflowRequest struct {
	Name           string                  `json:"name"            validate:"required,min=3"`
	Description    string                  `json:"description"`
	OrganizationID string                  `json:"organization_id" validate:"required"`
	CreatedBy      string                  `json:"created_by"`
	Nodes          []*models.Node          `json:"nodes"           validate:"required,min=1"`
	Edges          []*models.Edge          `json:"edges"`
	Settings       models.WorkflowSettings `json:"settings"`
	Status         models.WorkflowStatus   `json:"status"          validate:"omitempty,oneof=draft active archived"`
}

// UpdateWorkflowRequest represents the request body for updating an existing workflow.
// All fields are optional to support partial updates.
type UpdateWorkflowRequest struct {
	Name        *string                  `json:"name,omitempty"        validate:"omitempty,min=3"`
	Description *string                  `json:"description,omitempty"`
	Nodes       []*models.Node           `json:"nodes,omitempty"`
	Edges       []*models.Edge           `json:"edges,omitempty"`
	Settings    *models.WorkflowSettings `json:"settings,omitempty"`
	Status      *models.WorkflowStatus   `json:"status,omitempty"      validate:"omitempty,oneof=draft active archived"`
}

// ExecuteWorkflowRequest represents the request body for starting an execution.
type ExecuteWorkflowRequest struct {
	Input   map[string]any `json:"input"`
	ActorID string         `json:"actor_id"`
}

// RetryExecutionRequest identifies who requested the retry.
type RetryExecutionRequest struct {
	ActorID string `json:"actor_id"`
}
