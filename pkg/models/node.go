package models

// NodeType identifies the handler responsible for executing a node.
type NodeType string

const (
	NodeTypeStart        NodeType = "start"
	NodeTypeEnd          NodeType = "end"
	NodeTypeEmail        NodeType = "email"
	NodeTypeApproval     NodeType = "approval"
	NodeTypeCondition    NodeType = "condition"
	NodeTypeDelay        NodeType = "delay"
	NodeTypeWebhook      NodeType = "webhook"
	NodeTypeDatabase     NodeType = "database"
	NodeTypeAI           NodeType = "ai"
	NodeTypeIntegration  NodeType = "integration"
	NodeTypeNotification NodeType = "notification"
	NodeTypeReport       NodeType = "report"
	NodeTypeTransform    NodeType = "transform"
)

// NodeTypes lists every built-in node type.
func NodeTypes() []NodeType {
	return []NodeType{
		NodeTypeStart, NodeTypeEnd, NodeTypeEmail, NodeTypeApproval,
		NodeTypeCondition, NodeTypeDelay, NodeTypeWebhook, NodeTypeDatabase,
		NodeTypeAI, NodeTypeIntegration, NodeTypeNotification,
		NodeTypeReport, NodeTypeTransform,
	}
}

// Node is a typed step in a workflow graph. Config is an opaque bag
// interpreted by the node's handler.
type Node struct {
	ID        string         `json:"id"    validate:"required"`
	Type      NodeType       `json:"type"  validate:"required"`
	Label     string         `json:"label"`
	PositionX int            `json:"position_x"`
	PositionY int            `json:"position_y"`
	Config    map[string]any `json:"config,omitempty"`
}
