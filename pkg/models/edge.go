package models

// ConditionType selects the rule deciding whether an edge is followed after
// its source node settles.
type ConditionType string

const (
	ConditionAlways    ConditionType = "always"
	ConditionOnSuccess ConditionType = "onSuccess"
	ConditionOnError   ConditionType = "onError"
	ConditionCustom    ConditionType = "custom"
)

// Condition gates an edge. Custom conditions carry a sandboxed boolean
// expression evaluated against the source node's execution record.
type Condition struct {
	Type       ConditionType `json:"type"`
	Expression string        `json:"expression,omitempty"`
}

// Edge is a directed, optionally conditional link between two nodes.
// A nil Condition behaves like ConditionAlways.
type Edge struct {
	ID        string     `json:"id"     validate:"required"`
	Source    string     `json:"source" validate:"required"`
	Target    string     `json:"target" validate:"required"`
	Label     string     `json:"label,omitempty"`
	Condition *Condition `json:"condition,omitempty"`
}
