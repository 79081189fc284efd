package workflow

import "time"

// NodeType is the kind of a workflow node as shown in the editor palette.
type NodeType string

const (
	NodeTypeStart     NodeType = "start"
	NodeTypeTask      NodeType = "task"
	NodeTypeCondition NodeType = "condition"
	NodeTypeAPI       NodeType = "api"
	NodeTypeData      NodeType = "data"
	NodeTypeEnd       NodeType = "end"
	NodeTypeDefault   NodeType = "default"
)

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	switch t {
	case NodeTypeStart, NodeTypeTask, NodeTypeCondition, NodeTypeAPI,
		NodeTypeData, NodeTypeEnd, NodeTypeDefault:
		return true
	}
	return false
}

// Status is the lifecycle state of a persisted workflow.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Defaults applied when the editor leaves a field unset.
const (
	DefaultNodeWidth   = 225
	DefaultNodeHeight  = 66
	DefaultEdgeType    = "default"
	DefaultEdgeStroke  = "#4f46e5"
	DefaultStrokeWidth = 2
)

// Config is the open-ended configuration attached to a node. Node types
// extend it ad hoc, so it is not a closed record.
type Config map[string]any

// Config keys written by relationship derivation on task nodes.
const (
	ConfigUserIDs   = "userIds"
	ConfigBlockedBy = "blockedBy"
	ConfigBlocking  = "blocking"
)

// WorkflowGraph is the editor-side graph: nodes positioned on a canvas and
// the directed edges between them.
type WorkflowGraph struct {
	Nodes []EditorNode `json:"nodes"`
	Edges []EditorEdge `json:"edges"`
}

// Position is a point on the editor canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EditorNode is a node as manipulated in the visual editor.
// Width and Height are nil until the editor has measured the node.
type EditorNode struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Position Position `json:"position"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Selected bool     `json:"selected,omitempty"`
	Dragging bool     `json:"dragging,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the user-facing content of a node.
type NodeData struct {
	Label       string   `json:"label"`
	Type        NodeType `json:"type"`
	Description string   `json:"description"`
	Icon        string   `json:"icon,omitempty"`
	Config      Config   `json:"config"`
}

// EditorEdge is a directed connection between two editor nodes.
type EditorEdge struct {
	ID           string     `json:"id"`
	Type         string     `json:"type,omitempty"`
	Source       string     `json:"source"`
	Target       string     `json:"target"`
	SourceHandle string     `json:"sourceHandle,omitempty"`
	TargetHandle string     `json:"targetHandle,omitempty"`
	Animated     bool       `json:"animated,omitempty"`
	Style        *EdgeStyle `json:"style,omitempty"`
}

// EdgeStyle is the rendering style of an edge. Zero fields mean "unset".
type EdgeStyle struct {
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

// TaskRelationship references another task node from a blockedBy or
// blocking list.
type TaskRelationship struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PersistedWorkflow is the flat, backend-storable form of a workflow.
type PersistedWorkflow struct {
	ID          string          `json:"id,omitempty"`
	ProjectID   string          `json:"projectId,omitempty"`
	Name        string          `json:"name,omitempty"`
	Status      Status          `json:"status,omitempty"`
	Version     int             `json:"version,omitempty"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
	PublishedAt *time.Time      `json:"publishedAt,omitempty"`
	Nodes       []PersistedNode `json:"nodes"`
	Edges       []PersistedEdge `json:"edges"`
}

// PersistedNode is a flattened node record.
// PositionAbsoluteX/Y mirror PositionX/Y: the editor has no nested nodes.
type PersistedNode struct {
	ID                string            `json:"id"`
	Type              NodeType          `json:"type"`
	PositionX         float64           `json:"positionX"`
	PositionY         float64           `json:"positionY"`
	PositionAbsoluteX float64           `json:"positionAbsoluteX"`
	PositionAbsoluteY float64           `json:"positionAbsoluteY"`
	Width             float64           `json:"width"`
	Height            float64           `json:"height"`
	Selected          bool              `json:"selected"`
	Dragging          bool              `json:"dragging"`
	Data              PersistedNodeData `json:"data"`
}

// PersistedNodeData carries the node content with config as JSON text.
type PersistedNodeData struct {
	Label       string   `json:"label"`
	Type        NodeType `json:"type"`
	Description string   `json:"description"`
	Icon        string   `json:"icon,omitempty"`
	Config      Payload  `json:"config"`
}

// PersistedEdge is a flattened edge record with style as JSON text.
type PersistedEdge struct {
	ID           string  `json:"id"`
	Type         string  `json:"type,omitempty"`
	Source       string  `json:"source"`
	Target       string  `json:"target"`
	SourceHandle string  `json:"sourceHandle,omitempty"`
	TargetHandle string  `json:"targetHandle,omitempty"`
	Animated     bool    `json:"animated"`
	Style        Payload `json:"style"`
}
