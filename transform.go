package workflow

import (
	"maps"

	"github.com/devHarshShah/swiftboard-frontend-sub001/internal/xjson"
)

// ToPersisted converts an editor graph into its persisted form.
//
// Every task node gets blockedBy and blocking lists derived from the edges
// running between task nodes, merged over its config together with userIds.
// Config and style are encoded as JSON text. g is never modified and the
// result shares no maps with it.
func ToPersisted(g *WorkflowGraph) (*PersistedWorkflow, error) {
	if g == nil {
		g = &WorkflowGraph{}
	}
	byID, err := indexGraph(g)
	if err != nil {
		return nil, err
	}
	rel := deriveRelationships(g.Edges, byID)

	w := &PersistedWorkflow{
		Nodes: make([]PersistedNode, 0, len(g.Nodes)),
		Edges: make([]PersistedEdge, 0, len(g.Edges)),
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		cfg := n.Data.Config
		if n.Type == NodeTypeTask {
			cfg = rel.mergeInto(n)
		}
		config, err := encodeConfig(cfg)
		if err != nil {
			return nil, &MalformedPayloadError{Element: "node", ID: n.ID, Field: "config", Err: err}
		}

		w.Nodes = append(w.Nodes, PersistedNode{
			ID:                n.ID,
			Type:              n.Type,
			PositionX:         n.Position.X,
			PositionY:         n.Position.Y,
			PositionAbsoluteX: n.Position.X,
			PositionAbsoluteY: n.Position.Y,
			Width:             valueOr(n.Width, DefaultNodeWidth),
			Height:            valueOr(n.Height, DefaultNodeHeight),
			Selected:          n.Selected,
			Dragging:          n.Dragging,
			Data: PersistedNodeData{
				Label:       n.Data.Label,
				Type:        n.Type,
				Description: n.Data.Description,
				Icon:        n.Data.Icon,
				Config:      config,
			},
		})
	}

	for _, e := range g.Edges {
		style, err := encodeStyle(e.Style)
		if err != nil {
			return nil, &MalformedPayloadError{Element: "edge", ID: e.ID, Field: "style", Err: err}
		}
		typ := e.Type
		if typ == "" {
			typ = DefaultEdgeType
		}
		w.Edges = append(w.Edges, PersistedEdge{
			ID:           e.ID,
			Type:         typ,
			Source:       e.Source,
			Target:       e.Target,
			SourceHandle: e.SourceHandle,
			TargetHandle: e.TargetHandle,
			Animated:     e.Animated,
			Style:        style,
		})
	}

	return w, nil
}

// FromPersisted rebuilds the editor graph from its persisted form. Config and
// style are decoded whether they arrive as JSON text or as objects. Node
// records are held to the same type and id rules as ToPersisted. Derived
// blockedBy/blocking lists are kept as stored, not recomputed.
func FromPersisted(w *PersistedWorkflow) (*WorkflowGraph, error) {
	if w == nil {
		w = &PersistedWorkflow{}
	}
	g := &WorkflowGraph{
		Nodes: make([]EditorNode, 0, len(w.Nodes)),
		Edges: make([]EditorEdge, 0, len(w.Edges)),
	}

	ids := make(map[string]struct{}, len(w.Nodes))
	for _, n := range w.Nodes {
		if err := checkNodeType(n.ID, n.Type, n.Data.Type); err != nil {
			return nil, err
		}
		// Nodes without an ID are given one by the store before they are saved.
		if _, dup := ids[n.ID]; dup && n.ID != "" {
			return nil, &ValidationError{ID: n.ID, Reason: "duplicate node id"}
		}
		cfg, err := n.Data.Config.Object()
		if err != nil {
			return nil, &MalformedPayloadError{Element: "node", ID: n.ID, Field: "config", Err: err}
		}
		dataType := n.Data.Type
		if dataType == "" {
			dataType = n.Type
		}

		node := EditorNode{
			ID:       n.ID,
			Type:     n.Type,
			Position: Position{X: n.PositionX, Y: n.PositionY},
			Selected: n.Selected,
			Dragging: n.Dragging,
			Data: NodeData{
				Label:       n.Data.Label,
				Type:        dataType,
				Description: n.Data.Description,
				Icon:        n.Data.Icon,
				Config:      cfg,
			},
		}
		if n.Width > 0 {
			node.Width = ptr(n.Width)
		}
		if n.Height > 0 {
			node.Height = ptr(n.Height)
		}
		g.Nodes = append(g.Nodes, node)
		ids[n.ID] = struct{}{}
	}

	for _, e := range w.Edges {
		if err := checkEndpoints(e.ID, e.Source, e.Target, func(id string) bool {
			_, ok := ids[id]
			return ok
		}); err != nil {
			return nil, err
		}

		edge := EditorEdge{
			ID:           e.ID,
			Type:         e.Type,
			Source:       e.Source,
			Target:       e.Target,
			SourceHandle: e.SourceHandle,
			TargetHandle: e.TargetHandle,
			Animated:     e.Animated,
		}
		if !e.Style.IsZero() {
			var style EdgeStyle
			if err := e.Style.Decode(&style); err != nil {
				return nil, &MalformedPayloadError{Element: "edge", ID: e.ID, Field: "style", Err: err}
			}
			edge.Style = &style
		}
		g.Edges = append(g.Edges, edge)
	}

	return g, nil
}

// relationships holds the derived task dependencies keyed by node id.
type relationships struct {
	blockedBy map[string][]TaskRelationship
	blocking  map[string][]TaskRelationship
}

// deriveRelationships walks edges in order; an edge A->B between two task
// nodes means A blocks B. Parallel edges yield repeated entries.
func deriveRelationships(edges []EditorEdge, byID map[string]*EditorNode) relationships {
	rel := relationships{
		blockedBy: make(map[string][]TaskRelationship),
		blocking:  make(map[string][]TaskRelationship),
	}
	for _, e := range edges {
		src, tgt := byID[e.Source], byID[e.Target]
		if src.Type != NodeTypeTask || tgt.Type != NodeTypeTask {
			continue
		}
		rel.blocking[src.ID] = append(rel.blocking[src.ID], taskRef(tgt))
		rel.blockedBy[tgt.ID] = append(rel.blockedBy[tgt.ID], taskRef(src))
	}
	return rel
}

// mergeInto returns a copy of n's config with userIds defaulted and
// blockedBy/blocking overwritten by the derived lists.
func (r relationships) mergeInto(n *EditorNode) Config {
	cfg := make(Config, len(n.Data.Config)+3)
	maps.Copy(cfg, n.Data.Config)
	if cfg[ConfigUserIDs] == nil {
		cfg[ConfigUserIDs] = []any{}
	}
	cfg[ConfigBlockedBy] = orEmpty(r.blockedBy[n.ID])
	cfg[ConfigBlocking] = orEmpty(r.blocking[n.ID])
	return cfg
}

func taskRef(n *EditorNode) TaskRelationship {
	return TaskRelationship{ID: n.ID, Name: n.Data.Label, Description: n.Data.Description}
}

func encodeConfig(cfg Config) (Payload, error) {
	if cfg == nil {
		return RawPayload("{}"), nil
	}
	b, err := xjson.Marshal(cfg)
	if err != nil {
		return Payload{}, err
	}
	return RawPayload(string(b)), nil
}

func encodeStyle(s *EdgeStyle) (Payload, error) {
	style := EdgeStyle{Stroke: DefaultEdgeStroke, StrokeWidth: DefaultStrokeWidth}
	if s != nil {
		if s.Stroke != "" {
			style.Stroke = s.Stroke
		}
		if s.StrokeWidth != 0 {
			style.StrokeWidth = s.StrokeWidth
		}
	}
	b, err := xjson.Marshal(style)
	if err != nil {
		return Payload{}, err
	}
	return RawPayload(string(b)), nil
}

func orEmpty(rs []TaskRelationship) []TaskRelationship {
	if rs == nil {
		return []TaskRelationship{}
	}
	return rs
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func ptr[T any](v T) *T {
	return &v
}
