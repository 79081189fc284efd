package workflow

// indexGraph checks the structural invariants of an editor graph and returns
// a lookup from node id to node.
func indexGraph(g *WorkflowGraph) (map[string]*EditorNode, error) {
	byID := make(map[string]*EditorNode, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.ID == "" {
			return nil, &ValidationError{Reason: "node without id"}
		}
		if _, dup := byID[n.ID]; dup {
			return nil, &ValidationError{ID: n.ID, Reason: "duplicate node id"}
		}
		if err := checkNodeType(n.ID, n.Type, n.Data.Type); err != nil {
			return nil, err
		}
		byID[n.ID] = n
	}

	edgeIDs := make(map[string]struct{}, len(g.Edges))
	for _, e := range g.Edges {
		if _, dup := edgeIDs[e.ID]; dup {
			return nil, &ValidationError{ID: e.ID, Reason: "duplicate edge id"}
		}
		edgeIDs[e.ID] = struct{}{}
		if err := checkEndpoints(e.ID, e.Source, e.Target, func(id string) bool {
			_, ok := byID[id]
			return ok
		}); err != nil {
			return nil, err
		}
	}
	return byID, nil
}

// checkNodeType rejects unknown node types and a data type that disagrees
// with the node type. An empty data type is filled in by the caller.
func checkNodeType(id string, typ, dataType NodeType) error {
	if !typ.Valid() {
		return &ValidationError{ID: id, Reason: "unknown node type on node"}
	}
	if dataType != "" && dataType != typ {
		return &ValidationError{ID: id, Reason: "data type differs from node type on node"}
	}
	return nil
}

func checkEndpoints(edgeID, source, target string, exists func(string) bool) error {
	if !exists(source) {
		return &DanglingReferenceError{EdgeID: edgeID, End: "source", NodeID: source}
	}
	if !exists(target) {
		return &DanglingReferenceError{EdgeID: edgeID, End: "target", NodeID: target}
	}
	return nil
}

// ValidateBlocking reports ErrBlockingCycle when the task-to-task edges of w
// form a cycle, i.e. a set of tasks that block each other forever. Edges
// touching non-task nodes are ignored; they may loop freely.
func ValidateBlocking(w *PersistedWorkflow) error {
	tasks := make(map[string]bool, len(w.Nodes))
	for _, n := range w.Nodes {
		tasks[n.ID] = n.Type == NodeTypeTask
	}

	adj := make(map[string][]string)
	for _, e := range w.Edges {
		if tasks[e.Source] && tasks[e.Target] {
			adj[e.Source] = append(adj[e.Source], e.Target)
		}
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	state := make(map[string]int, len(adj))

	var dfs func(id string) bool
	dfs = func(id string) bool {
		state[id] = visiting
		for _, next := range adj[id] {
			switch state[next] {
			case visiting:
				return true
			case unvisited:
				if dfs(next) {
					return true
				}
			}
		}
		state[id] = visited
		return false
	}

	for _, n := range w.Nodes {
		if state[n.ID] == unvisited && dfs(n.ID) {
			return ErrBlockingCycle
		}
	}
	return nil
}
