package graph

import "fmt"

// Index precomputes adjacency for a definition. It is read-only after
// construction and safe for concurrent use.
type Index struct {
	def      *WorkflowDefinition
	nodes    map[string]*WorkflowNode
	outgoing map[string][]*WorkflowConnection
	incoming map[string][]*WorkflowConnection
}

// NewIndex builds adjacency maps for the definition. Connection slices keep
// declaration order: the data-flow merge contract depends on it.
func NewIndex(def *WorkflowDefinition) *Index {
	idx := &Index{
		def:      def,
		nodes:    make(map[string]*WorkflowNode, len(def.Nodes)),
		outgoing: make(map[string][]*WorkflowConnection),
		incoming: make(map[string][]*WorkflowConnection),
	}
	for i := range def.Nodes {
		idx.nodes[def.Nodes[i].ID] = &def.Nodes[i]
	}
	for i := range def.Connections {
		conn := &def.Connections[i]
		idx.outgoing[conn.SourceID] = append(idx.outgoing[conn.SourceID], conn)
		idx.incoming[conn.TargetID] = append(idx.incoming[conn.TargetID], conn)
	}
	return idx
}

// Definition returns the indexed definition.
func (idx *Index) Definition() *WorkflowDefinition { return idx.def }

// Node returns the node with the given id.
func (idx *Index) Node(id string) (*WorkflowNode, bool) {
	n, ok := idx.nodes[id]
	return n, ok
}

// Outgoing returns the outgoing connections of a node in declaration order.
func (idx *Index) Outgoing(id string) []*WorkflowConnection { return idx.outgoing[id] }

// Incoming returns the incoming connections of a node in declaration order.
func (idx *Index) Incoming(id string) []*WorkflowConnection { return idx.incoming[id] }

// Entries returns the declared entry nodes: nodes with no incoming DataFlow
// or ControlFlow edge, in declaration order.
func (idx *Index) Entries() []string {
	var entries []string
	for i := range idx.def.Nodes {
		id := idx.def.Nodes[i].ID
		hasIncoming := false
		for _, conn := range idx.incoming[id] {
			if conn.Type == ConnectionDataFlow || conn.Type == ConnectionControlFlow {
				hasIncoming = true
				break
			}
		}
		if !hasIncoming {
			entries = append(entries, id)
		}
	}
	return entries
}

// EntryNode resolves the designated starting node for walk-based strategies:
// the configured entry if set, otherwise the first declared entry node,
// otherwise the first declared node (handoff graphs may be fully cyclic).
func (idx *Index) EntryNode() (string, error) {
	if idx.def.Config.EntryNode != "" {
		if _, ok := idx.nodes[idx.def.Config.EntryNode]; !ok {
			return "", fmt.Errorf("configured entry node %q is not declared", idx.def.Config.EntryNode)
		}
		return idx.def.Config.EntryNode, nil
	}
	if entries := idx.Entries(); len(entries) > 0 {
		return entries[0], nil
	}
	if len(idx.def.Nodes) > 0 {
		return idx.def.Nodes[0].ID, nil
	}
	return "", fmt.Errorf("workflow has no nodes")
}

// TopoSort returns node ids in a stable topological order: declaration order,
// broken only by dependency order. Fails if the graph has a cycle.
func (idx *Index) TopoSort() ([]string, error) {
	indegree := make(map[string]int, len(idx.def.Nodes))
	for i := range idx.def.Nodes {
		indegree[idx.def.Nodes[i].ID] = 0
	}
	for i := range idx.def.Connections {
		indegree[idx.def.Connections[i].TargetID]++
	}

	order := make([]string, 0, len(idx.def.Nodes))
	done := make(map[string]bool, len(idx.def.Nodes))

	// Kahn's algorithm, scanning declaration order each round so that ties
	// resolve deterministically by declaration position.
	for len(order) < len(idx.def.Nodes) {
		progressed := false
		for i := range idx.def.Nodes {
			id := idx.def.Nodes[i].ID
			if done[id] || indegree[id] > 0 {
				continue
			}
			done[id] = true
			order = append(order, id)
			for _, conn := range idx.outgoing[id] {
				indegree[conn.TargetID]--
			}
			progressed = true
		}
		if !progressed {
			return nil, fmt.Errorf("graph contains a cycle")
		}
	}
	return order, nil
}

// Levels partitions nodes into dependency groups: group N contains nodes all
// of whose predecessors live in groups < N. The set of nodes per group is
// deterministic given the graph.
func (idx *Index) Levels() ([][]string, error) {
	indegree := make(map[string]int, len(idx.def.Nodes))
	for i := range idx.def.Nodes {
		indegree[idx.def.Nodes[i].ID] = 0
	}
	for i := range idx.def.Connections {
		indegree[idx.def.Connections[i].TargetID]++
	}

	done := make(map[string]bool, len(idx.def.Nodes))
	var levels [][]string
	total := 0

	for total < len(idx.def.Nodes) {
		var level []string
		for i := range idx.def.Nodes {
			id := idx.def.Nodes[i].ID
			if !done[id] && indegree[id] == 0 {
				level = append(level, id)
			}
		}
		if len(level) == 0 {
			return nil, fmt.Errorf("graph contains a cycle")
		}
		for _, id := range level {
			done[id] = true
			for _, conn := range idx.outgoing[id] {
				indegree[conn.TargetID]--
			}
		}
		levels = append(levels, level)
		total += len(level)
	}
	return levels, nil
}

// findCycle runs DFS with a recursion stack and returns a node id on the
// first back edge found, or "" for acyclic graphs.
func (idx *Index) findCycle() string {
	const (
		white = 0 // unvisited
		gray  = 1 // on the recursion stack
		black = 2 // fully explored
	)
	color := make(map[string]int, len(idx.def.Nodes))

	var visit func(id string) string
	visit = func(id string) string {
		color[id] = gray
		for _, conn := range idx.outgoing[id] {
			switch color[conn.TargetID] {
			case gray:
				return conn.TargetID
			case white:
				if hit := visit(conn.TargetID); hit != "" {
					return hit
				}
			}
		}
		color[id] = black
		return ""
	}

	for i := range idx.def.Nodes {
		id := idx.def.Nodes[i].ID
		if color[id] == white {
			if hit := visit(id); hit != "" {
				return hit
			}
		}
	}
	return ""
}

// firstUnreachable returns the first declared node not reachable from any
// entry node, or "" when all nodes are reachable. Fully cyclic graphs have no
// declared entries; reachability is then checked from the resolved entry.
func (idx *Index) firstUnreachable() string {
	starts := idx.Entries()
	if len(starts) == 0 {
		start, err := idx.EntryNode()
		if err != nil {
			return ""
		}
		starts = []string{start}
	}

	reached := make(map[string]bool, len(idx.def.Nodes))
	queue := append([]string(nil), starts...)
	for _, id := range starts {
		reached[id] = true
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, conn := range idx.outgoing[id] {
			if !reached[conn.TargetID] {
				reached[conn.TargetID] = true
				queue = append(queue, conn.TargetID)
			}
		}
	}

	for i := range idx.def.Nodes {
		if !reached[idx.def.Nodes[i].ID] {
			return idx.def.Nodes[i].ID
		}
	}
	return ""
}
