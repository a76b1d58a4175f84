// Package graph provides the directed dependency graph that indexes the
// tournament structure. Nodes are entity ids; edges are typed parent→child
// relations. The graph carries reachability only, never field data: entity
// payloads live in the aggregate's stores.
package graph

import "github.com/google/uuid"

// EdgeKind types a parent→child relation.
type EdgeKind string

const (
	// EdgeStage links a tournament base to one of its stages.
	EdgeStage EdgeKind = "stage"
	// EdgeGroup links a stage to one of its groups.
	EdgeGroup EdgeKind = "group"
)

// Edge is a typed directed relation between two nodes.
type Edge struct {
	Parent uuid.UUID
	Child  uuid.UUID
	Kind   EdgeKind
}

// Graph is a directed graph over entity ids with typed edges. The domain
// guarantees a tree-like shape, so no cycle detection is performed.
type Graph struct {
	nodes map[uuid.UUID]struct{}
	out   map[uuid.UUID]map[uuid.UUID]EdgeKind
	in    map[uuid.UUID]map[uuid.UUID]EdgeKind
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[uuid.UUID]struct{}),
		out:   make(map[uuid.UUID]map[uuid.UUID]EdgeKind),
		in:    make(map[uuid.UUID]map[uuid.UUID]EdgeKind),
	}
}

// AddNode ensures a node exists for the given id.
func (g *Graph) AddNode(id uuid.UUID) {
	g.nodes[id] = struct{}{}
}

// HasNode reports whether a node exists for the given id.
func (g *Graph) HasNode(id uuid.UUID) bool {
	_, ok := g.nodes[id]
	return ok
}

// AddEdge links parent to child with the given kind, creating missing nodes.
// Adding an existing edge is idempotent; the kind is overwritten.
func (g *Graph) AddEdge(parent, child uuid.UUID, kind EdgeKind) {
	g.AddNode(parent)
	g.AddNode(child)
	if g.out[parent] == nil {
		g.out[parent] = make(map[uuid.UUID]EdgeKind)
	}
	if g.in[child] == nil {
		g.in[child] = make(map[uuid.UUID]EdgeKind)
	}
	g.out[parent][child] = kind
	g.in[child][parent] = kind
}

// RemoveEdge unlinks child from parent. Nodes are left untouched; this is
// the soft-unlink used for invalidation.
func (g *Graph) RemoveEdge(parent, child uuid.UUID) {
	delete(g.out[parent], child)
	delete(g.in[child], parent)
}

// RemoveNode drops a node and every edge incident to it. Used only for
// explicit deletion, never for invalidation.
func (g *Graph) RemoveNode(id uuid.UUID) {
	for child := range g.out[id] {
		delete(g.in[child], id)
	}
	for parent := range g.in[id] {
		delete(g.out[parent], id)
	}
	delete(g.out, id)
	delete(g.in, id)
	delete(g.nodes, id)
}

// From returns the outgoing edges of a node.
func (g *Graph) From(id uuid.UUID) []Edge {
	edges := make([]Edge, 0, len(g.out[id]))
	for child, kind := range g.out[id] {
		edges = append(edges, Edge{Parent: id, Child: child, Kind: kind})
	}
	return edges
}

// To returns the incoming edges of a node.
func (g *Graph) To(id uuid.UUID) []Edge {
	edges := make([]Edge, 0, len(g.in[id]))
	for parent, kind := range g.in[id] {
		edges = append(edges, Edge{Parent: parent, Child: id, Kind: kind})
	}
	return edges
}

// Reachable returns the set of ids reachable from root, including root
// itself when its node exists.
func (g *Graph) Reachable(root uuid.UUID) map[uuid.UUID]struct{} {
	reachable := make(map[uuid.UUID]struct{})
	g.Walk(root, func(id uuid.UUID) bool {
		reachable[id] = struct{}{}
		return true
	})
	return reachable
}

// Walk visits every node reachable from root in breadth-first order. The
// visit function returns false to stop the traversal early. Root is visited
// first; a missing root node visits nothing.
func (g *Graph) Walk(root uuid.UUID, visit func(id uuid.UUID) bool) {
	if !g.HasNode(root) {
		return
	}
	seen := map[uuid.UUID]struct{}{root: {}}
	queue := []uuid.UUID{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if !visit(current) {
			return
		}
		for child := range g.out[current] {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			queue = append(queue, child)
		}
	}
}
