package topology

import (
	"cmp"
	"errors"
	"maps"
	"slices"

	errs "github.com/matzehuels/gridnet/pkg/errors"
	"github.com/matzehuels/gridnet/pkg/grid"
)

var (
	// ErrDuplicateNode is returned by [Graph.AddNode] when the node exists.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrUnknownNode is returned when an operation names a node the graph
	// does not hold.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfLoop is returned by [Graph.Connect] when both endpoints are the
	// same node.
	ErrSelfLoop = errors.New("edge endpoints must differ")

	// ErrDuplicateEdge is returned by [Graph.Connect] when the two nodes are
	// already connected.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrUnknownEdge is returned by [Graph.Disconnect], [Graph.SetEnabled]
	// and [Graph.Toggle] when the nodes are not connected.
	ErrUnknownEdge = errors.New("unknown edge")
)

// Node is a vertex of the host graph.
type Node struct {
	ID    grid.NodeID
	Kind  grid.Kind
	Label string // display label, defaults to ID
}

// Edge is an undirected connection. A is always the smaller identifier.
type Edge struct {
	A, B    grid.NodeID
	Enabled bool
}

// Other returns the endpoint opposite to id.
func (e Edge) Other(id grid.NodeID) grid.NodeID {
	if e.A == id {
		return e.B
	}
	return e.A
}

type edgeKey struct{ a, b grid.NodeID }

func keyOf(x, y grid.NodeID) edgeKey {
	if y < x {
		x, y = y, x
	}
	return edgeKey{x, y}
}

// Graph is a typed undirected graph with switchable edges.
//
// The zero value is not usable - use [New].
type Graph struct {
	nodes map[grid.NodeID]*Node
	edges map[edgeKey]*Edge
	adj   map[grid.NodeID]map[grid.NodeID]*Edge
}

var _ grid.Provider = (*Graph)(nil)

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[grid.NodeID]*Node),
		edges: make(map[edgeKey]*Edge),
		adj:   make(map[grid.NodeID]map[grid.NodeID]*Edge),
	}
}

// AddNode inserts a node. Identifier and kind are validated with
// errors.ValidateNodeID and errors.ValidateKind.
func (g *Graph) AddNode(n Node) error {
	if err := errs.ValidateNodeID(string(n.ID)); err != nil {
		return err
	}
	if err := errs.ValidateKind(string(n.Kind)); err != nil {
		return err
	}
	if _, ok := g.nodes[n.ID]; ok {
		return errs.Wrap(errs.ErrCodeInvalidInput, ErrDuplicateNode, "add %q", n.ID)
	}
	if n.Label == "" {
		n.Label = string(n.ID)
	}
	g.nodes[n.ID] = &n
	g.adj[n.ID] = make(map[grid.NodeID]*Edge)
	return nil
}

// RemoveNode deletes a node and every edge touching it. It returns the
// former neighbors, including those behind disabled edges, in sorted order.
func (g *Graph) RemoveNode(id grid.NodeID) ([]grid.NodeID, error) {
	if _, ok := g.nodes[id]; !ok {
		return nil, errs.Wrap(errs.ErrCodeNotFound, ErrUnknownNode, "remove %q", id)
	}
	former := slices.Sorted(maps.Keys(g.adj[id]))
	for _, other := range former {
		delete(g.edges, keyOf(id, other))
		delete(g.adj[other], id)
	}
	delete(g.adj, id)
	delete(g.nodes, id)
	return former, nil
}

// Connect adds an enabled edge between two existing nodes.
func (g *Graph) Connect(x, y grid.NodeID) error {
	if err := g.endpoints(x, y); err != nil {
		return err
	}
	k := keyOf(x, y)
	if _, ok := g.edges[k]; ok {
		return errs.Wrap(errs.ErrCodeInvalidInput, ErrDuplicateEdge, "connect %q-%q", x, y)
	}
	e := &Edge{A: k.a, B: k.b, Enabled: true}
	g.edges[k] = e
	g.adj[x][y] = e
	g.adj[y][x] = e
	return nil
}

// Disconnect removes the edge between two nodes.
func (g *Graph) Disconnect(x, y grid.NodeID) error {
	k := keyOf(x, y)
	if _, ok := g.edges[k]; !ok {
		return errs.Wrap(errs.ErrCodeNotFound, ErrUnknownEdge, "disconnect %q-%q", x, y)
	}
	delete(g.edges, k)
	delete(g.adj[x], y)
	delete(g.adj[y], x)
	return nil
}

// SetEnabled opens or closes the switch on an edge. It reports whether the
// state changed.
func (g *Graph) SetEnabled(x, y grid.NodeID, enabled bool) (bool, error) {
	e, ok := g.edges[keyOf(x, y)]
	if !ok {
		return false, errs.Wrap(errs.ErrCodeNotFound, ErrUnknownEdge, "switch %q-%q", x, y)
	}
	changed := e.Enabled != enabled
	e.Enabled = enabled
	return changed, nil
}

// Toggle flips the switch on an edge and returns the new state.
func (g *Graph) Toggle(x, y grid.NodeID) (bool, error) {
	e, ok := g.edges[keyOf(x, y)]
	if !ok {
		return false, errs.Wrap(errs.ErrCodeNotFound, ErrUnknownEdge, "toggle %q-%q", x, y)
	}
	e.Enabled = !e.Enabled
	return e.Enabled, nil
}

func (g *Graph) endpoints(x, y grid.NodeID) error {
	if x == y {
		return errs.Wrap(errs.ErrCodeInvalidInput, ErrSelfLoop, "connect %q", x)
	}
	for _, id := range []grid.NodeID{x, y} {
		if _, ok := g.nodes[id]; !ok {
			return errs.Wrap(errs.ErrCodeNotFound, ErrUnknownNode, "connect %q-%q: %q", x, y, id)
		}
	}
	return nil
}

// Kind implements grid.Provider.
func (g *Graph) Kind(id grid.NodeID) (grid.Kind, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return "", false
	}
	return n.Kind, true
}

// Neighbors implements grid.Provider. Only enabled edges count; the result
// is sorted.
func (g *Graph) Neighbors(id grid.NodeID) []grid.NodeID {
	var out []grid.NodeID
	for other, e := range g.adj[id] {
		if e.Enabled {
			out = append(out, other)
		}
	}
	slices.Sort(out)
	return out
}

// Node returns a copy of the node.
func (g *Graph) Node(id grid.NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// HasEdge reports whether the nodes are wired together, enabled or not.
func (g *Graph) HasEdge(x, y grid.NodeID) bool {
	_, ok := g.edges[keyOf(x, y)]
	return ok
}

// Edge returns a copy of the edge between two nodes.
func (g *Graph) Edge(x, y grid.NodeID) (Edge, bool) {
	e, ok := g.edges[keyOf(x, y)]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// Nodes returns copies of all nodes sorted by identifier.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, *n)
	}
	slices.SortFunc(out, func(a, b Node) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Edges returns copies of all edges sorted by endpoints.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, *e)
	}
	slices.SortFunc(out, func(x, y Edge) int {
		return cmp.Or(cmp.Compare(x.A, y.A), cmp.Compare(x.B, y.B))
	})
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges, enabled or not.
func (g *Graph) EdgeCount() int { return len(g.edges) }
