package topology

import (
	"slices"

	"github.com/matzehuels/gridnet/pkg/grid"
)

// unionFind is a disjoint-set forest with path compression and union by
// rank.
type unionFind struct {
	parent map[grid.NodeID]grid.NodeID
	rank   map[grid.NodeID]int
}

func newUnionFind() *unionFind {
	return &unionFind{
		parent: make(map[grid.NodeID]grid.NodeID),
		rank:   make(map[grid.NodeID]int),
	}
}

func (uf *unionFind) add(x grid.NodeID) {
	if _, ok := uf.parent[x]; !ok {
		uf.parent[x] = x
	}
}

func (uf *unionFind) find(x grid.NodeID) grid.NodeID {
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for x != root {
		next := uf.parent[x]
		uf.parent[x] = root
		x = next
	}
	return root
}

func (uf *unionFind) union(x, y grid.NodeID) {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return
	}
	switch {
	case uf.rank[rx] < uf.rank[ry]:
		uf.parent[rx] = ry
	case uf.rank[rx] > uf.rank[ry]:
		uf.parent[ry] = rx
	default:
		uf.parent[ry] = rx
		uf.rank[rx]++
	}
}

// Components returns the partition a correct manager must hold: the
// connected components of the subgraph made of active nodes and enabled
// edges between nodes of equal kind.
//
// A nil active func treats every node as active. Groups are sorted
// internally and ordered by their first member, the same canonical form as
// grid.Snapshot.Groups.
func (g *Graph) Components(active func(grid.NodeID) bool) [][]grid.NodeID {
	uf := newUnionFind()
	for id := range g.nodes {
		if active == nil || active(id) {
			uf.add(id)
		}
	}
	for _, e := range g.edges {
		if !e.Enabled || g.nodes[e.A].Kind != g.nodes[e.B].Kind {
			continue
		}
		_, okA := uf.parent[e.A]
		_, okB := uf.parent[e.B]
		if okA && okB {
			uf.union(e.A, e.B)
		}
	}

	byRoot := make(map[grid.NodeID][]grid.NodeID)
	for id := range uf.parent {
		root := uf.find(id)
		byRoot[root] = append(byRoot[root], id)
	}
	groups := make([][]grid.NodeID, 0, len(byRoot))
	for _, members := range byRoot {
		slices.Sort(members)
		groups = append(groups, members)
	}
	slices.SortFunc(groups, func(a, b []grid.NodeID) int { return slices.Compare(a, b) })
	return groups
}
