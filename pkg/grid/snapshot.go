package grid

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	errs "github.com/matzehuels/gridnet/pkg/errors"
)

// NetworkView is a read-only copy of one network.
type NetworkView struct {
	ID      NetworkID `json:"id"`
	Kind    Kind      `json:"kind"`
	Members []NodeID  `json:"members"`
}

// Snapshot is a copy of the whole partition, ordered by network handle.
type Snapshot struct {
	Networks []NetworkView `json:"networks"`
}

// Snapshot copies the current partition.
func (m *Manager) Snapshot() Snapshot {
	nets := m.Networks()
	s := Snapshot{Networks: make([]NetworkView, 0, len(nets))}
	for _, net := range nets {
		s.Networks = append(s.Networks, NetworkView{ID: net.id, Kind: net.kind, Members: net.Members()})
	}
	return s
}

// Groups returns the member sets without handles, sorted by their first
// member. Two partitions are equal exactly when their groups are equal,
// regardless of which handles the networks received.
func (s Snapshot) Groups() [][]NodeID {
	groups := make([][]NodeID, 0, len(s.Networks))
	for _, v := range s.Networks {
		groups = append(groups, slices.Clone(v.Members))
	}
	slices.SortFunc(groups, func(a, b []NodeID) int { return slices.Compare(a, b) })
	return groups
}

// NetworkOf returns the view holding the node.
func (s Snapshot) NetworkOf(id NodeID) (NetworkView, bool) {
	for _, v := range s.Networks {
		if _, ok := slices.BinarySearch(v.Members, id); ok {
			return v, true
		}
	}
	return NetworkView{}, false
}

// String renders the partition as "net-1(kind)[A B] net-2(kind)[C]".
func (s Snapshot) String() string {
	var b strings.Builder
	for i, v := range s.Networks {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s(%s)[", v.ID, v.Kind)
		for j, id := range v.Members {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(string(id))
		}
		b.WriteByte(']')
	}
	return b.String()
}

// Validate checks the partition against the live provider and reports every
// broken invariant:
//   - every active node is assigned to a live network that lists it
//   - every member of a network is active, of the network's kind, and points
//     back at the network
//   - members of one network are connected through active same-kind nodes
//   - no active same-kind node reachable from a network sits elsewhere
//
// The returned error has code errors.ErrCodeInvariantViolation and joins one
// error per problem.
func (m *Manager) Validate() error {
	var problems []error
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	for _, id := range m.ActiveNodes() {
		n := m.nodes[id]
		if !n.Assigned() {
			report("node %q is active but has no network", id)
			continue
		}
		net, ok := m.networks[n.network]
		if !ok {
			report("node %q points at dead network %s", id, n.network)
			continue
		}
		if !net.Has(id) {
			report("node %q points at %s which does not list it", id, n.network)
		}
	}

	for _, net := range m.Networks() {
		if net.state != StateStable {
			report("%s is %s at rest", net.id, net.state)
		}
		if net.Len() == 0 {
			report("%s is empty but still registered", net.id)
			continue
		}
		members := net.sortedMembers()
		for _, node := range members {
			if live, ok := m.nodes[node.id]; !ok || live != node || !node.active {
				report("%s holds inactive node %q", net.id, node.id)
			}
			if node.kind != net.kind {
				report("%s of kind %q holds node %q of kind %q", net.id, net.kind, node.id, node.kind)
			}
			if node.network != net.id {
				report("%s holds node %q which points at %s", net.id, node.id, node.network)
			}
		}

		reached := m.reach(members[0])
		for _, node := range members {
			if _, ok := reached[node.id]; !ok {
				report("%s is split: %q is unreachable from %q", net.id, node.id, members[0].id)
			}
		}
		for _, id := range sortedKeys(reached) {
			if !net.Has(id) {
				report("%s can reach %q which belongs to %s", net.id, id, reached[id].network)
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errs.Wrap(errs.ErrCodeInvariantViolation, errors.Join(problems...),
		"partition has %d problem(s)", len(problems))
}

// reach collects every active node of the same kind reachable from start.
func (m *Manager) reach(start *Node) map[NodeID]*Node {
	seen := map[NodeID]*Node{start.id: start}
	queue := []*Node{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, id := range cur.ReachableNeighbors() {
			if _, ok := seen[id]; ok {
				continue
			}
			if nb := m.compatible(cur, id); nb != nil {
				seen[id] = nb
				queue = append(queue, nb)
			}
		}
	}
	return seen
}

func sortedKeys(set map[NodeID]*Node) []NodeID {
	keys := make([]NodeID, 0, len(set))
	for id := range set {
		keys = append(keys, id)
	}
	slices.Sort(keys)
	return keys
}
