package grid

import (
	"slices"

	errs "github.com/matzehuels/gridnet/pkg/errors"
)

// State is the re-entrancy guard of a [Network].
type State int

const (
	// StateStable is the resting state. Only stable networks accept members
	// and may be absorbed.
	StateStable State = iota
	// StateDraining marks a network whose members are being moved into
	// another network by a merge.
	StateDraining
	// StateRebuilding marks a network that is being torn down so its former
	// members can be partitioned again.
	StateRebuilding
	// StateDiscarded marks an empty network that left the registry.
	StateDiscarded
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateStable:
		return "stable"
	case StateDraining:
		return "draining"
	case StateRebuilding:
		return "rebuilding"
	case StateDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// canTransition lists the legal state changes. Draining and rebuilding
// networks only ever end up discarded.
func (s State) canTransition(to State) bool {
	switch s {
	case StateStable:
		return to == StateDraining || to == StateRebuilding || to == StateDiscarded
	case StateDraining, StateRebuilding:
		return to == StateDiscarded
	default:
		return false
	}
}

// Network is one connected component of a single kind.
//
// The network owns its membership; members only cache the network's handle.
// All mutation goes through the [Manager], which keeps both sides in sync.
type Network struct {
	id      NetworkID
	kind    Kind
	state   State
	members map[NodeID]*Node

	// Data is an opaque payload for the host, typically set by a [Factory]
	// (for example the capacity of an electrical grid). The manager never
	// reads it.
	Data any
}

// NewNetwork creates an empty, stable network. Factories must build their
// networks with it.
func NewNetwork(id NetworkID, kind Kind) *Network {
	return &Network{
		id:      id,
		kind:    kind,
		members: make(map[NodeID]*Node),
	}
}

// DefaultFactory mints plain networks without payload.
func DefaultFactory(id NetworkID, kind Kind) *Network { return NewNetwork(id, kind) }

// ID returns the registry handle of the network.
func (n *Network) ID() NetworkID { return n.id }

// Kind returns the compatibility kind the network accepts.
func (n *Network) Kind() Kind { return n.kind }

// State returns the current guard state.
func (n *Network) State() State { return n.state }

// Len returns the number of members.
func (n *Network) Len() int { return len(n.members) }

// Has reports whether the node is a member.
func (n *Network) Has(id NodeID) bool {
	_, ok := n.members[id]
	return ok
}

// Members returns the member identifiers sorted ascending.
func (n *Network) Members() []NodeID {
	ids := make([]NodeID, 0, len(n.members))
	for id := range n.members {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// sortedMembers returns the member nodes in identifier order.
func (n *Network) sortedMembers() []*Node {
	nodes := make([]*Node, 0, len(n.members))
	for _, id := range n.Members() {
		nodes = append(nodes, n.members[id])
	}
	return nodes
}

// addMember inserts an unassigned node and points its back-reference here.
func (n *Network) addMember(node *Node) {
	if node.kind != n.kind {
		panic(errs.New(errs.ErrCodeTypeMismatch,
			"node %q of kind %q cannot join %s of kind %q", node.id, node.kind, n.id, n.kind))
	}
	if n.state != StateStable {
		panic(errs.New(errs.ErrCodeInvariantViolation,
			"node %q cannot join %s while it is %s", node.id, n.id, n.state))
	}
	if node.network != 0 {
		panic(errs.New(errs.ErrCodeInvariantViolation,
			"node %q joins %s while still assigned to %s", node.id, n.id, node.network))
	}
	n.members[node.id] = node
	node.network = n.id
}

// removeMember drops a member and clears its back-reference. It performs no
// traversal: whether the rest is still connected is the manager's concern.
func (n *Network) removeMember(node *Node) {
	if _, ok := n.members[node.id]; !ok || node.network != n.id {
		panic(errs.New(errs.ErrCodeInvariantViolation,
			"node %q is not a member of %s (assigned to %s)", node.id, n.id, node.network))
	}
	delete(n.members, node.id)
	node.network = 0
}

// transition moves the network to the given state or panics.
func (n *Network) transition(to State) {
	if !n.state.canTransition(to) {
		panic(errs.New(errs.ErrCodeInvariantViolation,
			"%s cannot go from %s to %s", n.id, n.state, to))
	}
	n.state = to
}
