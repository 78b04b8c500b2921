package grid

// Node is an active participant in the graph. Nodes are created by
// [Manager.OnNodeActivated] and live until they are deactivated.
type Node struct {
	id       NodeID
	kind     Kind
	network  NetworkID
	active   bool
	provider Provider
}

// ID returns the node identifier.
func (n *Node) ID() NodeID { return n.id }

// Kind returns the compatibility kind captured at activation.
func (n *Node) Kind() Kind { return n.kind }

// Network returns the handle of the network currently holding the node, or
// zero when the node is unassigned.
func (n *Node) Network() NetworkID { return n.network }

// Assigned reports whether the node currently belongs to a network.
func (n *Node) Assigned() bool { return n.network != 0 }

// Active reports whether the node is still part of the graph.
func (n *Node) Active() bool { return n.active }

// ReachableNeighbors asks the provider for the node's current neighbors.
// The node itself and duplicates are dropped; provider order is kept.
// Neighbors may be inactive or of another kind; filtering is up to the
// caller.
func (n *Node) ReachableNeighbors() []NodeID {
	raw := n.provider.Neighbors(n.id)
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[NodeID]struct{}, len(raw))
	out := make([]NodeID, 0, len(raw))
	for _, id := range raw {
		if id == n.id {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
