package grid

import (
	"time"

	errs "github.com/matzehuels/gridnet/pkg/errors"
)

// EnsureHasNetwork places an unassigned node into a network. It adopts the
// network of the first active, same-kind, assigned neighbor in provider
// order and otherwise mints a fresh network through the factory.
//
// It reports whether a network was minted. Calling it on an assigned node
// panics.
func (m *Manager) EnsureHasNetwork(n *Node) bool {
	if n.Assigned() {
		panic(errs.New(errs.ErrCodeInvariantViolation,
			"node %q already belongs to %s", n.id, n.network))
	}
	for _, id := range n.ReachableNeighbors() {
		nb := m.compatible(n, id)
		if nb == nil || !nb.Assigned() {
			continue
		}
		m.join(m.mustNetwork(nb.network), n)
		return false
	}
	m.join(m.mint(n.kind), n)
	return true
}

// SpreadNetwork extends the network of n across everything reachable from it.
//
// Unassigned compatible neighbors join the network; while remaking they are
// also spread from in turn. Compatible neighbors in another stable network
// have that whole network absorbed, always into the network of n. Neighbors
// in a draining or rebuilding network are left alone.
//
// The traversal uses an explicit stack, so its depth is bounded by memory
// rather than by the call stack.
func (m *Manager) SpreadNetwork(n *Node, remaking bool) {
	if !n.Assigned() {
		panic(errs.New(errs.ErrCodeInvariantViolation,
			"cannot spread from unassigned node %q", n.id))
	}
	net := m.mustNetwork(n.network)

	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, id := range cur.ReachableNeighbors() {
			nb := m.compatible(cur, id)
			if nb == nil {
				continue
			}
			switch {
			case !nb.Assigned():
				m.join(net, nb)
				if remaking {
					stack = append(stack, nb)
				}
			case nb.network == net.id:
				// already here
			default:
				if other := m.mustNetwork(nb.network); other.state == StateStable {
					m.absorb(other, net)
				}
			}
		}
	}
}

// RemoveNode takes an assigned node out of the graph. If its network still
// has members it is rebuilt, otherwise it is discarded.
func (m *Manager) RemoveNode(n *Node) {
	if !n.Assigned() {
		panic(errs.New(errs.ErrCodeInvariantViolation,
			"cannot remove unassigned node %q", n.id))
	}
	net := m.mustNetwork(n.network)

	// Drop the node from the active set first so the rebuild cannot pull it
	// back in through a neighbor that still lists it.
	n.active = false
	delete(m.nodes, n.id)
	m.leave(net, n)

	if net.Len() > 0 {
		m.RemakeNetwork(net)
		return
	}
	m.discard(net)
}

// RemakeNetwork tears a network down and partitions its former members
// again. Members that are still connected end up sharing a network; every
// disconnected piece gets its own. The snapshot is processed in identifier
// order.
func (m *Manager) RemakeNetwork(net *Network) {
	start := time.Now()
	snapshot := net.sortedMembers()
	net.transition(StateRebuilding)
	for _, node := range snapshot {
		m.leave(net, node)
	}
	m.discard(net)

	for _, node := range snapshot {
		if !node.active || node.Assigned() {
			continue
		}
		m.EnsureHasNetwork(node)
		m.SpreadNetwork(node, true)
	}

	pieces := make(map[NetworkID]struct{})
	for _, node := range snapshot {
		if node.Assigned() {
			pieces[node.network] = struct{}{}
		}
	}
	elapsed := time.Since(start)
	m.stats.Rebuilds++
	m.hooks.OnRebuild(string(net.kind), uint64(net.id), len(snapshot), len(pieces), elapsed)
	m.logger.Debug("rebuilt network",
		"network", net.id, "kind", net.kind, "members", len(snapshot), "pieces", len(pieces), "elapsed", elapsed)
}

// absorb drains src into dst one member at a time and discards src.
func (m *Manager) absorb(src, dst *Network) {
	if src.kind != dst.kind {
		panic(errs.New(errs.ErrCodeTypeMismatch,
			"cannot merge %s of kind %q into %s of kind %q", src.id, src.kind, dst.id, dst.kind))
	}
	if src == dst {
		panic(errs.New(errs.ErrCodeInvariantViolation, "cannot merge %s into itself", src.id))
	}
	src.transition(StateDraining)
	moved := 0
	for _, node := range src.sortedMembers() {
		m.reassign(node, src, dst)
		moved++
	}
	m.discard(src)

	m.stats.Merges++
	m.stats.NodesMoved += moved
	m.hooks.OnMerge(string(src.kind), uint64(src.id), uint64(dst.id), moved)
	m.logger.Debug("merged networks", "from", src.id, "into", dst.id, "kind", dst.kind, "moved", moved)
}

// reassign moves a node between networks.
func (m *Manager) reassign(node *Node, from, to *Network) {
	m.leave(from, node)
	m.join(to, node)
}

// join adds a node to a network and reports it.
func (m *Manager) join(net *Network, node *Node) {
	net.addMember(node)
	m.hooks.OnNodeJoined(string(node.kind), string(node.id), uint64(net.id))
}

// leave removes a node from a network and reports it.
func (m *Manager) leave(net *Network, node *Node) {
	net.removeMember(node)
	m.hooks.OnNodeLeft(string(node.kind), string(node.id), uint64(net.id))
}

// mint asks the factory for a new network and registers it.
func (m *Manager) mint(kind Kind) *Network {
	m.lastID++
	id := m.lastID
	net := m.factory(id, kind)
	switch {
	case net == nil:
		panic(errs.New(errs.ErrCodeInvariantViolation, "factory returned no network for %s", id))
	case net.kind != kind:
		panic(errs.New(errs.ErrCodeTypeMismatch,
			"factory minted kind %q for %s, want %q", net.kind, id, kind))
	case net.id != id:
		panic(errs.New(errs.ErrCodeInvariantViolation, "factory minted %s, want %s", net.id, id))
	case net.state != StateStable || len(net.members) > 0 || net.members == nil:
		panic(errs.New(errs.ErrCodeInvariantViolation,
			"factory minted %s that is not empty and stable; use NewNetwork", id))
	}
	m.networks[id] = net

	m.stats.NetworksCreated++
	m.hooks.OnNetworkCreated(string(kind), uint64(id))
	m.logger.Debug("minted network", "network", id, "kind", kind)
	return net
}

// discard removes an empty network from the registry.
func (m *Manager) discard(net *Network) {
	if net.Len() > 0 {
		panic(errs.New(errs.ErrCodeInvariantViolation,
			"%s discarded while holding %d members", net.id, net.Len()))
	}
	net.transition(StateDiscarded)
	delete(m.networks, net.id)

	m.stats.NetworksDiscarded++
	m.hooks.OnNetworkDiscarded(string(net.kind), uint64(net.id))
}

// compatible returns the active neighbor id if it shares the kind of n.
func (m *Manager) compatible(n *Node, id NodeID) *Node {
	nb, ok := m.nodes[id]
	if !ok || !nb.active || nb.kind != n.kind {
		return nil
	}
	return nb
}

func (m *Manager) mustNetwork(id NetworkID) *Network {
	net, ok := m.networks[id]
	if !ok {
		panic(errs.New(errs.ErrCodeInvariantViolation, "%s is not a live network", id))
	}
	return net
}
