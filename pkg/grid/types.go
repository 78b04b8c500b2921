package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownNode is returned by [Manager.OnNodeActivated] and
	// [Manager.OnAdjacencyChanged] when the provider does not know the node.
	ErrUnknownNode = errors.New("unknown node")

	// ErrAlreadyActive is returned by [Manager.OnNodeActivated] when the node
	// is already part of the graph.
	ErrAlreadyActive = errors.New("node already active")

	// ErrNotActive is returned by [Manager.OnNodeDeactivated] and
	// [Manager.OnAdjacencyChanged] when the node is not part of the graph.
	ErrNotActive = errors.New("node not active")
)

// NodeID is an opaque, stable node identifier chosen by the host.
type NodeID string

// Kind is a compatibility tag. Two nodes may only share a network if their
// kinds are equal (for example the voltage tier of a cable).
type Kind string

// NetworkID is a handle into a manager's registry of live networks.
// The zero value means "no network". Handles are never reused by a manager.
type NetworkID uint64

// String formats the handle as "net-<n>", or "none" for the zero value.
func (id NetworkID) String() string {
	if id == 0 {
		return "none"
	}
	return fmt.Sprintf("net-%d", uint64(id))
}

// Provider answers node existence and adjacency queries for the host.
// Both methods are pure queries; results may differ between calls.
type Provider interface {
	// Kind returns the compatibility kind of the node and whether the node
	// exists at all.
	Kind(id NodeID) (Kind, bool)

	// Neighbors returns the nodes currently reachable from id. Adjacency is
	// expected to be symmetric. The order is the tie-break order used by
	// [Manager.EnsureHasNetwork], so deterministic providers give
	// deterministic partitions.
	Neighbors(id NodeID) []NodeID
}

// ProviderFuncs adapts two plain functions to [Provider].
type ProviderFuncs struct {
	KindFunc      func(NodeID) (Kind, bool)
	NeighborsFunc func(NodeID) []NodeID
}

// Kind calls p.KindFunc.
func (p ProviderFuncs) Kind(id NodeID) (Kind, bool) { return p.KindFunc(id) }

// Neighbors calls p.NeighborsFunc.
func (p ProviderFuncs) Neighbors(id NodeID) []NodeID { return p.NeighborsFunc(id) }

// Factory mints an empty network for the given handle and kind.
// Hosts use it to attach domain payload through [Network.Data]; the returned
// network must come from [NewNetwork] with the same id and kind.
type Factory func(id NetworkID, kind Kind) *Network
