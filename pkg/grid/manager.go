package grid

import (
	"cmp"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/gridnet/pkg/errors"
	"github.com/matzehuels/gridnet/pkg/observability"
)

// Stats counts what a manager has done since it was created.
type Stats struct {
	Activations       int `json:"activations"`
	Deactivations     int `json:"deactivations"`
	AdjacencyChanges  int `json:"adjacency_changes"`
	NetworksCreated   int `json:"networks_created"`
	NetworksDiscarded int `json:"networks_discarded"`
	Merges            int `json:"merges"`
	NodesMoved        int `json:"nodes_moved"`
	Rebuilds          int `json:"rebuilds"`
}

// Manager maintains the partition of active nodes into networks.
//
// The zero value is not usable; call [NewManager].
// Manager is not safe for concurrent use without external synchronization.
type Manager struct {
	provider Provider
	factory  Factory
	logger   *log.Logger
	hooks    observability.PartitionHooks

	nodes    map[NodeID]*Node
	networks map[NetworkID]*Network
	lastID   NetworkID
	stats    Stats
}

// Option configures a [Manager].
type Option func(*Manager)

// WithFactory sets the factory used to mint networks. A nil factory keeps
// [DefaultFactory].
func WithFactory(f Factory) Option {
	return func(m *Manager) {
		if f != nil {
			m.factory = f
		}
	}
}

// WithLogger sets the logger receiving debug output about mints, merges and
// rebuilds. By default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithHooks sets the partition hooks. By default the hooks registered with
// observability.SetPartitionHooks at construction time are used.
func WithHooks(h observability.PartitionHooks) Option {
	return func(m *Manager) {
		if h != nil {
			m.hooks = h
		}
	}
}

// NewManager creates a manager reading adjacency from p.
func NewManager(p Provider, opts ...Option) *Manager {
	m := &Manager{
		provider: p,
		factory:  DefaultFactory,
		logger:   log.New(io.Discard),
		hooks:    observability.Partition(),
		nodes:    make(map[NodeID]*Node),
		networks: make(map[NetworkID]*Network),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// =============================================================================
// Host API
// =============================================================================

// OnNodeActivated adds a node to the graph: it ensures the node has a network
// and spreads that network across everything reachable.
//
// Returns ErrAlreadyActive if the node is active, or ErrUnknownNode if the
// provider does not know it.
func (m *Manager) OnNodeActivated(id NodeID) error {
	if _, ok := m.nodes[id]; ok {
		return errs.Wrap(errs.ErrCodeInvalidInput, ErrAlreadyActive, "activate %q", id)
	}
	n, err := m.activate(id)
	if err != nil {
		return errs.Wrap(errs.ErrCodeNotFound, err, "activate %q", id)
	}
	m.stats.Activations++
	m.hooks.OnNodeActivated(string(n.kind), string(id))
	return nil
}

// OnNodeDeactivated removes a node from the graph and rebuilds whatever
// remains of its network.
//
// Returns ErrNotActive if the node is not active.
func (m *Manager) OnNodeDeactivated(id NodeID) error {
	n, ok := m.nodes[id]
	if !ok {
		return errs.Wrap(errs.ErrCodeInvalidInput, ErrNotActive, "deactivate %q", id)
	}
	m.RemoveNode(n)
	m.stats.Deactivations++
	m.hooks.OnNodeDeactivated(string(n.kind), string(id))
	return nil
}

// OnAdjacencyChanged handles a node whose neighbor set changed while the node
// itself stayed in the graph (a switch toggled, a cable cut). The node is
// removed and activated again, since a local change has the same global
// consequences as a removal.
//
// Returns ErrNotActive if the node is not active. If the provider no longer
// knows the node it stays removed and ErrUnknownNode is returned.
func (m *Manager) OnAdjacencyChanged(id NodeID) error {
	n, ok := m.nodes[id]
	if !ok {
		return errs.Wrap(errs.ErrCodeInvalidInput, ErrNotActive, "adjacency change on %q", id)
	}
	m.logger.Debug("adjacency changed", "node", id, "network", n.network)
	m.RemoveNode(n)
	m.stats.AdjacencyChanges++
	if _, err := m.activate(id); err != nil {
		m.stats.Deactivations++
		m.hooks.OnNodeDeactivated(string(n.kind), string(id))
		return errs.Wrap(errs.ErrCodeNotFound, err, "adjacency change on %q", id)
	}
	return nil
}

// activate creates the node record and places it. It returns ErrUnknownNode
// when the provider does not know the node.
func (m *Manager) activate(id NodeID) (*Node, error) {
	kind, ok := m.provider.Kind(id)
	if !ok {
		return nil, ErrUnknownNode
	}
	n := &Node{id: id, kind: kind, active: true, provider: m.provider}
	m.nodes[id] = n
	m.EnsureHasNetwork(n)
	m.SpreadNetwork(n, false)
	return n, nil
}

// =============================================================================
// Queries
// =============================================================================

// Node returns the active node with the given identifier.
func (m *Manager) Node(id NodeID) (*Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// IsActive reports whether the node is part of the graph.
func (m *Manager) IsActive(id NodeID) bool {
	_, ok := m.nodes[id]
	return ok
}

// ActiveNodes returns the identifiers of all active nodes, sorted.
func (m *Manager) ActiveNodes() []NodeID {
	ids := make([]NodeID, 0, len(m.nodes))
	for id := range m.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// NetworkOf returns the network currently holding the node.
// It returns false for inactive or (transiently) unassigned nodes.
func (m *Manager) NetworkOf(id NodeID) (*Network, bool) {
	n, ok := m.nodes[id]
	if !ok || !n.Assigned() {
		return nil, false
	}
	return m.Network(n.network)
}

// Network returns the live network with the given handle.
func (m *Manager) Network(id NetworkID) (*Network, bool) {
	net, ok := m.networks[id]
	return net, ok
}

// Members returns the sorted members of a live network, or nil if the
// handle is unknown or the network was discarded.
func (m *Manager) Members(id NetworkID) []NodeID {
	net, ok := m.networks[id]
	if !ok {
		return nil
	}
	return net.Members()
}

// Networks returns all live networks ordered by handle.
func (m *Manager) Networks() []*Network {
	nets := make([]*Network, 0, len(m.networks))
	for _, net := range m.networks {
		nets = append(nets, net)
	}
	slices.SortFunc(nets, func(a, b *Network) int { return cmp.Compare(a.id, b.id) })
	return nets
}

// NetworksOfKind returns the live networks of one kind ordered by handle.
func (m *Manager) NetworksOfKind(kind Kind) []*Network {
	var nets []*Network
	for _, net := range m.Networks() {
		if net.kind == kind {
			nets = append(nets, net)
		}
	}
	return nets
}

// NetworkCount returns the number of live networks.
func (m *Manager) NetworkCount() int { return len(m.networks) }

// Stats returns the manager's counters.
func (m *Manager) Stats() Stats { return m.stats }
