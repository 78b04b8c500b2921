package scenario

import (
	"fmt"
	"slices"
	"strings"

	errs "github.com/matzehuels/gridnet/pkg/errors"
	"github.com/matzehuels/gridnet/pkg/grid"
	"github.com/matzehuels/gridnet/pkg/topology"
)

// State is a host graph together with the manager partitioning it.
type State struct {
	Graph   *topology.Graph
	Manager *grid.Manager
	applied int
}

// NewState builds the initial graph of sc and activates the nodes marked
// active, in declaration order.
func NewState(sc *Scenario, opts ...grid.Option) (*State, error) {
	g := topology.New()
	for _, n := range sc.Nodes {
		err := g.AddNode(topology.Node{ID: grid.NodeID(n.ID), Kind: grid.Kind(n.Kind), Label: n.Label})
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidScenario, err, "node %q", n.ID)
		}
	}
	for _, e := range sc.Edges {
		a, b := grid.NodeID(e.A), grid.NodeID(e.B)
		if err := g.Connect(a, b); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidScenario, err, "edge %s-%s", e.A, e.B)
		}
		if e.Open {
			if _, err := g.SetEnabled(a, b, false); err != nil {
				return nil, err
			}
		}
	}

	st := &State{Graph: g, Manager: grid.NewManager(g, opts...)}
	for _, n := range sc.Nodes {
		if !n.Active {
			continue
		}
		if err := st.Manager.OnNodeActivated(grid.NodeID(n.ID)); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidScenario, err, "initial activation")
		}
	}
	return st, nil
}

// Applied returns how many steps were applied.
func (st *State) Applied() int { return st.applied }

// Apply performs one step. Expectation steps return an
// errors.ErrCodeExpectationFailed error when the partition differs.
//
// A fatal panic inside the manager is recovered and returned as an error;
// the state must not be used afterwards.
func (st *State) Apply(s Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.FromPanic(r)
		}
	}()

	switch s.Op {
	case OpActivate:
		err = st.each(s.Targets(), st.Manager.OnNodeActivated)
	case OpDeactivate:
		err = st.each(s.Targets(), st.Manager.OnNodeDeactivated)
	case OpAdd:
		err = st.add(s)
	case OpRemove:
		err = st.each(s.Targets(), st.remove)
	case OpConnect:
		err = st.rewire(s, st.Graph.Connect)
	case OpDisconnect:
		err = st.rewire(s, st.Graph.Disconnect)
	case OpToggle:
		err = st.toggle(s)
	case OpExpect:
		err = st.expect(s)
	default:
		err = errs.New(errs.ErrCodeInvalidScenario, "unknown op %q", s.Op)
	}
	if err == nil {
		st.applied++
	}
	return err
}

func (st *State) each(ids []string, fn func(grid.NodeID) error) error {
	for _, id := range ids {
		if err := fn(grid.NodeID(id)); err != nil {
			return err
		}
	}
	return nil
}

func (st *State) add(s Step) error {
	id := grid.NodeID(s.Node)
	if err := st.Graph.AddNode(topology.Node{ID: id, Kind: grid.Kind(s.Kind)}); err != nil {
		return err
	}
	if s.Active {
		return st.Manager.OnNodeActivated(id)
	}
	return nil
}

func (st *State) remove(id grid.NodeID) error {
	if st.Manager.IsActive(id) {
		if err := st.Manager.OnNodeDeactivated(id); err != nil {
			return err
		}
	}
	_, err := st.Graph.RemoveNode(id)
	return err
}

// rewire changes the graph and reports the change to both endpoints.
func (st *State) rewire(s Step, change func(a, b grid.NodeID) error) error {
	a, b := grid.NodeID(s.A), grid.NodeID(s.B)
	if err := change(a, b); err != nil {
		return err
	}
	return st.notify(a, b)
}

func (st *State) toggle(s Step) error {
	a, b := grid.NodeID(s.A), grid.NodeID(s.B)
	var (
		changed = true
		err     error
	)
	switch s.State {
	case SwitchOpen:
		changed, err = st.Graph.SetEnabled(a, b, false)
	case SwitchClosed:
		changed, err = st.Graph.SetEnabled(a, b, true)
	default:
		_, err = st.Graph.Toggle(a, b)
	}
	if err != nil || !changed {
		return err
	}
	return st.notify(a, b)
}

// notify reports an adjacency change on every active endpoint.
func (st *State) notify(ids ...grid.NodeID) error {
	for _, id := range ids {
		if !st.Manager.IsActive(id) {
			continue
		}
		if err := st.Manager.OnAdjacencyChanged(id); err != nil {
			return err
		}
	}
	return nil
}

func (st *State) expect(s Step) error {
	snap := st.Manager.Snapshot()
	var problems []string

	if s.Networks != nil {
		want := canonical(s.Networks)
		got := snap.Groups()
		if !slices.EqualFunc(want, got, slices.Equal[[]grid.NodeID]) {
			problems = append(problems, fmt.Sprintf("networks: want %v, got %v", want, got))
		}
	}
	if len(s.Together) > 0 {
		first, ok := st.Manager.NetworkOf(grid.NodeID(s.Together[0]))
		for _, id := range s.Together[1:] {
			net, ok2 := st.Manager.NetworkOf(grid.NodeID(id))
			if !ok || !ok2 || net.ID() != first.ID() {
				problems = append(problems, fmt.Sprintf("together: %s and %s are not in one network", s.Together[0], id))
			}
		}
	}
	if len(s.Apart) > 0 {
		seen := make(map[grid.NetworkID]string)
		for _, id := range s.Apart {
			net, ok := st.Manager.NetworkOf(grid.NodeID(id))
			if !ok {
				continue
			}
			if other, dup := seen[net.ID()]; dup {
				problems = append(problems, fmt.Sprintf("apart: %s and %s share %s", other, id, net.ID()))
			}
			seen[net.ID()] = id
		}
	}
	for _, id := range s.Inactive {
		if st.Manager.IsActive(grid.NodeID(id)) {
			problems = append(problems, fmt.Sprintf("inactive: %s is active", id))
		}
	}

	if len(problems) > 0 {
		return errs.New(errs.ErrCodeExpectationFailed, "%s", strings.Join(problems, "; "))
	}
	return nil
}

// Verify checks the manager's invariants and compares its partition with
// the components recomputed from the graph.
func (st *State) Verify() error {
	if err := st.Manager.Validate(); err != nil {
		return err
	}
	want := st.Graph.Components(st.Manager.IsActive)
	got := st.Manager.Snapshot().Groups()
	if !slices.EqualFunc(want, got, slices.Equal[[]grid.NodeID]) {
		return errs.New(errs.ErrCodeInvariantViolation, "partition %v differs from components %v", got, want)
	}
	return nil
}

// canonical sorts each group and orders groups by their first member.
func canonical(groups [][]string) [][]grid.NodeID {
	out := make([][]grid.NodeID, 0, len(groups))
	for _, g := range groups {
		ids := make([]grid.NodeID, len(g))
		for i, id := range g {
			ids[i] = grid.NodeID(id)
		}
		slices.Sort(ids)
		out = append(out, ids)
	}
	slices.SortFunc(out, func(a, b []grid.NodeID) int { return slices.Compare(a, b) })
	return out
}
