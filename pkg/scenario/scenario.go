package scenario

import (
	"fmt"
	"slices"

	errs "github.com/matzehuels/gridnet/pkg/errors"
)

// Op names a step operation.
type Op string

// Step operations.
const (
	OpActivate   Op = "activate"   // activate Nodes (or Node)
	OpDeactivate Op = "deactivate" // deactivate Nodes
	OpAdd        Op = "add"        // add Node of Kind to the graph, activating it if Active
	OpRemove     Op = "remove"     // deactivate Node if active and delete it from the graph
	OpConnect    Op = "connect"    // wire A and B
	OpDisconnect Op = "disconnect" // unwire A and B
	OpToggle     Op = "toggle"     // flip the switch between A and B, or set it per State
	OpExpect     Op = "expect"     // assert the partition
)

var ops = []Op{OpActivate, OpDeactivate, OpAdd, OpRemove, OpConnect, OpDisconnect, OpToggle, OpExpect}

// Switch states accepted by toggle steps.
const (
	SwitchOpen   = "open"
	SwitchClosed = "closed"
)

// Scenario is a scripted grid.
type Scenario struct {
	Name        string     `toml:"name" yaml:"name" json:"name"`
	Description string     `toml:"description,omitempty" yaml:"description,omitempty" json:"description,omitempty"`
	Nodes       []NodeSpec `toml:"nodes" yaml:"nodes" json:"nodes"`
	Edges       []EdgeSpec `toml:"edges,omitempty" yaml:"edges,omitempty" json:"edges,omitempty"`
	Steps       []Step     `toml:"steps" yaml:"steps" json:"steps"`
}

// NodeSpec declares a node of the initial graph.
type NodeSpec struct {
	ID     string `toml:"id" yaml:"id" json:"id"`
	Kind   string `toml:"kind" yaml:"kind" json:"kind"`
	Label  string `toml:"label,omitempty" yaml:"label,omitempty" json:"label,omitempty"`
	Active bool   `toml:"active,omitempty" yaml:"active,omitempty" json:"active,omitempty"` // activated before the first step
}

// EdgeSpec declares an edge of the initial graph. An open edge is wired but
// does not conduct.
type EdgeSpec struct {
	A    string `toml:"a" yaml:"a" json:"a"`
	B    string `toml:"b" yaml:"b" json:"b"`
	Open bool   `toml:"open,omitempty" yaml:"open,omitempty" json:"open,omitempty"`
}

// Step is one scripted operation. Which fields apply depends on Op.
type Step struct {
	Op      Op     `toml:"op" yaml:"op" json:"op"`
	Comment string `toml:"comment,omitempty" yaml:"comment,omitempty" json:"comment,omitempty"`

	// activate, deactivate, add, remove
	Node   string   `toml:"node,omitempty" yaml:"node,omitempty" json:"node,omitempty"`
	Nodes  []string `toml:"nodes,omitempty" yaml:"nodes,omitempty" json:"nodes,omitempty"`
	Kind   string   `toml:"kind,omitempty" yaml:"kind,omitempty" json:"kind,omitempty"`
	Active bool     `toml:"active,omitempty" yaml:"active,omitempty" json:"active,omitempty"`

	// connect, disconnect, toggle
	A     string `toml:"a,omitempty" yaml:"a,omitempty" json:"a,omitempty"`
	B     string `toml:"b,omitempty" yaml:"b,omitempty" json:"b,omitempty"`
	State string `toml:"state,omitempty" yaml:"state,omitempty" json:"state,omitempty"`

	// expect
	Networks [][]string `toml:"networks,omitempty" yaml:"networks,omitempty" json:"networks,omitempty"`
	Together []string   `toml:"together,omitempty" yaml:"together,omitempty" json:"together,omitempty"`
	Apart    []string   `toml:"apart,omitempty" yaml:"apart,omitempty" json:"apart,omitempty"`
	Inactive []string   `toml:"inactive,omitempty" yaml:"inactive,omitempty" json:"inactive,omitempty"`
}

// Targets returns Node followed by Nodes.
func (s Step) Targets() []string {
	if s.Node == "" {
		return s.Nodes
	}
	return append([]string{s.Node}, s.Nodes...)
}

// String describes the step in one line.
func (s Step) String() string {
	switch s.Op {
	case OpActivate, OpDeactivate, OpRemove:
		return fmt.Sprintf("%s %v", s.Op, s.Targets())
	case OpAdd:
		return fmt.Sprintf("add %s (%s)", s.Node, s.Kind)
	case OpConnect, OpDisconnect:
		return fmt.Sprintf("%s %s-%s", s.Op, s.A, s.B)
	case OpToggle:
		if s.State != "" {
			return fmt.Sprintf("toggle %s-%s %s", s.A, s.B, s.State)
		}
		return fmt.Sprintf("toggle %s-%s", s.A, s.B)
	default:
		return string(s.Op)
	}
}

// Validate checks the static shape of the scenario: identifiers are well
// formed, initial nodes are unique, initial edges join declared nodes, and
// every step names a known operation with the fields it needs. Whether a
// step makes sense at the time it runs is checked when it is applied.
func (sc *Scenario) Validate() error {
	seen := make(map[string]bool, len(sc.Nodes))
	for i, n := range sc.Nodes {
		if err := errs.ValidateNodeID(n.ID); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidScenario, err, "nodes[%d]", i)
		}
		if err := errs.ValidateKind(n.Kind); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidScenario, err, "nodes[%d] %q", i, n.ID)
		}
		if seen[n.ID] {
			return errs.New(errs.ErrCodeInvalidScenario, "nodes[%d]: duplicate node %q", i, n.ID)
		}
		seen[n.ID] = true
	}
	for i, e := range sc.Edges {
		for _, end := range []string{e.A, e.B} {
			if !seen[end] {
				return errs.New(errs.ErrCodeInvalidScenario, "edges[%d]: unknown node %q", i, end)
			}
		}
		if e.A == e.B {
			return errs.New(errs.ErrCodeInvalidScenario, "edges[%d]: self loop on %q", i, e.A)
		}
	}
	for i, s := range sc.Steps {
		if err := s.validate(); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidScenario, err, "steps[%d]", i)
		}
	}
	return nil
}

func (s Step) validate() error {
	if !slices.Contains(ops, s.Op) {
		return fmt.Errorf("unknown op %q", s.Op)
	}
	switch s.Op {
	case OpActivate, OpDeactivate, OpRemove:
		if len(s.Targets()) == 0 {
			return fmt.Errorf("%s needs node or nodes", s.Op)
		}
	case OpAdd:
		if err := errs.ValidateNodeID(s.Node); err != nil {
			return err
		}
		if err := errs.ValidateKind(s.Kind); err != nil {
			return err
		}
	case OpConnect, OpDisconnect, OpToggle:
		if s.A == "" || s.B == "" {
			return fmt.Errorf("%s needs a and b", s.Op)
		}
		if s.State != "" && (s.Op != OpToggle || (s.State != SwitchOpen && s.State != SwitchClosed)) {
			return fmt.Errorf("state %q: only toggle accepts %q or %q", s.State, SwitchOpen, SwitchClosed)
		}
	case OpExpect:
		if s.Networks == nil && len(s.Together) == 0 && len(s.Apart) == 0 && len(s.Inactive) == 0 {
			return fmt.Errorf("expect needs networks, together, apart or inactive")
		}
	}
	return nil
}
