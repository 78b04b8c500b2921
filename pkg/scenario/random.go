package scenario

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Params shapes a random scenario.
type Params struct {
	Nodes           int     // initial nodes
	Kinds           int     // distinct kinds
	Steps           int     // scripted steps
	EdgeProbability float64 // chance that two initial nodes are wired
}

// DefaultParams are the parameters `gridnet check` uses without flags or
// config.
var DefaultParams = Params{Nodes: 30, Kinds: 2, Steps: 200, EdgeProbability: 0.1}

// Random generates a valid scenario from seed. The same seed and params
// always give the same scenario. Steps are always applicable: nodes are only
// activated while inactive, edges only cut while present, and so on.
func Random(seed uint64, p Params) *Scenario {
	p = p.withDefaults()
	rng := rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15))
	g := &generator{rng: rng, active: map[string]bool{}, edges: map[[2]string]bool{}}

	sc := &Scenario{
		Name:        fmt.Sprintf("random-%d", seed),
		Description: fmt.Sprintf("%d nodes, %d kinds, %d steps, p=%.2f", p.Nodes, p.Kinds, p.Steps, p.EdgeProbability),
	}
	for i := range p.Nodes {
		id := fmt.Sprintf("n%03d", i)
		kind := fmt.Sprintf("k%d", rng.IntN(p.Kinds))
		sc.Nodes = append(sc.Nodes, NodeSpec{ID: id, Kind: kind})
		g.nodes = append(g.nodes, id)
	}
	for i := range p.Nodes {
		for j := i + 1; j < p.Nodes; j++ {
			if rng.Float64() < p.EdgeProbability {
				e := EdgeSpec{A: g.nodes[i], B: g.nodes[j], Open: rng.IntN(10) == 0}
				sc.Edges = append(sc.Edges, e)
				g.edges[[2]string{e.A, e.B}] = true
			}
		}
	}

	for len(sc.Steps) < p.Steps {
		if s, ok := g.next(p); ok {
			sc.Steps = append(sc.Steps, s)
		}
	}
	return sc
}

func (p Params) withDefaults() Params {
	if p.Nodes <= 0 {
		p.Nodes = DefaultParams.Nodes
	}
	if p.Kinds <= 0 {
		p.Kinds = DefaultParams.Kinds
	}
	if p.Steps <= 0 {
		p.Steps = DefaultParams.Steps
	}
	if p.EdgeProbability <= 0 || p.EdgeProbability > 1 {
		p.EdgeProbability = DefaultParams.EdgeProbability
	}
	return p
}

// generator tracks what the generated steps have done so far.
type generator struct {
	rng    *rand.Rand
	nodes  []string
	active map[string]bool
	edges  map[[2]string]bool
	added  int
}

func (g *generator) pick() string { return g.nodes[g.rng.IntN(len(g.nodes))] }

func (g *generator) pair() (string, string, bool) {
	a, b := g.pick(), g.pick()
	if a == b {
		return "", "", false
	}
	if b < a {
		a, b = b, a
	}
	return a, b, true
}

// next proposes one step; ok is false when the draw was not applicable.
func (g *generator) next(p Params) (Step, bool) {
	switch roll := g.rng.IntN(100); {
	case roll < 40:
		id := g.pick()
		if g.active[id] {
			g.active[id] = false
			return Step{Op: OpDeactivate, Node: id}, true
		}
		g.active[id] = true
		return Step{Op: OpActivate, Node: id}, true
	case roll < 60:
		a, b, ok := g.pair()
		if !ok || !g.edges[[2]string{a, b}] {
			return Step{}, false
		}
		return Step{Op: OpToggle, A: a, B: b}, true
	case roll < 75:
		a, b, ok := g.pair()
		if !ok || g.edges[[2]string{a, b}] {
			return Step{}, false
		}
		g.edges[[2]string{a, b}] = true
		return Step{Op: OpConnect, A: a, B: b}, true
	case roll < 90:
		a, b, ok := g.pair()
		if !ok || !g.edges[[2]string{a, b}] {
			return Step{}, false
		}
		delete(g.edges, [2]string{a, b})
		return Step{Op: OpDisconnect, A: a, B: b}, true
	case roll < 95:
		id := fmt.Sprintf("x%03d", g.added)
		g.added++
		g.nodes = append(g.nodes, id)
		g.active[id] = true
		return Step{Op: OpAdd, Node: id, Kind: fmt.Sprintf("k%d", g.rng.IntN(p.Kinds)), Active: true}, true
	default:
		if len(g.nodes) <= 2 {
			return Step{}, false
		}
		id := g.pick()
		g.nodes = slices.DeleteFunc(g.nodes, func(n string) bool { return n == id })
		delete(g.active, id)
		for e := range g.edges {
			if e[0] == id || e[1] == id {
				delete(g.edges, e)
			}
		}
		return Step{Op: OpRemove, Node: id}, true
	}
}
