package topology_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gridnet/pkg/grid"
	"github.com/matzehuels/gridnet/pkg/topology"
)

func TestComponents(t *testing.T) {
	g := line(t, "lv", "A", "B", "C", "D")
	require.NoError(t, g.AddNode(topology.Node{ID: "H", Kind: "hv"}))
	require.NoError(t, g.Connect("H", "A"))

	tests := []struct {
		name   string
		active func(grid.NodeID) bool
		setup  func()
		want   [][]grid.NodeID
	}{
		{
			name: "all active",
			want: [][]grid.NodeID{{"A", "B", "C", "D"}, {"H"}},
		},
		{
			name:   "articulation point inactive",
			active: func(id grid.NodeID) bool { return id != "B" },
			want:   [][]grid.NodeID{{"A"}, {"C", "D"}, {"H"}},
		},
		{
			name:  "open switch",
			setup: func() { _, _ = g.SetEnabled("C", "D", false) },
			want:  [][]grid.NodeID{{"A", "B", "C"}, {"D"}, {"H"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			assert.Equal(t, tt.want, g.Components(tt.active))
		})
	}
}

// TestManagerMatchesOracle drives a manager with random activations,
// deactivations and switch flips and compares it with Components after
// every step.
func TestManagerMatchesOracle(t *testing.T) {
	kinds := []grid.Kind{"lv", "mv"}
	for seed := range uint64(20) {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(seed, 7))
			g := topology.New()
			const n = 24
			id := func(i int) grid.NodeID { return grid.NodeID(fmt.Sprintf("n%02d", i)) }
			for i := range n {
				require.NoError(t, g.AddNode(topology.Node{ID: id(i), Kind: kinds[rng.IntN(len(kinds))]}))
			}
			for i := range n {
				for j := i + 1; j < n; j++ {
					if rng.Float64() < 0.12 {
						require.NoError(t, g.Connect(id(i), id(j)))
					}
				}
			}
			edges := g.Edges()

			m := grid.NewManager(g)
			for step := range 200 {
				switch target := id(rng.IntN(n)); {
				case rng.IntN(4) == 0 && len(edges) > 0:
					e := edges[rng.IntN(len(edges))]
					_, err := g.Toggle(e.A, e.B)
					require.NoError(t, err)
					for _, end := range []grid.NodeID{e.A, e.B} {
						if m.IsActive(end) {
							require.NoError(t, m.OnAdjacencyChanged(end))
						}
					}
				case m.IsActive(target):
					require.NoError(t, m.OnNodeDeactivated(target))
				default:
					require.NoError(t, m.OnNodeActivated(target))
				}

				require.NoError(t, m.Validate(), "step %d", step)
				require.Equal(t, g.Components(m.IsActive), m.Snapshot().Groups(), "step %d", step)
			}
		})
	}
}
