package grid_test

import (
	"fmt"

	"github.com/matzehuels/gridnet/pkg/grid"
)

func Example() {
	kinds := map[grid.NodeID]grid.Kind{"A": "lv", "B": "lv", "C": "lv", "D": "lv", "E": "lv"}
	adj := map[grid.NodeID][]grid.NodeID{
		"A": {"B"}, "B": {"A", "C"}, "C": {"B", "D"}, "D": {"C"},
	}
	p := grid.ProviderFuncs{
		KindFunc: func(id grid.NodeID) (grid.Kind, bool) {
			k, ok := kinds[id]
			return k, ok
		},
		NeighborsFunc: func(id grid.NodeID) []grid.NodeID { return adj[id] },
	}

	m := grid.NewManager(p)
	for _, id := range []grid.NodeID{"A", "B", "C", "D"} {
		_ = m.OnNodeActivated(id)
	}
	fmt.Println(m.Snapshot().Groups())

	_ = m.OnNodeDeactivated("B")
	fmt.Println(m.Snapshot().Groups())

	adj["E"] = []grid.NodeID{"A", "C"}
	adj["A"] = append(adj["A"], "E")
	adj["C"] = append(adj["C"], "E")
	_ = m.OnNodeActivated("E")
	fmt.Println(m.Snapshot().Groups())
	fmt.Println(m.Validate() == nil)
	// Output:
	// [[A B C D]]
	// [[A] [C D]]
	// [[A C D E]]
	// true
}

func ExampleWithFactory() {
	type capacity struct{ watts int }

	p := grid.ProviderFuncs{
		KindFunc:      func(grid.NodeID) (grid.Kind, bool) { return "hv", true },
		NeighborsFunc: func(grid.NodeID) []grid.NodeID { return nil },
	}
	m := grid.NewManager(p, grid.WithFactory(func(id grid.NetworkID, kind grid.Kind) *grid.Network {
		net := grid.NewNetwork(id, kind)
		net.Data = capacity{watts: 500}
		return net
	}))
	_ = m.OnNodeActivated("gen-1")

	net, _ := m.NetworkOf("gen-1")
	fmt.Println(net.ID(), net.Kind(), net.Data.(capacity).watts)
	// Output: net-1 hv 500
}

func ExampleSnapshot_String() {
	p := grid.ProviderFuncs{
		KindFunc: func(id grid.NodeID) (grid.Kind, bool) {
			if id == "H" {
				return "hv", true
			}
			return "lv", true
		},
		NeighborsFunc: func(id grid.NodeID) []grid.NodeID { return []grid.NodeID{"H", "L1", "L2"} },
	}
	m := grid.NewManager(p)
	_ = m.OnNodeActivated("L1")
	_ = m.OnNodeActivated("H")
	_ = m.OnNodeActivated("L2")
	fmt.Println(m.Snapshot())
	// Output: net-1(lv)[L1 L2] net-2(hv)[H]
}
