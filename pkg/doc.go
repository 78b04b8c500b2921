// Package pkg provides the libraries behind gridnet.
//
// # Overview
//
// Gridnet keeps a dynamic graph partitioned into networks: maximal groups of
// active, like-kinded nodes that are connected through each other. Nodes are
// activated and deactivated and links come and go; after every event the
// partition is repaired locally instead of being recomputed.
//
// The pkg directory is organized into these areas:
//
//  1. [grid] - The partition engine (networks, nodes, merge and rebuild)
//  2. [topology] - A host graph with switchable edges and a components oracle
//  3. [scenario] - Scenario files, the step runner and random scenarios
//  4. [render] - Graphviz drawings of a partition
//  5. [cache] - Rendered artifact cache (file, redis, null)
//  6. [observability] - Hooks for metrics, with a Prometheus implementation
//  7. [errors] - Structured error codes shared by all packages
//
// # Architecture
//
// The typical data flow:
//
//	Scenario file (TOML, YAML or HCL)
//	         ↓
//	    [scenario] package (build the host graph, play steps)
//	         ↓
//	    [topology] package (neighbors, switches)  →  [grid] package (partition)
//	         ↓
//	    [render] package (DOT, SVG)  →  [cache] package
//
// # Quick Start
//
// Partition a graph directly:
//
//	g := topology.New()
//	_ = g.AddNode(topology.Node{ID: "A", Kind: "lv"})
//	_ = g.AddNode(topology.Node{ID: "B", Kind: "lv"})
//	_ = g.Connect("A", "B")
//
//	m := grid.NewManager(g)
//	_ = m.OnNodeActivated("A")
//	_ = m.OnNodeActivated("B")
//	fmt.Println(m.Snapshot()) // net-1(lv)[A B]
//
// Or play a scenario file:
//
//	sc, err := scenario.Load("line.toml")
//	res, err := scenario.NewRunner(scenario.WithVerify(true)).Run(ctx, sc)
//
// [grid]: github.com/matzehuels/gridnet/pkg/grid
// [topology]: github.com/matzehuels/gridnet/pkg/topology
// [scenario]: github.com/matzehuels/gridnet/pkg/scenario
// [render]: github.com/matzehuels/gridnet/pkg/render
// [cache]: github.com/matzehuels/gridnet/pkg/cache
// [observability]: github.com/matzehuels/gridnet/pkg/observability
// [errors]: github.com/matzehuels/gridnet/pkg/errors
package pkg
