// Package scenario scripts a grid over time and checks the partition.
//
// A [Scenario] lists the nodes and edges of a host graph and a sequence of
// [Step]s: nodes are activated and deactivated, cables connected and cut,
// switches flipped, and expectations about the resulting networks asserted.
// Scenarios are read from TOML, YAML or HCL, chosen by file extension:
//
//	name = "line"
//
//	[[nodes]]
//	id = "A"
//	kind = "lv"
//
//	[[edges]]
//	a = "A"
//	b = "B"
//
//	[[steps]]
//	op = "activate"
//	nodes = ["A", "B"]
//
//	[[steps]]
//	op = "expect"
//	networks = [["A", "B"]]
//
// A [State] applies steps one at a time to a topology.Graph and the
// grid.Manager reading from it, notifying the manager exactly as a host
// would. A [Runner] drives a whole scenario, reports each step to
// observability.RunHooks, and with verification enabled compares the
// manager against a from-scratch recomputation after every step.
//
// [Random] generates scenarios for property checks.
package scenario
