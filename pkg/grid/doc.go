// Package grid maintains the partition of a dynamic, undirected, typed graph
// into connected networks.
//
// # Overview
//
// Grids such as power cabling are made of nodes that join and leave at
// runtime. Every active node must belong to exactly one [Network], and a
// network holds exactly the active nodes of one [Kind] that can reach each
// other through same-kind neighbor edges. The [Manager] keeps that partition
// correct while nodes are activated, deactivated, or change their adjacency.
//
// The package never stores edges. Adjacency belongs to the host and is read
// through a [Provider] on every traversal, because the physical topology can
// change between calls. The host only reports which node changed:
//
//	m := grid.NewManager(provider)
//	m.OnNodeActivated("A")     // ensure a network, then spread it
//	m.OnNodeDeactivated("B")   // remove, then rebuild what remains
//	m.OnAdjacencyChanged("C")  // a switch on C toggled
//
// # Algorithm
//
// Activation runs [Manager.EnsureHasNetwork] (adopt the network of the first
// compatible neighbor in provider order, or mint a new one) followed by
// [Manager.SpreadNetwork], which pulls unassigned neighbors in and absorbs
// every other stable network it touches. Merges always drain the other
// network into the network of the node that started the spread.
//
// Deactivation runs [Manager.RemoveNode]. The removed node may have been an
// articulation point, so the remaining members are torn down and rebuilt from
// scratch by [Manager.RemakeNetwork]: the first snapshot node claims every
// node still reachable from it, and unreachable leftovers mint their own
// networks.
//
// # Re-entrancy
//
// Each network carries a [State]. A network being drained into another is
// [StateDraining] and one being torn down is [StateRebuilding]; only
// [StateStable] networks may be absorbed or receive members. Emptied networks
// become [StateDiscarded] and leave the manager's registry. Illegal
// transitions panic, so a merge into a network that is mid-rebuild is caught
// where it happens.
//
// # Failure Semantics
//
// Placing a node into a network of another kind panics with an
// errors.ErrCodeTypeMismatch error; broken bookkeeping (removing an
// unassigned node, discarding a non-empty network) panics with
// errors.ErrCodeInvariantViolation. Both are programming errors and are not
// meant to be handled. Host misuse of the public API (activating twice,
// deactivating an inactive node, activating a node the provider does not
// know) is reported as an ordinary error.
//
// [Manager.Validate] checks every invariant against the live provider and is
// meant for tests and diagnostics.
//
// # Complexity
//
// Activation costs O(d) plus the size of any network absorbed. Removal costs
// O(k·d) where k is the size of the affected network and d the neighbor
// fan-out, because the whole component is rebuilt. This is the accepted
// price for not maintaining an incremental dynamic-connectivity structure
// (Euler-tour or link-cut trees); it suits components of dozens to hundreds
// of nodes. Hosts with much larger components should revisit it.
//
// # Concurrency
//
// A Manager is not safe for concurrent use. Every operation runs to
// completion synchronously, and adjacency must not change while one is in
// flight. Hosts with several goroutines must serialize all calls affecting a
// connected region, for example behind one mutex per Manager.
package grid
