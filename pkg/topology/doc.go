// Package topology provides the host side of a grid: a typed, undirected
// graph whose edges can be switched off without being removed.
//
// A [Graph] implements grid.Provider, so a grid.Manager can read adjacency
// straight from it. Neighbors are returned in sorted order, which makes the
// partition produced by the manager deterministic.
//
// Edges carry an enabled flag. A disabled edge models a switch that is open:
// both endpoints stay wired together but do not conduct, and
// [Graph.Neighbors] omits them. Toggling a switch changes adjacency without
// adding or removing nodes, which the host reports with
// grid.Manager.OnAdjacencyChanged.
//
// [Components] computes the expected partition from scratch with a
// union-find. It is the oracle the randomized checks compare the
// incremental manager against.
//
// Graph is not safe for concurrent use without external synchronization.
package topology
