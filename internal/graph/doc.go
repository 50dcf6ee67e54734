// Package graph builds node graphs by monotonic, pure appends and checks
// their referential integrity.
//
// A *Graph is an immutable value. Append returns a new graph and the id it
// allocated; the receiver is never changed, so a graph may be shared between
// builds and branched freely.
//
// INVARIANTS:
//
// Ids are "1", "2", ... in append order and never reused within a graph.
// A node may only reference nodes appended before it, so a graph that passes
// CheckIntegrity is acyclic.
package graph
