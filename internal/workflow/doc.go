// Package workflow binds a parameter specification and an ordered stage list
// into a named recipe.
//
// A Descriptor is inert data. Build is its only entry point: it validates raw
// input, folds the stages over an empty graph, appends the terminal save
// node, checks referential integrity and returns the finished document with
// its content hash. A failed build never returns a partial document.
//
// Registry holds descriptors by name. Register checks descriptor metadata
// with go-playground/validator struct tags before accepting it.
package workflow
