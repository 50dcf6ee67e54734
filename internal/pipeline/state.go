package pipeline

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/roach88/graphsmith/internal/graph"
	"github.com/roach88/graphsmith/internal/ir"
)

// State is threaded through every stage.
type State struct {
	Graph *graph.Graph

	// Head is the reference producing the pipeline's running result.
	Head ir.Ref

	// Wires are named shared references (model, clip, vae, ...) that
	// adaptation stages may rebind.
	Wires map[string]ir.Ref

	// Terminal is the id of the save node once the terminal stage ran.
	Terminal string
}

// NewState returns a state over g with no head and no wires.
func NewState(g *graph.Graph) State {
	return State{Graph: g, Wires: map[string]ir.Ref{}}
}

// Add appends a node and returns the new state and the node id.
func (s State) Add(kind string, inputs ir.Inputs, opts ...graph.NodeOption) (State, string, error) {
	g, id, err := s.Graph.Append(kind, inputs, opts...)
	if err != nil {
		return s, "", err
	}
	s.Graph = g
	return s, id, nil
}

// WithHead returns a copy with the head moved to ref.
func (s State) WithHead(ref ir.Ref) State {
	s.Head = ref
	return s
}

// WithWire returns a copy with wire name bound to ref.
func (s State) WithWire(name string, ref ir.Ref) State {
	wires := make(map[string]ir.Ref, len(s.Wires)+1)
	maps.Copy(wires, s.Wires)
	wires[name] = ref
	s.Wires = wires
	return s
}

// Wire returns the reference bound to name.
func (s State) Wire(name string) (ir.Ref, error) {
	ref, ok := s.Wires[name]
	if !ok {
		return ir.Ref{}, &MissingWireError{Wire: name, Bound: s.WireNames()}
	}
	return ref, nil
}

// Lookup returns several wires at once, in the order named.
func (s State) Lookup(names ...string) ([]ir.Ref, error) {
	refs := make([]ir.Ref, len(names))
	for i, name := range names {
		ref, err := s.Wire(name)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}
	return refs, nil
}

// WireNames returns bound wire names sorted.
func (s State) WireNames() []string {
	return slices.Sorted(maps.Keys(s.Wires))
}

// MissingWireError reports a stage reading a wire no earlier stage bound.
type MissingWireError struct {
	Wire  string
	Bound []string
}

func (e *MissingWireError) Error() string {
	return fmt.Sprintf("wire %q is not bound (bound: %v)", e.Wire, e.Bound)
}

// ErrNoHead is returned when a stage needs the head before any stage set it.
var ErrNoHead = errors.New("pipeline head is not set")
