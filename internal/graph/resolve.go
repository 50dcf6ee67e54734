package graph

import (
	"github.com/roach88/graphsmith/internal/ir"
)

// CheckIntegrity verifies that every reference in g names a node appended
// before the referencing node and, when a catalog is attached, a slot within
// the target's outputs. It returns the first failure in append order.
func CheckIntegrity(g *Graph) error {
	return checkNodes(g.nodes, g.index, g.cfg.catalog)
}

// CheckDocument runs the same checks on a parsed document. Document order is
// taken as append order. cat may be nil.
func CheckDocument(doc ir.Document, cat Catalog) error {
	index := make(map[string]int, len(doc.Nodes))
	for i, n := range doc.Nodes {
		index[n.ID] = i
	}
	if cat != nil {
		for _, n := range doc.Nodes {
			if _, ok := cat.Outputs(n.Kind); !ok {
				return &UnsupportedOperationError{Kind: n.Kind}
			}
		}
	}
	return checkNodes(doc.Nodes, index, cat)
}

func checkNodes(nodes []ir.Node, index map[string]int, cat Catalog) error {
	for pos, n := range nodes {
		if err := checkNode(n, pos, index, nodes, cat); err != nil {
			return err
		}
	}
	return nil
}

// checkNode checks n as if it sits at position pos.
func checkNode(n ir.Node, pos int, index map[string]int, nodes []ir.Node, cat Catalog) error {
	for _, pr := range n.Inputs.Refs() {
		fail := func(reason string) error {
			return &ReferentialIntegrityError{
				FromNode: n.ID,
				ToNode:   pr.Ref.Node,
				Port:     pr.Port,
				Slot:     pr.Ref.Slot,
				Reason:   reason,
			}
		}

		if pr.Ref.Node == n.ID {
			return fail(ReasonSelf)
		}
		target, ok := index[pr.Ref.Node]
		if !ok {
			return fail(ReasonMissing)
		}
		if target >= pos {
			return fail(ReasonForward)
		}
		if pr.Ref.Slot < 0 {
			return fail(ReasonSlot)
		}
		if cat != nil {
			outputs, known := cat.Outputs(nodes[target].Kind)
			if known && pr.Ref.Slot >= outputs {
				return fail(ReasonSlot)
			}
		}
	}
	return nil
}
