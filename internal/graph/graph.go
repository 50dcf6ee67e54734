package graph

import (
	"strconv"

	"github.com/roach88/graphsmith/internal/ir"
)

// Graph is an immutable node graph.
type Graph struct {
	nodes []ir.Node
	index map[string]int
	cfg   *config
}

// New returns an empty graph.
func New(opts ...Option) *Graph {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Graph{index: map[string]int{}, cfg: cfg}
}

// Append adds a node and returns the new graph and the allocated id.
// Inputs are stored exactly as given. The receiver is not modified.
func (g *Graph) Append(kind string, inputs ir.Inputs, opts ...NodeOption) (*Graph, string, error) {
	if kind == "" {
		return nil, "", &UnsupportedOperationError{Reason: "empty operation kind"}
	}
	if g.cfg.catalog != nil {
		if _, ok := g.cfg.catalog.Outputs(kind); !ok {
			return nil, "", &UnsupportedOperationError{Kind: kind}
		}
	}

	var nc nodeConfig
	for _, opt := range opts {
		opt(&nc)
	}

	id := strconv.Itoa(len(g.nodes) + 1)
	node := ir.Node{ID: id, Kind: kind, Inputs: inputs.Clone(), Title: nc.title}

	if g.cfg.verify == VerifyEachAppend {
		if err := checkNode(node, len(g.nodes), g.index, g.nodes, g.cfg.catalog); err != nil {
			return nil, "", err
		}
	}

	nodes := make([]ir.Node, len(g.nodes), len(g.nodes)+1)
	copy(nodes, g.nodes)
	nodes = append(nodes, node)

	index := make(map[string]int, len(g.index)+1)
	for k, v := range g.index {
		index[k] = v
	}
	index[id] = len(nodes) - 1

	return &Graph{nodes: nodes, index: index, cfg: g.cfg}, id, nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with id.
func (g *Graph) Node(id string) (ir.Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return ir.Node{}, false
	}
	return g.nodes[i], true
}

// Nodes returns the nodes in append order.
func (g *Graph) Nodes() []ir.Node {
	out := make([]ir.Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Catalog returns the attached catalog, or nil.
func (g *Graph) Catalog() Catalog {
	return g.cfg.catalog
}

// Verify returns the verification mode.
func (g *Graph) Verify() VerifyMode {
	return g.cfg.verify
}

// Document returns the graph as a document without checking it.
func (g *Graph) Document() ir.Document {
	return ir.Document{Nodes: g.Nodes()}
}

// Finish checks integrity and returns the document. No document is returned
// when a reference does not resolve.
func (g *Graph) Finish() (ir.Document, error) {
	if err := CheckIntegrity(g); err != nil {
		return ir.Document{}, err
	}
	return g.Document(), nil
}
