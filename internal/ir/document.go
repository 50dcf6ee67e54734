package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// Wire keys understood by the execution engine.
const (
	KeyClassType = "class_type"
	KeyInputs    = "inputs"
	KeyMeta      = "_meta"
	KeyTitle     = "title"
)

// Node is one operation instance in a graph document.
type Node struct {
	ID     string
	Kind   string // serialized as class_type
	Inputs Inputs
	Title  string // display only, serialized under _meta
}

func (n Node) object() map[string]any {
	obj := map[string]any{
		KeyClassType: n.Kind,
		KeyInputs:    n.Inputs,
	}
	if n.Inputs == nil {
		obj[KeyInputs] = Inputs{}
	}
	if n.Title != "" {
		obj[KeyMeta] = map[string]any{KeyTitle: n.Title}
	}
	return obj
}

// Input returns the value bound to port, if any.
func (n Node) Input(port string) (Value, bool) {
	v, ok := n.Inputs[port]
	return v, ok
}

// Document is a finished graph: node id to node, kept in insertion order.
type Document struct {
	Nodes []Node
}

func (d Document) object() map[string]any {
	obj := make(map[string]any, len(d.Nodes))
	for _, n := range d.Nodes {
		obj[n.ID] = n
	}
	return obj
}

// Len returns the number of nodes.
func (d Document) Len() int {
	return len(d.Nodes)
}

// Lookup finds a node by id.
func (d Document) Lookup(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// OfKind returns nodes with the given class_type in insertion order.
func (d Document) OfKind(kind string) []Node {
	var out []Node
	for _, n := range d.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Kinds returns the class_type of every node in insertion order.
func (d Document) Kinds() []string {
	out := make([]string, len(d.Nodes))
	for i, n := range d.Nodes {
		out[i] = n.Kind
	}
	return out
}

// MarshalJSON implements json.Marshaler using canonical serialization.
func (d Document) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(d)
}

// UnmarshalJSON parses a graph document. Nodes are ordered by id, numerically
// when every id is an integer.
// Arrays of [string, integer] decode as Ref; numbers with a fraction or
// exponent decode as Float.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]struct {
		ClassType string                     `json:"class_type"`
		Inputs    map[string]json.RawMessage `json:"inputs"`
		Meta      *struct {
			Title string `json:"title"`
		} `json:"_meta"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sortIDs(ids)

	nodes := make([]Node, 0, len(ids))
	for _, id := range ids {
		r := raw[id]
		inputs := make(Inputs, len(r.Inputs))
		for port, msg := range r.Inputs {
			v, err := decodeInput(msg)
			if err != nil {
				return fmt.Errorf("node %s input %q: %w", id, port, err)
			}
			inputs[port] = v
		}
		n := Node{ID: id, Kind: r.ClassType, Inputs: inputs}
		if r.Meta != nil {
			n.Title = r.Meta.Title
		}
		nodes = append(nodes, n)
	}
	d.Nodes = nodes
	return nil
}

func decodeInput(msg json.RawMessage) (Value, error) {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pair []json.RawMessage
		if err := json.Unmarshal(trimmed, &pair); err != nil {
			return nil, err
		}
		if len(pair) != 2 {
			return nil, fmt.Errorf("reference must have 2 elements, got %d", len(pair))
		}
		var node string
		if err := json.Unmarshal(pair[0], &node); err != nil {
			return nil, fmt.Errorf("reference node id: %w", err)
		}
		var slot int
		if err := json.Unmarshal(pair[1], &slot); err != nil {
			return nil, fmt.Errorf("reference slot: %w", err)
		}
		return Ref{Node: node, Slot: slot}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var scalar any
	if err := dec.Decode(&scalar); err != nil {
		return nil, err
	}
	return FromAny(scalar)
}

// sortIDs orders ids numerically when all of them parse as integers and
// falls back to canonical key order otherwise.
func sortIDs(ids []string) {
	nums := make(map[string]int64, len(ids))
	for _, id := range ids {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			slices.SortFunc(ids, compareKeysRFC8785)
			return
		}
		nums[id] = n
	}
	slices.SortFunc(ids, func(a, b string) int {
		switch {
		case nums[a] < nums[b]:
			return -1
		case nums[a] > nums[b]:
			return 1
		}
		return 0
	})
}

// Envelope is the queue submission body accepted by the execution engine.
type Envelope struct {
	ClientID string
	Prompt   Document
}

// MarshalJSON implements json.Marshaler using canonical serialization.
func (e Envelope) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(map[string]any{
		"client_id": e.ClientID,
		"prompt":    e.Prompt,
	})
}
