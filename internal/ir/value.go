package ir

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf16"
)

// Value is a sealed interface representing everything a node input can hold.
// Only String, Int, Float, Bool and Ref implement this.
type Value interface {
	irValue() // Sealed - only these types implement it
}

// String is a string literal.
type String string

func (String) irValue() {}

// Int is an integer literal.
type Int int64

func (Int) irValue() {}

// Float is a floating point literal. NaN and infinities are rejected at
// serialization time.
type Float float64

func (Float) irValue() {}

// Bool is a boolean literal.
type Bool bool

func (Bool) irValue() {}

// Ref denotes the value produced at output position Slot of node Node.
type Ref struct {
	Node string
	Slot int
}

func (Ref) irValue() {}

// Out builds a Ref to the given node output.
func Out(node string, slot int) Ref {
	return Ref{Node: node, Slot: slot}
}

// IsZero reports whether r points nowhere.
func (r Ref) IsZero() bool {
	return r.Node == ""
}

func (r Ref) String() string {
	return fmt.Sprintf("[%q, %d]", r.Node, r.Slot)
}

// Inputs maps port names to bound values.
// Use SortedKeys() for deterministic iteration.
type Inputs map[string]Value

// SortedKeys returns ports in RFC 8785 canonical order (UTF-16 code units).
func (in Inputs) SortedKeys() []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// Clone returns a shallow copy. Values are immutable so a shallow copy
// never aliases mutable state.
func (in Inputs) Clone() Inputs {
	out := make(Inputs, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// PortRef is a reference bound to a named port.
type PortRef struct {
	Port string
	Ref  Ref
}

// Refs returns every reference in the inputs, ordered by port.
func (in Inputs) Refs() []PortRef {
	var refs []PortRef
	for _, k := range in.SortedKeys() {
		if r, ok := in[k].(Ref); ok {
			refs = append(refs, PortRef{Port: k, Ref: r})
		}
	}
	return refs
}

// Merge returns base overlaid with over. Neither argument is modified.
func Merge(base, over Inputs) Inputs {
	out := make(Inputs, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// FromAny converts a decoded Go scalar to a literal Value.
// Accepts the shapes produced by encoding/json (with UseNumber), yaml.v3 and
// the CUE decoder. Refs cannot be produced from plain data.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("integer out of int64 range: %d", val)
		}
		return Int(val), nil
	case float64:
		return Float(val), nil
	case float32:
		return Float(val), nil
	case json.Number:
		s := string(val)
		if strings.ContainsAny(s, ".eE") {
			f, err := val.Float64()
			if err != nil {
				return nil, fmt.Errorf("invalid number %s: %w", s, err)
			}
			return Float(f), nil
		}
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("number out of int64 range: %s", s)
		}
		return Int(n), nil
	case nil:
		return nil, fmt.Errorf("null is not a literal value")
	default:
		return nil, fmt.Errorf("unsupported literal type: %T", v)
	}
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
// Go's default string comparison uses UTF-8 which produces DIFFERENT order.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	// If all compared units are equal, shorter string comes first
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}
