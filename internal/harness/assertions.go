package harness

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/graphsmith/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Kinds    []string // Document class types for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Kinds) > 0 {
		fmt.Fprintf(&buf, "\nDocument:\n")
		for i, kind := range e.Kinds {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, kind)
		}
	}

	return buf.String()
}

// evaluate dispatches a document or trace assertion.
func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertKinds:
		return assertKinds(result.Document, a)
	case AssertKindCount:
		return assertKindCount(result.Document, a)
	case AssertKindOrder:
		return assertKindOrder(result.Document, a)
	case AssertStages:
		return assertStages(result, a)
	case AssertInput:
		return assertInput(result.Document, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// assertKinds checks the document's class types exactly, in order.
func assertKinds(doc ir.Document, a Assertion) error {
	kinds := doc.Kinds()
	if slices.Equal(kinds, a.Kinds) {
		return nil
	}
	return &AssertionError{
		Type:     AssertKinds,
		Expected: fmt.Sprintf("%v", a.Kinds),
		Actual:   fmt.Sprintf("%v", kinds),
	}
}

// assertKindCount checks the kind appears exactly the specified number of times.
func assertKindCount(doc ir.Document, a Assertion) error {
	count := len(doc.OfKind(a.Kind))
	if count != a.Count {
		return &AssertionError{
			Type:     AssertKindCount,
			Expected: fmt.Sprintf("%d nodes of %s", a.Count, a.Kind),
			Actual:   fmt.Sprintf("%d nodes", count),
			Kinds:    doc.Kinds(),
		}
	}
	return nil
}

// assertKindOrder checks the first occurrence of each kind follows the listed
// order. Other nodes may appear in between.
func assertKindOrder(doc ir.Document, a Assertion) error {
	kinds := doc.Kinds()
	positions := make([]int, len(a.Kinds))
	for i, kind := range a.Kinds {
		positions[i] = slices.Index(kinds, kind)
		if positions[i] < 0 {
			return &AssertionError{
				Type:     AssertKindOrder,
				Expected: fmt.Sprintf("all kinds present: %v", a.Kinds),
				Actual:   fmt.Sprintf("missing kind: %s", kind),
				Kinds:    kinds,
			}
		}
	}

	for i := 1; i < len(positions); i++ {
		if positions[i-1] >= positions[i] {
			return &AssertionError{
				Type:     AssertKindOrder,
				Expected: fmt.Sprintf("kinds in order: %v", a.Kinds),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					a.Kinds[i-1], positions[i-1]+1, a.Kinds[i], positions[i]+1),
				Kinds: kinds,
			}
		}
	}
	return nil
}

// assertStages checks the enabled stages exactly, in order.
func assertStages(result *Result, a Assertion) error {
	enabled := result.Enabled()
	if slices.Equal(enabled, a.Stages) {
		return nil
	}
	return &AssertionError{
		Type:     AssertStages,
		Expected: fmt.Sprintf("%v", a.Stages),
		Actual:   fmt.Sprintf("%v", enabled),
	}
}

// assertInput checks one port of the first node of a kind. Literals compare
// by canonical JSON, so 1 and 1.0 are equal.
func assertInput(doc ir.Document, a Assertion) error {
	nodes := doc.OfKind(a.Kind)
	if len(nodes) == 0 {
		return &AssertionError{
			Type:     AssertInput,
			Expected: fmt.Sprintf("a node of %s", a.Kind),
			Actual:   "none",
			Kinds:    doc.Kinds(),
		}
	}
	node := nodes[0]
	got, ok := node.Input(a.Port)
	if !ok {
		return &AssertionError{
			Type:     AssertInput,
			Expected: fmt.Sprintf("%s.%s bound", a.Kind, a.Port),
			Actual:   "port not bound",
		}
	}

	if a.Ref != nil {
		return matchRef(doc, a, got)
	}

	want, err := ir.FromAny(a.Value)
	if err != nil {
		return fmt.Errorf("expected value: %w", err)
	}
	if !sameLiteral(got, want) {
		return &AssertionError{
			Type:     AssertInput,
			Expected: fmt.Sprintf("%s.%s = %v", a.Kind, a.Port, want),
			Actual:   fmt.Sprintf("%v", got),
		}
	}
	return nil
}

func matchRef(doc ir.Document, a Assertion, got ir.Value) error {
	ref, ok := got.(ir.Ref)
	if !ok {
		return &AssertionError{
			Type:     AssertInput,
			Expected: fmt.Sprintf("%s.%s references %s[%d]", a.Kind, a.Port, a.Ref.Kind, a.Ref.Slot),
			Actual:   fmt.Sprintf("literal %v", got),
		}
	}
	target, ok := doc.Lookup(ref.Node)
	if !ok || target.Kind != a.Ref.Kind || ref.Slot != a.Ref.Slot {
		actual := fmt.Sprintf("%s (missing node)", ref)
		if ok {
			actual = fmt.Sprintf("%s[%d]", target.Kind, ref.Slot)
		}
		return &AssertionError{
			Type:     AssertInput,
			Expected: fmt.Sprintf("%s.%s references %s[%d]", a.Kind, a.Port, a.Ref.Kind, a.Ref.Slot),
			Actual:   actual,
			Kinds:    doc.Kinds(),
		}
	}
	return nil
}

func sameLiteral(a, b ir.Value) bool {
	ja, errA := ir.MarshalCanonical(a)
	jb, errB := ir.MarshalCanonical(b)
	return errA == nil && errB == nil && bytes.Equal(ja, jb)
}
