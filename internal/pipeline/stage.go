package pipeline

import (
	"github.com/roach88/graphsmith/internal/params"
)

// Stage is one unit of pipeline logic.
type Stage interface {
	Name() string
	Enabled(p *params.Set) bool
	Apply(s State, p *params.Set) (State, error)
}

// Func is the body of a stage.
type Func func(s State, p *params.Set) (State, error)

// Predicate decides whether an optional stage runs.
type Predicate func(p *params.Set) bool

type stage struct {
	name    string
	enabled Predicate
	apply   Func
}

func (st stage) Name() string { return st.name }

func (st stage) Enabled(p *params.Set) bool {
	if st.enabled == nil {
		return true
	}
	return st.enabled(p)
}

func (st stage) Apply(s State, p *params.Set) (State, error) {
	return st.apply(s, p)
}

// Required returns a stage that always runs.
func Required(name string, fn Func) Stage {
	return stage{name: name, apply: fn}
}

// Optional returns a stage that runs only when pred holds.
func Optional(name string, pred Predicate, fn Func) Stage {
	return stage{name: name, enabled: pred, apply: fn}
}

// Flag holds when the boolean field is true.
func Flag(field string) Predicate {
	return func(p *params.Set) bool { return p.Bool(field) }
}

// NonEmpty holds when the string field is not empty.
func NonEmpty(field string) Predicate {
	return func(p *params.Set) bool { return p.String(field) != "" }
}

// All holds when every predicate holds.
func All(preds ...Predicate) Predicate {
	return func(p *params.Set) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}
}

// Any holds when at least one predicate holds.
func Any(preds ...Predicate) Predicate {
	return func(p *params.Set) bool {
		for _, pred := range preds {
			if pred(p) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not(pred Predicate) Predicate {
	return func(p *params.Set) bool { return !pred(p) }
}
