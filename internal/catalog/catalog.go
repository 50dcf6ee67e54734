// Package catalog holds the table of operation kinds the execution engine
// understands, their output slots and the fixed preset inputs recipes use.
//
// The table is CUE data embedded in the binary and parsed once.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/graphsmith/internal/ir"
)

//go:embed catalog.cue
var source []byte

// Operation describes one operation kind.
type Operation struct {
	Kind     string   `json:"kind"`
	Category string   `json:"category"`
	Outputs  []string `json:"outputs"`
}

// Preset is a named set of fixed inputs for one operation kind.
type Preset struct {
	Name   string
	Kind   string
	Inputs ir.Inputs
}

// Catalog is an immutable operation table.
type Catalog struct {
	ops     map[string]Operation
	order   []string
	presets map[string]Preset
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog. It panics if the embedded data is
// invalid, which can only happen at development time.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(source, "catalog.cue")
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultCat
}

// LoadError reports a malformed catalog.
type LoadError struct {
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// Parse compiles catalog CUE source.
func Parse(src []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var ops []Operation
	if err := v.LookupPath(cue.ParsePath("operations")).Decode(&ops); err != nil {
		return nil, formatCUEError(err)
	}

	c := &Catalog{
		ops:     make(map[string]Operation, len(ops)),
		presets: make(map[string]Preset),
	}
	for _, op := range ops {
		if _, dup := c.ops[op.Kind]; dup {
			return nil, &LoadError{Message: fmt.Sprintf("duplicate operation kind %q", op.Kind)}
		}
		c.ops[op.Kind] = op
		c.order = append(c.order, op.Kind)
	}

	presets := v.LookupPath(cue.ParsePath("presets"))
	if presets.Exists() {
		iter, err := presets.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			p, err := parsePreset(iter.Value())
			if err != nil {
				return nil, err
			}
			if _, ok := c.ops[p.Kind]; !ok {
				return nil, &LoadError{
					Message: fmt.Sprintf("preset %q uses unknown kind %q", p.Name, p.Kind),
					Pos:     iter.Value().Pos(),
				}
			}
			if _, dup := c.presets[p.Name]; dup {
				return nil, &LoadError{Message: fmt.Sprintf("duplicate preset %q", p.Name), Pos: iter.Value().Pos()}
			}
			c.presets[p.Name] = p
		}
	}
	return c, nil
}

func parsePreset(v cue.Value) (Preset, error) {
	var p Preset
	name, err := v.LookupPath(cue.ParsePath("name")).String()
	if err != nil {
		return p, formatCUEError(err)
	}
	kind, err := v.LookupPath(cue.ParsePath("kind")).String()
	if err != nil {
		return p, formatCUEError(err)
	}
	p.Name, p.Kind, p.Inputs = name, kind, ir.Inputs{}

	iter, err := v.LookupPath(cue.ParsePath("inputs")).Fields()
	if err != nil {
		return p, formatCUEError(err)
	}
	for iter.Next() {
		lit, err := literal(iter.Value())
		if err != nil {
			return p, &LoadError{
				Message: fmt.Sprintf("preset %q input %q: %v", name, iter.Label(), err),
				Pos:     iter.Value().Pos(),
			}
		}
		p.Inputs[iter.Label()] = lit
	}
	return p, nil
}

func literal(v cue.Value) (ir.Value, error) {
	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		return ir.String(s), err
	case cue.IntKind:
		n, err := v.Int64()
		return ir.Int(n), err
	case cue.FloatKind:
		f, err := v.Float64()
		return ir.Float(f), err
	case cue.BoolKind:
		b, err := v.Bool()
		return ir.Bool(b), err
	}
	return nil, fmt.Errorf("unsupported kind %s", v.Kind())
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

// Lookup returns the operation for kind.
func (c *Catalog) Lookup(kind string) (Operation, bool) {
	op, ok := c.ops[kind]
	if !ok {
		return Operation{}, false
	}
	op.Outputs = slices.Clone(op.Outputs)
	return op, true
}

// Supports reports whether kind is a known operation.
func (c *Catalog) Supports(kind string) bool {
	_, ok := c.ops[kind]
	return ok
}

// Outputs returns the number of output slots of kind.
func (c *Catalog) Outputs(kind string) (int, bool) {
	op, ok := c.ops[kind]
	return len(op.Outputs), ok
}

// Kinds returns all operation kinds in declaration order.
func (c *Catalog) Kinds() []string {
	return slices.Clone(c.order)
}

// Preset returns a named preset. The returned inputs may be modified freely.
func (c *Catalog) Preset(name string) (Preset, bool) {
	p, ok := c.presets[name]
	if !ok {
		return Preset{}, false
	}
	p.Inputs = p.Inputs.Clone()
	return p, true
}

// Presets returns preset names sorted.
func (c *Catalog) Presets() []string {
	names := make([]string, 0, len(c.presets))
	for name := range c.presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
