package params

import (
	"math"
	"slices"
	"strconv"

	"github.com/roach88/graphsmith/internal/ir"
)

type validateConfig struct {
	generators map[string]Generator
}

// ValidateOption adjusts a single Validate call.
type ValidateOption func(*validateConfig)

// OverrideGenerator replaces the generator of field name for this call.
func OverrideGenerator(name string, g Generator) ValidateOption {
	return func(c *validateConfig) {
		if c.generators == nil {
			c.generators = make(map[string]Generator)
		}
		c.generators[name] = g
	}
}

// Validate checks raw against the specification and returns the validated
// set. Every field is checked; all failures are returned together as
// ValidationErrors. A nil raw value is treated as absent.
func (s *Spec) Validate(raw map[string]any, opts ...ValidateOption) (*Set, error) {
	var cfg validateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	values := make(map[string]ir.Value, len(s.fields))
	var errs ValidationErrors

	for _, f := range s.fields {
		rv, present := raw[f.Name]
		if present && rv == nil {
			present = false
		}

		if !present {
			switch {
			case f.Required:
				errs = append(errs, &ValidationError{
					Field:      f.Name,
					Reason:     ReasonMissing,
					Code:       ErrCodeMissing,
					Constraint: "required",
				})
			case f.Generator != nil:
				gen := f.Generator
				if g, ok := cfg.generators[f.Name]; ok {
					gen = g
				}
				v, verr := checkValue(f, gen())
				if verr != nil {
					errs = append(errs, verr)
					continue
				}
				values[f.Name] = v
			default:
				values[f.Name] = f.Default
			}
			continue
		}

		lit, err := ir.FromAny(rv)
		if err != nil {
			errs = append(errs, kindError(f, rv))
			continue
		}
		v, verr := checkValue(f, lit)
		if verr != nil {
			errs = append(errs, verr)
			continue
		}
		values[f.Name] = v
	}

	var unknown []string
	for name := range raw {
		if _, ok := s.index[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	slices.Sort(unknown)
	for _, name := range unknown {
		errs = append(errs, &ValidationError{
			Field:      name,
			Reason:     ReasonUnknown,
			Code:       ErrCodeUnknown,
			Constraint: "not a declared parameter",
		})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &Set{spec: s, values: values}, nil
}

// checkValue coerces v to the field kind and checks its constraints.
func checkValue(f Field, v ir.Value) (ir.Value, *ValidationError) {
	v, ok := coerce(f.Kind, v)
	if !ok {
		return nil, kindError(f, v)
	}

	switch f.Kind {
	case KindInt, KindFloat:
		n := number(v)
		if f.Min != nil && n < *f.Min {
			return nil, &ValidationError{
				Field:      f.Name,
				Reason:     ReasonMin,
				Code:       ErrCodeBelowMin,
				Value:      v,
				Constraint: "minimum " + formatBound(*f.Min),
			}
		}
		if f.Max != nil && n > *f.Max {
			return nil, &ValidationError{
				Field:      f.Name,
				Reason:     ReasonMax,
				Code:       ErrCodeAboveMax,
				Value:      v,
				Constraint: "maximum " + formatBound(*f.Max),
			}
		}
		if f.Step != 0 && !isMultiple(v, f.Step) {
			return nil, &ValidationError{
				Field:      f.Name,
				Reason:     ReasonMultipleOf,
				Code:       ErrCodeMultipleOf,
				Value:      v,
				Constraint: "multiple of " + formatBound(f.Step),
			}
		}
	case KindEnum:
		if !f.Allowed.Contains(string(v.(ir.String))) {
			return nil, &ValidationError{
				Field:      f.Name,
				Reason:     ReasonEnum,
				Code:       ErrCodeEnum,
				Value:      v,
				Constraint: "one of the allowed values",
				Allowed:    append([]string(nil), f.Allowed...),
			}
		}
	}
	return v, nil
}

func kindError(f Field, got any) *ValidationError {
	return &ValidationError{
		Field:      f.Name,
		Reason:     ReasonKind,
		Code:       ErrCodeKind,
		Value:      got,
		Constraint: "expected " + f.Kind.String(),
	}
}

func coerce(kind Kind, v ir.Value) (ir.Value, bool) {
	switch kind {
	case KindInt:
		switch n := v.(type) {
		case ir.Int:
			return n, true
		case ir.Float:
			f := float64(n)
			if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
				return ir.Int(int64(f)), true
			}
		}
	case KindFloat:
		switch n := v.(type) {
		case ir.Float:
			if math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
				return nil, false
			}
			return n, true
		case ir.Int:
			return ir.Float(n), true
		}
	case KindBool:
		if b, ok := v.(ir.Bool); ok {
			return b, true
		}
	case KindString, KindEnum:
		if s, ok := v.(ir.String); ok {
			return s, true
		}
	}
	return nil, false
}

func number(v ir.Value) float64 {
	switch n := v.(type) {
	case ir.Int:
		return float64(n)
	case ir.Float:
		return float64(n)
	}
	return math.NaN()
}

func isMultiple(v ir.Value, step float64) bool {
	if n, ok := v.(ir.Int); ok && step == math.Trunc(step) {
		return int64(n)%int64(step) == 0
	}
	q := number(v) / step
	return math.Abs(q-math.Round(q)) < 1e-9
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
