package params

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

var fieldNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Spec is an ordered, immutable parameter specification.
type Spec struct {
	fields []Field
	index  map[string]int
}

// NewSpec declares a specification. Literal defaults are coerced to the
// field kind and checked against the field's own constraints.
func NewSpec(fields ...Field) (*Spec, error) {
	s := &Spec{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	var errs []error
	for _, f := range fields {
		f, err := declare(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := s.index[f.Name]; dup {
			errs = append(errs, &DeclarationError{Field: f.Name, Message: "duplicate field"})
			continue
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}

// MustSpec is like NewSpec but panics on error.
// Use for package-level recipe declarations.
func MustSpec(fields ...Field) *Spec {
	s, err := NewSpec(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func declare(f Field) (Field, error) {
	fail := func(format string, args ...any) (Field, error) {
		return f, &DeclarationError{Field: f.Name, Message: fmt.Sprintf(format, args...)}
	}

	if !fieldNamePattern.MatchString(f.Name) {
		return fail("name must match %s", fieldNamePattern)
	}
	if f.declErr != nil {
		return fail("invalid default: %v", f.declErr)
	}
	if f.Kind < KindInt || f.Kind > KindEnum {
		return fail("unknown kind %s", f.Kind)
	}
	if !f.Kind.numeric() && (f.Min != nil || f.Max != nil || f.Step != 0) {
		return fail("bounds on %s field", f.Kind)
	}
	if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
		return fail("min %v exceeds max %v", *f.Min, *f.Max)
	}
	if f.Step < 0 || math.IsNaN(f.Step) || math.IsInf(f.Step, 0) {
		return fail("step must be positive, got %v", f.Step)
	}
	if f.Kind == KindEnum && len(f.Allowed) == 0 {
		return fail("enum without choices")
	}
	if f.Default != nil && f.Generator != nil {
		return fail("both default and generator")
	}
	if f.Required && (f.Default != nil || f.Generator != nil) {
		return fail("required field with a default")
	}

	if !f.Required && f.Default == nil && f.Generator == nil {
		d, ok := f.implicitDefault()
		if !ok {
			return fail("optional %s field needs a default or generator", f.Kind)
		}
		f.Default = d
	}

	if f.Default != nil {
		v, verr := checkValue(f, f.Default)
		if verr != nil {
			return fail("default rejected: %v", verr)
		}
		f.Default = v
	}
	return f, nil
}

// Len returns the number of declared fields.
func (s *Spec) Len() int {
	return len(s.fields)
}

// Names returns field names in declaration order.
func (s *Spec) Names() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Field returns the declaration of name.
func (s *Spec) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	f := s.fields[i]
	f.Allowed = append(Choices(nil), f.Allowed...)
	return f, true
}
