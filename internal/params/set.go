package params

import (
	"github.com/roach88/graphsmith/internal/ir"
)

// Set is a validated parameter set: one concrete value per declared field.
// Reading a name the spec does not declare panics with *UndeclaredError.
type Set struct {
	spec   *Spec
	values map[string]ir.Value
}

// Spec returns the specification the set was validated against.
func (s *Set) Spec() *Spec {
	return s.spec
}

// Value returns the raw value of name.
func (s *Set) Value(name string) ir.Value {
	v, ok := s.values[name]
	if !ok {
		panic(&UndeclaredError{Name: name, Reason: "not declared"})
	}
	return v
}

// Int returns an integer field.
func (s *Set) Int(name string) int64 {
	n, ok := s.Value(name).(ir.Int)
	if !ok {
		panic(&UndeclaredError{Name: name, Reason: "not an int field"})
	}
	return int64(n)
}

// Float returns a float field.
func (s *Set) Float(name string) float64 {
	f, ok := s.Value(name).(ir.Float)
	if !ok {
		panic(&UndeclaredError{Name: name, Reason: "not a float field"})
	}
	return float64(f)
}

// Bool returns a boolean field.
func (s *Set) Bool(name string) bool {
	b, ok := s.Value(name).(ir.Bool)
	if !ok {
		panic(&UndeclaredError{Name: name, Reason: "not a bool field"})
	}
	return bool(b)
}

// String returns a string or enum field.
func (s *Set) String(name string) string {
	str, ok := s.Value(name).(ir.String)
	if !ok {
		panic(&UndeclaredError{Name: name, Reason: "not a string field"})
	}
	return string(str)
}

// Has reports whether name is declared.
func (s *Set) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Values returns a copy of every value keyed by field name.
func (s *Set) Values() map[string]ir.Value {
	out := make(map[string]ir.Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Raw returns the values as plain Go scalars, suitable for feeding back to
// Validate.
func (s *Set) Raw() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = plain(v)
	}
	return out
}

// MarshalJSON implements json.Marshaler using canonical serialization.
func (s *Set) MarshalJSON() ([]byte, error) {
	return ir.MarshalCanonical(s.values)
}

// Hash returns the content-addressed identity of the set.
func (s *Set) Hash() (string, error) {
	return ir.ParamsHash(s.values)
}
