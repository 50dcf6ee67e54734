package params

import (
	"github.com/roach88/graphsmith/internal/ir"
)

// Field declares one parameter.
type Field struct {
	Name        string
	Kind        Kind
	Required    bool
	Min         *float64 // inclusive
	Max         *float64 // inclusive
	Step        float64  // value must be a multiple of Step when non-zero
	Allowed     Choices  // enum only
	Default     ir.Value
	Generator   Generator
	Description string

	declErr error
}

// Option configures a Field at declaration.
type Option func(*Field)

// Int declares an integer field.
func Int(name string, opts ...Option) Field {
	return newField(name, KindInt, opts)
}

// Float declares a floating point field. Integers are accepted.
func Float(name string, opts ...Option) Field {
	return newField(name, KindFloat, opts)
}

// Bool declares a boolean field. Optional booleans default to false.
func Bool(name string, opts ...Option) Field {
	return newField(name, KindBool, opts)
}

// String declares a free text field. Optional strings default to "".
func String(name string, opts ...Option) Field {
	return newField(name, KindString, opts)
}

// Enum declares a string field restricted to choices.
func Enum(name string, choices Choices, opts ...Option) Field {
	f := newField(name, KindEnum, opts)
	f.Allowed = append(Choices(nil), choices...)
	return f
}

func newField(name string, kind Kind, opts []Option) Field {
	f := Field{Name: name, Kind: kind}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Required marks the field as mandatory.
func Required() Option {
	return func(f *Field) { f.Required = true }
}

// Default sets a literal default. Integral values given to a float field
// are stored as floats.
func Default(v any) Option {
	return func(f *Field) {
		val, err := ir.FromAny(v)
		if err != nil {
			f.declErr = err
			return
		}
		f.Default = val
	}
}

// Generate sets a default computed once per validation.
func Generate(g Generator) Option {
	return func(f *Field) { f.Generator = g }
}

// Min sets an inclusive lower bound.
func Min(v float64) Option {
	return func(f *Field) { f.Min = &v }
}

// Max sets an inclusive upper bound.
func Max(v float64) Option {
	return func(f *Field) { f.Max = &v }
}

// Range sets inclusive lower and upper bounds.
func Range(lo, hi float64) Option {
	return func(f *Field) {
		f.Min = &lo
		f.Max = &hi
	}
}

// MultipleOf requires the value to be an integer multiple of step.
func MultipleOf(step float64) Option {
	return func(f *Field) { f.Step = step }
}

// Describe sets the human readable description.
func Describe(text string) Option {
	return func(f *Field) { f.Description = text }
}

// implicitDefault is the default used for optional fields that declare none.
func (f Field) implicitDefault() (ir.Value, bool) {
	switch f.Kind {
	case KindString:
		return ir.String(""), true
	case KindBool:
		return ir.Bool(false), true
	}
	return nil, false
}
