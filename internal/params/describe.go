package params

import "github.com/roach88/graphsmith/internal/ir"

// FieldInfo is the introspection view of a declared field.
type FieldInfo struct {
	Name        string   `json:"name" yaml:"name"`
	Kind        string   `json:"kind" yaml:"kind"`
	Required    bool     `json:"required" yaml:"required"`
	Min         *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	MultipleOf  float64  `json:"multiple_of,omitempty" yaml:"multiple_of,omitempty"`
	Allowed     []string `json:"allowed,omitempty" yaml:"allowed,omitempty"`
	Default     any      `json:"default,omitempty" yaml:"default,omitempty"`
	Generated   bool     `json:"generated,omitempty" yaml:"generated,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Fields describes every field in declaration order.
func (s *Spec) Fields() []FieldInfo {
	out := make([]FieldInfo, len(s.fields))
	for i, f := range s.fields {
		info := FieldInfo{
			Name:        f.Name,
			Kind:        f.Kind.String(),
			Required:    f.Required,
			MultipleOf:  f.Step,
			Generated:   f.Generator != nil,
			Description: f.Description,
		}
		if f.Min != nil {
			lo := *f.Min
			info.Min = &lo
		}
		if f.Max != nil {
			hi := *f.Max
			info.Max = &hi
		}
		if len(f.Allowed) > 0 {
			info.Allowed = append([]string(nil), f.Allowed...)
		}
		if f.Default != nil {
			info.Default = plain(f.Default)
		}
		out[i] = info
	}
	return out
}

func plain(v ir.Value) any {
	switch val := v.(type) {
	case ir.String:
		return string(val)
	case ir.Int:
		return int64(val)
	case ir.Float:
		return float64(val)
	case ir.Bool:
		return bool(val)
	}
	return nil
}
