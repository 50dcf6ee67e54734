package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphsmith/internal/ir"
)

func TestNewSpecCoercesFloatDefault(t *testing.T) {
	spec, err := NewSpec(Float("cfg", Default(4), Range(0, 30)))
	require.NoError(t, err)

	f, ok := spec.Field("cfg")
	require.True(t, ok)
	assert.Equal(t, ir.Float(4), f.Default)
}

func TestNewSpecImplicitDefaults(t *testing.T) {
	spec, err := NewSpec(String("negative"), Bool("enable_face"))
	require.NoError(t, err)

	neg, _ := spec.Field("negative")
	assert.Equal(t, ir.String(""), neg.Default)
	face, _ := spec.Field("enable_face")
	assert.Equal(t, ir.Bool(false), face.Default)
}

func TestNewSpecRejectsBadDeclarations(t *testing.T) {
	tests := []struct {
		name  string
		field Field
	}{
		{"default below min", Int("width", Default(100), Min(256))},
		{"default not multiple", Int("width", Default(1000), MultipleOf(64))},
		{"default not allowed", Enum("scheduler", Schedulers(), Default("euler"))},
		{"default wrong kind", Int("steps", Default("twenty"))},
		{"min above max", Int("steps", Default(1), Range(10, 5))},
		{"bounds on string", String("prompt", Required(), Min(1))},
		{"required with default", String("prompt", Required(), Default("x"))},
		{"optional int without default", Int("steps")},
		{"empty enum", Enum("mode", nil, Default("a"))},
		{"bad name", Int("Width", Default(1))},
		{"negative step", Int("width", Default(8), MultipleOf(-8))},
		{"default and generator", Int("seed", Default(1), Generate(RandomSeed))},
		{"null default", String("x", Default(nil))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSpec(tt.field)
			require.Error(t, err)

			var decl *DeclarationError
			assert.ErrorAs(t, err, &decl)
			assert.Equal(t, tt.field.Name, decl.Field)
		})
	}
}

func TestNewSpecRejectsDuplicates(t *testing.T) {
	_, err := NewSpec(String("prompt", Required()), String("prompt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field")
}

func TestMustSpecPanics(t *testing.T) {
	assert.Panics(t, func() { MustSpec(Int("steps")) })
}

func TestSpecNamesKeepOrder(t *testing.T) {
	spec := MustSpec(
		String("prompt", Required()),
		Int("width", Default(1024)),
		Int("height", Default(1024)),
	)

	assert.Equal(t, []string{"prompt", "width", "height"}, spec.Names())
	assert.Equal(t, 3, spec.Len())
}

func TestSpecFieldReturnsCopy(t *testing.T) {
	spec := MustSpec(Enum("sampler", Samplers(), Default("euler")))

	f, ok := spec.Field("sampler")
	require.True(t, ok)
	f.Allowed[0] = "mutated"

	again, _ := spec.Field("sampler")
	assert.Equal(t, "euler", again.Allowed[0])

	_, ok = spec.Field("missing")
	assert.False(t, ok)
}

func TestEnumCopiesChoices(t *testing.T) {
	choices := Choices{"a", "b"}
	spec := MustSpec(Enum("mode", choices, Default("a")))
	choices[1] = "z"

	_, err := spec.Validate(map[string]any{"mode": "b"})
	assert.NoError(t, err)
}

func TestFieldsIntrospection(t *testing.T) {
	spec := MustSpec(
		String("prompt", Required(), Describe("Text prompt")),
		Int("width", Default(1024), Range(256, 2048), MultipleOf(8)),
		Enum("scheduler", Choices{"simple", "karras"}, Default("simple")),
		Int("seed", Generate(RandomSeed), Range(0, SeedLimit-1)),
	)

	infos := spec.Fields()
	require.Len(t, infos, 4)

	assert.Equal(t, FieldInfo{Name: "prompt", Kind: "string", Required: true, Description: "Text prompt"}, infos[0])

	width := infos[1]
	assert.Equal(t, "int", width.Kind)
	require.NotNil(t, width.Min)
	require.NotNil(t, width.Max)
	assert.Equal(t, 256.0, *width.Min)
	assert.Equal(t, 2048.0, *width.Max)
	assert.Equal(t, 8.0, width.MultipleOf)
	assert.Equal(t, int64(1024), width.Default)

	assert.Equal(t, []string{"simple", "karras"}, infos[2].Allowed)
	assert.Equal(t, "simple", infos[2].Default)

	assert.True(t, infos[3].Generated)
	assert.Nil(t, infos[3].Default)
}
