package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpecCUE(t *testing.T) {
	spec := MustSpec(
		String("prompt", Required(), Describe("Text prompt")),
		Int("width", Default(1024), Range(256, 2048), MultipleOf(8)),
		Float("cfg", Default(4.5), Min(0)),
		Enum("scheduler", Choices{"simple", "karras"}, Default("karras")),
		Bool("enable_face"),
		Int("seed", Generate(RandomSeed), Range(0, 10)),
	)

	want := `import "math"

#Input: {
	// Text prompt
	prompt!: string
	width?: *1024 | int & >=256 & <=2048 & math.MultipleOf(8)
	cfg?: *4.5 | number & >=0
	scheduler?: *"karras" | "simple"
	enable_face?: *false | bool
	seed?: int & >=0 & <=10
}
`
	assert.Equal(t, want, spec.CUE())
}

func TestSpecCUEOmitsMathImport(t *testing.T) {
	spec := MustSpec(String("prompt", Required()))
	assert.Equal(t, "#Input: {\n\tprompt!: string\n}\n", spec.CUE())
}

func TestCheckCUE(t *testing.T) {
	spec := MustSpec(
		String("prompt", Required()),
		Int("width", Default(1024), Range(256, 2048)),
	)

	assert.NoError(t, spec.CheckCUE(map[string]any{"prompt": "a cat", "width": 512}))
	assert.NoError(t, spec.CheckCUE(map[string]any{"prompt": "a cat", "width": 512.0}))
	assert.Error(t, spec.CheckCUE(map[string]any{"prompt": "a cat", "width": 100}))
	assert.Error(t, spec.CheckCUE(map[string]any{"prompt": 5}))
}
