package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphsmith/internal/ir"
)

func TestDefaultParses(t *testing.T) {
	c := Default()
	require.NotNil(t, c)
	assert.Same(t, c, Default(), "default catalog is parsed once")
}

func TestOutputs(t *testing.T) {
	c := Default()

	tests := []struct {
		kind string
		n    int
	}{
		{"CheckpointLoaderSimple", 3},
		{"KSampler", 1},
		{"KSampler (Efficient)", 6},
		{"easy hiresFix", 3},
		{"InstructPixToPixConditioning", 3},
		{"UltralyticsDetectorProvider", 2},
		{"SaveImage", 0},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			n, ok := c.Outputs(tt.kind)
			require.True(t, ok)
			assert.Equal(t, tt.n, n)
		})
	}

	_, ok := c.Outputs("NotARealNode")
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	c := Default()

	op, ok := c.Lookup("VAEDecode")
	require.True(t, ok)
	assert.Equal(t, "sample", op.Category)
	assert.Equal(t, []string{"IMAGE"}, op.Outputs)

	op.Outputs[0] = "mutated"
	again, _ := c.Lookup("VAEDecode")
	assert.Equal(t, "IMAGE", again.Outputs[0])

	assert.True(t, c.Supports("SaveImage"))
	assert.False(t, c.Supports("saveimage"))
}

func TestKindsDeclarationOrder(t *testing.T) {
	kinds := Default().Kinds()
	require.NotEmpty(t, kinds)
	assert.Equal(t, "CheckpointLoaderSimple", kinds[0])
	assert.Equal(t, "SaveImage", kinds[len(kinds)-1])
}

func TestPreset(t *testing.T) {
	c := Default()

	p, ok := c.Preset("face_detailer")
	require.True(t, ok)
	assert.Equal(t, "FaceDetailer", p.Kind)
	assert.Equal(t, ir.Int(1024), p.Inputs["max_size"])
	assert.Equal(t, ir.Float(0.93), p.Inputs["sam_threshold"])
	assert.Equal(t, ir.String("False"), p.Inputs["sam_mask_hint_use_negative"])
	assert.Equal(t, ir.Bool(true), p.Inputs["force_inpaint"])

	p.Inputs["max_size"] = ir.Int(1)
	again, _ := c.Preset("face_detailer")
	assert.Equal(t, ir.Int(1024), again.Inputs["max_size"])

	_, ok = c.Preset("missing")
	assert.False(t, ok)
}

func TestPresetsReferenceKnownKinds(t *testing.T) {
	c := Default()
	for _, name := range c.Presets() {
		p, _ := c.Preset(name)
		assert.True(t, c.Supports(p.Kind), "preset %s", name)
	}
}

func TestParseRejectsDuplicateKind(t *testing.T) {
	src := `
operations: [
	{kind: "A", category: "loader", outputs: ["X"]},
	{kind: "A", category: "loader", outputs: ["Y"]},
]
`
	_, err := Parse([]byte(src), "dup.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate operation kind")
}

func TestParseRejectsPresetWithUnknownKind(t *testing.T) {
	src := `
operations: [{kind: "A", category: "loader", outputs: ["X"]}]
presets: [{name: "p", kind: "B", inputs: {x: 1}}]
`
	_, err := Parse([]byte(src), "preset.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestParseRejectsInvalidCUE(t *testing.T) {
	_, err := Parse([]byte(`operations: [`), "bad.cue")
	require.Error(t, err)

	var le *LoadError
	assert.ErrorAs(t, err, &le)
}
