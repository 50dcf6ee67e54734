package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphsmith/internal/graph"
	"github.com/roach88/graphsmith/internal/ir"
	"github.com/roach88/graphsmith/internal/params"
)

func TestStateWithWireCopies(t *testing.T) {
	base := NewState(graph.New()).WithWire("model", ir.Out("1", 0))
	next := base.WithWire("model", ir.Out("4", 0))

	ref, err := base.Wire("model")
	require.NoError(t, err)
	assert.Equal(t, ir.Out("1", 0), ref)

	ref, err = next.Wire("model")
	require.NoError(t, err)
	assert.Equal(t, ir.Out("4", 0), ref)
}

func TestStateMissingWire(t *testing.T) {
	s := NewState(graph.New()).WithWire("vae", ir.Out("2", 0)).WithWire("clip", ir.Out("1", 1))

	_, err := s.Wire("model")
	require.Error(t, err)

	var mw *MissingWireError
	require.ErrorAs(t, err, &mw)
	assert.Equal(t, "model", mw.Wire)
	assert.Equal(t, []string{"clip", "vae"}, mw.Bound)
}

func TestStateLookup(t *testing.T) {
	s := NewState(graph.New()).WithWire("a", ir.Out("1", 0)).WithWire("b", ir.Out("2", 0))

	refs, err := s.Lookup("b", "a")
	require.NoError(t, err)
	assert.Equal(t, []ir.Ref{ir.Out("2", 0), ir.Out("1", 0)}, refs)

	_, err = s.Lookup("a", "c")
	assert.Error(t, err)
}

func TestStateAddKeepsReceiver(t *testing.T) {
	s := NewState(graph.New())
	next, id, err := s.Add("A", nil)
	require.NoError(t, err)

	assert.Equal(t, "1", id)
	assert.Equal(t, 0, s.Graph.Len())
	assert.Equal(t, 1, next.Graph.Len())
}

func TestPredicates(t *testing.T) {
	set, err := testSpec.Validate(map[string]any{"prompt": "p", "upscale": true, "lora": "x.safetensors"})
	require.NoError(t, err)

	assert.True(t, Flag("upscale")(set))
	assert.False(t, Flag("detail")(set))
	assert.True(t, NonEmpty("lora")(set))
	assert.True(t, All(Flag("upscale"), NonEmpty("lora"))(set))
	assert.False(t, All(Flag("upscale"), Flag("detail"))(set))
	assert.True(t, Any(Flag("detail"), NonEmpty("lora"))(set))
	assert.False(t, Any(Flag("detail"))(set))
	assert.True(t, Not(Flag("detail"))(set))
}

func TestRequiredAlwaysEnabled(t *testing.T) {
	st := Required("x", func(s State, _ *params.Set) (State, error) { return s, nil })
	assert.Equal(t, "x", st.Name())
	assert.True(t, st.Enabled(nil))
}
