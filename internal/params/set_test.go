package params

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphsmith/internal/ir"
)

func validSet(t *testing.T) *Set {
	t.Helper()
	set, err := txt2imgSpec().Validate(map[string]any{"prompt": "a cat", "seed": 5})
	require.NoError(t, err)
	return set
}

func TestSetUndeclaredPanics(t *testing.T) {
	set := validSet(t)

	assert.PanicsWithError(t, `parameter "lora_name": not declared`, func() { set.String("lora_name") })
	assert.False(t, set.Has("lora_name"))
	assert.True(t, set.Has("prompt"))
}

func TestSetWrongAccessorPanics(t *testing.T) {
	set := validSet(t)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		undeclared, ok := r.(*UndeclaredError)
		require.True(t, ok)
		assert.Equal(t, "prompt", undeclared.Name)
	}()
	set.Int("prompt")
}

func TestSetValuesIsCopy(t *testing.T) {
	set := validSet(t)
	values := set.Values()
	values["prompt"] = ir.String("changed")

	assert.Equal(t, "a cat", set.String("prompt"))
	assert.Same(t, set.Spec(), set.Spec())
}

func TestSetRawRevalidates(t *testing.T) {
	set := validSet(t)

	again, err := txt2imgSpec().Validate(set.Raw())
	require.NoError(t, err)
	assert.Equal(t, set.Values(), again.Values())
}

func TestSetMarshalJSONCanonical(t *testing.T) {
	spec := MustSpec(String("prompt", Required()), Int("steps", Default(20)), Float("cfg", Default(4.5)))
	set, err := spec.Validate(map[string]any{"prompt": "x"})
	require.NoError(t, err)

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.Equal(t, `{"cfg":4.5,"prompt":"x","steps":20}`, string(data))
}

func TestSetHashStable(t *testing.T) {
	a, err := validSet(t).Hash()
	require.NoError(t, err)
	b, err := validSet(t).Hash()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
