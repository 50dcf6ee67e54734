package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	return Document{Nodes: []Node{
		{ID: "1", Kind: "UNETLoader", Inputs: Inputs{"unet_name": String("qwen.safetensors"), "weight_dtype": String("default")}},
		{ID: "2", Kind: "ModelSamplingAuraFlow", Inputs: Inputs{"model": Out("1", 0), "shift": Float(3.1)}},
		{ID: "3", Kind: "KSampler", Inputs: Inputs{"model": Out("2", 0), "steps": Int(20), "denoise": Float(1)}},
	}}
}

func TestDocumentLookup(t *testing.T) {
	doc := sampleDocument()

	n, ok := doc.Lookup("2")
	require.True(t, ok)
	assert.Equal(t, "ModelSamplingAuraFlow", n.Kind)

	_, ok = doc.Lookup("9")
	assert.False(t, ok)
}

func TestDocumentQueries(t *testing.T) {
	doc := sampleDocument()

	assert.Equal(t, 3, doc.Len())
	assert.Equal(t, []string{"UNETLoader", "ModelSamplingAuraFlow", "KSampler"}, doc.Kinds())
	require.Len(t, doc.OfKind("KSampler"), 1)
	assert.Empty(t, doc.OfKind("VAEDecode"))

	v, ok := doc.Nodes[2].Input("steps")
	require.True(t, ok)
	assert.Equal(t, Int(20), v)
}

func TestDocumentMarshalJSON(t *testing.T) {
	doc := Document{Nodes: []Node{
		{ID: "1", Kind: "A", Inputs: Inputs{"v": Int(1)}},
		{ID: "2", Kind: "B", Inputs: Inputs{"in": Out("1", 0)}},
	}}

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":{"class_type":"A","inputs":{"v":1}},"2":{"class_type":"B","inputs":{"in":["1",0]}}}`, string(data))
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := sampleDocument()

	data, err := MarshalCanonical(doc)
	require.NoError(t, err)

	var back Document
	require.NoError(t, json.Unmarshal(data, &back))

	// Float(1) serializes as 1 and comes back as Int.
	want := sampleDocument()
	want.Nodes[2].Inputs["denoise"] = Int(1)
	assert.Equal(t, want, back)
}

func TestDocumentUnmarshalOrdersIDsNumerically(t *testing.T) {
	raw := `{
		"10": {"class_type": "J", "inputs": {}},
		"2":  {"class_type": "B", "inputs": {"x": ["1", 0]}},
		"1":  {"class_type": "A", "inputs": {"s": "hi", "b": true, "f": 0.5}, "_meta": {"title": "first"}}
	}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	require.Len(t, doc.Nodes, 3)
	assert.Equal(t, []string{"A", "B", "J"}, doc.Kinds())
	assert.Equal(t, "first", doc.Nodes[0].Title)
	assert.Equal(t, Inputs{"s": String("hi"), "b": Bool(true), "f": Float(0.5)}, doc.Nodes[0].Inputs)
	assert.Equal(t, Out("1", 0), doc.Nodes[1].Inputs["x"])
}

func TestDocumentUnmarshalRejectsBadReference(t *testing.T) {
	var doc Document
	err := json.Unmarshal([]byte(`{"1":{"class_type":"A","inputs":{"x":["1",0,2]}}}`), &doc)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"1":{"class_type":"A","inputs":{"x":[1,0]}}}`), &doc)
	assert.Error(t, err)
}

func TestEnvelopeMarshalJSON(t *testing.T) {
	env := Envelope{
		ClientID: "c-1",
		Prompt:   Document{Nodes: []Node{{ID: "1", Kind: "A", Inputs: Inputs{}}}},
	}

	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Equal(t, `{"client_id":"c-1","prompt":{"1":{"class_type":"A","inputs":{}}}}`, string(data))
}
