package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphsmith/internal/ir"
)

func TestCheckIntegrityReasons(t *testing.T) {
	tests := []struct {
		name   string
		nodes  []ir.Node
		reason string
		from   string
		to     string
	}{
		{
			name: "missing target",
			nodes: []ir.Node{
				{ID: "1", Kind: "KSampler", Inputs: ir.Inputs{"model": ir.Out("5", 0)}},
			},
			reason: ReasonMissing, from: "1", to: "5",
		},
		{
			name: "forward reference",
			nodes: []ir.Node{
				{ID: "1", Kind: "VAEDecode", Inputs: ir.Inputs{"samples": ir.Out("2", 0)}},
				{ID: "2", Kind: "KSampler", Inputs: ir.Inputs{}},
			},
			reason: ReasonForward, from: "1", to: "2",
		},
		{
			name: "self reference",
			nodes: []ir.Node{
				{ID: "1", Kind: "KSampler", Inputs: ir.Inputs{"model": ir.Out("1", 0)}},
			},
			reason: ReasonSelf, from: "1", to: "1",
		},
		{
			name: "slot out of range",
			nodes: []ir.Node{
				{ID: "1", Kind: "CheckpointLoaderSimple", Inputs: ir.Inputs{}},
				{ID: "2", Kind: "CLIPTextEncode", Inputs: ir.Inputs{"clip": ir.Out("1", 3)}},
			},
			reason: ReasonSlot, from: "2", to: "1",
		},
		{
			name: "negative slot",
			nodes: []ir.Node{
				{ID: "1", Kind: "CheckpointLoaderSimple", Inputs: ir.Inputs{}},
				{ID: "2", Kind: "CLIPTextEncode", Inputs: ir.Inputs{"clip": ir.Out("1", -1)}},
			},
			reason: ReasonSlot, from: "2", to: "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDocument(ir.Document{Nodes: tt.nodes}, testCatalog)
			require.Error(t, err)

			var rie *ReferentialIntegrityError
			require.ErrorAs(t, err, &rie)
			assert.Equal(t, tt.reason, rie.Reason)
			assert.Equal(t, tt.from, rie.FromNode)
			assert.Equal(t, tt.to, rie.ToNode)
			assert.Equal(t, ErrCodeIntegrity, rie.Code())
			assert.Contains(t, err.Error(), ErrCodeIntegrity)
		})
	}
}

func TestCheckIntegrityValidGraph(t *testing.T) {
	g := New(WithCatalog(testCatalog))
	g, ckpt := mustAppend(t, g, "CheckpointLoaderSimple", nil)
	g, pos := mustAppend(t, g, "CLIPTextEncode", ir.Inputs{"clip": ir.Out(ckpt, 1)})
	g, ks := mustAppend(t, g, "KSampler", ir.Inputs{"model": ir.Out(ckpt, 0), "positive": ir.Out(pos, 0)})
	g, dec := mustAppend(t, g, "VAEDecode", ir.Inputs{"samples": ir.Out(ks, 0), "vae": ir.Out(ckpt, 2)})
	g, _ = mustAppend(t, g, "SaveImage", ir.Inputs{"images": ir.Out(dec, 0)})

	assert.NoError(t, CheckIntegrity(g))
}

func TestCheckIntegrityReferenceToTerminalSlot(t *testing.T) {
	g := New(WithCatalog(testCatalog))
	g, save := mustAppend(t, g, "SaveImage", nil)
	g, _ = mustAppend(t, g, "VAEDecode", ir.Inputs{"samples": ir.Out(save, 0)})

	err := CheckIntegrity(g)
	var rie *ReferentialIntegrityError
	require.ErrorAs(t, err, &rie)
	assert.Equal(t, ReasonSlot, rie.Reason)
}

func TestCheckIntegrityWithoutCatalogSkipsSlotRange(t *testing.T) {
	g := New()
	g, a := mustAppend(t, g, "A", nil)
	g, _ = mustAppend(t, g, "B", ir.Inputs{"in": ir.Out(a, 42)})

	assert.NoError(t, CheckIntegrity(g))
}

func TestCheckDocumentUnknownKind(t *testing.T) {
	doc := ir.Document{Nodes: []ir.Node{{ID: "1", Kind: "Mystery", Inputs: ir.Inputs{}}}}

	err := CheckDocument(doc, testCatalog)
	assert.True(t, IsUnsupportedError(err))
	assert.NoError(t, CheckDocument(doc, nil))
}

func TestCheckIntegrityReportsFirstFailureInOrder(t *testing.T) {
	doc := ir.Document{Nodes: []ir.Node{
		{ID: "1", Kind: "A", Inputs: ir.Inputs{"b": ir.Out("8", 0), "a": ir.Out("9", 0)}},
		{ID: "2", Kind: "B", Inputs: ir.Inputs{"x": ir.Out("7", 0)}},
	}}

	err := CheckDocument(doc, nil)
	var rie *ReferentialIntegrityError
	require.ErrorAs(t, err, &rie)
	assert.Equal(t, "1", rie.FromNode)
	assert.Equal(t, "a", rie.Port, "ports are checked in sorted order")
}

func TestTerminalErrorMessage(t *testing.T) {
	err := &ReferentialIntegrityError{Reason: ReasonTerminal, ToNode: "SaveImage", Slot: 2}
	assert.Equal(t, `[E301] expected exactly one terminal "SaveImage" node, found 2`, err.Error())
	assert.True(t, IsIntegrityError(err))
}
