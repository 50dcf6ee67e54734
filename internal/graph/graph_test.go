package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphsmith/internal/ir"
)

type fakeCatalog map[string]int

func (c fakeCatalog) Outputs(kind string) (int, bool) {
	n, ok := c[kind]
	return n, ok
}

var testCatalog = fakeCatalog{
	"CheckpointLoaderSimple": 3,
	"CLIPTextEncode":         1,
	"KSampler":               1,
	"VAEDecode":              1,
	"SaveImage":              0,
}

func mustAppend(t *testing.T, g *Graph, kind string, inputs ir.Inputs, opts ...NodeOption) (*Graph, string) {
	t.Helper()
	next, id, err := g.Append(kind, inputs, opts...)
	require.NoError(t, err)
	return next, id
}

func TestAppendAllocatesMonotonicIDs(t *testing.T) {
	g := New()
	g, a := mustAppend(t, g, "A", nil)
	g, b := mustAppend(t, g, "B", ir.Inputs{"in": ir.Out(a, 0)})
	g, c := mustAppend(t, g, "C", ir.Inputs{"in": ir.Out(b, 0)})

	assert.Equal(t, []string{"1", "2", "3"}, []string{a, b, c})
	assert.Equal(t, 3, g.Len())
}

func TestAppendIsPure(t *testing.T) {
	base := New()
	base, _ = mustAppend(t, base, "A", nil)

	left, leftID := mustAppend(t, base, "B", nil)
	right, rightID := mustAppend(t, base, "C", nil)

	assert.Equal(t, 1, base.Len(), "receiver must not change")
	assert.Equal(t, "2", leftID)
	assert.Equal(t, "2", rightID)

	l, _ := left.Node("2")
	r, _ := right.Node("2")
	assert.Equal(t, "B", l.Kind)
	assert.Equal(t, "C", r.Kind)
}

func TestAppendStoresInputsAsGiven(t *testing.T) {
	in := ir.Inputs{"steps": ir.Int(20), "title": ir.String("x")}
	g, id := mustAppend(t, New(), "KSampler", in, Title("KSampler"))

	in["steps"] = ir.Int(99)

	n, ok := g.Node(id)
	require.True(t, ok)
	assert.Equal(t, ir.Inputs{"steps": ir.Int(20), "title": ir.String("x")}, n.Inputs)
	assert.Equal(t, "KSampler", n.Title)
}

func TestAppendUnknownKindWithCatalog(t *testing.T) {
	g := New(WithCatalog(testCatalog))

	_, _, err := g.Append("Teleport", nil)
	require.Error(t, err)

	var unsupported *UnsupportedOperationError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "Teleport", unsupported.Kind)
	assert.True(t, IsUnsupportedError(err))
	assert.Equal(t, ErrCodeUnsupported, unsupported.Code())
}

func TestAppendEmptyKind(t *testing.T) {
	_, _, err := New().Append("", nil)
	assert.True(t, IsUnsupportedError(err))
}

func TestAppendWithoutCatalogAcceptsAnyKind(t *testing.T) {
	_, id, err := New().Append("AnythingGoes", nil)
	require.NoError(t, err)
	assert.Equal(t, "1", id)
	assert.Nil(t, New().Catalog())
}

func TestVerifyEachAppendRejectsDanglingReference(t *testing.T) {
	g := New(WithVerify(VerifyEachAppend))
	g, _ = mustAppend(t, g, "A", nil)

	_, _, err := g.Append("B", ir.Inputs{"in": ir.Out("7", 0)})
	require.Error(t, err)

	var rie *ReferentialIntegrityError
	require.ErrorAs(t, err, &rie)
	assert.Equal(t, "2", rie.FromNode)
	assert.Equal(t, "7", rie.ToNode)
	assert.Equal(t, "in", rie.Port)
	assert.Equal(t, ReasonMissing, rie.Reason)
}

func TestVerifyOnFinishDefersChecks(t *testing.T) {
	g := New()
	assert.Equal(t, VerifyOnFinish, g.Verify())

	g, _ = mustAppend(t, g, "B", ir.Inputs{"in": ir.Out("9", 0)})

	_, err := g.Finish()
	assert.True(t, IsIntegrityError(err))
}

func TestFinishReturnsDocument(t *testing.T) {
	g := New(WithCatalog(testCatalog))
	g, ckpt := mustAppend(t, g, "CheckpointLoaderSimple", ir.Inputs{"ckpt_name": ir.String("m.safetensors")})
	g, _ = mustAppend(t, g, "CLIPTextEncode", ir.Inputs{"clip": ir.Out(ckpt, 1), "text": ir.String("a cat")})

	doc, err := g.Finish()
	require.NoError(t, err)
	assert.Equal(t, []string{"CheckpointLoaderSimple", "CLIPTextEncode"}, doc.Kinds())
}

func TestNodesReturnsCopy(t *testing.T) {
	g, _ := mustAppend(t, New(), "A", nil)
	nodes := g.Nodes()
	nodes[0].Kind = "mutated"

	n, _ := g.Node("1")
	assert.Equal(t, "A", n.Kind)

	_, ok := g.Node("2")
	assert.False(t, ok)
}

func TestVerifyModeString(t *testing.T) {
	assert.Equal(t, "on-finish", VerifyOnFinish.String())
	assert.Equal(t, "each-append", VerifyEachAppend.String())
}
