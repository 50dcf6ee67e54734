package testutil

// FixedIDGenerator generates the same identifier every time.
//
// Used in place of uuid.NewString for build record ids and envelope client
// ids so golden output is byte-identical across runs.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a fixed id generator.
//
// If id is empty, Generate() returns "00000000-0000-0000-0000-000000000001".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "00000000-0000-0000-0000-000000000001"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed id.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
