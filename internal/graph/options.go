package graph

// Catalog reports the output slot count of an operation kind.
type Catalog interface {
	Outputs(kind string) (int, bool)
}

// VerifyMode selects when references are checked.
type VerifyMode int

const (
	// VerifyOnFinish defers checks to CheckIntegrity.
	VerifyOnFinish VerifyMode = iota
	// VerifyEachAppend also checks a node's references inside Append, so a
	// wiring fault surfaces at the stage that caused it.
	VerifyEachAppend
)

func (m VerifyMode) String() string {
	if m == VerifyEachAppend {
		return "each-append"
	}
	return "on-finish"
}

type config struct {
	catalog Catalog
	verify  VerifyMode
}

// Option configures a new graph.
type Option func(*config)

// WithCatalog restricts operation kinds to those known by c and enables
// slot range checks.
func WithCatalog(c Catalog) Option {
	return func(cfg *config) { cfg.catalog = c }
}

// WithVerify sets the verification mode.
func WithVerify(m VerifyMode) Option {
	return func(cfg *config) { cfg.verify = m }
}

// NodeOption configures one appended node.
type NodeOption func(*nodeConfig)

type nodeConfig struct {
	title string
}

// Title sets the display title serialized under _meta.
func Title(title string) NodeOption {
	return func(c *nodeConfig) { c.title = title }
}
