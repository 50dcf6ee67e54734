package workflow

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/graphsmith/internal/graph"
	"github.com/roach88/graphsmith/internal/ir"
	"github.com/roach88/graphsmith/internal/params"
	"github.com/roach88/graphsmith/internal/pipeline"
)

// Descriptor is a recipe: metadata, parameter spec and stages.
type Descriptor struct {
	Name        string           `validate:"required,recipe_name"`
	Summary     string           `validate:"required,max=160"`
	Description string           `validate:"max=4000"`
	Spec        *params.Spec     `validate:"required"`
	Stages      []pipeline.Stage `validate:"required,min=1"`
	Terminal    pipeline.Stage   `validate:"required"`

	// Catalog restricts operation kinds and enables slot checks. Optional.
	Catalog graph.Catalog
}

// Result is a successful build.
type Result struct {
	Recipe   string
	Document ir.Document
	Params   *params.Set
	Trace    pipeline.Trace
	Hash     string
}

// Envelope wraps the document for queue submission.
func (r *Result) Envelope(clientID string) ir.Envelope {
	return ir.Envelope{ClientID: clientID, Prompt: r.Document}
}

type buildConfig struct {
	logger   *slog.Logger
	verify   graph.VerifyMode
	validate []params.ValidateOption
}

// BuildOption configures a single build.
type BuildOption func(*buildConfig)

// WithLogger sets the logger for validation and stage records.
func WithLogger(l *slog.Logger) BuildOption {
	return func(c *buildConfig) { c.logger = l }
}

// WithVerify selects when references are checked.
func WithVerify(m graph.VerifyMode) BuildOption {
	return func(c *buildConfig) { c.verify = m }
}

// WithValidateOptions passes options through to params.Spec.Validate.
func WithValidateOptions(opts ...params.ValidateOption) BuildOption {
	return func(c *buildConfig) { c.validate = append(c.validate, opts...) }
}

func newBuildConfig(opts []BuildOption) buildConfig {
	cfg := buildConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// Build validates raw and assembles the recipe's document.
//
// Errors are params.ValidationErrors for bad input, or a *pipeline.StageError
// / *graph.ReferentialIntegrityError / *graph.UnsupportedOperationError for
// defects in the recipe itself.
func (d *Descriptor) Build(raw map[string]any, opts ...BuildOption) (*Result, error) {
	cfg := newBuildConfig(opts)
	logger := cfg.logger.With("recipe", d.Name)

	set, err := d.Spec.Validate(raw, cfg.validate...)
	if err != nil {
		logger.Debug("validation failed", "error", err)
		return nil, err
	}
	return d.assemble(set, cfg, logger)
}

// BuildSet assembles the document from an already validated set. The set
// must come from this descriptor's spec.
func (d *Descriptor) BuildSet(set *params.Set, opts ...BuildOption) (*Result, error) {
	if set == nil || set.Spec() != d.Spec {
		return nil, fmt.Errorf("recipe %s: parameter set was not validated against this recipe", d.Name)
	}
	cfg := newBuildConfig(opts)
	return d.assemble(set, cfg, cfg.logger.With("recipe", d.Name))
}

func (d *Descriptor) assemble(set *params.Set, cfg buildConfig, logger *slog.Logger) (*Result, error) {
	gopts := []graph.Option{graph.WithVerify(cfg.verify)}
	if d.Catalog != nil {
		gopts = append(gopts, graph.WithCatalog(d.Catalog))
	}

	stages := append(slices.Clip(d.Stages), d.Terminal)
	state, trace, err := pipeline.Run(pipeline.NewState(graph.New(gopts...)), set, stages, pipeline.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	doc, err := state.Graph.Finish()
	if err != nil {
		logger.Debug("integrity check failed", "error", err)
		return nil, err
	}
	if err := checkTerminal(doc, state.Terminal); err != nil {
		return nil, err
	}

	hash, err := ir.DocumentHash(doc)
	if err != nil {
		return nil, err
	}
	logger.Debug("built", "nodes", doc.Len(), "hash", hash)

	return &Result{
		Recipe:   d.Name,
		Document: doc,
		Params:   set,
		Trace:    trace,
		Hash:     hash,
	}, nil
}

// checkTerminal requires exactly one node of the terminal's kind.
func checkTerminal(doc ir.Document, id string) error {
	term, ok := doc.Lookup(id)
	if !ok {
		return &graph.ReferentialIntegrityError{Reason: graph.ReasonTerminal, FromNode: id}
	}
	if n := len(doc.OfKind(term.Kind)); n != 1 {
		return &graph.ReferentialIntegrityError{Reason: graph.ReasonTerminal, ToNode: term.Kind, Slot: n}
	}
	return nil
}

// StageNames returns the stage names in run order, terminal last.
func (d *Descriptor) StageNames() []string {
	names := make([]string, 0, len(d.Stages)+1)
	for _, st := range d.Stages {
		names = append(names, st.Name())
	}
	if d.Terminal != nil {
		names = append(names, d.Terminal.Name())
	}
	return names
}

// Without returns a copy of d with the named stage removed. The terminal
// stage cannot be removed.
func (d *Descriptor) Without(name string) (*Descriptor, error) {
	i := slices.IndexFunc(d.Stages, func(st pipeline.Stage) bool { return st.Name() == name })
	if i < 0 {
		return nil, fmt.Errorf("recipe %s: no stage %q", d.Name, name)
	}
	out := *d
	out.Stages = slices.Delete(slices.Clone(d.Stages), i, i+1)
	return &out, nil
}

// Info is the introspection view of a descriptor.
type Info struct {
	Name        string             `json:"name" yaml:"name"`
	Summary     string             `json:"summary" yaml:"summary"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Stages      []string           `json:"stages" yaml:"stages"`
	Fields      []params.FieldInfo `json:"fields" yaml:"fields"`
}

// Info describes d.
func (d *Descriptor) Info() Info {
	return Info{
		Name:        d.Name,
		Summary:     d.Summary,
		Description: d.Description,
		Stages:      d.StageNames(),
		Fields:      d.Spec.Fields(),
	}
}
