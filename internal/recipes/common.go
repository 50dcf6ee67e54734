package recipes

import (
	"github.com/roach88/graphsmith/internal/catalog"
	"github.com/roach88/graphsmith/internal/graph"
	"github.com/roach88/graphsmith/internal/ir"
	"github.com/roach88/graphsmith/internal/params"
	"github.com/roach88/graphsmith/internal/pipeline"
)

// Wire names shared by stages.
const (
	wireModel    = "model"
	wireClip     = "clip"
	wireVAE      = "vae"
	wirePositive = "positive"
	wireNegative = "negative"
	wireLatent   = "latent"
	wireImage    = "image" // prepared source image for edit recipes
)

const saveKind = "SaveImage"

// chain appends nodes to a state and stops at the first failure. Later
// calls become no-ops, so a stage body reads as a straight sequence and
// checks the error once in done.
type chain struct {
	s   pipeline.State
	p   *params.Set
	err error
}

func newChain(s pipeline.State, p *params.Set) *chain {
	return &chain{s: s, p: p}
}

func (c *chain) add(kind, title string, inputs ir.Inputs) string {
	if c.err != nil {
		return ""
	}
	var id string
	c.s, id, c.err = c.s.Add(kind, inputs, graph.Title(title))
	return id
}

// preset appends a node whose fixed inputs come from a catalog preset;
// inputs override the preset.
func (c *chain) preset(name, title string, inputs ir.Inputs) string {
	if c.err != nil {
		return ""
	}
	pr, ok := catalog.Default().Preset(name)
	if !ok {
		c.err = &graph.UnsupportedOperationError{Kind: name, Reason: "unknown preset"}
		return ""
	}
	return c.add(pr.Kind, title, ir.Merge(pr.Inputs, inputs))
}

func (c *chain) wire(name string) ir.Ref {
	if c.err != nil {
		return ir.Ref{}
	}
	ref, err := c.s.Wire(name)
	if err != nil {
		c.err = err
	}
	return ref
}

func (c *chain) head() ir.Ref {
	if c.err != nil {
		return ir.Ref{}
	}
	ref, err := pipeline.HeadRef(c.s)
	if err != nil {
		c.err = err
	}
	return ref
}

func (c *chain) bind(name string, ref ir.Ref) {
	if c.err == nil {
		c.s = c.s.WithWire(name, ref)
	}
}

func (c *chain) setHead(ref ir.Ref) {
	if c.err == nil {
		c.s = c.s.WithHead(ref)
	}
}

// v returns a parameter as a literal input value.
func (c *chain) v(name string) ir.Value {
	return c.p.Value(name)
}

func (c *chain) done() (pipeline.State, error) {
	return c.s, c.err
}

// body adapts a chain function to a stage body.
func body(fn func(c *chain)) pipeline.Func {
	return func(s pipeline.State, p *params.Set) (pipeline.State, error) {
		c := newChain(s, p)
		fn(c)
		return c.done()
	}
}

func required(name string, fn func(c *chain)) pipeline.Stage {
	return pipeline.Required(name, body(fn))
}

func optional(name string, pred pipeline.Predicate, fn func(c *chain)) pipeline.Stage {
	return pipeline.Optional(name, pred, body(fn))
}

func save(prefix string) pipeline.Stage {
	return pipeline.Terminal(saveKind, "images",
		ir.Inputs{"filename_prefix": ir.String(prefix)},
		graph.Title("Save Image"))
}

// sampling returns the seed, step, cfg, sampler and scheduler inputs shared
// by every sampler node.
func (c *chain) sampling(steps, cfg string) ir.Inputs {
	return ir.Inputs{
		"seed":         c.v("seed"),
		"steps":        c.v(steps),
		"cfg":          c.v(cfg),
		"sampler_name": c.v("sampler_name"),
		"scheduler":    c.v("scheduler"),
	}
}

// decode appends a VAEDecode of samples and moves the head to its image.
func (c *chain) decode(title string, samples ir.Ref) {
	dec := c.add("VAEDecode", title, ir.Inputs{
		"samples": samples,
		"vae":     c.wire(wireVAE),
	})
	c.setHead(ir.Out(dec, 0))
}

// Field helpers for parameters most recipes share.

func seedField() params.Field {
	return params.Int("seed",
		params.Generate(params.RandomSeed),
		params.Min(0),
		params.Describe("Seed for random number generation"))
}

func samplerField(def string) params.Field {
	return params.Enum("sampler_name", params.Samplers(),
		params.Default(def),
		params.Describe("Name of the sampler to use"))
}

func schedulerField(def string) params.Field {
	return params.Enum("scheduler", params.Schedulers(),
		params.Default(def),
		params.Describe("Type of scheduler to use"))
}

func stepsField(def int, desc string) params.Field {
	return params.Int("steps", params.Default(def), params.Range(1, 100), params.Describe(desc))
}

func modelField(name, def, desc string) params.Field {
	return params.String(name, params.Default(def), params.Describe(desc))
}
