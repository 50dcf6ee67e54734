package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/graphsmith/internal/graph"
	"github.com/roach88/graphsmith/internal/params"
	"github.com/roach88/graphsmith/internal/recipes"
	"github.com/roach88/graphsmith/internal/store"
	"github.com/roach88/graphsmith/internal/testutil"
	"github.com/roach88/graphsmith/internal/workflow"
)

// Harness is the test execution engine.
// It builds scenarios with per-append verification and records every
// successful build so the "recorded" assertion can check reproducibility.
type Harness struct {
	registry *workflow.Registry
	store    *store.Store
	logger   *slog.Logger
}

type runConfig struct {
	registry *workflow.Registry
	logger   *slog.Logger
}

// Option configures Run.
type Option func(*runConfig)

// WithRegistry builds scenarios against reg instead of the built-in recipes.
func WithRegistry(reg *workflow.Registry) Option {
	return func(c *runConfig) { c.registry = reg }
}

// WithLogger receives stage debug records.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) { c.logger = l }
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Look up the recipe
// 2. Build it from the scenario params
// 3. Compare the outcome with expect, or evaluate every assertion
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{
		registry: recipes.Registry(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	st, err := store.Open(":memory:", store.WithIDGenerator(testutil.NewFixedIDGenerator("").Generate))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{registry: cfg.registry, store: st, logger: cfg.logger}
	return h.run(context.Background(), scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	d, err := h.registry.Get(scenario.Recipe)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	built, err := d.Build(scenario.Params,
		workflow.WithLogger(h.logger),
		workflow.WithVerify(graph.VerifyEachAppend),
	)
	if err != nil {
		result.Code = workflow.ErrorCode(err)
		if errs, ok := params.AsValidationErrors(err); ok {
			result.Fields = errs.Fields()
		}
		if scenario.Expect == nil {
			result.AddError(fmt.Sprintf("build failed: %v", err))
			return result, nil
		}
		h.checkExpect(scenario.Expect, result)
		return result, nil
	}

	for _, rec := range built.Trace {
		result.Trace = append(result.Trace, TraceEvent{
			Stage:   rec.Name,
			Enabled: rec.Enabled,
			Nodes:   rec.Nodes,
			Head:    rec.Head,
		})
	}
	result.Document = built.Document
	result.Hash = built.Hash

	if scenario.Expect != nil {
		result.AddError(fmt.Sprintf("expected error %s, build succeeded", scenario.Expect.Error))
		return result, nil
	}

	for i, assertion := range scenario.Assertions {
		var err error
		if assertion.Type == AssertRecorded {
			err = h.assertRecorded(ctx, d, built)
		} else {
			err = evaluate(result, assertion)
		}
		if err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	return result, nil
}

func (h *Harness) checkExpect(expect *ExpectClause, result *Result) {
	if result.Code != expect.Error {
		result.AddError(fmt.Sprintf("error code = %q, want %q", result.Code, expect.Error))
	}
	if len(expect.Fields) > 0 && !slices.Equal(result.Fields, expect.Fields) {
		result.AddError(fmt.Sprintf("rejected fields = %v, want %v", result.Fields, expect.Fields))
	}
}

// assertRecorded stores the build, reads it back by hash and rebuilds it from
// the stored parameters.
func (h *Harness) assertRecorded(ctx context.Context, d *workflow.Descriptor, built *workflow.Result) error {
	rec, err := store.FromResult("", built)
	if err != nil {
		return err
	}
	if _, err := h.store.Record(ctx, rec); err != nil {
		return err
	}
	stored, err := h.store.Get(ctx, built.Hash)
	if err != nil {
		return err
	}
	raw, err := stored.RawParams()
	if err != nil {
		return err
	}
	again, err := d.Build(raw)
	if err != nil {
		return fmt.Errorf("rebuild from stored params: %w", err)
	}
	if again.Hash != stored.DocHash {
		return &AssertionError{
			Type:     AssertRecorded,
			Expected: "rebuild hash " + stored.DocHash,
			Actual:   again.Hash,
		}
	}
	return nil
}
