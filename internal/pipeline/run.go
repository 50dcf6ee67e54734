package pipeline

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/graphsmith/internal/graph"
	"github.com/roach88/graphsmith/internal/ir"
	"github.com/roach88/graphsmith/internal/params"
)

// StageRecord is the trace of one stage.
type StageRecord struct {
	Name    string   `json:"name"`
	Enabled bool     `json:"enabled"`
	Nodes   []string `json:"nodes,omitempty"`
	Head    string   `json:"head,omitempty"`
}

// Trace lists every stage in run order.
type Trace []StageRecord

// Enabled returns the names of stages that ran.
func (t Trace) Enabled() []string {
	var out []string
	for _, r := range t {
		if r.Enabled {
			out = append(out, r.Name)
		}
	}
	return out
}

// Stage returns the record of the named stage.
func (t Trace) Stage(name string) (StageRecord, bool) {
	for _, r := range t {
		if r.Name == name {
			return r, true
		}
	}
	return StageRecord{}, false
}

// StageError wraps a failure with the name of the stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type runConfig struct {
	logger *slog.Logger
}

// Option configures Run.
type Option func(*runConfig)

// WithLogger sets the logger used for per-stage debug records.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Run folds stages over s in order. A disabled stage leaves the state
// untouched. The first failing stage stops the run.
func Run(s State, p *params.Set, stages []Stage, opts ...Option) (State, Trace, error) {
	cfg := runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	trace := make(Trace, 0, len(stages))
	for _, st := range stages {
		before := s.Graph.Len()

		next, enabled, err := runStage(st, s, p)
		if err != nil {
			cfg.logger.Debug("stage failed", "stage", st.Name(), "error", err)
			return s, trace, &StageError{Stage: st.Name(), Err: err}
		}

		rec := StageRecord{Name: st.Name(), Enabled: enabled}
		if enabled {
			for _, n := range next.Graph.Nodes()[before:] {
				rec.Nodes = append(rec.Nodes, n.ID)
			}
			if !next.Head.IsZero() {
				rec.Head = next.Head.String()
			}
		}
		trace = append(trace, rec)

		cfg.logger.Debug("stage",
			"stage", st.Name(),
			"enabled", enabled,
			"nodes", len(rec.Nodes),
			"head", rec.Head,
		)
		s = next
	}
	return s, trace, nil
}

// runStage evaluates one stage. A stage reading a parameter its spec does
// not declare panics inside params; that panic becomes an
// UnsupportedOperationError here.
func runStage(st Stage, s State, p *params.Set) (next State, enabled bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			undeclared, ok := r.(*params.UndeclaredError)
			if !ok {
				panic(r)
			}
			err = &graph.UnsupportedOperationError{Param: undeclared.Name, Reason: undeclared.Reason}
		}
	}()

	if !st.Enabled(p) {
		return s, false, nil
	}
	next, err = st.Apply(s, p)
	if err != nil {
		return s, true, err
	}
	return next, true, nil
}

// HeadRef is a convenience for stages: it returns the head or ErrNoHead.
func HeadRef(s State) (ir.Ref, error) {
	if s.Head.IsZero() {
		return ir.Ref{}, ErrNoHead
	}
	return s.Head, nil
}
