package harness

import "github.com/roach88/graphsmith/internal/ir"

// TraceEvent is one stage of a build as seen by the harness.
type TraceEvent struct {
	Stage   string   `json:"stage"`
	Enabled bool     `json:"enabled"`
	Nodes   []string `json:"nodes,omitempty"`
	Head    string   `json:"head,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Trace contains every stage in run order, enabled or not.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Document and Hash are set when the build succeeded.
	Document ir.Document `json:"-"`
	Hash     string      `json:"hash,omitempty"`

	// Code is the error code of a failed build.
	Code string `json:"code,omitempty"`

	// Fields lists rejected parameters of a failed build.
	Fields []string `json:"fields,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Enabled returns the names of stages that ran.
func (r *Result) Enabled() []string {
	out := []string{}
	for _, ev := range r.Trace {
		if ev.Enabled {
			out = append(out, ev.Stage)
		}
	}
	return out
}
