package pipeline

import (
	"github.com/roach88/graphsmith/internal/graph"
	"github.com/roach88/graphsmith/internal/ir"
	"github.com/roach88/graphsmith/internal/params"
)

// TerminalStageName is the name of stages built by Terminal.
const TerminalStageName = "save"

// Terminal returns the stage that appends the save node. Its port input is
// bound to the final head; fixed supplies the remaining inputs.
func Terminal(kind, port string, fixed ir.Inputs, opts ...graph.NodeOption) Stage {
	fixed = fixed.Clone()
	return Required(TerminalStageName, func(s State, _ *params.Set) (State, error) {
		if s.Head.IsZero() {
			return s, ErrNoHead
		}
		inputs := ir.Merge(fixed, ir.Inputs{port: s.Head})
		s, id, err := s.Add(kind, inputs, opts...)
		if err != nil {
			return s, err
		}
		s.Terminal = id
		return s, nil
	})
}
