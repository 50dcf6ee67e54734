package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult is the payload of a successful validate.
type ValidationResult struct {
	Valid  bool           `json:"valid"`
	Recipe string         `json:"recipe"`
	Params map[string]any `json:"params"`
	Hash   string         `json:"params_hash"`
}

type paramFlags struct {
	input string
	sets  []string
}

func (p *paramFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.input, "input", "i", "", "parameter file (.json, .yaml, .yml or .cue)")
	cmd.Flags().StringArrayVar(&p.sets, "set", nil, "override a parameter (key=value, repeatable)")
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		pf    paramFlags
		cueOn bool
	)

	cmd := &cobra.Command{
		Use:   "validate <recipe>",
		Short: "Validate parameters without building",
		Long: `Validate parameters against a recipe without assembling a graph.

Every rejected field is reported at once. With --cue the input is also
checked against the recipe's CUE definition.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], pf, cueOn, cmd)
		},
	}
	pf.register(cmd)
	cmd.Flags().BoolVar(&cueOn, "cue", false, "also check the input with the CUE evaluator")

	return cmd
}

func runValidate(opts *RootOptions, name string, pf paramFlags, cueOn bool, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	d, err := opts.recipe(f, name)
	if err != nil {
		return err
	}

	raw, err := readParams(pf.input, pf.sets)
	if err != nil {
		return outputLoadError(f, err)
	}

	set, err := d.Spec.Validate(raw)
	if err != nil {
		return outputBuildError(f, err)
	}

	if cueOn {
		if err := d.Spec.CheckCUE(raw); err != nil {
			_ = f.Error(ErrCodeCUECheck, err.Error(), nil)
			return WrapExitError(ExitFailure, ErrCodeCUECheck, err)
		}
		f.VerboseLog("cue check passed")
	}

	hash, err := set.Hash()
	if err != nil {
		return outputCommandError(f, ErrCodeGeneric, err.Error(), nil)
	}

	if f.Format == "json" {
		return f.Success(ValidationResult{Valid: true, Recipe: d.Name, Params: set.Raw(), Hash: hash})
	}
	fmt.Fprintf(f.Writer, "✓ %s parameters valid\n", d.Name)
	return nil
}

func outputLoadError(f *OutputFormatter, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return outputCommandError(f, le.Code, le.Message, nil)
	}
	return outputCommandError(f, ErrCodeGeneric, err.Error(), nil)
}
