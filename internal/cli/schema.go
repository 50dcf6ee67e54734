package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	var asCUE bool

	cmd := &cobra.Command{
		Use:   "schema <recipe>",
		Short: "Describe a recipe's parameters",
		Long: `Describe a recipe: metadata, stages and every parameter with its
kind, default and constraints.

With --cue the parameters are printed as a closed CUE definition that
external tooling can use to check input files offline.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(rootOpts, args[0], asCUE, cmd)
		},
	}
	cmd.Flags().BoolVar(&asCUE, "cue", false, "print the parameters as a CUE definition")

	return cmd
}

func runSchema(opts *RootOptions, name string, asCUE bool, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	d, err := opts.recipe(f, name)
	if err != nil {
		return err
	}

	if asCUE {
		if f.Format == "json" {
			return f.Success(map[string]string{"recipe": d.Name, "cue": d.Spec.CUE()})
		}
		fmt.Fprint(f.Writer, d.Spec.CUE())
		return nil
	}

	info := d.Info()
	if f.Format == "json" {
		return f.Success(info)
	}

	// Text mode renders the same view as YAML, which reads well in a terminal.
	out, err := yaml.Marshal(info)
	if err != nil {
		return outputCommandError(f, ErrCodeGeneric, err.Error(), nil)
	}
	fmt.Fprint(f.Writer, strings.TrimRight(string(out), "\n")+"\n")
	return nil
}
