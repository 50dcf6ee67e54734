package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/graphsmith/internal/workflow"
)

// RecipeSummary is one row of the list command.
type RecipeSummary struct {
	Name    string   `json:"name"`
	Summary string   `json:"summary"`
	Stages  []string `json:"stages"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	descriptors := opts.registry().List()
	rows := make([]RecipeSummary, len(descriptors))
	for i, d := range descriptors {
		rows[i] = summarize(d)
	}

	if f.Format == "json" {
		return f.Success(rows)
	}
	for _, r := range rows {
		fmt.Fprintf(f.Writer, "%-28s %s\n", r.Name, r.Summary)
		f.VerboseLog("  stages: %s", strings.Join(r.Stages, " -> "))
	}
	return nil
}

func summarize(d *workflow.Descriptor) RecipeSummary {
	return RecipeSummary{Name: d.Name, Summary: d.Summary, Stages: d.StageNames()}
}
