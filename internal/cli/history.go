package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/graphsmith/internal/store"
)

// HistoryEntry is one archived build without its document body.
type HistoryEntry struct {
	Seq           int64  `json:"seq"`
	ID            string `json:"id"`
	Recipe        string `json:"recipe"`
	Hash          string `json:"hash"`
	ParamsHash    string `json:"params_hash"`
	EngineVersion string `json:"engine_version"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		recipe string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived builds, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), rootOpts, recipe, limit, cmd)
		},
	}
	cmd.Flags().StringVar(&recipe, "recipe", "", "only builds of this recipe")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of builds (0 for all)")

	return cmd
}

func runHistory(ctx context.Context, opts *RootOptions, recipe string, limit int, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)

	st, err := store.Open(opts.DB)
	if err != nil {
		return outputCommandError(f, ErrCodeStore, fmt.Sprintf("failed to open database: %v", err), nil)
	}
	defer st.Close()

	builds, err := st.List(ctx, recipe, limit)
	if err != nil {
		return outputCommandError(f, ErrCodeStore, err.Error(), nil)
	}

	entries := make([]HistoryEntry, len(builds))
	for i, b := range builds {
		entries[i] = HistoryEntry{
			Seq:           b.Seq,
			ID:            b.ID,
			Recipe:        b.Recipe,
			Hash:          b.DocHash,
			ParamsHash:    b.ParamsHash,
			EngineVersion: b.EngineVersion,
		}
	}

	if f.Format == "json" {
		return f.Success(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(f.Writer, "no builds recorded")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(f.Writer, "%4d  %s  %-28s %s\n", e.Seq, e.ID, e.Recipe, e.Hash)
	}
	return nil
}
