package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/graphsmith/internal/ir"
	"github.com/roach88/graphsmith/internal/store"
	"github.com/roach88/graphsmith/internal/workflow"
)

// VerifyResult reports whether a recorded build still reproduces.
type VerifyResult struct {
	ID            string `json:"id"`
	Recipe        string `json:"recipe"`
	Recorded      string `json:"recorded_hash"`
	Rebuilt       string `json:"rebuilt_hash"`
	Match         bool   `json:"match"`
	EngineVersion string `json:"engine_version"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <hash>",
		Short: "Rebuild an archived build and compare hashes",
		Long: `Rebuild the most recent archived build with the given document hash
from its stored parameters and check the result hashes the same.

Exits with 1 when the hashes differ, for example after a recipe changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.Context(), rootOpts, args[0], cmd)
		},
	}
}

func runVerify(ctx context.Context, opts *RootOptions, hash string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)

	st, err := store.Open(opts.DB)
	if err != nil {
		return outputCommandError(f, ErrCodeStore, fmt.Sprintf("failed to open database: %v", err), nil)
	}
	defer st.Close()

	b, err := st.Get(ctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		return outputCommandError(f, ErrCodeNotFound, fmt.Sprintf("no build with hash %s", hash), nil)
	}
	if err != nil {
		return outputCommandError(f, ErrCodeStore, err.Error(), nil)
	}

	d, err := opts.recipe(f, b.Recipe)
	if err != nil {
		return err
	}

	raw, err := b.RawParams()
	if err != nil {
		return outputCommandError(f, ErrCodeStore, err.Error(), nil)
	}

	res, err := d.Build(raw,
		workflow.WithLogger(opts.logger(cmd.ErrOrStderr())),
		workflow.WithVerify(opts.verifyMode()),
	)
	if err != nil {
		return outputBuildError(f, err)
	}

	result := VerifyResult{
		ID:            b.ID,
		Recipe:        b.Recipe,
		Recorded:      b.DocHash,
		Rebuilt:       res.Hash,
		Match:         res.Hash == b.DocHash,
		EngineVersion: b.EngineVersion,
	}
	if b.EngineVersion != ir.EngineVersion {
		f.VerboseLog("build %s was recorded by engine %s, running %s", b.ID, b.EngineVersion, ir.EngineVersion)
	}

	if !result.Match {
		_ = f.Error(ErrCodeMismatch, fmt.Sprintf("rebuilt hash %s differs from recorded %s", res.Hash, b.DocHash), result)
		return NewExitError(ExitFailure, "reproducibility check failed")
	}

	if f.Format == "json" {
		return f.Success(result)
	}
	fmt.Fprintf(f.Writer, "✓ %s reproduces (%s)\n", b.ID, b.Recipe)
	return nil
}
