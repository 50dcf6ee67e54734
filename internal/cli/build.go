package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/graphsmith/internal/ir"
	"github.com/roach88/graphsmith/internal/store"
	"github.com/roach88/graphsmith/internal/workflow"
)

// BuildOutput is the payload of a successful build.
type BuildOutput struct {
	Recipe   string          `json:"recipe"`
	Hash     string          `json:"hash"`
	Stages   []string        `json:"stages"`
	Nodes    int             `json:"nodes"`
	RecordID string          `json:"record_id,omitempty"`
	Output   string          `json:"output,omitempty"`
	Document json.RawMessage `json:"document,omitempty"`
}

type buildFlags struct {
	paramFlags
	output   string
	envelope bool
	record   bool
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	var bf buildFlags

	cmd := &cobra.Command{
		Use:   "build <recipe>",
		Short: "Build a graph document",
		Long: `Validate parameters and assemble the recipe's graph document.

The document is written as canonical JSON, byte-identical for identical
parameters. With --envelope it is wrapped in a queue submission body with
a fresh client id. With --record the build is archived for history and
verify.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), rootOpts, args[0], bf, cmd)
		},
	}
	bf.register(cmd)
	cmd.Flags().StringVarP(&bf.output, "output", "o", "", "write the document to this file instead of stdout")
	cmd.Flags().BoolVar(&bf.envelope, "envelope", false, "wrap the document in a queue submission envelope")
	cmd.Flags().BoolVar(&bf.record, "record", false, "archive the build in the database")

	return cmd
}

func runBuild(ctx context.Context, opts *RootOptions, name string, bf buildFlags, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)

	d, err := opts.recipe(f, name)
	if err != nil {
		return err
	}

	raw, err := readParams(bf.input, bf.sets)
	if err != nil {
		return outputLoadError(f, err)
	}

	res, err := d.Build(raw,
		workflow.WithLogger(opts.logger(cmd.ErrOrStderr())),
		workflow.WithVerify(opts.verifyMode()),
	)
	if err != nil {
		return outputBuildError(f, err)
	}

	var body []byte
	if bf.envelope {
		body, err = res.Envelope(opts.newID()).MarshalJSON()
	} else {
		body, err = ir.MarshalCanonical(res.Document)
	}
	if err != nil {
		return outputCommandError(f, ErrCodeGeneric, err.Error(), nil)
	}

	out := BuildOutput{
		Recipe: res.Recipe,
		Hash:   res.Hash,
		Stages: res.Trace.Enabled(),
		Nodes:  res.Document.Len(),
	}

	if bf.record {
		id, err := recordBuild(ctx, opts, res)
		if err != nil {
			return outputCommandError(f, ErrCodeStore, err.Error(), nil)
		}
		out.RecordID = id
		f.VerboseLog("recorded build %s in %s", id, opts.DB)
	}

	if bf.output != "" {
		path := bf.output
		if !filepath.IsAbs(path) && opts.OutputDir != "" {
			path = filepath.Join(opts.OutputDir, path)
		}
		if err := writeFile(path, body); err != nil {
			return outputCommandError(f, ErrCodeWriteFailed, err.Error(), nil)
		}
		out.Output = path
		if f.Format == "json" {
			return f.Success(out)
		}
		fmt.Fprintf(f.Writer, "✓ %s: %d nodes written to %s\n  hash %s\n", out.Recipe, out.Nodes, path, out.Hash)
		return nil
	}

	if f.Format == "json" {
		out.Document = body
		return f.Success(out)
	}
	fmt.Fprintf(f.Writer, "%s\n", body)
	f.VerboseLog("hash %s", out.Hash)
	return nil
}

func recordBuild(ctx context.Context, opts *RootOptions, res *workflow.Result) (string, error) {
	st, err := store.Open(opts.DB, store.WithIDGenerator(opts.newID))
	if err != nil {
		return "", err
	}
	defer st.Close()

	b, err := store.FromResult("", res)
	if err != nil {
		return "", err
	}
	saved, err := st.Record(ctx, b)
	if err != nil {
		return "", err
	}
	return saved.ID, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
