package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/graphsmith/internal/config"
	"github.com/roach88/graphsmith/internal/graph"
	"github.com/roach88/graphsmith/internal/recipes"
	"github.com/roach88/graphsmith/internal/workflow"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	DB        string
	Strict    bool
	OutputDir string

	// Registry defaults to the built-in recipes.
	Registry *workflow.Registry
	// NewID generates envelope client ids and build record ids.
	NewID func() string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the graphsmith CLI.
// cfg supplies flag defaults; nil means built-in defaults.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	return newRootCommand(cfg, &RootOptions{Registry: recipes.Registry(), NewID: uuid.NewString})
}

func newRootCommand(cfg *config.Config, opts *RootOptions) *cobra.Command {
	if cfg == nil {
		cfg = &config.Config{DBPath: config.DefaultDB, Format: config.DefaultFormat}
	}
	opts.OutputDir = cfg.OutputDir

	cmd := &cobra.Command{
		Use:   "graphsmith",
		Short: "graphsmith - prompt graph assembly",
		Long:  "Build validated, deterministic node-graph documents for a diffusion execution engine from named recipes.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", cfg.Format, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", cfg.DBPath, "build archive database path")
	cmd.PersistentFlags().BoolVar(&opts.Strict, "strict", cfg.Strict, "check references on every node append")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter returns the output formatter for a command.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// logger writes stage records to w at Debug when verbose, otherwise Warn.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *RootOptions) verifyMode() graph.VerifyMode {
	if o.Strict {
		return graph.VerifyEachAppend
	}
	return graph.VerifyOnFinish
}

func (o *RootOptions) registry() *workflow.Registry {
	if o.Registry == nil {
		return recipes.Registry()
	}
	return o.Registry
}

func (o *RootOptions) newID() string {
	if o.NewID == nil {
		return uuid.NewString()
	}
	return o.NewID()
}

// recipe looks up a descriptor and reports unknown names.
func (o *RootOptions) recipe(f *OutputFormatter, name string) (*workflow.Descriptor, error) {
	d, err := o.registry().Get(name)
	if err != nil {
		return nil, outputCommandError(f, workflow.ErrCodeUnknownRecipe, err.Error(), o.registry().Names())
	}
	return d, nil
}
