package cli

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/graphsmith/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // scenario filter (glob pattern)
	GoldenDir string // golden file directory; empty means ../golden next to each scenario
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Hash   string   `json:"hash,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenario.yaml|dir>...",
		Short: "Run recipe scenarios",
		Long: `Build each scenario's recipe, check its assertions or expected error,
and compare golden scenarios against their snapshot.

Golden files are read from a "golden" directory next to the scenario
directory (testdata/scenarios/x.yaml pairs with testdata/golden/x.golden).

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (missing paths, etc.)

Examples:
  graphsmith test ./testdata/scenarios
  graphsmith test ./testdata/scenarios --filter "qwen_*"
  graphsmith test ./testdata/scenarios/qwen_txt2img_minimal.yaml --update`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern on the file name")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden-dir", "", "golden file directory")

	return cmd
}

func runTests(opts *TestOptions, paths []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	var files []string
	for _, p := range paths {
		found, err := findScenarioFiles(p, opts.Filter)
		if err != nil {
			return outputCommandError(f, ErrCodeInputRead, err.Error(), nil)
		}
		files = append(files, found...)
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}
	for _, file := range files {
		sr := runScenario(opts, file, cmd)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if f.Format == "json" {
		if result.Failed > 0 {
			_ = f.Error(ErrCodeScenario, fmt.Sprintf("%d scenario(s) failed", result.Failed), result)
		} else {
			_ = f.Success(result)
		}
	} else {
		w := f.Writer
		for _, sr := range result.Scenarios {
			if sr.Pass {
				fmt.Fprintf(w, "✓ %s\n", sr.Name)
				continue
			}
			fmt.Fprintf(w, "✗ %s\n", sr.Name)
			for _, e := range sr.Errors {
				fmt.Fprintf(w, "  %s\n", e)
			}
		}
		fmt.Fprintf(w, "\nTest Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// findScenarioFiles returns path itself when it is a file, or every YAML file
// below it when it is a directory.
func findScenarioFiles(path, filter string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("scenario path: %w", err)
	}
	if !info.IsDir() {
		ok, err := matchesFilter(path, filter)
		if err != nil || !ok {
			return nil, err
		}
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(p)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		ok, err := matchesFilter(p, filter)
		if err != nil {
			return err
		}
		if ok {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

func matchesFilter(path, filter string) (bool, error) {
	if filter == "" {
		return true, nil
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	ok, err := filepath.Match(filter, name)
	if err != nil {
		return false, fmt.Errorf("invalid filter pattern: %w", err)
	}
	return ok, nil
}

// runScenario executes one scenario file and folds load, run and golden
// failures into its result.
func runScenario(opts *TestOptions, file string, cmd *cobra.Command) ScenarioResult {
	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return ScenarioResult{
			Name:   filepath.Base(file),
			Errors: []string{fmt.Sprintf("load error: %v", err)},
		}
	}

	res, err := harness.Run(scenario,
		harness.WithRegistry(opts.registry()),
		harness.WithLogger(opts.logger(cmd.ErrOrStderr())),
	)
	if err != nil {
		return ScenarioResult{
			Name:   scenario.Name,
			Errors: []string{fmt.Sprintf("execution error: %v", err)},
		}
	}

	sr := ScenarioResult{Name: scenario.Name, Pass: res.Pass, Hash: res.Hash, Errors: res.Errors}
	if !res.Pass || !scenario.Golden {
		return sr
	}

	if err := checkGolden(opts, file, scenario, res); err != nil {
		sr.Pass = false
		sr.Errors = append(sr.Errors, err.Error())
	}
	return sr
}

func (o *TestOptions) goldenPath(file string, scenario *harness.Scenario) string {
	dir := o.GoldenDir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(filepath.Dir(file)), "golden")
	}
	return filepath.Join(dir, scenario.Name+harness.GoldenSuffix)
}

// checkGolden compares the snapshot with its golden file, or rewrites the file
// when --update is set.
func checkGolden(opts *TestOptions, file string, scenario *harness.Scenario, res *harness.Result) error {
	data, err := harness.SnapshotBytes(scenario, res)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	path := opts.goldenPath(file, scenario)

	if opts.Update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create golden directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write golden file: %w", err)
		}
		return nil
	}

	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("golden file %s missing (run with --update to create it)", path)
	}
	if err != nil {
		return fmt.Errorf("read golden file: %w", err)
	}
	if !bytes.Equal(want, data) {
		return fmt.Errorf("golden file mismatch (run with --update to regenerate)")
	}
	return nil
}
