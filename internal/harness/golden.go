package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/graphsmith/internal/ir"
)

// Snapshot captures a finished build for golden comparison.
// Serialized with canonical JSON for deterministic comparison.
type Snapshot struct {
	ScenarioName string
	Recipe       string
	Stages       []string
	Hash         string
	Document     ir.Document
}

// canonical converts the snapshot to a map for canonical JSON serialization.
func (s *Snapshot) canonical() map[string]any {
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"recipe":        s.Recipe,
		"stages":        s.Stages,
		"hash":          s.Hash,
		"document":      s.Document,
	}
}

// RunWithGolden executes a scenario and compares the document against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	if !result.Pass {
		return result, fmt.Errorf("scenario %s failed: %v", scenario.Name, result.Errors)
	}

	if err := AssertGolden(t, scenario, result); err != nil {
		return result, err
	}
	return result, nil
}

// GoldenDir is where scenario golden files live, relative to the package
// under test.
const GoldenDir = "testdata/golden"

// GoldenSuffix is appended to the scenario name to form the golden file name.
const GoldenSuffix = ".golden"

// SnapshotBytes renders the canonical golden form of a finished scenario.
func SnapshotBytes(scenario *Scenario, result *Result) ([]byte, error) {
	snapshot := Snapshot{
		ScenarioName: scenario.Name,
		Recipe:       scenario.Recipe,
		Stages:       result.Enabled(),
		Hash:         result.Hash,
		Document:     result.Document,
	}
	return ir.MarshalCanonical(snapshot.canonical())
}

// AssertGolden compares an existing result against the scenario's golden file
// without re-running.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := SnapshotBytes(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(GoldenSuffix),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}
