package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: one recipe build and the
// assertions its document must satisfy.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Recipe is the registered recipe to build.
	Recipe string `yaml:"recipe"`

	// Params are the raw parameters passed to the recipe.
	Params map[string]any `yaml:"params"`

	// Golden compares the built document against testdata/golden/{name}.golden.
	Golden bool `yaml:"golden,omitempty"`

	// Expect describes an expected build failure. If nil the build must succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`

	// Assertions validate the built document and stage trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ExpectClause specifies an expected build failure.
type ExpectClause struct {
	// Error is the expected error code (e.g., "E203").
	Error string `yaml:"error"`

	// Fields lists the rejected parameters, in reporting order.
	// If empty, fields are not checked.
	Fields []string `yaml:"fields,omitempty"`
}

// RefExpect names the target of an expected reference.
type RefExpect struct {
	Kind string `yaml:"kind"`
	Slot int    `yaml:"slot"`
}

// Assertion validates the document or the trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "kinds": class types equal Kinds, in order
	// - "kind_count": Kind appears exactly Count times
	// - "kind_order": Kinds first appear in this order
	// - "stages": enabled stages equal Stages
	// - "input": Port of the first Kind node holds Value or Ref
	// - "recorded": store round trip reproduces the hash
	Type string `yaml:"type"`

	Kind   string     `yaml:"kind,omitempty"`
	Kinds  []string   `yaml:"kinds,omitempty"`
	Count  int        `yaml:"count,omitempty"`
	Stages []string   `yaml:"stages,omitempty"`
	Port   string     `yaml:"port,omitempty"`
	Value  any        `yaml:"value,omitempty"`
	Ref    *RefExpect `yaml:"ref,omitempty"`
}

// Assertion type constants.
const (
	AssertKinds     = "kinds"
	AssertKindCount = "kind_count"
	AssertKindOrder = "kind_order"
	AssertStages    = "stages"
	AssertInput     = "input"
	AssertRecorded  = "recorded"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Recipe == "" {
		return fmt.Errorf("recipe is required")
	}

	if s.Params == nil {
		return fmt.Errorf("params is required (use empty map if no params)")
	}

	if s.Expect != nil {
		if s.Expect.Error == "" {
			return fmt.Errorf("expect: error is required")
		}
		if s.Golden || len(s.Assertions) > 0 {
			return fmt.Errorf("expect: a failing build cannot have golden or assertions")
		}
		return nil
	}

	if !s.Golden && len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required unless golden is set")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertKinds, AssertKindOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for %s", index, a.Type)
		}
	case AssertKindCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for kind_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for kind_count", index)
		}
	case AssertStages:
		if len(a.Stages) == 0 {
			return fmt.Errorf("assertions[%d]: stages list is required for stages", index)
		}
	case AssertInput:
		if a.Kind == "" || a.Port == "" {
			return fmt.Errorf("assertions[%d]: kind and port are required for input", index)
		}
		if (a.Value == nil) == (a.Ref == nil) {
			return fmt.Errorf("assertions[%d]: exactly one of value or ref is required for input", index)
		}
	case AssertRecorded:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
