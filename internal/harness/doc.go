// Package harness provides conformance testing for graphsmith recipes.
//
// The harness loads YAML scenarios, builds the named recipe from the
// scenario's parameters, and checks the resulting document and stage trace
// against the scenario's assertions.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	recipe: qwen_image_txt2img
//	params: { prompt: "a cat", seed: 42 }
//	golden: true
//	expect:
//	  error: E203
//	  fields: [width]
//	assertions:
//	  - type: kinds
//	    kinds: [UNETLoader, CLIPLoader]
//	  - type: input
//	    kind: KSampler
//	    port: model
//	    ref: { kind: ModelSamplingAuraFlow, slot: 0 }
//
// # Assertion Types
//
//   - kinds: The document's class types equal the list, in order
//   - kind_count: A class type appears exactly N times
//   - kind_order: Class types first appear in the listed order
//   - stages: The enabled stages equal the list, in order
//   - input: A port of the first node of a kind holds a literal or a reference
//   - recorded: The build round-trips through the store and rebuilds to the same hash
//
// # Deterministic Testing
//
// Scenarios should pin the seed. Each run records into a fresh in-memory
// SQLite store with fixed record ids so snapshots are byte-identical across
// runs.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/qwen_txt2img.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
