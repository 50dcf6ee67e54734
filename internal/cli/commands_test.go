package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphsmith/internal/config"
	"github.com/roach88/graphsmith/internal/params"
	"github.com/roach88/graphsmith/internal/recipes"
	"github.com/roach88/graphsmith/internal/store"
)

// qwenMinimalHash is the document hash of qwen_image_txt2img with prompt
// "a cat", seed 42 and every other default.
const qwenMinimalHash = "a4b587425db4ad01dd1729965b321660148d9bf209368b2e6c2fde04ae348d96"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DBPath: filepath.Join(t.TempDir(), "builds.db"),
		Format: "text",
	}
}

func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}

func TestList(t *testing.T) {
	out, _, err := execute(t, testConfig(t), "list")
	require.NoError(t, err)
	for _, name := range recipes.Registry().Names() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "Qwen Image Text to Image")
}

func TestListJSON(t *testing.T) {
	out, _, err := execute(t, testConfig(t), "--format", "json", "list")
	require.NoError(t, err)

	var resp struct {
		Status string          `json:"status"`
		Data   []RecipeSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, len(recipes.All()))
	assert.Equal(t, recipes.FluxDepth, resp.Data[0].Name)
	assert.Equal(t, "save", resp.Data[0].Stages[len(resp.Data[0].Stages)-1])
}

func TestSchema(t *testing.T) {
	out, _, err := execute(t, testConfig(t), "schema", recipes.QwenImageTxt2Img)
	require.NoError(t, err)
	assert.Contains(t, out, "name: qwen_image_txt2img")
	assert.Contains(t, out, "name: prompt")
	assert.Contains(t, out, "required: true")
}

func TestSchemaCUE(t *testing.T) {
	out, _, err := execute(t, testConfig(t), "schema", "--cue", recipes.QwenImageTxt2Img)
	require.NoError(t, err)
	assert.Contains(t, out, params.CUEDefinition+": {")
	assert.Contains(t, out, "prompt!: string")
}

func TestSchemaUnknownRecipe(t *testing.T) {
	out, _, err := execute(t, testConfig(t), "schema", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E401")
}

func TestValidateOK(t *testing.T) {
	out, _, err := execute(t, testConfig(t), "validate", recipes.QwenImageTxt2Img, "--set", "prompt=a cat", "--cue")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ qwen_image_txt2img parameters valid")
}

func TestValidateCollectsEveryError(t *testing.T) {
	out, _, err := execute(t, testConfig(t), "--format", "json", "validate", recipes.QwenImageTxt2Img,
		"--set", "width=100", "--set", "sampler_name=bogus")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, params.ErrCodeMissing, resp.Error.Code)

	details, ok := resp.Error.Details.([]any)
	require.True(t, ok)
	assert.Len(t, details, 3, "prompt, width and sampler_name")
}

func TestValidateFromFile(t *testing.T) {
	path := writeInput(t, "in.yaml", "prompt: a cat\nwidth: 1024\n")

	out, _, err := execute(t, testConfig(t), "--format", "json", "validate", recipes.QwenImageTxt2Img, "-i", path)
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	data := resp.Data.(map[string]any)
	assert.Equal(t, true, data["valid"])
	assert.Equal(t, float64(1024), data["params"].(map[string]any)["width"])
}

func TestValidateBadInputFile(t *testing.T) {
	_, _, err := execute(t, testConfig(t), "validate", recipes.QwenImageTxt2Img, "-i", "/nonexistent/in.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeInputRead)
}

func TestBuildWritesCanonicalDocument(t *testing.T) {
	cfg := testConfig(t)
	args := []string{"build", recipes.QwenImageTxt2Img, "--set", "prompt=a cat", "--set", "seed=42"}

	first, _, err := execute(t, cfg, args...)
	require.NoError(t, err)
	second, _, err := execute(t, cfg, args...)
	require.NoError(t, err)
	assert.Equal(t, first, second, "identical parameters give identical bytes")

	golden, err := os.ReadFile(filepath.Join("..", "harness", "testdata", "golden", "qwen_txt2img_minimal.golden"))
	require.NoError(t, err)
	var snapshot struct {
		Document json.RawMessage `json:"document"`
	}
	require.NoError(t, json.Unmarshal(golden, &snapshot))
	assert.Equal(t, string(snapshot.Document)+"\n", first)
}

func TestBuildJSON(t *testing.T) {
	out, _, err := execute(t, testConfig(t), "--format", "json", "build", recipes.QwenImageTxt2Img,
		"--set", "prompt=a cat", "--set", "seed=42")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	data := resp.Data.(map[string]any)
	assert.Equal(t, qwenMinimalHash, data["hash"])
	assert.Equal(t, float64(10), data["nodes"])
	assert.Contains(t, data["document"], "10")
}

func TestBuildEnvelope(t *testing.T) {
	out, _, err := execute(t, testConfig(t), "build", recipes.QwenImageTxt2Img, "--set", "prompt=a cat", "--envelope")
	require.NoError(t, err)
	assert.Contains(t, out, `{"client_id":"`+fixedID+`","prompt":{"1":`)
}

func TestBuildOutputFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputDir = t.TempDir()

	out, _, err := execute(t, cfg, "build", recipes.FluxDepth, "--set", "image=depth.png", "--set", "prompt=a house", "-o", "docs/flux.json")
	require.NoError(t, err)
	assert.Contains(t, out, "nodes written to")

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "docs", "flux.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"class_type":"InstructPixToPixConditioning"`)
}

func TestBuildVerboseLogsStages(t *testing.T) {
	_, stderr, err := execute(t, testConfig(t), "-v", "build", recipes.QwenImageTxt2Img, "--set", "prompt=a cat")
	require.NoError(t, err)
	assert.Contains(t, stderr, "stage=model_sampling")
}

func TestBuildStrictMode(t *testing.T) {
	_, _, err := execute(t, testConfig(t), "--strict", "build", recipes.SDXLFaceDetailUpscaler, "--set", "prompt=portrait")
	require.NoError(t, err)
}

func TestBuildValidationFailure(t *testing.T) {
	out, _, err := execute(t, testConfig(t), "build", recipes.QwenImageTxt2Img)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "[E201] prompt: missing")
}

func TestRecordHistoryVerify(t *testing.T) {
	cfg := testConfig(t)

	out, _, err := execute(t, cfg, "--format", "json", "build", recipes.QwenImageTxt2Img,
		"--set", "prompt=a cat", "--set", "seed=42", "--record")
	require.NoError(t, err)
	data := decodeResponse(t, out).Data.(map[string]any)
	assert.Equal(t, fixedID, data["record_id"])

	out, _, err = execute(t, cfg, "history")
	require.NoError(t, err)
	assert.Contains(t, out, fixedID)
	assert.Contains(t, out, qwenMinimalHash)

	out, _, err = execute(t, cfg, "--format", "json", "history", "--recipe", recipes.FluxDepth)
	require.NoError(t, err)
	assert.Empty(t, decodeResponse(t, out).Data)

	out, _, err = execute(t, cfg, "verify", qwenMinimalHash)
	require.NoError(t, err)
	assert.Contains(t, out, "reproduces")
}

func TestHistoryEmpty(t *testing.T) {
	out, _, err := execute(t, testConfig(t), "history")
	require.NoError(t, err)
	assert.Contains(t, out, "no builds recorded")
}

func TestVerifyUnknownHash(t *testing.T) {
	out, _, err := execute(t, testConfig(t), "verify", "deadbeef")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
}

func TestVerifyMismatch(t *testing.T) {
	cfg := testConfig(t)

	st, err := store.Open(cfg.DBPath)
	require.NoError(t, err)
	_, err = st.Record(context.Background(), store.Build{
		ID:              "tampered",
		Recipe:          recipes.QwenImageTxt2Img,
		Params:          json.RawMessage(`{"prompt":"a cat","seed":42}`),
		Document:        json.RawMessage(`{}`),
		DocHash:         "deadbeef",
		EngineVersion:   "0.0.0",
		DocumentVersion: "1",
	})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, _, err := execute(t, cfg, "verify", "deadbeef")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeMismatch)
}

// ============================================================
// test
// ============================================================

const scenarioDir = "../harness/testdata/scenarios"

func TestTestScenarioDirectory(t *testing.T) {
	files, err := filepath.Glob(filepath.Join(scenarioDir, "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	out, _, err := execute(t, testConfig(t), "test", scenarioDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ qwen_txt2img_minimal")
	assert.Contains(t, out, fmt.Sprintf("Test Summary: %d passed, 0 failed, %d total", len(files), len(files)))
}

func TestTestGoldenScenarioJSON(t *testing.T) {
	out, _, err := execute(t, testConfig(t), "--format", "json", "test",
		filepath.Join(scenarioDir, "qwen_txt2img_minimal.yaml"))
	require.NoError(t, err, out)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.True(t, resp.Data.Scenarios[0].Pass)
	assert.Equal(t, qwenMinimalHash, resp.Data.Scenarios[0].Hash)
}

func TestTestFilter(t *testing.T) {
	out, _, err := execute(t, testConfig(t), "test", scenarioDir, "--filter", "sdxl_*")
	require.NoError(t, err, out)
	assert.Contains(t, out, "sdxl_face_all_off")
	assert.NotContains(t, out, "qwen_txt2img_minimal")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
}

func TestTestUpdateWritesGolden(t *testing.T) {
	goldenDir := t.TempDir()
	out, _, err := execute(t, testConfig(t), "test",
		filepath.Join(scenarioDir, "qwen_txt2img_minimal.yaml"), "--update", "--golden-dir", goldenDir)
	require.NoError(t, err, out)

	got, err := os.ReadFile(filepath.Join(goldenDir, "qwen_txt2img_minimal.golden"))
	require.NoError(t, err)
	want, err := os.ReadFile("../harness/testdata/golden/qwen_txt2img_minimal.golden")
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestTestGoldenMismatch(t *testing.T) {
	src, err := os.ReadFile(filepath.Join(scenarioDir, "qwen_txt2img_minimal.yaml"))
	require.NoError(t, err)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "scenarios"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "golden"), 0o755))
	file := filepath.Join(root, "scenarios", "qwen_txt2img_minimal.yaml")
	require.NoError(t, os.WriteFile(file, src, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "golden", "qwen_txt2img_minimal.golden"), []byte("{}"), 0o644))

	out, _, err := execute(t, testConfig(t), "test", file)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ qwen_txt2img_minimal")
	assert.Contains(t, out, "golden file mismatch")
}

func TestTestFailingAssertion(t *testing.T) {
	file := filepath.Join(t.TempDir(), "wrong_stages.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`name: wrong_stages
description: "stage list that does not match"
recipe: qwen_image_txt2img
params:
  prompt: "a cat"
assertions:
  - type: stages
    stages: [loaders, save]
`), 0o644))

	out, _, err := execute(t, testConfig(t), "test", file)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_stages")
	assert.Contains(t, out, "Test Summary: 0 passed, 1 failed, 1 total")
}

func TestTestMissingPath(t *testing.T) {
	_, _, err := execute(t, testConfig(t), "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
