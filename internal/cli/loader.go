package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// LoadError represents an error that occurred while reading parameters.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadInput reads raw parameters from a .json, .yaml/.yml or .cue file.
// JSON numbers keep their integer or fractional form.
func LoadInput(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInputRead, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	var raw map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		raw, err = decodeJSON(data)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".cue":
		raw, err = decodeCUE(path, data)
	default:
		return nil, &LoadError{Code: ErrCodeInputParse, Message: fmt.Sprintf("unsupported input extension %q (want .json, .yaml, .yml or .cue)", ext)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInputParse, Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

func decodeJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// decodeCUE evaluates a CUE file and exports the concrete result. Inputs may
// use CUE expressions and references between fields.
func decodeCUE(path string, data []byte) (map[string]any, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, err
	}
	exported, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return decodeJSON(exported)
}

// ApplySets overlays k=v assignments onto raw. Values that parse as JSON
// scalars (numbers, booleans, quoted strings) keep that type; anything else
// is taken as a plain string.
func ApplySets(raw map[string]any, sets []string) error {
	for _, set := range sets {
		key, value, ok := strings.Cut(set, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return &LoadError{Code: ErrCodeBadSet, Message: fmt.Sprintf("--set %q: want key=value", set)}
		}
		raw[key] = parseSetValue(value)
	}
	return nil
}

func parseSetValue(s string) any {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return s
	}
	switch v.(type) {
	case json.Number, bool, string:
		return v
	}
	return s
}

// readParams loads the optional input file and applies --set overrides.
func readParams(input string, sets []string) (map[string]any, error) {
	raw := map[string]any{}
	if input != "" {
		loaded, err := LoadInput(input)
		if err != nil {
			return nil, err
		}
		raw = loaded
	}
	if err := ApplySets(raw, sets); err != nil {
		return nil, err
	}
	return raw, nil
}
