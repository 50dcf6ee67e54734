package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/graphsmith/internal/ir"
	"github.com/roach88/graphsmith/internal/workflow"
)

// ErrNotFound is returned when no build matches the lookup.
var ErrNotFound = errors.New("build not found")

// Build is one archived document.
// Params and Document hold canonical JSON exactly as hashed.
type Build struct {
	Seq             int64           `json:"seq"`
	ID              string          `json:"id"`
	Recipe          string          `json:"recipe"`
	Params          json.RawMessage `json:"params"`
	ParamsHash      string          `json:"params_hash"`
	Document        json.RawMessage `json:"document"`
	DocHash         string          `json:"doc_hash"`
	EngineVersion   string          `json:"engine_version"`
	DocumentVersion string          `json:"document_version"`
}

// FromResult converts a build result into a record. An empty id is filled in
// by Record.
func FromResult(id string, r *workflow.Result) (Build, error) {
	params, err := ir.MarshalCanonical(r.Params.Values())
	if err != nil {
		return Build{}, fmt.Errorf("marshal params: %w", err)
	}
	paramsHash, err := r.Params.Hash()
	if err != nil {
		return Build{}, fmt.Errorf("hash params: %w", err)
	}
	doc, err := ir.MarshalCanonical(r.Document)
	if err != nil {
		return Build{}, fmt.Errorf("marshal document: %w", err)
	}
	return Build{
		ID:              id,
		Recipe:          r.Recipe,
		Params:          params,
		ParamsHash:      paramsHash,
		Document:        doc,
		DocHash:         r.Hash,
		EngineVersion:   ir.EngineVersion,
		DocumentVersion: ir.DocumentVersion,
	}, nil
}

// RawParams decodes the stored parameters into plain values suitable for
// Spec.Validate. Integers stay integers.
func (b Build) RawParams() (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b.Params))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode params of build %s: %w", b.ID, err)
	}
	return raw, nil
}

// Doc decodes the stored document.
func (b Build) Doc() (ir.Document, error) {
	var doc ir.Document
	if err := json.Unmarshal(b.Document, &doc); err != nil {
		return ir.Document{}, fmt.Errorf("decode document of build %s: %w", b.ID, err)
	}
	return doc, nil
}

func (b Build) validate() error {
	switch {
	case b.Recipe == "":
		return fmt.Errorf("build recipe is required")
	case b.DocHash == "":
		return fmt.Errorf("build doc_hash is required")
	case len(b.Document) == 0:
		return fmt.Errorf("build document is required")
	case len(b.Params) == 0:
		return fmt.Errorf("build params are required")
	}
	return nil
}
