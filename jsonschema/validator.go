// Package jsonschema validates the persisted admission records artifact
// against its JSON schema.
package jsonschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stankin-rag/priem"
)

//go:embed records.schema.json
var recordsSchema []byte

const schemaURL = "records.schema.json"

// Validator checks JSON documents against the admission records schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded records schema.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(recordsSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate returns EINVALID if data is not a JSON array of admission records.
func (v *Validator) Validate(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return priem.Errorf(priem.EINVALID, "records are not valid JSON: %v", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return priem.Errorf(priem.EINVALID, "records do not match schema: %v", err)
	}
	return nil
}
