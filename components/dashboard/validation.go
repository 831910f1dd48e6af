package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SourceValidator checks the shape of a fetched document before it is stored.
type SourceValidator interface {
	Validate(def SourceDefinition, raw []byte) error
}

// JSONSchemaValidator compiles source schemas and validates raw documents.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[SourceID]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[SourceID]*jsonschema.Schema),
	}
}

// Validate ensures the document satisfies the source schema.
func (v *JSONSchemaValidator) Validate(def SourceDefinition, raw []byte) error {
	if len(def.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("dashboard: parse %s: %w", def.ID, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("dashboard: document for %s failed validation: %w", def.ID, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(def SourceDefinition) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[def.ID]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(def.Schema)
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", def.ID, err)
	}
	compiler := jsonschema.NewCompiler()
	name := string(def.ID) + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", def.ID, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", def.ID, err)
	}
	v.mu.Lock()
	v.compiled[def.ID] = compiled
	v.mu.Unlock()
	return compiled, nil
}

type noopSourceValidator struct{}

func (noopSourceValidator) Validate(SourceDefinition, []byte) error { return nil }
