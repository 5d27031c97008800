// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

// Package schemautil generates JSON Schemas from Go types and validates
// decoded documents against them.
package schemautil

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// Document describes a schema to reflect from a Go value.
type Document struct {
	ID          string
	Title       string
	Description string
	// Value is a pointer to the zero value of the root type.
	Value any
}

// Generate reflects doc.Value into an indented JSON Schema.
func Generate(doc Document) ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(doc.Value)

	schema.ID = jsonschema.ID(doc.ID)
	schema.Title = doc.Title
	schema.Description = doc.Description

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// Validator compiles a Document once and validates instances against it.
type Validator struct {
	doc  Document
	once sync.Once
	sch  *jschema.Schema
	err  error
}

// NewValidator creates a lazily compiled validator for doc.
func NewValidator(doc Document) *Validator {
	return &Validator{doc: doc}
}

// Validate checks an instance decoded from YAML or JSON.
func (v *Validator) Validate(instance any) error {
	v.once.Do(func() {
		v.sch, v.err = compile(v.doc)
	})
	if v.err != nil {
		return fmt.Errorf("failed to compile schema: %w", v.err)
	}
	if err := v.sch.Validate(ToJSONTypes(instance)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compile(doc Document) (*jschema.Schema, error) {
	schemaBytes, err := Generate(doc)
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaData); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	return c.Compile("schema.json")
}

// ToJSONTypes converts decoded YAML values to the types a JSON decoder would
// produce, recursing through maps and slices.
func ToJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = ToJSONTypes(v)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v := range val {
			result[i] = ToJSONTypes(v)
		}
		return result
	case string, bool, int, int64, float64, nil:
		return val
	default:
		if b, err := json.Marshal(val); err == nil {
			var result any
			if err := json.Unmarshal(b, &result); err == nil {
				return result
			}
		}
		return val
	}
}

// FormatError trims the wrapper prefix from a validation error for display.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimPrefix(err.Error(), "schema validation failed: ")
}
