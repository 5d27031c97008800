// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package schemautil

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	Name  string   `json:"name" jsonschema:"minLength=1"`
	Count int      `json:"count,omitempty" jsonschema:"minimum=0"`
	Tags  []string `json:"tags,omitempty"`
}

var widgetDoc = Document{
	ID:          "https://example.test/widget.schema.json",
	Title:       "Widget",
	Description: "A test widget",
	Value:       &widget{},
}

func TestGenerate(t *testing.T) {
	data, err := Generate(widgetDoc)
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))

	assert.Equal(t, widgetDoc.ID, schema["$id"])
	assert.Equal(t, "Widget", schema["title"])
	assert.Equal(t, "A test widget", schema["description"])
	assert.Equal(t, []any{"name"}, schema["required"])
	assert.Equal(t, false, schema["additionalProperties"])
	assert.NotContains(t, schema, "$defs")
}

func TestValidator(t *testing.T) {
	v := NewValidator(widgetDoc)

	tests := []struct {
		name     string
		instance any
		wantErr  bool
	}{
		{"valid", map[string]any{"name": "w", "count": 2}, false},
		{"int types from YAML", map[string]any{"name": "w", "count": int(3)}, false},
		{"missing name", map[string]any{"count": 1}, true},
		{"empty name", map[string]any{"name": ""}, true},
		{"negative count", map[string]any{"name": "w", "count": -1}, true},
		{"unknown field", map[string]any{"name": "w", "colour": "red"}, true},
		{"wrong type", map[string]any{"name": "w", "tags": "a"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.instance)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "schema validation failed")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestToJSONTypes(t *testing.T) {
	type point struct {
		X int `json:"x"`
	}
	in := map[string]any{
		"list":  []any{1, "a", map[string]any{"p": point{X: 4}}},
		"float": 1.5,
	}

	out := ToJSONTypes(in).(map[string]any)

	assert.Equal(t, 1.5, out["float"])
	list := out["list"].([]any)
	assert.Equal(t, 1, list[0])
	assert.Equal(t, map[string]any{"x": float64(4)}, list[2].(map[string]any)["p"])
}

func TestFormatError(t *testing.T) {
	assert.Empty(t, FormatError(nil))
	assert.Equal(t, "bad", FormatError(errors.New("schema validation failed: bad")))
	assert.Equal(t, "other", FormatError(errors.New("other")))
}
