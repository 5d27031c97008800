// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package plugin

import (
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/atrium-dev/atrium/internal/schemautil"
)

// SchemaID is the $id of the plugin manifest schema.
const SchemaID = "https://atrium.dev/schemas/plugin.schema.json"

var manifestSchema = schemautil.Document{
	ID:          SchemaID,
	Title:       "Atrium Plugin Manifest",
	Description: "Schema for plugin.yaml manifest files",
	Value:       &Manifest{},
}

var manifestValidator = schemautil.NewValidator(manifestSchema)

// GenerateSchema generates a JSON Schema from the Manifest struct.
func GenerateSchema() ([]byte, error) {
	return schemautil.Generate(manifestSchema)
}

// ValidateSchema validates YAML data against the plugin manifest JSON Schema.
func ValidateSchema(data []byte) error {
	if len(data) == 0 {
		return oops.Code(CodeInvalidManifest).Errorf("manifest data is empty")
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return oops.Code(CodeInvalidManifest).Wrapf(err, "invalid YAML")
	}

	if err := manifestValidator.Validate(doc); err != nil {
		return oops.Code(CodeSchemaValidationFail).Wrap(err)
	}
	return nil
}
