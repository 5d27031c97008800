// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

// Package plugin provides the plugin registry and lifecycle control.
package plugin

import (
	"regexp"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/atrium-dev/atrium/internal/semver"
	"github.com/atrium-dev/atrium/pkg/sdk"
)

// Manifest represents a plugin.yaml file shipped with a plugin.
type Manifest struct {
	Name         string                  `json:"name" yaml:"name" jsonschema:"pattern=^[a-z]([a-z0-9-]*[a-z0-9])?$,maxLength=64"`
	Version      string                  `json:"version" yaml:"version" jsonschema:"minLength=5"`
	Description  string                  `json:"description,omitempty" yaml:"description,omitempty"`
	Author       string                  `json:"author,omitempty" yaml:"author,omitempty"`
	Homepage     string                  `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Keywords     []string                `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Dependencies Dependencies            `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Translations map[string]sdk.Messages `json:"translations,omitempty" yaml:"translations,omitempty"`
}

// maxNameLength is the maximum allowed length for plugin names.
const maxNameLength = 64

// namePattern validates plugin names: must start with lowercase letter,
// followed by lowercase letters, digits, or hyphens.
// Cannot end with a hyphen. Single character names are allowed.
var namePattern = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

// ParseManifest parses a plugin.yaml file, checks it against the manifest
// schema and validates it.
func ParseManifest(data []byte) (*Manifest, error) {
	if len(data) == 0 {
		return nil, oops.Code(CodeInvalidManifest).Errorf("manifest data is empty")
	}

	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, oops.Code(CodeInvalidManifest).Wrapf(err, "invalid YAML")
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// MustParseManifest is ParseManifest for manifests embedded at build time.
// It panics on error.
func MustParseManifest(data []byte) *Manifest {
	m, err := ParseManifest(data)
	if err != nil {
		panic(err)
	}
	return m
}

// Validate checks manifest constraints.
func (m *Manifest) Validate() error {
	if m.Name == "" || !namePattern.MatchString(m.Name) {
		return oops.Code(CodeInvalidManifest).
			With("name", m.Name).
			Errorf("name %q must start with a-z, contain only a-z, 0-9, hyphens, and not end with a hyphen", m.Name)
	}
	if len(m.Name) > maxNameLength {
		return oops.Code(CodeInvalidManifest).
			With("name", m.Name).
			Errorf("name must be %d characters or less, got %d", maxNameLength, len(m.Name))
	}

	if m.Version == "" {
		return oops.Code(CodeInvalidManifest).With("name", m.Name).Errorf("version is required")
	}
	if !semver.IsValid(m.Version) {
		return oops.Code(CodeInvalidManifest).
			With("name", m.Name).
			With("version", m.Version).
			Errorf("version %q is not MAJOR.MINOR.PATCH", m.Version)
	}

	for _, dep := range m.Dependencies.Names() {
		if dep == m.Name {
			return oops.Code(CodeInvalidManifest).
				With("name", m.Name).
				Errorf("plugin %q cannot depend on itself", m.Name)
		}
		if !namePattern.MatchString(dep) {
			return oops.Code(CodeInvalidManifest).
				With("name", m.Name).
				With("dependency", dep).
				Errorf("dependency name %q is invalid", dep)
		}
	}

	return nil
}

// Descriptor converts the manifest into a registry descriptor.
func (m *Manifest) Descriptor() Descriptor {
	return Descriptor{
		Name:         m.Name,
		Version:      m.Version,
		Description:  m.Description,
		Author:       m.Author,
		Homepage:     m.Homepage,
		Keywords:     m.Keywords,
		Dependencies: m.Dependencies,
		Translations: m.Translations,
	}.clone()
}
