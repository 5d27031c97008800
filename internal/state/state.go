// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

// Package state persists which plugins the CLI has installed and enabled.
//
// The file is JSON of the form
//
//	{"plugins": {"checkout": {"enabled": true, "version": "1.2.0", ...}}}
//
// and is validated against a schema generated from File on every load.
package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/samber/oops"

	"github.com/atrium-dev/atrium/internal/schemautil"
	"github.com/atrium-dev/atrium/internal/xdg"
)

// Error codes.
const (
	CodeInvalidState = "INVALID_STATE"
	CodeIO           = "STATE_IO"
)

// SchemaID is the $id of the state file schema.
const SchemaID = "https://atrium.dev/schemas/state.schema.json"

// Entry records one installed plugin.
type Entry struct {
	Enabled     bool      `json:"enabled"`
	Version     string    `json:"version" jsonschema:"minLength=5"`
	InstalledAt time.Time `json:"installedAt"`
	// Source says where the plugin came from, e.g. "builtin".
	Source string `json:"source,omitempty"`
}

// File is the decoded state file.
type File struct {
	Plugins map[string]Entry `json:"plugins"`
}

var stateSchema = schemautil.Document{
	ID:          SchemaID,
	Title:       "Atrium Plugin State",
	Description: "Installed and enabled plugins recorded by the atrium CLI",
	Value:       &File{},
}

var validator = schemautil.NewValidator(stateSchema)

// GenerateSchema returns the JSON Schema for the state file.
func GenerateSchema() ([]byte, error) {
	return schemautil.Generate(stateSchema)
}

// New returns an empty state.
func New() *File {
	return &File{Plugins: make(map[string]Entry)}
}

// Load reads the state file at path. A missing file yields an empty state.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, oops.Code(CodeIO).With("path", path).Wrapf(err, "read state file")
	}
	return Parse(data)
}

// Parse decodes and validates state file contents.
func Parse(data []byte) (*File, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, oops.Code(CodeInvalidState).Wrapf(err, "state file is not valid JSON")
	}
	if err := validator.Validate(doc); err != nil {
		return nil, oops.Code(CodeInvalidState).Wrap(err)
	}

	f := New()
	if err := json.Unmarshal(data, f); err != nil {
		return nil, oops.Code(CodeInvalidState).Wrapf(err, "decode state file")
	}
	if f.Plugins == nil {
		f.Plugins = make(map[string]Entry)
	}
	return f, nil
}

// Save writes the state to path atomically, creating the parent directory.
func (f *File) Save(path string) error {
	if f.Plugins == nil {
		f.Plugins = make(map[string]Entry)
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return oops.Code(CodeIO).Wrapf(err, "encode state")
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := xdg.EnsureDir(dir); err != nil {
		return oops.Code(CodeIO).Wrap(err)
	}

	tmp, err := os.CreateTemp(dir, ".plugins-*.json")
	if err != nil {
		return oops.Code(CodeIO).With("path", path).Wrapf(err, "create temp file")
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return oops.Code(CodeIO).With("path", path).Wrapf(err, "write state")
	}
	if err := tmp.Close(); err != nil {
		return oops.Code(CodeIO).With("path", path).Wrapf(err, "close state")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return oops.Code(CodeIO).With("path", path).Wrapf(err, "replace state file")
	}
	return nil
}

// Get returns the entry for name.
func (f *File) Get(name string) (Entry, bool) {
	e, ok := f.Plugins[name]
	return e, ok
}

// Set records the entry for name.
func (f *File) Set(name string, e Entry) {
	if f.Plugins == nil {
		f.Plugins = make(map[string]Entry)
	}
	f.Plugins[name] = e
}

// SetEnabled flips the enabled flag of an existing entry. It reports
// whether name was present.
func (f *File) SetEnabled(name string, enabled bool) bool {
	e, ok := f.Plugins[name]
	if !ok {
		return false
	}
	e.Enabled = enabled
	f.Plugins[name] = e
	return true
}

// Delete removes name.
func (f *File) Delete(name string) {
	delete(f.Plugins, name)
}

// Installed returns the recorded plugin names, sorted.
func (f *File) Installed() []string {
	return slices.Sorted(maps.Keys(f.Plugins))
}

// Enabled returns the names of enabled plugins, sorted.
func (f *File) Enabled() []string {
	var out []string
	for _, name := range f.Installed() {
		if f.Plugins[name].Enabled {
			out = append(out, name)
		}
	}
	return out
}
