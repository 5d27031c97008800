// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

// Command gen-schema writes the JSON Schemas for plugin manifests and the
// plugin state file into schemas/.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atrium-dev/atrium/internal/plugin"
	"github.com/atrium-dev/atrium/internal/state"
)

var schemas = []struct {
	file     string
	generate func() ([]byte, error)
}{
	{"plugin.schema.json", plugin.GenerateSchema},
	{"state.schema.json", state.GenerateSchema},
}

func main() {
	written, err := generate("schemas")
	for _, path := range written {
		fmt.Printf("Generated %s\n", path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// generate writes every schema into dir and returns the written paths.
func generate(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating directory: %w", err)
	}

	var written []string
	for _, s := range schemas {
		data, err := s.generate()
		if err != nil {
			return written, fmt.Errorf("generating %s: %w", s.file, err)
		}
		path := filepath.Join(dir, s.file)
		if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
