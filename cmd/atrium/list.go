// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/atrium-dev/atrium/internal/plugin"
)

// Output formats for list.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// listConfig holds configuration for the list command.
type listConfig struct {
	filter string
	output string
}

// Validate checks the output format.
func (cfg *listConfig) Validate() error {
	switch cfg.output {
	case outputTable, outputJSON, outputYAML:
		return nil
	default:
		return oops.With("output", cfg.output).Errorf("output must be table, json or yaml, got %q", cfg.output)
	}
}

// listEntry is one row of list output.
type listEntry struct {
	plugin.Summary `yaml:",inline"`
	Enabled        bool `json:"enabled" yaml:"enabled"`
}

func newListCmd(g *globals) *cobra.Command {
	cfg := &listConfig{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plugins and their status",
		Long: `List every built-in plugin with its version, lifecycle status and
whether it is enabled. --filter takes a glob such as 'theme-*'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, g, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.filter, "filter", "", "only list plugins whose name matches this glob")
	cmd.Flags().StringVarP(&cfg.output, "output", "o", outputTable, "output format (table, json or yaml)")

	return cmd
}

func runList(cmd *cobra.Command, g *globals, cfg *listConfig) error {
	if err := cfg.Validate(); err != nil {
		return g.fail("invalid flags", err)
	}

	var matcher glob.Glob
	if cfg.filter != "" {
		m, err := glob.Compile(cfg.filter)
		if err != nil {
			return g.fail("invalid filter", oops.With("filter", cfg.filter).Wrapf(err, "compile filter"))
		}
		matcher = m
	}

	s, err := openSession(cmd.Context(), g)
	if err != nil {
		return g.fail("failed to load plugin state", err)
	}

	var entries []listEntry
	for _, md := range s.registry.List() {
		if matcher != nil && !matcher.Match(md.Name) {
			continue
		}
		entries = append(entries, s.entry(md))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return writeList(cmd.OutOrStdout(), cfg.output, entries)
}

func writeList(w io.Writer, output string, entries []listEntry) error {
	switch output {
	case outputJSON:
		if entries == nil {
			entries = []listEntry{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return oops.Wrapf(err, "encode yaml")
		}
		return enc.Close()
	default:
		return writeTable(w, entries)
	}
}

func writeTable(w io.Writer, entries []listEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tVERSION\tSTATUS\tENABLED\tDEPENDS ON")
	for _, e := range entries {
		deps := "-"
		if len(e.Dependencies) > 0 {
			deps = formatDependencies(e.Dependencies)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", e.Name, e.Version, e.Status, e.Enabled, deps)
	}
	return tw.Flush()
}

// formatDependencies renders "checkout@^1.0.0, theme-switcher".
func formatDependencies(deps map[string]string) string {
	names := plugin.Dependencies(deps).Names()
	parts := make([]string, len(names))
	for i, name := range names {
		if c := deps[name]; c != "" {
			parts[i] = name + "@" + c
		} else {
			parts[i] = name
		}
	}
	return strings.Join(parts, ", ")
}

// entry builds a list row. Timestamps come from the state file, since the
// registry only knows when this invocation replayed the install.
func (s *session) entry(md plugin.Metadata) listEntry {
	e := listEntry{Summary: plugin.Summarize(md)}
	recorded, ok := s.state.Get(md.Name)
	if !ok {
		return e
	}
	e.Enabled = recorded.Enabled
	if !recorded.InstalledAt.IsZero() {
		at := recorded.InstalledAt
		e.InstalledAt = &at
	}
	return e
}
