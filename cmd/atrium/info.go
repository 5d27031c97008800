// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/atrium-dev/atrium/internal/plugin"
)

func newInfoCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "info NAME",
		Short: "Show details of one plugin",
		Long:  `Show a plugin's descriptor, its dependencies and dependents, and its status.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, g, args[0])
		},
	}
}

func runInfo(cmd *cobra.Command, g *globals, name string) error {
	s, err := openSession(cmd.Context(), g)
	if err != nil {
		return g.fail("failed to load plugin state", err)
	}

	md, ok := s.registry.Get(name)
	if !ok {
		return g.fail("unknown plugin", plugin.ErrNotFound(name))
	}

	writeInfo(cmd.OutOrStdout(), s.entry(md), md, s.registry.Dependents(name))
	return nil
}

func writeInfo(w io.Writer, e listEntry, md plugin.Metadata, dependents []string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(k, v string) {
		if v == "" {
			v = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s:\t%s\n", k, v)
	}

	row("Name", md.Name)
	row("Version", md.Version)
	row("Description", md.Description)
	row("Author", md.Author)
	row("Homepage", md.Homepage)
	row("Keywords", strings.Join(md.Keywords, ", "))
	row("Status", string(md.Status))
	row("Enabled", fmt.Sprint(e.Enabled))
	if e.InstalledAt != nil {
		row("Installed", e.InstalledAt.Format(time.RFC3339))
	}
	if len(md.Dependencies) > 0 {
		row("Depends on", formatDependencies(md.Dependencies))
	} else {
		row("Depends on", "")
	}
	row("Required by", strings.Join(dependents, ", "))
	row("Locales", strings.Join(locales(md), ", "))
	_ = tw.Flush()
}

func locales(md plugin.Metadata) []string {
	return slices.Sorted(maps.Keys(md.Translations))
}
