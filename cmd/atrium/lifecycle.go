// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atrium-dev/atrium/internal/plugin"
	"github.com/atrium-dev/atrium/internal/state"
)

func newInstallCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "install NAME",
		Short: "Install a plugin",
		Long: `Install a built-in plugin. Every plugin it depends on must already be
installed at a version that satisfies the declared constraint. The plugin
is recorded as installed but not enabled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, g, args[0])
		},
	}
}

func runInstall(cmd *cobra.Command, g *globals, name string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, g)
	if err != nil {
		return g.fail("failed to load plugin state", err)
	}

	md, ok := s.registry.Get(name)
	if !ok {
		return g.fail("cannot install plugin", plugin.ErrNotFound(name))
	}
	if md.Status != plugin.StatusRegistered {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s is already installed\n", md.Name, md.Version)
		return nil
	}

	if err := s.registry.CheckDependencies(name); err != nil {
		return g.fail("cannot install plugin", err)
	}
	if err := s.registry.Install(ctx, name, s.sdk); err != nil {
		return g.fail("install failed", err)
	}

	s.state.Set(name, state.Entry{
		Version:     md.Version,
		InstalledAt: s.now().UTC(),
		Source:      sourceBuiltin,
	})
	if err := s.save(); err != nil {
		return g.fail("failed to save plugin state", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "installed %s %s\n", md.Name, md.Version)
	return nil
}

func newEnableCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "enable NAME",
		Short: "Activate an installed plugin",
		Long:  `Activate an installed plugin and record it as enabled.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnable(cmd, g, args[0])
		},
	}
}

func runEnable(cmd *cobra.Command, g *globals, name string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, g)
	if err != nil {
		return g.fail("failed to load plugin state", err)
	}

	if err := s.registry.Activate(ctx, name); err != nil {
		return g.fail("enable failed", err)
	}
	s.state.SetEnabled(name, true)
	if err := s.save(); err != nil {
		return g.fail("failed to save plugin state", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "enabled %s\n", name)
	return nil
}

func newDisableCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "disable NAME",
		Short: "Deactivate a plugin",
		Long: `Run a plugin's deactivate hook and record it as disabled. Fails while an
enabled plugin depends on it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisable(cmd, g, args[0])
		},
	}
}

func runDisable(cmd *cobra.Command, g *globals, name string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, g)
	if err != nil {
		return g.fail("failed to load plugin state", err)
	}

	if err := s.registry.Deactivate(ctx, name); err != nil {
		return g.fail("disable failed", err)
	}
	s.state.SetEnabled(name, false)
	if err := s.save(); err != nil {
		return g.fail("failed to save plugin state", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "disabled %s\n", name)
	return nil
}

func newUninstallCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall NAME",
		Short: "Uninstall a plugin",
		Long: `Uninstall a plugin and remove it from the state file. Plugins that
depend on it are not checked and stay installed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUninstall(cmd, g, args[0])
		},
	}
}

func runUninstall(cmd *cobra.Command, g *globals, name string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, g)
	if err != nil {
		return g.fail("failed to load plugin state", err)
	}

	if err := s.registry.Uninstall(ctx, name); err != nil {
		return g.fail("uninstall failed", err)
	}
	s.state.Delete(name)
	if err := s.save(); err != nil {
		return g.fail("failed to save plugin state", err)
	}

	var dependents []string
	for _, d := range s.registry.Dependents(name) {
		if _, installed := s.state.Get(d); installed {
			dependents = append(dependents, d)
		}
	}
	if len(dependents) > 0 {
		s.logger.Warn("plugins that depend on the uninstalled plugin remain installed",
			"plugin", name, "dependents", dependents)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "uninstalled %s\n", name)
	return nil
}
