// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/atrium-dev/atrium/internal/logging"
	"github.com/atrium-dev/atrium/pkg/errutil"
	"github.com/atrium-dev/atrium/plugins/themeswitcher"
)

// globals is shared by every subcommand. It is filled in by the root
// command's PersistentPreRunE before a subcommand runs.
type globals struct {
	configFile string
	cfg        *Config
	logger     *slog.Logger
}

// NewRootCmd creates the root command for the atrium CLI.
func NewRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   "atrium",
		Short: "Manage the plugins of an Atrium host",
		Long: `atrium installs, enables, disables and uninstalls the plugins built
into an Atrium host, and serves their status over HTTP.

Plugin state is kept in a JSON file so that it survives between runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.init(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/atrium/atrium.yaml)")
	pf.String("state-file", "", "plugin state file (default: XDG_STATE_HOME/atrium/plugins.json)")
	pf.String("log-format", defaultLogFormat, "log format (json or text)")
	pf.String("log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	pf.String("locale", defaultLocale, "locale for plugin messages")
	pf.String("default-theme", themeswitcher.ThemeSystem, "theme applied when theme-switcher is enabled")
	pf.String("currency", defaultCurrency, "checkout currency (ISO 4217)")

	cmd.AddCommand(newListCmd(g))
	cmd.AddCommand(newInfoCmd(g))
	cmd.AddCommand(newInstallCmd(g))
	cmd.AddCommand(newEnableCmd(g))
	cmd.AddCommand(newDisableCmd(g))
	cmd.AddCommand(newUninstallCmd(g))
	cmd.AddCommand(newServeCmd(g))

	return cmd
}

func (g *globals) init(cmd *cobra.Command) error {
	cfg, err := loadConfig(g.configFile, cmd.Flags())
	if err != nil {
		errutil.LogError(nil, "configuration failed", err)
		return err
	}

	logger, err := logging.New(logging.Options{
		Service: "atrium",
		Version: version,
		Format:  cfg.LogFormat,
		Level:   cfg.LogLevel,
		Writer:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	g.cfg = cfg
	g.logger = logger
	return nil
}

// fail logs err with its oops code and context and returns it so cobra
// exits non-zero.
func (g *globals) fail(msg string, err error) error {
	errutil.LogError(g.logger, msg, err)
	return err
}
