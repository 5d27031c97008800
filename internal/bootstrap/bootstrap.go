// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

// Package bootstrap boots a host's plugins: it registers a catalog,
// installs everything in dependency order and activates the enabled set.
package bootstrap

import (
	"context"
	"log/slog"
	"slices"

	"github.com/samber/oops"

	"github.com/atrium-dev/atrium/internal/plugin"
	"github.com/atrium-dev/atrium/pkg/errutil"
	"github.com/atrium-dev/atrium/pkg/sdk"
)

// Options are the collaborators Run wires together.
type Options struct {
	Registry *plugin.Registry
	SDK      *sdk.SDK
	Catalog  *plugin.Catalog
	// Enabled names the plugins to activate after installation.
	Enabled []string
	Logger  *slog.Logger
}

// Result is what the host mounts after booting.
type Result struct {
	// Degraded is set when booting failed part way. The snapshots then hold
	// whatever the plugins installed before the failure.
	Degraded     bool
	Order        []string
	Activated    []string
	Routes       []sdk.Route
	Components   map[string]sdk.Component
	Stores       map[string]sdk.StoreOptions
	Translations map[string]sdk.Messages
}

// Run boots the plugins. On failure it logs the error and returns a
// degraded result together with it, so the host can keep serving.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Registry == nil || opts.SDK == nil {
		return nil, oops.Errorf("bootstrap requires a registry and an SDK")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	res := &Result{}
	err := run(ctx, opts, res)
	res.Routes = opts.SDK.Routes()
	res.Components = opts.SDK.Components()
	res.Stores = opts.SDK.Stores()
	res.Translations = opts.SDK.Translations()

	if err != nil {
		res.Degraded = true
		errutil.LogError(logger, "plugin bootstrap failed, continuing without plugins", err)
		return res, err
	}
	logger.Info("plugins ready",
		"installed", len(res.Order),
		"active", len(res.Activated),
		"routes", len(res.Routes))
	return res, nil
}

func run(ctx context.Context, opts Options, res *Result) error {
	if opts.Catalog != nil {
		if err := opts.Catalog.RegisterAll(opts.Registry); err != nil {
			return err
		}
	}

	order, err := opts.Registry.InstallOrder()
	if err != nil {
		return err
	}
	res.Order = order

	for _, name := range opts.Enabled {
		if _, ok := opts.Registry.Get(name); !ok {
			return plugin.ErrNotFound(name)
		}
	}

	if err := opts.Registry.InstallAll(ctx, opts.SDK); err != nil {
		return err
	}

	// Activate dependencies before their dependents.
	for _, name := range order {
		if !slices.Contains(opts.Enabled, name) {
			continue
		}
		if err := opts.Registry.Activate(ctx, name); err != nil {
			return oops.With("plugin", name).Wrapf(err, "activate")
		}
		res.Activated = append(res.Activated, name)
	}
	return nil
}
