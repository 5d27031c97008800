// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

// Package plugins bundles the plugins compiled into Atrium.
package plugins

import (
	"github.com/atrium-dev/atrium/internal/plugin"
	"github.com/atrium-dev/atrium/plugins/checkout"
	"github.com/atrium-dev/atrium/plugins/tarot"
	"github.com/atrium-dev/atrium/plugins/themeswitcher"
)

// Deps are the host collaborators built-in plugins need.
type Deps struct {
	Preferences  themeswitcher.Preferences
	DefaultTheme string
	Currency     string
}

// Builtins returns a catalog of every built-in plugin.
func Builtins(deps Deps) (*plugin.Catalog, error) {
	var themeOpts []themeswitcher.Option
	if deps.DefaultTheme != "" {
		themeOpts = append(themeOpts, themeswitcher.WithDefaultTheme(deps.DefaultTheme))
	}
	return plugin.NewCatalog(
		themeswitcher.New(deps.Preferences, themeOpts...),
		checkout.New(deps.Currency),
		tarot.New(),
	)
}
