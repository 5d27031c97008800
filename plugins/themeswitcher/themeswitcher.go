// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

// Package themeswitcher adds an appearance page where users choose a colour
// theme, and applies a default theme when the plugin is activated.
package themeswitcher

import (
	"context"
	_ "embed"
	"slices"

	"github.com/samber/oops"

	"github.com/atrium-dev/atrium/internal/plugin"
	"github.com/atrium-dev/atrium/pkg/sdk"
)

// Name is the plugin name.
const Name = "theme-switcher"

// Themes a user can choose.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

var themes = []string{ThemeLight, ThemeDark, ThemeSystem}

//go:embed plugin.yaml
var manifestYAML []byte

var manifest = plugin.MustParseManifest(manifestYAML)

// Preferences stores the theme applied to the host UI.
type Preferences interface {
	SetTheme(theme string)
}

// Plugin is the theme switcher.
type Plugin struct {
	prefs        Preferences
	defaultTheme string
}

// Option configures the plugin.
type Option func(*Plugin)

// WithDefaultTheme sets the theme applied on activation. Defaults to system.
func WithDefaultTheme(theme string) Option {
	return func(p *Plugin) {
		p.defaultTheme = theme
	}
}

// New creates the plugin. prefs receives the theme on activation and the
// system theme on deactivation.
func New(prefs Preferences, opts ...Option) *Plugin {
	p := &Plugin{prefs: prefs, defaultTheme: ThemeSystem}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Descriptor implements plugin.Plugin.
func (p *Plugin) Descriptor() plugin.Descriptor {
	return manifest.Descriptor()
}

// Install registers the appearance page, its component, the theme store and translations.
func (p *Plugin) Install(_ context.Context, platform sdk.Platform) error {
	platform.AddRoute(sdk.Route{
		Path:      "/dashboard/appearance",
		Name:      "appearance",
		Component: sdk.Component{Module: "plugins/theme-switcher/AppearancePage.vue"},
		Meta:      map[string]any{"requiresAuth": true, "title": "theme.title"},
	})
	platform.AddComponent("ThemeSwitcher", sdk.Component{
		Module: "plugins/theme-switcher/ThemeSwitcher.vue",
		Props:  map[string]any{"themes": slices.Clone(themes)},
	})
	platform.CreateStore("theme", sdk.StoreOptions{
		State:   map[string]any{"current": p.defaultTheme},
		Persist: true,
	})
	for locale, messages := range manifest.Translations {
		platform.AddTranslations(locale, messages)
	}
	return nil
}

// Activate applies the default theme.
func (p *Plugin) Activate(_ context.Context) error {
	if !slices.Contains(themes, p.defaultTheme) {
		return oops.With("theme", p.defaultTheme).Errorf("unknown theme %q", p.defaultTheme)
	}
	if p.prefs != nil {
		p.prefs.SetTheme(p.defaultTheme)
	}
	return nil
}

// Deactivate falls back to the system theme.
func (p *Plugin) Deactivate(_ context.Context) error {
	if p.prefs != nil {
		p.prefs.SetTheme(ThemeSystem)
	}
	return nil
}
