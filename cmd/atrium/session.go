// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/atrium-dev/atrium/internal/plugin"
	"github.com/atrium-dev/atrium/internal/semver"
	"github.com/atrium-dev/atrium/internal/state"
	"github.com/atrium-dev/atrium/pkg/sdk"
	"github.com/atrium-dev/atrium/plugins"
)

// sourceBuiltin marks state entries for plugins compiled into the binary.
const sourceBuiltin = "builtin"

// session is one CLI invocation's view of the host: a fresh registry and
// SDK brought to the state recorded in the state file.
type session struct {
	cfg      *Config
	logger   *slog.Logger
	registry *plugin.Registry
	sdk      *sdk.SDK
	state    *state.File
	now      func() time.Time
}

// openSession loads the state file, registers every built-in plugin and
// replays the recorded installs and activations.
func openSession(ctx context.Context, g *globals) (*session, error) {
	st, err := state.Load(g.cfg.StateFile)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:    g.cfg,
		logger: g.logger,
		sdk:    sdk.New(sdk.WithI18n(newLocaleMessages(g.cfg.Locale)), sdk.WithLogger(g.logger)),
		state:  st,
		now:    time.Now,
	}

	s.registry = plugin.NewRegistry(plugin.WithLogger(g.logger))

	catalog, err := builtinCatalog(g)
	if err != nil {
		return nil, err
	}
	if err := catalog.RegisterAll(s.registry); err != nil {
		return nil, err
	}

	if err := s.replay(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func builtinCatalog(g *globals) (*plugin.Catalog, error) {
	return plugins.Builtins(plugins.Deps{
		Preferences:  &logPreferences{logger: g.logger},
		DefaultTheme: g.cfg.DefaultTheme,
		Currency:     g.cfg.Currency,
	})
}

// replay installs recorded plugins in dependency order, then activates the
// enabled ones in the same order.
func (s *session) replay(ctx context.Context) error {
	for _, name := range s.state.Installed() {
		if _, ok := s.registry.Get(name); !ok {
			s.logger.Warn("state file names an unknown plugin, ignoring", "plugin", name)
		}
	}

	order, err := s.registry.InstallOrder()
	if err != nil {
		return err
	}

	for _, name := range order {
		entry, ok := s.state.Get(name)
		if !ok {
			continue
		}
		if md, _ := s.registry.Get(name); md.Version != entry.Version {
			s.logger.Warn("installed plugin version changed",
				"plugin", name, "recorded", entry.Version, "available", md.Version,
				"change", versionChange(entry.Version, md.Version))
		}
		if err := s.registry.Install(ctx, name, s.sdk); err != nil {
			return err
		}
	}

	for _, name := range order {
		if entry, ok := s.state.Get(name); ok && entry.Enabled {
			if err := s.registry.Activate(ctx, name); err != nil {
				return err
			}
		}
	}
	return nil
}

// versionChange names the direction of a drift from recorded to available.
func versionChange(recorded, available string) string {
	d, err := semver.Compare(recorded, available)
	switch {
	case err != nil:
		return "unknown"
	case d < 0:
		return "upgrade"
	case d > 0:
		return "downgrade"
	default:
		return "build"
	}
}

func (s *session) save() error {
	return s.state.Save(s.cfg.StateFile)
}

// logPreferences applies themes by logging them; the CLI has no UI.
type logPreferences struct {
	logger *slog.Logger
}

func (p *logPreferences) SetTheme(theme string) {
	p.logger.Debug("theme applied", "theme", theme)
}

// localeMessages is the i18n backend for the CLI. It keeps the messages of
// one locale and ignores the rest.
type localeMessages struct {
	locale string

	mu       sync.Mutex
	messages sdk.Messages
}

func newLocaleMessages(locale string) *localeMessages {
	return &localeMessages{locale: locale, messages: sdk.Messages{}}
}

// MergeLocaleMessage implements sdk.I18n.
func (l *localeMessages) MergeLocaleMessage(locale string, messages sdk.Messages) {
	if locale != l.locale {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = sdk.Merge(l.messages, messages)
}

// Keys returns the number of leaf messages held.
func (l *localeMessages) Keys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return countLeaves(l.messages)
}

func countLeaves(m sdk.Messages) int {
	n := 0
	for _, v := range m {
		if sub, ok := v.(sdk.Messages); ok {
			n += countLeaves(sub)
			continue
		}
		n++
	}
	return n
}
