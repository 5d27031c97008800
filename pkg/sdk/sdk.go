// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

// Package sdk is the capability broker plugins use to contribute routes,
// components, stores and translations to a host application.
//
// A host creates one SDK per bootstrap and hands it to the plugin registry,
// which passes it to every plugin's install hook. After installation the host
// reads the accumulated contributions and wires them into its own router,
// component container and i18n setup; the SDK never does that wiring itself.
package sdk

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// Messages is a translation tree: leaves are strings (or other scalars),
// inner nodes are nested Messages.
type Messages map[string]any

// Component describes a lazily loaded UI module.
type Component struct {
	// Module is the bundle path the host loads on first use.
	Module string `json:"module" yaml:"module"`
	// Props are default props passed to the component.
	Props map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
}

// Route is a page contributed by a plugin.
type Route struct {
	Path      string         `json:"path" yaml:"path"`
	Name      string         `json:"name" yaml:"name"`
	Component Component      `json:"component" yaml:"component"`
	Meta      map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// StoreOptions defines a state store a plugin asks the host to create.
type StoreOptions struct {
	State   map[string]any `json:"state,omitempty" yaml:"state,omitempty"`
	Persist bool           `json:"persist,omitempty" yaml:"persist,omitempty"`
}

// I18n is a live translation backend that accepts message fragments.
type I18n interface {
	MergeLocaleMessage(locale string, messages Messages)
}

// Platform is the registration surface exposed to plugin install hooks.
type Platform interface {
	AddRoute(route Route)
	AddComponent(name string, component Component)
	RemoveComponent(name string)
	CreateStore(id string, options StoreOptions) string
	AddTranslations(locale string, messages Messages)
}

// SDK accumulates plugin contributions. It is safe for concurrent use.
type SDK struct {
	mu           sync.RWMutex
	routes       []Route
	components   map[string]Component
	stores       map[string]StoreOptions
	translations map[string]Messages
	i18n         I18n
	logger       *slog.Logger
}

var _ Platform = (*SDK)(nil)

// Option configures an SDK.
type Option func(*SDK)

// WithI18n forwards every AddTranslations fragment to a live i18n backend.
func WithI18n(i I18n) Option {
	return func(s *SDK) {
		s.i18n = i
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *SDK) {
		s.logger = l
	}
}

// New creates an empty SDK.
func New(opts ...Option) *SDK {
	s := &SDK{
		components:   make(map[string]Component),
		stores:       make(map[string]StoreOptions),
		translations: make(map[string]Messages),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddRoute appends a route. Routes keep contribution order and are not deduplicated.
func (s *SDK) AddRoute(route Route) {
	s.mu.Lock()
	s.routes = append(s.routes, route)
	s.mu.Unlock()

	s.logger.Debug("route added", "path", route.Path, "name", route.Name)
}

// Routes returns the contributed routes in order.
func (s *SDK) Routes() []Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.routes)
}

// AddComponent registers a component. A later registration under the same name wins.
func (s *SDK) AddComponent(name string, component Component) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components[name] = component
}

// RemoveComponent drops a component registration.
func (s *SDK) RemoveComponent(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.components, name)
}

// Components returns the registered components by name.
func (s *SDK) Components() map[string]Component {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.components)
}

// CreateStore registers store options under id and returns id.
func (s *SDK) CreateStore(id string, options StoreOptions) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores[id] = options
	return id
}

// Stores returns the registered store definitions by id.
func (s *SDK) Stores() map[string]StoreOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.stores)
}

// AddTranslations deep-merges messages into the tree for locale. When a live
// i18n backend is configured, the incoming fragment (not the merged tree) is
// forwarded to it as well.
func (s *SDK) AddTranslations(locale string, messages Messages) {
	s.mu.Lock()
	s.translations[locale] = Merge(s.translations[locale], messages)
	i18n := s.i18n
	s.mu.Unlock()

	if i18n != nil {
		i18n.MergeLocaleMessage(locale, Clone(messages))
	}
}

// Translations returns a deep copy of the accumulated locale trees.
func (s *SDK) Translations() map[string]Messages {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Messages, len(s.translations))
	for locale, tree := range s.translations {
		out[locale] = Clone(tree)
	}
	return out
}
