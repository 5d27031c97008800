// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package plugin

import (
	"sort"
	"sync"
)

// Catalog is the set of plugins compiled into a host, available for
// registration. It keeps insertion order.
type Catalog struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
	order   []string
}

// NewCatalog creates a catalog holding plugins.
func NewCatalog(plugins ...Plugin) (*Catalog, error) {
	c := &Catalog{plugins: make(map[string]Plugin)}
	for _, p := range plugins {
		if err := c.Add(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add puts a plugin in the catalog. Names must be unique.
func (c *Catalog) Add(p Plugin) error {
	if p == nil {
		return ErrNilPlugin()
	}
	name := p.Descriptor().Name
	if name == "" {
		return ErrNameRequired()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.plugins[name]; exists {
		return ErrDuplicateName(name)
	}
	c.plugins[name] = p
	c.order = append(c.order, name)
	return nil
}

// Get returns the named plugin.
func (c *Catalog) Get(name string) (Plugin, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.plugins[name]
	return p, ok
}

// Names returns plugin names sorted for deterministic output.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.order))
	copy(names, c.order)
	sort.Strings(names)
	return names
}

// RegisterAll registers every catalog plugin with r in insertion order.
// It stops at the first registration error.
func (c *Catalog) RegisterAll(r *Registry) error {
	c.mu.RLock()
	plugins := make([]Plugin, 0, len(c.order))
	for _, name := range c.order {
		plugins = append(plugins, c.plugins[name])
	}
	c.mu.RUnlock()

	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// Filter returns a new catalog holding the plugins whose names satisfy
// keep, in insertion order.
func (c *Catalog) Filter(keep func(name string) bool) *Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := &Catalog{plugins: make(map[string]Plugin)}
	for _, name := range c.order {
		if keep(name) {
			out.plugins[name] = c.plugins[name]
			out.order = append(out.order, name)
		}
	}
	return out
}
