// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package plugin

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/atrium-dev/atrium/internal/semver"
	"github.com/atrium-dev/atrium/pkg/sdk"
)

const tracerName = "github.com/atrium-dev/atrium/internal/plugin"

// Lifecycle operation names, used for spans and metrics.
const (
	opInstall    = "install"
	opInstallAll = "install_all"
	opActivate   = "activate"
	opDeactivate = "deactivate"
	opUninstall  = "uninstall"
)

type entry struct {
	plugin      Plugin
	desc        Descriptor
	status      Status
	installedAt time.Time
	activatedAt time.Time
}

func (e *entry) snapshot() Metadata {
	return Metadata{
		Descriptor:  e.desc.clone(),
		Status:      e.status,
		InstalledAt: e.installedAt,
		ActivatedAt: e.activatedAt,
	}
}

// Registry tracks registered plugins and drives their lifecycle.
//
// Lifecycle operations are serialized: one hook runs at a time, and a
// transition is committed only after its hook returns without error.
// Hooks run without the state lock held, so they may call Get and List.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string

	// lifecycle serializes install/activate/deactivate/uninstall.
	lifecycle sync.Mutex

	now     func() time.Time
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithClock sets the time source for InstalledAt and ActivatedAt.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

// WithLogger sets the registry logger.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithMetrics reports transitions and status counts to m.
func WithMetrics(m *Metrics) RegistryOption {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithTracer sets the tracer used for lifecycle spans.
func WithTracer(t trace.Tracer) RegistryOption {
	return func(r *Registry) {
		r.tracer = t
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		now:     time.Now,
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a plugin with status registered. No hooks run.
func (r *Registry) Register(p Plugin) error {
	if p == nil {
		return ErrNilPlugin()
	}
	desc := p.Descriptor().clone()

	switch {
	case desc.Name == "":
		return ErrNameRequired()
	case desc.Version == "":
		return ErrVersionRequired(desc.Name)
	case !semver.IsValid(desc.Version):
		return ErrInvalidVersion(desc.Name, desc.Version)
	}

	r.mu.Lock()
	if _, exists := r.entries[desc.Name]; exists {
		r.mu.Unlock()
		return ErrDuplicateName(desc.Name)
	}
	r.entries[desc.Name] = &entry{plugin: p, desc: desc, status: StatusRegistered}
	r.order = append(r.order, desc.Name)
	counts := r.countsLocked()
	r.mu.Unlock()

	r.metrics.setStatusCounts(counts)
	r.logger.Debug("plugin registered", "plugin", desc.Name, "version", desc.Version)
	return nil
}

// Get returns a snapshot of the named plugin.
func (r *Registry) Get(name string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return Metadata{}, false
	}
	return e.snapshot(), true
}

// List returns snapshots of all plugins in registration order.
func (r *Registry) List() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Metadata, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].snapshot())
	}
	return out
}

// Dependents returns the registered plugins that declare name as a
// dependency, in registration order.
func (r *Registry) Dependents(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dependentsLocked(name, false)
}

func (r *Registry) dependentsLocked(name string, activeOnly bool) []string {
	var out []string
	for _, other := range r.order {
		if other == name {
			continue
		}
		e := r.entries[other]
		if activeOnly && e.status != StatusActive {
			continue
		}
		if _, ok := e.desc.Dependencies[name]; ok {
			out = append(out, other)
		}
	}
	return out
}

// Install runs the plugin's install hook with platform and marks it installed.
// Dependencies are not checked here; InstallAll orders and validates them.
func (r *Registry) Install(ctx context.Context, name string, platform sdk.Platform) error {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()
	return r.install(ctx, name, platform)
}

func (r *Registry) install(ctx context.Context, name string, platform sdk.Platform) error {
	return r.run(ctx, opInstall, name, func(ctx context.Context) error {
		e, _, err := r.lookup(name)
		if err != nil {
			return err
		}
		if h, ok := e.plugin.(Installer); ok {
			if err := h.Install(ctx, platform); err != nil {
				return err
			}
		}
		r.commit(e, func(e *entry) {
			e.status = StatusInstalled
			e.installedAt = r.now()
		})
		r.logger.Info("plugin installed", "plugin", name, "version", e.desc.Version)
		return nil
	})
}

// InstallAll installs every registered plugin in dependency order.
//
// The whole order is validated before any hook runs. Plugins are installed
// one after another; the first failure stops the pass and plugins already
// installed by it stay installed.
func (r *Registry) InstallAll(ctx context.Context, platform sdk.Platform) error {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	ctx, span := r.tracer.Start(ctx, "plugin."+opInstallAll)
	defer span.End()

	err := r.installAll(ctx, platform)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	r.metrics.recordTransition(opInstallAll, err)
	return err
}

func (r *Registry) installAll(ctx context.Context, platform sdk.Platform) error {
	order, err := r.InstallOrder()
	if err != nil {
		return err
	}
	r.logger.Debug("computed install order", "order", order)

	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return oops.With("plugin", name).Wrapf(err, "install aborted")
		}
		if err := r.install(ctx, name, platform); err != nil {
			return err
		}
	}
	return nil
}

// Activate runs the plugin's activate hook and marks it active. The plugin
// must be installed or inactive.
func (r *Registry) Activate(ctx context.Context, name string) error {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	return r.run(ctx, opActivate, name, func(ctx context.Context) error {
		e, status, err := r.lookup(name)
		if err != nil {
			return err
		}
		if status != StatusInstalled && status != StatusInactive {
			return ErrNotInstalled(name, status)
		}
		if h, ok := e.plugin.(Activator); ok {
			if err := h.Activate(ctx); err != nil {
				return err
			}
		}
		r.commit(e, func(e *entry) {
			e.status = StatusActive
			e.activatedAt = r.now()
		})
		r.logger.Info("plugin activated", "plugin", name)
		return nil
	})
}

// Deactivate runs the plugin's deactivate hook and marks it inactive from
// any status. It refuses while any other active plugin depends on name.
func (r *Registry) Deactivate(ctx context.Context, name string) error {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	return r.run(ctx, opDeactivate, name, func(ctx context.Context) error {
		e, _, err := r.lookup(name)
		if err != nil {
			return err
		}

		r.mu.RLock()
		dependents := r.dependentsLocked(name, true)
		r.mu.RUnlock()
		if len(dependents) > 0 {
			return ErrActiveDependents(name, dependents)
		}

		if h, ok := e.plugin.(Deactivator); ok {
			if err := h.Deactivate(ctx); err != nil {
				return err
			}
		}
		// ActivatedAt keeps the time of the last activation.
		r.commit(e, func(e *entry) {
			e.status = StatusInactive
		})
		r.logger.Info("plugin deactivated", "plugin", name)
		return nil
	})
}

// Uninstall runs the plugin's uninstall hook and returns it to registered,
// clearing its timestamps. Dependents are not checked.
func (r *Registry) Uninstall(ctx context.Context, name string) error {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	return r.run(ctx, opUninstall, name, func(ctx context.Context) error {
		e, _, err := r.lookup(name)
		if err != nil {
			return err
		}
		if h, ok := e.plugin.(Uninstaller); ok {
			if err := h.Uninstall(ctx); err != nil {
				return err
			}
		}
		r.commit(e, func(e *entry) {
			e.status = StatusRegistered
			e.installedAt = time.Time{}
			e.activatedAt = time.Time{}
		})
		r.logger.Info("plugin uninstalled", "plugin", name)
		return nil
	})
}

// run wraps a lifecycle operation in a span and records its outcome.
func (r *Registry) run(ctx context.Context, op, name string, fn func(context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, "plugin."+op,
		trace.WithAttributes(attribute.String("plugin.name", name)))
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Debug("plugin operation failed", "operation", op, "plugin", name, "error", err)
	}
	r.metrics.recordTransition(op, err)
	return err
}

func (r *Registry) lookup(name string) (*entry, Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, "", ErrNotFound(name)
	}
	return e, e.status, nil
}

func (r *Registry) commit(e *entry, mutate func(*entry)) {
	r.mu.Lock()
	mutate(e)
	counts := r.countsLocked()
	r.mu.Unlock()

	r.metrics.setStatusCounts(counts)
}

func (r *Registry) countsLocked() map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, e := range r.entries {
		counts[e.status]++
	}
	return counts
}
