// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package plugin

import (
	"slices"

	"github.com/samber/oops"

	"github.com/atrium-dev/atrium/internal/semver"
)

// visit states for the depth-first sort.
const (
	unvisited = iota
	visiting
	visited
)

// InstallOrder returns every registered plugin name ordered so that each
// plugin follows all of its transitive dependencies.
//
// It fails if a dependency is not registered, if a registered dependency's
// version does not satisfy the declared constraint, or if the dependency
// graph has a cycle.
func (r *Registry) InstallOrder() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.installOrderLocked()
}

// installOrderLocked runs the sort; the caller must hold r.mu.
func (r *Registry) installOrderLocked() ([]string, error) {
	state := make(map[string]int, len(r.entries))
	order := make([]string, 0, len(r.entries))
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visiting:
			start := slices.Index(path, name)
			cycle := append(slices.Clone(path[start:]), name)
			return ErrCircularDependency(cycle)
		case visited:
			return nil
		}

		state[name] = visiting
		path = append(path, name)

		e := r.entries[name]
		for _, dep := range e.desc.Dependencies.Names() {
			target, ok := r.entries[dep]
			if !ok {
				return ErrDependencyNotFound(name, dep)
			}
			if err := checkConstraint(name, dep, e.desc.Dependencies[dep], target.desc.Version); err != nil {
				return err
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		state[name] = visited
		path = path[:len(path)-1]
		order = append(order, name)
		return nil
	}

	for _, name := range r.order {
		if state[name] != unvisited {
			continue
		}
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// CheckDependencies verifies that every direct dependency of name is
// registered, installed (or further along its lifecycle) and satisfies the
// declared constraint. Use it before installing a single plugin with Install.
func (r *Registry) CheckDependencies(name string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return ErrNotFound(name)
	}
	for _, dep := range e.desc.Dependencies.Names() {
		target, ok := r.entries[dep]
		if !ok {
			return ErrDependencyNotFound(name, dep)
		}
		if target.status == StatusRegistered {
			return ErrDependencyNotReady(name, dep, target.status)
		}
		if err := checkConstraint(name, dep, e.desc.Dependencies[dep], target.desc.Version); err != nil {
			return err
		}
	}
	return nil
}

func checkConstraint(name, dep, constraint, version string) error {
	if constraint == "" {
		return nil
	}
	ok, err := semver.Satisfies(version, constraint)
	if err != nil {
		return oops.With("plugin", name).With("dependency", dep).Wrap(err)
	}
	if !ok {
		return ErrVersionMismatch(name, dep, constraint, version)
	}
	return nil
}
