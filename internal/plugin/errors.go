// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package plugin

import (
	"strings"

	"github.com/samber/oops"

	"github.com/atrium-dev/atrium/pkg/errutil"
)

// Error codes for registry failures. Errors returned by plugin hooks are
// passed through unchanged and carry none of these.
const (
	CodeInvalidPlugin        = "INVALID_PLUGIN"
	CodeNameRequired         = "NAME_REQUIRED"
	CodeVersionRequired      = "VERSION_REQUIRED"
	CodeInvalidVersion       = "INVALID_VERSION"
	CodeDuplicateName        = "DUPLICATE_NAME"
	CodeNotFound             = "NOT_FOUND"
	CodeDependencyNotFound   = "DEPENDENCY_NOT_FOUND"
	CodeDependencyNotReady   = "DEPENDENCY_NOT_INSTALLED"
	CodeVersionMismatch      = "VERSION_MISMATCH"
	CodeCircularDependency   = "CIRCULAR_DEPENDENCY"
	CodeNotInstalled         = "NOT_INSTALLED"
	CodeActiveDependents     = "ACTIVE_DEPENDENTS"
	CodeInvalidManifest      = "INVALID_MANIFEST"
	CodeSchemaValidationFail = "SCHEMA_VALIDATION_FAILED"
)

// IsCode reports whether err carries the given registry error code.
func IsCode(err error, code string) bool {
	return err != nil && errutil.Code(err) == code
}

// ErrNilPlugin creates an error for registering a nil plugin.
func ErrNilPlugin() error {
	return oops.Code(CodeInvalidPlugin).Errorf("plugin cannot be nil")
}

// ErrNameRequired creates an error for a descriptor without a name.
func ErrNameRequired() error {
	return oops.Code(CodeNameRequired).Errorf("plugin name is required")
}

// ErrVersionRequired creates an error for a descriptor without a version.
func ErrVersionRequired(name string) error {
	return oops.Code(CodeVersionRequired).
		With("plugin", name).
		Errorf("plugin %q: version is required", name)
}

// ErrInvalidVersion creates an error for a version that is not valid semver.
func ErrInvalidVersion(name, version string) error {
	return oops.Code(CodeInvalidVersion).
		With("plugin", name).
		With("version", version).
		Errorf("plugin %q: invalid version %q (expected MAJOR.MINOR.PATCH)", name, version)
}

// ErrDuplicateName creates an error for registering a name twice.
func ErrDuplicateName(name string) error {
	return oops.Code(CodeDuplicateName).
		With("plugin", name).
		Errorf("plugin %q is already registered", name)
}

// ErrNotFound creates an error for an unknown plugin.
func ErrNotFound(name string) error {
	return oops.Code(CodeNotFound).
		With("plugin", name).
		Errorf("plugin %q not found", name)
}

// ErrDependencyNotFound creates an error for a dependency that is not registered.
func ErrDependencyNotFound(name, dependency string) error {
	return oops.Code(CodeDependencyNotFound).
		With("plugin", name).
		With("dependency", dependency).
		Errorf("plugin %q depends on %q, which is not registered", name, dependency)
}

// ErrDependencyNotReady creates an error for a dependency that is registered
// but not installed.
func ErrDependencyNotReady(name, dependency string, status Status) error {
	return oops.Code(CodeDependencyNotReady).
		With("plugin", name).
		With("dependency", dependency).
		With("status", string(status)).
		Errorf("plugin %q depends on %q, which is not installed (status: %s)", name, dependency, status)
}

// ErrVersionMismatch creates an error for a dependency whose version fails the constraint.
func ErrVersionMismatch(name, dependency, constraint, actual string) error {
	return oops.Code(CodeVersionMismatch).
		With("plugin", name).
		With("dependency", dependency).
		With("constraint", constraint).
		With("actual_version", actual).
		Errorf("plugin %q requires %s@%s, but version %s is registered", name, dependency, constraint, actual)
}

// ErrCircularDependency creates an error describing the cycle path.
func ErrCircularDependency(path []string) error {
	return oops.Code(CodeCircularDependency).
		With("cycle", path).
		Errorf("circular dependency detected: %s", strings.Join(path, " -> "))
}

// ErrNotInstalled creates an error for activating a plugin that is not installed or inactive.
func ErrNotInstalled(name string, status Status) error {
	return oops.Code(CodeNotInstalled).
		With("plugin", name).
		With("status", string(status)).
		Errorf("plugin %q must be installed or inactive to activate (status: %s)", name, status)
}

// ErrActiveDependents creates an error listing active plugins that block deactivation.
func ErrActiveDependents(name string, dependents []string) error {
	return oops.Code(CodeActiveDependents).
		With("plugin", name).
		With("dependents", dependents).
		Errorf("cannot deactivate %q: active plugins depend on it: %s", name, strings.Join(dependents, ", "))
}
