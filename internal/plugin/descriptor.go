// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/atrium-dev/atrium/pkg/sdk"
)

// Dependencies maps a plugin name to a version constraint. An empty
// constraint accepts any version.
//
// Manifests may list dependencies either as a sequence of names or as a
// name-to-constraint mapping; both decode into this one representation.
type Dependencies map[string]string

// UnmarshalYAML accepts a sequence of names or a mapping of name to constraint.
func (d *Dependencies) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return fmt.Errorf("dependencies: %w", err)
		}
		*d = fromNames(names)
	case yaml.MappingNode:
		m := make(map[string]string)
		if err := node.Decode(&m); err != nil {
			return fmt.Errorf("dependencies: %w", err)
		}
		*d = m
	default:
		return fmt.Errorf("dependencies must be a list of names or a name: constraint mapping (line %d)", node.Line)
	}
	return nil
}

// UnmarshalJSON accepts an array of names or an object of name to constraint.
func (d *Dependencies) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		*d = fromNames(names)
		return nil
	}
	m := make(map[string]string)
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("dependencies must be an array of names or an object of constraints: %w", err)
	}
	*d = m
	return nil
}

// JSONSchema describes both accepted shapes.
func (Dependencies) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			{Type: "object", AdditionalProperties: &jsonschema.Schema{Type: "string"}},
		},
	}
}

// Names returns the dependency names in sorted order.
func (d Dependencies) Names() []string {
	return slices.Sorted(maps.Keys(d))
}

func fromNames(names []string) Dependencies {
	d := make(Dependencies, len(names))
	for _, n := range names {
		d[n] = ""
	}
	return d
}

// Descriptor is the identity and metadata a plugin author supplies.
type Descriptor struct {
	Name         string
	Version      string
	Description  string
	Author       string
	Homepage     string
	Keywords     []string
	Dependencies Dependencies
	// Translations is informational. Plugins contribute messages through
	// the SDK in their install hook.
	Translations map[string]sdk.Messages
}

// clone returns a copy that shares no maps or slices with d.
func (d Descriptor) clone() Descriptor {
	out := d
	out.Keywords = slices.Clone(d.Keywords)
	out.Dependencies = maps.Clone(d.Dependencies)
	if out.Dependencies == nil {
		out.Dependencies = Dependencies{}
	}
	if d.Translations != nil {
		out.Translations = make(map[string]sdk.Messages, len(d.Translations))
		for locale, msgs := range d.Translations {
			out.Translations[locale] = sdk.Clone(msgs)
		}
	}
	return out
}

// Plugin is a unit of functionality the registry manages.
//
// Lifecycle hooks are optional: a plugin opts in by also implementing
// Installer, Activator, Deactivator or Uninstaller.
type Plugin interface {
	Descriptor() Descriptor
}

// Installer is implemented by plugins that contribute to the SDK.
type Installer interface {
	Install(ctx context.Context, platform sdk.Platform) error
}

// Activator is implemented by plugins with activation side effects.
type Activator interface {
	Activate(ctx context.Context) error
}

// Deactivator is implemented by plugins that undo activation side effects.
type Deactivator interface {
	Deactivate(ctx context.Context) error
}

// Uninstaller is implemented by plugins that clean up on uninstall.
type Uninstaller interface {
	Uninstall(ctx context.Context) error
}

// Basic builds a Plugin from a descriptor and optional hook functions.
type Basic struct {
	Desc         Descriptor
	OnInstall    func(ctx context.Context, platform sdk.Platform) error
	OnActivate   func(ctx context.Context) error
	OnDeactivate func(ctx context.Context) error
	OnUninstall  func(ctx context.Context) error
}

var (
	_ Installer   = (*Basic)(nil)
	_ Activator   = (*Basic)(nil)
	_ Deactivator = (*Basic)(nil)
	_ Uninstaller = (*Basic)(nil)
)

// Descriptor implements Plugin.
func (b *Basic) Descriptor() Descriptor { return b.Desc }

// Install implements Installer.
func (b *Basic) Install(ctx context.Context, platform sdk.Platform) error {
	if b.OnInstall == nil {
		return nil
	}
	return b.OnInstall(ctx, platform)
}

// Activate implements Activator.
func (b *Basic) Activate(ctx context.Context) error {
	if b.OnActivate == nil {
		return nil
	}
	return b.OnActivate(ctx)
}

// Deactivate implements Deactivator.
func (b *Basic) Deactivate(ctx context.Context) error {
	if b.OnDeactivate == nil {
		return nil
	}
	return b.OnDeactivate(ctx)
}

// Uninstall implements Uninstaller.
func (b *Basic) Uninstall(ctx context.Context) error {
	if b.OnUninstall == nil {
		return nil
	}
	return b.OnUninstall(ctx)
}
