// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

// Package tarot contributes the premium tarot reading page. Readings are
// gated on a subscription, so the plugin depends on checkout for upgrades.
package tarot

import (
	"context"
	_ "embed"

	"github.com/atrium-dev/atrium/internal/plugin"
	"github.com/atrium-dev/atrium/pkg/sdk"
)

// Name is the plugin name.
const Name = "tarot-reading"

// PremiumPlan is the subscription plan required to draw readings.
const PremiumPlan = "premium"

//go:embed plugin.yaml
var manifestYAML []byte

var manifest = plugin.MustParseManifest(manifestYAML)

// Plugin is the tarot reading feature.
type Plugin struct{}

// New creates the plugin.
func New() *Plugin {
	return &Plugin{}
}

// Descriptor implements plugin.Plugin.
func (p *Plugin) Descriptor() plugin.Descriptor {
	return manifest.Descriptor()
}

// Install registers the reading page, the deck component and the readings store.
func (p *Plugin) Install(_ context.Context, platform sdk.Platform) error {
	platform.AddRoute(sdk.Route{
		Path:      "/dashboard/tarot",
		Name:      "tarot",
		Component: sdk.Component{Module: "plugins/tarot-reading/TarotPage.vue"},
		Meta: map[string]any{
			"requiresAuth":         true,
			"requiresSubscription": PremiumPlan,
			"upgradeRoute":         "/checkout",
			"title":                "tarot.title",
		},
	})
	platform.AddComponent("TarotDeck", sdk.Component{Module: "plugins/tarot-reading/TarotDeck.vue"})
	platform.CreateStore("tarot", sdk.StoreOptions{
		State:   map[string]any{"readings": []any{}, "lastDrawnAt": nil},
		Persist: true,
	})
	for locale, messages := range manifest.Translations {
		platform.AddTranslations(locale, messages)
	}
	return nil
}
