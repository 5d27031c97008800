// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

// Package checkout contributes the plan checkout flow.
package checkout

import (
	"context"
	_ "embed"

	"github.com/atrium-dev/atrium/internal/plugin"
	"github.com/atrium-dev/atrium/pkg/sdk"
)

// Name is the plugin name.
const Name = "checkout"

//go:embed plugin.yaml
var manifestYAML []byte

var manifest = plugin.MustParseManifest(manifestYAML)

// Plugin is the checkout flow.
type Plugin struct {
	currency string
}

// New creates the plugin charging in currency (ISO 4217, e.g. "USD").
func New(currency string) *Plugin {
	if currency == "" {
		currency = "USD"
	}
	return &Plugin{currency: currency}
}

// Descriptor implements plugin.Plugin.
func (p *Plugin) Descriptor() plugin.Descriptor {
	return manifest.Descriptor()
}

// Install registers the checkout pages, the payment form and the cart store.
func (p *Plugin) Install(_ context.Context, platform sdk.Platform) error {
	page := sdk.Component{Module: "plugins/checkout/CheckoutPage.vue"}
	platform.AddRoute(sdk.Route{
		Path:      "/checkout",
		Name:      "checkout",
		Component: page,
		Meta:      map[string]any{"requiresAuth": true, "title": "checkout.title"},
	})
	platform.AddRoute(sdk.Route{
		Path:      "/checkout/success",
		Name:      "checkout-success",
		Component: sdk.Component{Module: "plugins/checkout/CheckoutSuccess.vue"},
		Meta:      map[string]any{"requiresAuth": true},
	})
	platform.AddComponent("CheckoutForm", sdk.Component{
		Module: "plugins/checkout/CheckoutForm.vue",
		Props:  map[string]any{"currency": p.currency},
	})
	platform.CreateStore("checkout", sdk.StoreOptions{
		State: map[string]any{"currency": p.currency, "planId": nil, "step": "plan"},
	})
	for locale, messages := range manifest.Translations {
		platform.AddTranslations(locale, messages)
	}
	return nil
}
