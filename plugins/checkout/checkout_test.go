// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package checkout_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atrium-dev/atrium/pkg/sdk"
	"github.com/atrium-dev/atrium/plugins/checkout"
)

func TestInstall(t *testing.T) {
	platform := sdk.New()
	require.NoError(t, checkout.New("EUR").Install(context.Background(), platform))

	var paths []string
	for _, r := range platform.Routes() {
		paths = append(paths, r.Path)
	}
	assert.Equal(t, []string{"/checkout", "/checkout/success"}, paths)

	form := platform.Components()["CheckoutForm"]
	assert.Equal(t, "EUR", form.Props["currency"])
	assert.Equal(t, "EUR", platform.Stores()["checkout"].State["currency"])
	assert.Equal(t, "Paiement", platform.Translations()["fr"]["checkout"].(sdk.Messages)["title"])
}

func TestNewDefaultsCurrency(t *testing.T) {
	platform := sdk.New()
	require.NoError(t, checkout.New("").Install(context.Background(), platform))
	assert.Equal(t, "USD", platform.Stores()["checkout"].State["currency"])
}

func TestDescriptor(t *testing.T) {
	d := checkout.New("").Descriptor()
	assert.Equal(t, checkout.Name, d.Name)
	assert.Equal(t, "1.2.0", d.Version)
}
