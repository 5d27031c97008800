// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package plugin_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atrium-dev/atrium/internal/plugin"
)

func TestDependencies_UnmarshalJSON(t *testing.T) {
	var list plugin.Dependencies
	require.NoError(t, json.Unmarshal([]byte(`["checkout","theme-switcher"]`), &list))
	assert.Equal(t, plugin.Dependencies{"checkout": "", "theme-switcher": ""}, list)

	var mapping plugin.Dependencies
	require.NoError(t, json.Unmarshal([]byte(`{"checkout":"^1.0.0"}`), &mapping))
	assert.Equal(t, plugin.Dependencies{"checkout": "^1.0.0"}, mapping)

	var bad plugin.Dependencies
	assert.Error(t, json.Unmarshal([]byte(`"checkout"`), &bad))
}

func TestDependencies_Names(t *testing.T) {
	d := plugin.Dependencies{"zeta": "", "alpha": "^1.0.0", "mid": ""}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, d.Names())
	assert.Empty(t, plugin.Dependencies(nil).Names())
}

func TestBasic_NilHooksAreNoops(t *testing.T) {
	b := &plugin.Basic{Desc: plugin.Descriptor{Name: "bare", Version: "1.0.0"}}
	ctx := context.Background()

	assert.NoError(t, b.Install(ctx, nil))
	assert.NoError(t, b.Activate(ctx))
	assert.NoError(t, b.Deactivate(ctx))
	assert.NoError(t, b.Uninstall(ctx))
	assert.Equal(t, "bare", b.Descriptor().Name)
}
