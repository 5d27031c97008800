// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package plugin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atrium-dev/atrium/internal/plugin"
	"github.com/atrium-dev/atrium/pkg/errutil"
	"github.com/atrium-dev/atrium/pkg/sdk"
)

func TestRegistry_CheckDependencies(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}

	t.Run("unknown plugin", func(t *testing.T) {
		err := newRegistry().CheckDependencies("ghost")
		errutil.AssertErrorCode(t, err, plugin.CodeNotFound)
	})

	t.Run("dependency not registered", func(t *testing.T) {
		r := newRegistry()
		mustRegister(t, r, rec.plugin("tarot", "1.0.0", plugin.Dependencies{"checkout": ""}))

		err := r.CheckDependencies("tarot")
		errutil.AssertErrorCode(t, err, plugin.CodeDependencyNotFound)
	})

	t.Run("dependency registered but not installed", func(t *testing.T) {
		r := newRegistry()
		mustRegister(t, r,
			rec.plugin("checkout", "1.2.0", nil),
			rec.plugin("tarot", "1.0.0", plugin.Dependencies{"checkout": "^1.0.0"}),
		)

		err := r.CheckDependencies("tarot")
		errutil.AssertErrorCode(t, err, plugin.CodeDependencyNotReady)
		errutil.AssertErrorContext(t, err, "status", "registered")
	})

	t.Run("installed dependency with wrong version", func(t *testing.T) {
		r := newRegistry()
		mustRegister(t, r,
			rec.plugin("checkout", "2.0.0", nil),
			rec.plugin("tarot", "1.0.0", plugin.Dependencies{"checkout": "^1.0.0"}),
		)
		require.NoError(t, r.Install(ctx, "checkout", sdk.New()))

		err := r.CheckDependencies("tarot")
		errutil.AssertErrorCode(t, err, plugin.CodeVersionMismatch)
	})

	t.Run("satisfied by an active or inactive dependency", func(t *testing.T) {
		r := newRegistry()
		mustRegister(t, r,
			rec.plugin("checkout", "1.2.0", nil),
			rec.plugin("tarot", "1.0.0", plugin.Dependencies{"checkout": "^1.0.0"}),
		)
		require.NoError(t, r.Install(ctx, "checkout", sdk.New()))
		require.NoError(t, r.CheckDependencies("tarot"))

		require.NoError(t, r.Activate(ctx, "checkout"))
		require.NoError(t, r.CheckDependencies("tarot"))

		require.NoError(t, r.Deactivate(ctx, "checkout"))
		require.NoError(t, r.CheckDependencies("tarot"))
	})

	t.Run("no dependencies", func(t *testing.T) {
		r := newRegistry()
		mustRegister(t, r, rec.plugin("solo", "1.0.0", nil))
		require.NoError(t, r.CheckDependencies("solo"))
	})
}
