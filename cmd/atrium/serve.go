// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/atrium-dev/atrium/internal/bootstrap"
	"github.com/atrium-dev/atrium/internal/observability"
	"github.com/atrium-dev/atrium/internal/plugin"
	"github.com/atrium-dev/atrium/internal/state"
	"github.com/atrium-dev/atrium/pkg/sdk"
)

const (
	shutdownTimeout = 5 * time.Second
	hostTracerName  = "github.com/atrium-dev/atrium/cmd/atrium"
)

func newServeCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Boot installed plugins and serve their status",
		Long: `Boot the installed plugins into a host, activating the enabled ones,
and serve /metrics, /healthz/liveness, /healthz/readiness and /plugins until
interrupted. If booting fails the host keeps serving in degraded mode.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), g)
		},
	}

	cmd.Flags().String("metrics-addr", defaultMetricsAddr, "metrics/health HTTP address")

	return cmd
}

func runServe(ctx context.Context, g *globals) error {
	if g.cfg.MetricsAddr == "" {
		return g.fail("invalid configuration", oops.Errorf("metrics_addr is required for serve"))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := state.Load(g.cfg.StateFile)
	if err != nil {
		return g.fail("failed to load plugin state", err)
	}
	catalog, err := builtinCatalog(g)
	if err != nil {
		return g.fail("failed to build plugin catalog", err)
	}
	for _, name := range st.Installed() {
		if _, ok := catalog.Get(name); !ok {
			g.logger.Warn("state file names an unknown plugin, ignoring", "plugin", name)
		}
	}
	installed := catalog.Filter(func(name string) bool {
		_, ok := st.Get(name)
		return ok
	})

	var (
		ready    atomic.Bool
		registry *plugin.Registry
	)
	server := observability.NewServer(g.cfg.MetricsAddr, ready.Load, observability.ListerFunc(func() []plugin.Metadata {
		return registry.List()
	}))
	registry = plugin.NewRegistry(
		plugin.WithLogger(g.logger),
		plugin.WithMetrics(plugin.NewMetrics(server.Registerer())),
		plugin.WithTracer(otel.Tracer(hostTracerName)),
	)

	errCh, err := server.Start()
	if err != nil {
		return g.fail("failed to start observability server", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil {
			g.logger.Warn("failed to stop observability server", "error", err)
		}
	}()

	messages := newLocaleMessages(g.cfg.Locale)
	platform := sdk.New(sdk.WithI18n(messages), sdk.WithLogger(g.logger))

	// A boot error has been logged by Run; the host stays up degraded.
	res, _ := bootstrap.Run(ctx, bootstrap.Options{
		Registry: registry,
		SDK:      platform,
		Catalog:  installed,
		Enabled:  st.Enabled(),
		Logger:   g.logger,
	})
	ready.Store(true)
	g.logger.Info("host ready",
		"addr", server.Addr(),
		"degraded", res.Degraded,
		"routes", len(res.Routes),
		"locale", g.cfg.Locale,
		"messages", messages.Keys())

	select {
	case <-ctx.Done():
		g.logger.Info("shutting down")
		return nil
	case err, ok := <-errCh:
		if ok && err != nil {
			return g.fail("observability server failed", err)
		}
		return nil
	}
}
