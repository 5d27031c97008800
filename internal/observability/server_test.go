// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package observability

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/atrium-dev/atrium/internal/plugin"
)

type staticLister []plugin.Metadata

func (l staticLister) List() []plugin.Metadata { return l }

var noKeepAlive = &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := noKeepAlive.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func startServer(t *testing.T, ready ReadinessChecker, lister PluginLister) *Server {
	t.Helper()
	server := NewServer("127.0.0.1:0", ready, lister)
	_, err := server.Start()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Stop(ctx)
	})
	return server
}

func TestServer_Metrics(t *testing.T) {
	server := startServer(t, nil, nil)
	m := plugin.NewMetrics(server.Registerer())
	r := plugin.NewRegistry(plugin.WithMetrics(m))
	require.NoError(t, r.Register(&plugin.Basic{Desc: plugin.Descriptor{Name: "a", Version: "1.0.0"}}))

	status, body := get(t, "http://"+server.Addr()+"/metrics")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "# HELP")
	assert.Contains(t, body, "go_")
	assert.Contains(t, body, "process_")
	assert.Contains(t, body, `atrium_plugins{status="registered"} 1`)
}

func TestServer_Liveness(t *testing.T) {
	server := startServer(t, func() bool { return false }, nil)

	status, body := get(t, "http://"+server.Addr()+"/healthz/liveness")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", strings.TrimSpace(body))
}

func TestServer_Readiness(t *testing.T) {
	tests := []struct {
		name   string
		ready  ReadinessChecker
		status int
		body   string
	}{
		{"ready", func() bool { return true }, http.StatusOK, "ok"},
		{"not ready", func() bool { return false }, http.StatusServiceUnavailable, "not ready"},
		{"nil checker", nil, http.StatusOK, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewServer("", tt.ready, nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/readiness", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, strings.TrimSpace(rec.Body.String()))
		})
	}
}

func TestServer_Plugins(t *testing.T) {
	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	lister := staticLister{
		{
			Descriptor:  plugin.Descriptor{Name: "checkout", Version: "1.2.0"},
			Status:      plugin.StatusActive,
			InstalledAt: at,
			ActivatedAt: at,
		},
		{
			Descriptor: plugin.Descriptor{Name: "tarot-reading", Version: "0.3.0", Dependencies: plugin.Dependencies{"checkout": "^1.0.0"}},
			Status:     plugin.StatusRegistered,
		},
	}

	rec := httptest.NewRecorder()
	NewServer("", nil, lister).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plugins", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []plugin.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "checkout", got[0].Name)
	assert.Equal(t, plugin.StatusActive, got[0].Status)
	require.NotNil(t, got[0].ActivatedAt)
	assert.True(t, at.Equal(*got[0].ActivatedAt))
	assert.Nil(t, got[1].InstalledAt)
	assert.Equal(t, "^1.0.0", got[1].Dependencies["checkout"])
}

func TestServer_PluginsWithoutLister(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer("", nil, nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plugins", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestServer_PluginsRejectsPost(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer("", nil, nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/plugins", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestServer_DoubleStartFails(t *testing.T) {
	server := startServer(t, nil, nil)

	_, err := server.Start()
	assert.ErrorContains(t, err, "already running")
}

func TestServer_StopWithoutStart(t *testing.T) {
	server := NewServer("127.0.0.1:0", nil, nil)
	assert.NoError(t, server.Stop(context.Background()))
	assert.Empty(t, server.Addr())
}

func TestServer_ErrorChannelReportsServeErrors(t *testing.T) {
	server := NewServer("127.0.0.1:0", nil, nil)
	errCh, err := server.Start()
	require.NoError(t, err)

	_ = server.listener.Close()

	select {
	case serveErr := <-errCh:
		assert.Error(t, serveErr)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for serve error")
	}
	_ = server.Stop(context.Background())
}

func TestServer_ErrorChannelClosesOnShutdown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	server := NewServer("127.0.0.1:0", nil, nil)
	errCh, err := server.Start()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Stop(ctx))

	select {
	case err, ok := <-errCh:
		if ok {
			assert.NoError(t, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for error channel to close")
	}
}

func TestServer_RegistriesAreIndependent(t *testing.T) {
	// Two servers in one process must not panic on duplicate registration.
	a := NewServer("", nil, nil)
	b := NewServer("", nil, nil)
	plugin.NewMetrics(a.Registerer())
	plugin.NewMetrics(b.Registerer())
	assert.NotSame(t, a.Registerer().(*prometheus.Registry), b.Registerer().(*prometheus.Registry))
}
