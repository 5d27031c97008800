// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package bootstrap_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/atrium-dev/atrium/internal/bootstrap"
	"github.com/atrium-dev/atrium/internal/plugin"
	"github.com/atrium-dev/atrium/pkg/sdk"
	"github.com/atrium-dev/atrium/plugins"
	"github.com/atrium-dev/atrium/plugins/checkout"
	"github.com/atrium-dev/atrium/plugins/tarot"
	"github.com/atrium-dev/atrium/plugins/themeswitcher"
)

type recordingPrefs struct {
	themes []string
}

func (p *recordingPrefs) SetTheme(theme string) {
	p.themes = append(p.themes, theme)
}

func routePaths(routes []sdk.Route) []string {
	paths := make([]string, 0, len(routes))
	for _, r := range routes {
		paths = append(paths, r.Path)
	}
	return paths
}

var _ = Describe("Run", func() {
	var (
		ctx      context.Context
		registry *plugin.Registry
		platform *sdk.SDK
		logs     *bytes.Buffer
		logger   *slog.Logger
		prefs    *recordingPrefs
	)

	BeforeEach(func() {
		ctx = context.Background()
		registry = plugin.NewRegistry()
		platform = sdk.New()
		logs = &bytes.Buffer{}
		logger = slog.New(slog.NewJSONHandler(logs, nil))
		prefs = &recordingPrefs{}
	})

	Context("with theme-switcher and checkout", func() {
		var catalog *plugin.Catalog

		BeforeEach(func() {
			var err error
			catalog, err = plugin.NewCatalog(
				themeswitcher.New(prefs, themeswitcher.WithDefaultTheme(themeswitcher.ThemeDark)),
				checkout.New("USD"),
			)
			Expect(err).NotTo(HaveOccurred())
		})

		It("mounts both plugins' routes and components", func() {
			res, err := bootstrap.Run(ctx, bootstrap.Options{
				Registry: registry,
				SDK:      platform,
				Catalog:  catalog,
				Logger:   logger,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Degraded).To(BeFalse())

			Expect(routePaths(res.Routes)).To(ContainElements("/dashboard/appearance", "/checkout"))
			Expect(res.Components).To(HaveKey("ThemeSwitcher"))
			Expect(res.Components).To(HaveKey("CheckoutForm"))
			Expect(res.Stores).To(HaveKey("theme"))
			Expect(res.Translations).To(HaveKey("fr"))

			for _, name := range []string{themeswitcher.Name, checkout.Name} {
				m, ok := registry.Get(name)
				Expect(ok).To(BeTrue())
				Expect(m.Status).To(Equal(plugin.StatusInstalled))
			}
			Expect(prefs.themes).To(BeEmpty())
		})

		It("applies the default theme when theme-switcher is enabled", func() {
			res, err := bootstrap.Run(ctx, bootstrap.Options{
				Registry: registry,
				SDK:      platform,
				Catalog:  catalog,
				Enabled:  []string{themeswitcher.Name},
				Logger:   logger,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Activated).To(Equal([]string{themeswitcher.Name}))
			Expect(prefs.themes).To(Equal([]string{themeswitcher.ThemeDark}))

			m, _ := registry.Get(themeswitcher.Name)
			Expect(m.Status).To(Equal(plugin.StatusActive))
			Expect(m.ActivatedAt).NotTo(BeZero())
		})

		It("rejects an enabled plugin that is not in the catalog", func() {
			res, err := bootstrap.Run(ctx, bootstrap.Options{
				Registry: registry,
				SDK:      platform,
				Catalog:  catalog,
				Enabled:  []string{"ghost"},
				Logger:   logger,
			})
			Expect(plugin.IsCode(err, plugin.CodeNotFound)).To(BeTrue())
			Expect(res.Degraded).To(BeTrue())
			Expect(res.Routes).To(BeEmpty())
		})
	})

	Context("with every built-in plugin", func() {
		It("installs checkout before tarot-reading and activates in that order", func() {
			catalog, err := plugins.Builtins(plugins.Deps{Preferences: prefs})
			Expect(err).NotTo(HaveOccurred())

			res, err := bootstrap.Run(ctx, bootstrap.Options{
				Registry: registry,
				SDK:      platform,
				Catalog:  catalog,
				Enabled:  []string{tarot.Name, checkout.Name},
				Logger:   logger,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Order).To(HaveLen(3))
			Expect(res.Activated).To(Equal([]string{checkout.Name, tarot.Name}))

			nav := res.Translations["en"]["dashboard"].(sdk.Messages)["nav"].(sdk.Messages)
			Expect(nav).To(HaveKeyWithValue("appearance", "Appearance"))
			Expect(nav).To(HaveKeyWithValue("tarot", "Tarot"))
		})
	})

	Context("when booting fails", func() {
		It("reports a missing dependency as degraded without running hooks", func() {
			installed := false
			catalog, err := plugin.NewCatalog(&plugin.Basic{
				Desc: plugin.Descriptor{
					Name:         "tarot-reading",
					Version:      "0.3.0",
					Dependencies: plugin.Dependencies{"checkout": "^1.0.0"},
				},
				OnInstall: func(context.Context, sdk.Platform) error {
					installed = true
					return nil
				},
			})
			Expect(err).NotTo(HaveOccurred())

			res, err := bootstrap.Run(ctx, bootstrap.Options{
				Registry: registry,
				SDK:      platform,
				Catalog:  catalog,
				Logger:   logger,
			})
			Expect(plugin.IsCode(err, plugin.CodeDependencyNotFound)).To(BeTrue())
			Expect(res.Degraded).To(BeTrue())
			Expect(installed).To(BeFalse())
			Expect(logs.String()).To(ContainSubstring("DEPENDENCY_NOT_FOUND"))
		})

		It("keeps what was installed before a failing hook", func() {
			boom := errors.New("boom")
			catalog, err := plugin.NewCatalog(
				checkout.New("EUR"),
				&plugin.Basic{
					Desc: plugin.Descriptor{Name: "broken", Version: "1.0.0", Dependencies: plugin.Dependencies{"checkout": ""}},
					OnInstall: func(context.Context, sdk.Platform) error {
						return boom
					},
				},
			)
			Expect(err).NotTo(HaveOccurred())

			res, err := bootstrap.Run(ctx, bootstrap.Options{
				Registry: registry,
				SDK:      platform,
				Catalog:  catalog,
				Logger:   logger,
			})
			Expect(err).To(MatchError(boom))
			Expect(res.Degraded).To(BeTrue())
			Expect(routePaths(res.Routes)).To(ContainElement("/checkout"))

			m, _ := registry.Get("broken")
			Expect(m.Status).To(Equal(plugin.StatusRegistered))
		})
	})

	It("requires a registry and an SDK", func() {
		_, err := bootstrap.Run(ctx, bootstrap.Options{})
		Expect(err).To(HaveOccurred())
	})
})
