// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/atrium-dev/atrium/internal/logging"
	"github.com/atrium-dev/atrium/internal/xdg"
	"github.com/atrium-dev/atrium/plugins/themeswitcher"
)

// Config holds CLI settings. Sources, lowest precedence first: flag
// defaults, the YAML config file, flags set on the command line.
type Config struct {
	StateFile    string `koanf:"state_file"`
	LogFormat    string `koanf:"log_format"`
	LogLevel     string `koanf:"log_level"`
	Locale       string `koanf:"locale"`
	MetricsAddr  string `koanf:"metrics_addr"`
	DefaultTheme string `koanf:"default_theme"`
	Currency     string `koanf:"currency"`
}

// Default values for settings.
const (
	defaultLogFormat   = logging.FormatText
	defaultLogLevel    = "info"
	defaultLocale      = "en"
	defaultMetricsAddr = "127.0.0.1:9100"
	defaultCurrency    = "USD"
)

// flagKeys maps flag names to config keys. Flags not listed here are
// command-local and never reach the config.
var flagKeys = map[string]string{
	"state-file":    "state_file",
	"log-format":    "log_format",
	"log-level":     "log_level",
	"locale":        "locale",
	"metrics-addr":  "metrics_addr",
	"default-theme": "default_theme",
	"currency":      "currency",
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.StateFile == "" {
		return oops.Errorf("state_file is required")
	}
	if err := logging.ValidateFormat(c.LogFormat); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Locale == "" {
		return oops.Errorf("locale is required")
	}
	switch c.DefaultTheme {
	case themeswitcher.ThemeLight, themeswitcher.ThemeDark, themeswitcher.ThemeSystem:
	default:
		return oops.With("default_theme", c.DefaultTheme).
			Errorf("default_theme must be light, dark or system, got %q", c.DefaultTheme)
	}
	return nil
}

// loadConfig merges the config file at path and the flag set. An empty
// path means the XDG default, which may be absent; an explicit path must exist.
func loadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		p, err := xdg.ConfigFile()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.With("path", path).Wrapf(err, "load config file")
		}
	} else if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, oops.With("path", path).Wrapf(err, "open config file")
	}

	provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(flags, f)
	})
	if err := k.Load(provider, nil); err != nil {
		return nil, oops.Wrapf(err, "load flags")
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Wrapf(err, "decode config")
	}

	if cfg.StateFile == "" {
		p, err := xdg.StateFile()
		if err != nil {
			return nil, err
		}
		cfg.StateFile = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, oops.Wrapf(err, "invalid configuration")
	}
	return cfg, nil
}
