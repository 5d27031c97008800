// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

// Package xdg resolves XDG Base Directory paths for Atrium.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

const appName = "atrium"

// File names inside the Atrium directories.
const (
	configFile = "atrium.yaml"
	stateFile  = "plugins.json"
)

// ConfigDir returns $XDG_CONFIG_HOME/atrium, falling back to ~/.config/atrium.
func ConfigDir() (string, error) {
	return dir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns $XDG_STATE_HOME/atrium, falling back to ~/.local/state/atrium.
func StateDir() (string, error) {
	return dir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

// ConfigFile returns the default config file path.
func ConfigFile() (string, error) {
	d, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, configFile), nil
}

// StateFile returns the default plugin state file path.
func StateFile() (string, error) {
	d, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, stateFile), nil
}

func dir(env, homeRel string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home := os.Getenv("HOME")
	if home == "" {
		return "", oops.With("env", env).Errorf("cannot resolve %s: neither it nor HOME is set", env)
	}
	return filepath.Join(home, homeRel, appName), nil
}

// EnsureDir creates path and its parents with 0700 permissions.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return oops.With("path", path).Wrapf(err, "create directory")
	}
	return nil
}
