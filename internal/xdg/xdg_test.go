// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		fn   func() (string, error)
		want string
	}{
		{
			name: "config from env",
			env:  map[string]string{"XDG_CONFIG_HOME": "/custom/config"},
			fn:   ConfigDir,
			want: "/custom/config/atrium",
		},
		{
			name: "config default",
			env:  map[string]string{"XDG_CONFIG_HOME": "", "HOME": "/home/testuser"},
			fn:   ConfigDir,
			want: "/home/testuser/.config/atrium",
		},
		{
			name: "state from env",
			env:  map[string]string{"XDG_STATE_HOME": "/custom/state"},
			fn:   StateDir,
			want: "/custom/state/atrium",
		},
		{
			name: "state default",
			env:  map[string]string{"XDG_STATE_HOME": "", "HOME": "/home/testuser"},
			fn:   StateDir,
			want: "/home/testuser/.local/state/atrium",
		},
		{
			name: "config file",
			env:  map[string]string{"XDG_CONFIG_HOME": "/c"},
			fn:   ConfigFile,
			want: "/c/atrium/atrium.yaml",
		},
		{
			name: "state file",
			env:  map[string]string{"XDG_STATE_HOME": "/s"},
			fn:   StateFile,
			want: "/s/atrium/plugins.json",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			got, err := tt.fn()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirs_NoHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", "")

	_, err := StateFile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "XDG_STATE_HOME")
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, EnsureDir(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

	require.NoError(t, EnsureDir(path), "existing directory is not an error")
}

func TestEnsureDir_Fails(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	err := EnsureDir(filepath.Join(file, "sub"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create directory")
}
