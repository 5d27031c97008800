// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package plugin

import "time"

// Summary is the serialized form of Metadata used by the CLI and the
// /plugins endpoint. Translations are omitted.
type Summary struct {
	Name         string            `json:"name" yaml:"name"`
	Version      string            `json:"version" yaml:"version"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty"`
	Status       Status            `json:"status" yaml:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	InstalledAt  *time.Time        `json:"installedAt,omitempty" yaml:"installedAt,omitempty"`
	ActivatedAt  *time.Time        `json:"activatedAt,omitempty" yaml:"activatedAt,omitempty"`
}

// Summarize converts a snapshot to its serialized form.
func Summarize(m Metadata) Summary {
	s := Summary{
		Name:        m.Name,
		Version:     m.Version,
		Description: m.Description,
		Status:      m.Status,
		InstalledAt: timePtr(m.InstalledAt),
		ActivatedAt: timePtr(m.ActivatedAt),
	}
	if len(m.Dependencies) > 0 {
		s.Dependencies = make(map[string]string, len(m.Dependencies))
		for k, v := range m.Dependencies {
			s.Dependencies[k] = v
		}
	}
	return s
}

// SummarizeAll converts snapshots, keeping their order.
func SummarizeAll(list []Metadata) []Summary {
	out := make([]Summary, len(list))
	for i, m := range list {
		out[i] = Summarize(m)
	}
	return out
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
