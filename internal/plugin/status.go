// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package plugin

import "time"

// Status is a plugin's position in its lifecycle.
type Status string

// Lifecycle states.
const (
	StatusRegistered Status = "registered"
	StatusInstalled  Status = "installed"
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
)

// Statuses lists every lifecycle state in lifecycle order.
var Statuses = []Status{StatusRegistered, StatusInstalled, StatusActive, StatusInactive}

// Metadata is a snapshot of a registered plugin and its runtime state.
type Metadata struct {
	Descriptor
	Status Status
	// InstalledAt and ActivatedAt are zero when unset.
	InstalledAt time.Time
	ActivatedAt time.Time
}
