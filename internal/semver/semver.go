// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

// Package semver validates plugin version strings and evaluates the
// dependency constraints plugins declare against each other.
package semver

import (
	"cmp"
	"regexp"
	"strconv"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
)

// CodeInvalidVersion is the oops code for a version string that fails the grammar.
const CodeInvalidVersion = "INVALID_VERSION"

// versionPattern is MAJOR.MINOR.PATCH with optional prerelease and build metadata.
// The prerelease grammar is looser than semver.org's: "-01" and "-a..b" are
// accepted and compared as plain strings.
var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:-([a-zA-Z0-9.-]+))?(?:\+([a-zA-Z0-9.-]+))?$`)

// IsValid reports whether v is a well-formed MAJOR.MINOR.PATCH[-pre][+build]
// version whose numeric parts fit in 64 bits.
func IsValid(v string) bool {
	_, ok := split(v)
	return ok
}

// Satisfies reports whether version meets constraint.
//
// Supported forms are ^X.Y.Z, ~X.Y.Z, >=, >, <=, < and a bare version, which
// must match exactly. An empty constraint is always satisfied. Any other
// operator prefix is not satisfied. Malformed operands return an error.
func Satisfies(version, constraint string) (bool, error) {
	if constraint == "" {
		return true, nil
	}
	if !strings.ContainsAny(constraint[:1], "~^<>=") {
		return version == constraint, nil
	}

	op, operand := splitOperator(constraint)
	if op == "" {
		return false, nil
	}

	v, err := parse(version)
	if err != nil {
		return false, err
	}
	c, err := parse(operand)
	if err != nil {
		return false, oops.With("constraint", constraint).Wrap(err)
	}

	switch op {
	case "^":
		if v.Major() != c.Major() {
			return false, nil
		}
		return v.Minor() > c.Minor() || (v.Minor() == c.Minor() && v.Patch() >= c.Patch()), nil
	case "~":
		return v.Major() == c.Major() && v.Minor() == c.Minor() && v.Patch() >= c.Patch(), nil
	case ">=":
		return compare(v, c) >= 0, nil
	case ">":
		return compare(v, c) > 0, nil
	case "<=":
		return compare(v, c) <= 0, nil
	case "<":
		return compare(v, c) < 0, nil
	}
	return false, nil
}

// Compare orders a and b by major, minor and patch. A prerelease sorts below
// the same release without one; two prereleases compare lexically.
func Compare(a, b string) (int, error) {
	va, err := parse(a)
	if err != nil {
		return 0, err
	}
	vb, err := parse(b)
	if err != nil {
		return 0, err
	}
	return compare(va, vb), nil
}

// splitOperator separates a recognized operator from its operand.
// Two-character operators are checked first so ">=" is not read as ">".
func splitOperator(constraint string) (op, operand string) {
	for _, candidate := range []string{">=", "<=", "^", "~", ">", "<"} {
		if strings.HasPrefix(constraint, candidate) {
			return candidate, strings.TrimSpace(constraint[len(candidate):])
		}
	}
	return "", ""
}

func parse(v string) (*mmsemver.Version, error) {
	parsed, ok := split(v)
	if !ok {
		return nil, oops.Code(CodeInvalidVersion).
			With("version", v).
			Errorf("invalid semver %q: expected MAJOR.MINOR.PATCH", v)
	}
	return parsed, nil
}

// split builds a version from the pattern's submatches. Masterminds'
// NewVersion is stricter about prerelease identifiers than the pattern, so
// the parts are handed to semver.New directly.
func split(v string) (*mmsemver.Version, bool) {
	m := versionPattern.FindStringSubmatch(v)
	if m == nil {
		return nil, false
	}
	var nums [3]uint64
	for i := range nums {
		n, err := strconv.ParseUint(m[i+1], 10, 64)
		if err != nil {
			return nil, false
		}
		nums[i] = n
	}
	return mmsemver.New(nums[0], nums[1], nums[2], m[4], m[5]), true
}

func compare(a, b *mmsemver.Version) int {
	if d := cmp.Compare(a.Major(), b.Major()); d != 0 {
		return d
	}
	if d := cmp.Compare(a.Minor(), b.Minor()); d != 0 {
		return d
	}
	if d := cmp.Compare(a.Patch(), b.Patch()); d != 0 {
		return d
	}

	pa, pb := a.Prerelease(), b.Prerelease()
	switch {
	case pa == pb:
		return 0
	case pa == "":
		return 1
	case pb == "":
		return -1
	default:
		return strings.Compare(pa, pb)
	}
}
