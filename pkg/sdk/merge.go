// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package sdk

import (
	"github.com/mitchellh/copystructure"
)

// Merge returns a new tree holding target overlaid with source.
//
// Keys whose values are maps on both sides merge recursively. Any other
// source value, slices included, replaces the target value wholesale.
// Neither input is modified and the result shares no maps or slices with them.
// Nested maps in the result are always of type Messages.
func Merge(target, source Messages) Messages {
	out := make(Messages, len(target)+len(source))
	for key, v := range target {
		out[key] = normalize(v)
	}
	for key, src := range source {
		srcMap, srcIsMap := asMap(src)
		dstMap, dstIsMap := asMap(out[key])
		if srcIsMap && dstIsMap {
			out[key] = Merge(dstMap, srcMap)
			continue
		}
		out[key] = normalize(src)
	}
	return out
}

// Clone deep-copies a message tree.
func Clone(m Messages) Messages {
	if m == nil {
		return nil
	}
	return Merge(nil, m)
}

// normalize deep-copies v, converting every nested map node to Messages.
func normalize(v any) any {
	if m, ok := asMap(v); ok {
		return Merge(nil, m)
	}
	if v == nil {
		return nil
	}
	return copystructure.Must(copystructure.Copy(v))
}

// asMap accepts both Messages and plain map[string]any nodes, which is what
// YAML and JSON decoders produce for nested trees.
func asMap(v any) (Messages, bool) {
	switch m := v.(type) {
	case Messages:
		return m, true
	case map[string]any:
		return Messages(m), true
	}
	return nil, false
}
