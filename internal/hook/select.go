// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package hook

import (
	"encoding/json"

	"github.com/pais-dev/pais/internal/plugin"
)

// Target is one binding selected for an event occurrence.
type Target struct {
	Package *plugin.Package
	Binding plugin.Binding
}

// Select returns the bindings for event whose matcher accepts context:
// packages in the order given, bindings in manifest order.
func Select(pkgs []*plugin.Package, event plugin.Event, context string) []Target {
	var out []Target
	for _, pkg := range pkgs {
		for _, b := range pkg.Manifest.Bindings(event) {
			if b.Matches(context) {
				out = append(out, Target{Package: pkg, Binding: b})
			}
		}
	}
	return out
}

// MatcherFromPayload returns the payload's tool_name when the payload is a
// JSON object carrying one as a string.
func MatcherFromPayload(payload []byte) string {
	var fields struct {
		ToolName any `json:"tool_name"`
	}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return ""
	}
	name, _ := fields.ToolName.(string)
	return name
}
