// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package hook

import (
	"github.com/pais-dev/pais/internal/plugin"
)

// Blockable is the set of events whose handlers may veto the host action.
type Blockable map[plugin.Event]bool

// DefaultBlockable returns the events the host treats as vetoable.
func DefaultBlockable() Blockable {
	return Blockable{
		plugin.EventPreToolUse:        true,
		plugin.EventPermissionRequest: true,
		plugin.EventUserPromptSubmit:  true,
		plugin.EventStop:              true,
		plugin.EventSubagentStop:      true,
	}
}

// ParseBlockable builds a set from event names, normalizing each one.
func ParseBlockable(names []string) (Blockable, error) {
	b := make(Blockable, len(names))
	for _, name := range names {
		e, ok := plugin.ParseEvent(name)
		if !ok {
			return nil, ErrUnknownEvent(name)
		}
		b[e] = true
	}
	return b, nil
}

// Contains reports whether e is blockable.
func (b Blockable) Contains(e plugin.Event) bool {
	return b[e]
}
