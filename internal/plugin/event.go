// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package plugin

import "strings"

// Event identifies a host lifecycle event a package can react to.
type Event string

// Lifecycle events fired by the host.
const (
	EventPreToolUse        Event = "PreToolUse"
	EventPostToolUse       Event = "PostToolUse"
	EventStop              Event = "Stop"
	EventSessionStart      Event = "SessionStart"
	EventSessionEnd        Event = "SessionEnd"
	EventSubagentStop      Event = "SubagentStop"
	EventNotification      Event = "Notification"
	EventPermissionRequest Event = "PermissionRequest"
	EventUserPromptSubmit  Event = "UserPromptSubmit"
	EventPreCompact        Event = "PreCompact"
)

// Events returns every known event in declaration order.
func Events() []Event {
	return []Event{
		EventPreToolUse,
		EventPostToolUse,
		EventStop,
		EventSessionStart,
		EventSessionEnd,
		EventSubagentStop,
		EventNotification,
		EventPermissionRequest,
		EventUserPromptSubmit,
		EventPreCompact,
	}
}

// eventIndex maps a normalized event name to its canonical form.
var eventIndex = func() map[string]Event {
	idx := make(map[string]Event)
	for _, e := range Events() {
		idx[normalizeEventName(string(e))] = e
	}
	return idx
}()

// ParseEvent resolves an event name case-insensitively, ignoring '-' and '_',
// so "pre-tool-use", "pre_tool_use" and "PreToolUse" are all EventPreToolUse.
func ParseEvent(s string) (Event, bool) {
	e, ok := eventIndex[normalizeEventName(s)]
	return e, ok
}

func normalizeEventName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "").Replace(s)
}
