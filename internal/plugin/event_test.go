// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package plugin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pais-dev/pais/internal/plugin"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		input string
		want  plugin.Event
		ok    bool
	}{
		{input: "PreToolUse", want: plugin.EventPreToolUse, ok: true},
		{input: "pre-tool-use", want: plugin.EventPreToolUse, ok: true},
		{input: "PRE_TOOL_USE", want: plugin.EventPreToolUse, ok: true},
		{input: " stop ", want: plugin.EventStop, ok: true},
		{input: "subagent_stop", want: plugin.EventSubagentStop, ok: true},
		{input: "UserPromptSubmit", want: plugin.EventUserPromptSubmit, ok: true},
		{input: "OnSave"},
		{input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := plugin.ParseEvent(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvents_RoundTrip(t *testing.T) {
	events := plugin.Events()
	assert.Len(t, events, 10)

	for _, e := range events {
		got, ok := plugin.ParseEvent(string(e))
		assert.True(t, ok, e)
		assert.Equal(t, e, got)
	}
}
