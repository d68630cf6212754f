// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package plugin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pais-dev/pais/internal/plugin"
)

func TestMatcher(t *testing.T) {
	tests := []struct {
		pattern string
		context string
		want    bool
	}{
		{pattern: "", context: "Bash", want: true},
		{pattern: "", context: "", want: true},
		{pattern: "*", context: "Write", want: true},
		{pattern: "Bash", context: "Bash", want: true},
		{pattern: "Bash", context: "bash", want: false},
		{pattern: "Bash", context: "BashOutput", want: false},
		{pattern: "Bash", context: "", want: false},
		{pattern: "Bas?", context: "Bash", want: false},
		{pattern: "Bas?", context: "Bas?", want: true},
		{pattern: "Read[", context: "Read[", want: true},
		{pattern: "Read[", context: "Read", want: false},
		{pattern: "mcp__*", context: "mcp__github__create_issue", want: false},
		{pattern: "mcp__*", context: "mcp__*", want: true},
		{pattern: "mcp__{a,b}", context: "mcp__{a,b}", want: true},
		{pattern: "mcp__{a,b}", context: "mcp__a", want: false},
		{pattern: "glob:mcp__*", context: "mcp__github__create_issue", want: true},
		{pattern: "glob:mcp__*", context: "Read", want: false},
		{pattern: "glob:{Edit,Write}", context: "Write", want: true},
		{pattern: "glob:{Edit,Write}", context: "Read", want: false},
		{pattern: "glob:Bash", context: "Bash", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.context, func(t *testing.T) {
			m, err := plugin.ParseMatcher(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Match(tt.context))
		})
	}
}

func TestMatcher_Wildcard(t *testing.T) {
	for _, pattern := range []string{"", "*"} {
		m, err := plugin.ParseMatcher(pattern)
		require.NoError(t, err)
		assert.True(t, m.IsWildcard())
		assert.Equal(t, pattern, m.String())
	}

	var zero plugin.Matcher
	assert.True(t, zero.Match("anything"))

	for _, pattern := range []string{"Bash", "glob:*"} {
		m, err := plugin.ParseMatcher(pattern)
		require.NoError(t, err)
		assert.False(t, m.IsWildcard(), pattern)
		assert.Equal(t, pattern, m.String())
	}
}

func TestParseMatcher_Invalid(t *testing.T) {
	_, err := plugin.ParseMatcher("glob:[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid matcher")
}

func TestParseMatcher_LiteralNeverFails(t *testing.T) {
	for _, pattern := range []string{"[", "Read[", "{", "a\\"} {
		_, err := plugin.ParseMatcher(pattern)
		assert.NoError(t, err, pattern)
	}
}
