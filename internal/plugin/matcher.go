// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package plugin

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// GlobPrefix marks a matcher pattern as a gobwas/glob expression.
const GlobPrefix = "glob:"

// Matcher filters which occurrences of an event a binding is invoked for.
//
// An empty pattern or "*" matches every occurrence. A pattern starting with
// GlobPrefix is compiled as a glob, so "glob:mcp__*" matches every MCP tool.
// Any other pattern matches only the identical context string.
//
// The zero value matches everything.
type Matcher struct {
	pattern string
	glob    glob.Glob
	literal bool
}

// ParseMatcher compiles a matcher pattern. Only glob patterns can fail.
func ParseMatcher(pattern string) (Matcher, error) {
	if pattern == "" || pattern == "*" {
		return Matcher{pattern: pattern}, nil
	}
	expr, ok := strings.CutPrefix(pattern, GlobPrefix)
	if !ok {
		return Matcher{pattern: pattern, literal: true}, nil
	}
	g, err := glob.Compile(expr)
	if err != nil {
		return Matcher{}, fmt.Errorf("invalid matcher %q: %w", pattern, err)
	}
	return Matcher{pattern: pattern, glob: g}, nil
}

// Match reports whether the matcher accepts the context.
func (m Matcher) Match(context string) bool {
	switch {
	case m.literal:
		return context == m.pattern
	case m.glob != nil:
		return m.glob.Match(context)
	default:
		return true
	}
}

// IsWildcard reports whether the matcher accepts every context.
func (m Matcher) IsWildcard() bool {
	return !m.literal && m.glob == nil
}

// String returns the source pattern.
func (m Matcher) String() string {
	return m.pattern
}
