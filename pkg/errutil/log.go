// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

// Package errutil holds helpers shared by every package that returns oops
// errors: structured logging and test assertions on codes and context.
package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err at error level. Oops errors contribute their code and
// context as separate attributes; other errors are logged as a string.
func LogError(ctx context.Context, logger *slog.Logger, msg string, err error) {
	logger.ErrorContext(ctx, msg, Attrs(err)...)
}

// LogWarn is LogError at warn level, for failures that do not stop the
// current operation.
func LogWarn(ctx context.Context, logger *slog.Logger, msg string, err error) {
	logger.WarnContext(ctx, msg, Attrs(err)...)
}

// Attrs returns the slog attributes describing err.
func Attrs(err error) []any {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return []any{"error", err}
	}
	attrs := []any{"error", oopsErr.Error()}
	if code := Code(err); code != "" {
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	return attrs
}

// Code returns the oops code carried by err, or "" when there is none.
func Code(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code, _ := any(oopsErr.Code()).(string)
	return code
}
