// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

// Package errutil provides helpers for logging and asserting on oops errors.
package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs an error with structured context when it is an oops
// error: message, code, and context map. Plain errors log their string.
func LogError(logger *slog.Logger, msg string, err error) {
	logAt(logger, slog.LevelError, msg, err)
}

// LogWarn is LogError at warn level, for failures the operation
// survives.
func LogWarn(logger *slog.Logger, msg string, err error) {
	logAt(logger, slog.LevelWarn, msg, err)
}

func logAt(logger *slog.Logger, level slog.Level, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{"error", oopsErr.Error()}
		if code := oopsErr.Code(); code != "" {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
		logger.Log(context.Background(), level, msg, attrs...)
		return
	}
	logger.Log(context.Background(), level, msg, "error", err)
}
