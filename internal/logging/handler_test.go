// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestSetup_AddsServiceIdentity(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("ventura", "1.2.3", Options{Writer: &buf})

	logger.Info("hello")

	m := logLine(t, &buf)
	assert.Equal(t, "ventura", m["service"])
	assert.Equal(t, "1.2.3", m["version"])
	assert.Equal(t, "hello", m["msg"])
	assert.NotContains(t, m, "trace_id")
}

func TestSetup_AddsTraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("ventura", "dev", Options{Writer: &buf})

	traceID := trace.TraceID{0x01}
	spanID := trace.SpanID{0x02}
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	logger.InfoContext(ctx, "traced")

	m := logLine(t, &buf)
	assert.Equal(t, traceID.String(), m["trace_id"])
	assert.Equal(t, spanID.String(), m["span_id"])
}

func TestSetup_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("ventura", "dev", Options{Writer: &buf, Level: slog.LevelWarn})

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestSetup_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("ventura", "dev", Options{Writer: &buf, Format: "text"})

	logger.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "service=ventura")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "input %q", tt.in)
	}
}

func TestHandlerWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("ventura", "dev", Options{Writer: &buf})

	logger.With("component", "test").WithGroup("req").Info("grouped", "id", 7)

	m := logLine(t, &buf)
	assert.Equal(t, "test", m["component"])
	req, ok := m["req"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 7, req["id"])
}
