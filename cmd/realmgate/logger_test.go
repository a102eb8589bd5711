// ABOUTME: Tests for the colorized slog handler
// ABOUTME: Covers component-prefix rendering and attr formatting

package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestColorHandlerComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&colorHandler{out: &buf, level: slog.LevelDebug})

	logger.With("component", "auth").Info("password mismatch", "file", "a.passwd")

	out := buf.String()
	if !strings.Contains(out, "[auth]") {
		t.Errorf("expected component prefix in output, got %q", out)
	}
	if strings.Contains(out, "component=") {
		t.Errorf("component must not also render as a trailing attr, got %q", out)
	}
	if !strings.Contains(out, "password mismatch") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "file=") || !strings.Contains(out, "a.passwd") {
		t.Errorf("expected record attrs in output, got %q", out)
	}
}

func TestColorHandlerWithoutComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&colorHandler{out: &buf, level: slog.LevelDebug})

	logger.Info("starting", "addr", "localhost:8080")

	out := buf.String()
	if strings.Contains(out, "[") && strings.Contains(out, "]") {
		// The timestamp and attrs never use brackets; none should appear.
		t.Errorf("expected no bracketed prefix without a component, got %q", out)
	}
	if !strings.Contains(out, "addr=") {
		t.Errorf("expected attrs in output, got %q", out)
	}
}

func TestColorHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&colorHandler{out: &buf, level: slog.LevelInfo})

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected debug record below level to be dropped, got %q", buf.String())
	}

	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn record to pass the filter, got %q", buf.String())
	}
}
