// Package testutil holds helpers shared by package tests.
package testutil

import (
	"log/slog"
	"strings"
	"testing"
)

// NewTestLogger returns a debug-level logger whose output lands in the
// test log, so fetch and pipeline noise stays hidden unless a test fails
// or runs with -v.
func NewTestLogger(tb testing.TB) *slog.Logger {
	tb.Helper()
	h := slog.NewTextHandler(tlogWriter{tb}, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h)
}

// tlogWriter adapts testing.TB to the io.Writer a slog handler needs.
// Trailing newlines are dropped because tb.Log adds its own.
type tlogWriter struct {
	tb testing.TB
}

func (w tlogWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
