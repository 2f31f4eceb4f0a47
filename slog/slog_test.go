package slog_test

import (
	"bytes"
	"log/slog"
)

// newBufferLogger returns a text logger that records DEBUG and above.
func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
