// Package testutil provides fakes and assertions shared by the package tests.
package testutil

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertCallbacks asserts the exact sequence of recorded callback names.
func AssertCallbacks(t *testing.T, c *Callbacks, want ...string) {
	t.Helper()
	if len(want) == 0 {
		assert.Empty(t, c.Names(), "expected no terminal callbacks")
		return
	}
	assert.Equal(t, want, c.Names())
}

// AssertNoCallbacks asserts that nothing reached the caller.
func AssertNoCallbacks(t *testing.T, c *Callbacks) {
	t.Helper()
	assert.Empty(t, c.Names(), "expected no terminal callbacks")
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// BufferLogger returns a debug-level logger writing text records to the returned buffer.
func BufferLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
