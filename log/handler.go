// Package log provides a logcat-style slog handler for the coordinator and its hosts.
package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// DefaultTag is the logcat tag used when none is configured.
const DefaultTag = "sysdialog"

// LogcatHandler implements slog.Handler, writing one
// "<priority>/<tag>: message key=value ..." line per record.
type LogcatHandler struct {
	out    io.Writer
	mu     *sync.Mutex
	prefix string // group prefix for attributes added later
	attrs  []slog.Attr
	opts   handlerConfig
}

// HandlerOption configures the LogcatHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	tag       string
	level     slog.Leveler
	addSource bool
}

// defaultHandlerConfig returns the default configuration.
func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		tag:   DefaultTag,
		level: slog.LevelInfo,
	}
}

// WithLevel sets the minimum log level to report.
func WithLevel(level slog.Leveler) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// WithTag sets the logcat tag.
func WithTag(tag string) HandlerOption {
	return func(c *handlerConfig) {
		if tag != "" {
			c.tag = tag
		}
	}
}

// NewHandler creates a LogcatHandler writing to out (stderr when nil).
func NewHandler(out io.Writer, opts ...HandlerOption) *LogcatHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if out == nil {
		out = os.Stderr
	}
	return &LogcatHandler{out: out, mu: &sync.Mutex{}, opts: cfg}
}

// ParseLevel maps a config level name to a slog.Level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Enabled reports whether the handler handles records at the given level.
func (h *LogcatHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level.Level()
}

// WithAttrs returns a new LogcatHandler that includes the given attributes.
func (h *LogcatHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	nh := *h
	nh.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		nh.attrs = append(nh.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &nh
}

// WithGroup returns a new LogcatHandler that qualifies later attribute keys with name.
func (h *LogcatHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.prefix = h.prefix + name + "."
	return &nh
}

// Handle formats and writes record.
func (h *LogcatHandler) Handle(_ context.Context, record slog.Record) error {
	var buf bytes.Buffer
	buf.WriteByte(priority(record.Level))
	buf.WriteByte('/')
	buf.WriteString(h.opts.tag)
	buf.WriteString(": ")
	buf.WriteString(record.Message)

	for _, a := range h.attrs {
		appendAttr(&buf, "", a)
	}
	record.Attrs(func(a slog.Attr) bool {
		appendAttr(&buf, h.prefix, a)
		return true
	})

	if h.opts.addSource && record.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{record.PC})
		f, _ := frames.Next()
		fmt.Fprintf(&buf, " (%s:%d)", filepath.Base(f.File), f.Line)
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

// priority maps a level to its logcat letter.
func priority(l slog.Level) byte {
	switch {
	case l < slog.LevelDebug:
		return 'V'
	case l < slog.LevelInfo:
		return 'D'
	case l < slog.LevelWarn:
		return 'I'
	case l < slog.LevelError:
		return 'W'
	default:
		return 'E'
	}
}
