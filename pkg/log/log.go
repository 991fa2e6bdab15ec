package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

// LoggerConfig is a minimal, convenient set of options.
type LoggerConfig struct {
	Version string

	// If Out is nil and File is empty, stderr is used.
	Out io.Writer

	// File, when set, appends log output to the named file. It takes
	// precedence over Out.
	File string

	// Discard drops every record unless File is set. The browser and the MCP
	// server own stdout/stderr, so they log nowhere by default.
	Discard bool

	Level slog.Level
	JSON  bool // true => JSON output, false => text
}

// NewLogger creates a configured *slog.Logger and a shutdown func that closes
// any file opened for the logger.
func NewLogger(cfg LoggerConfig) (*slog.Logger, func() error, error) {
	shutdown := func() error { return nil }

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, shutdown, fmt.Errorf("open log file %s: %w", cfg.File, err)
		}
		out = f
		shutdown = f.Close
	} else if cfg.Discard {
		return NewNopLogger(), shutdown, nil
	}

	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.Level <= slog.LevelDebug}
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	hn, _ := os.Hostname()
	logger := slog.New(handler).With(
		slog.String("version", cfg.Version),
		slog.String("host", hn),
	)
	return logger, shutdown, nil
}

// ParseLevel maps a level name to a slog.Level. Unknown names fall back to
// info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// nopHandler is a tiny no-op slog.Handler.
type nopHandler struct{}

func (n *nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (n *nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (n *nopHandler) WithAttrs(attrs []slog.Attr) slog.Handler  { return n }
func (n *nopHandler) WithGroup(name string) slog.Handler        { return n }

// NewNopLogger returns a logger that discards all log events.
func NewNopLogger() *slog.Logger {
	return slog.New(&nopHandler{})
}

var _ slog.Handler = (*nopHandler)(nil)

// OrNop returns lg, or a discarding logger when lg is nil.
func OrNop(lg *slog.Logger) *slog.Logger {
	if lg == nil {
		return NewNopLogger()
	}
	return lg
}

///////////////////////////////////////////////////////////////////////////////
// Context helpers
///////////////////////////////////////////////////////////////////////////////

type ctxKeyType struct{}

var ctxKey ctxKeyType

// ContextWithLogger stores lg on ctx.
func ContextWithLogger(ctx context.Context, lg *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey, lg)
}

// FromContext returns logger from ctx or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if v := ctx.Value(ctxKey); v != nil {
		if lg, ok := v.(*slog.Logger); ok && lg != nil {
			return lg
		}
	}
	return slog.Default()
}

///////////////////////////////////////////////////////////////////////////////
// Test handler (simple, thread-safe)
///////////////////////////////////////////////////////////////////////////////

type LoggedEntry struct {
	Time  time.Time
	Level slog.Level
	Msg   string
	Attrs map[string]any
}

// testingT is a tiny subset of *testing.T used for optional logging.
type testingT interface {
	Logf(format string, args ...any)
}

// TestHandler captures structured entries for assertions. Handlers derived
// with WithAttrs record into the handler they were derived from.
type TestHandler struct {
	mu      sync.Mutex
	Entries []LoggedEntry
	T       testingT

	parent *TestHandler
	attrs  []slog.Attr
}

func NewTestHandler(t testingT) *TestHandler {
	return &TestHandler{T: t}
}

func (h *TestHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *TestHandler) Handle(_ context.Context, r slog.Record) error {
	e := LoggedEntry{
		Time:  r.Time,
		Level: r.Level,
		Msg:   r.Message,
		Attrs: map[string]any{},
	}
	for _, a := range h.attrs {
		e.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		e.Attrs[a.Key] = a.Value.Any()
		return true
	})

	root := h.root()
	root.mu.Lock()
	root.Entries = append(root.Entries, e)
	root.mu.Unlock()

	if root.T != nil {
		root.T.Logf("LOG %s %v %v", e.Msg, e.Level, e.Attrs)
	}
	return nil
}

func (h *TestHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &TestHandler{parent: h.root(), attrs: merged}
}

func (h *TestHandler) WithGroup(_ string) slog.Handler { return h }

func (h *TestHandler) root() *TestHandler {
	if h.parent != nil {
		return h.parent
	}
	return h
}

// NewTestLogger returns a logger that writes to a TestHandler (and the handler).
func NewTestLogger(t testingT, level slog.Level) (*slog.Logger, *TestHandler) {
	th := NewTestHandler(t)
	logger := slog.New(th).With(slog.String("test", "true"))
	return logger, th
}

var _ slog.Handler = (*TestHandler)(nil)

///////////////////////////////////////////////////////////////////////////////
// Small helpers for tests
///////////////////////////////////////////////////////////////////////////////

// FindEntries copies entries that match pred.
func FindEntries(th *TestHandler, pred func(LoggedEntry) bool) []LoggedEntry {
	th.mu.Lock()
	entries := append([]LoggedEntry(nil), th.Entries...)
	th.mu.Unlock()

	out := make([]LoggedEntry, 0)
	for _, e := range entries {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// HasMessage reports whether any captured entry has msg as its message.
func HasMessage(th *TestHandler, msg string) bool {
	return len(FindEntries(th, func(e LoggedEntry) bool { return e.Msg == msg })) > 0
}

// RequireEntry fails the test if a matching entry isn't found within timeout.
func RequireEntry(t *testing.T, th *TestHandler, pred func(LoggedEntry) bool, timeout time.Duration) LoggedEntry {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		th.mu.Lock()
		for _, e := range th.Entries {
			if pred(e) {
				out := e
				th.mu.Unlock()
				return out
			}
		}
		th.mu.Unlock()
		if time.Now().After(deadline) {
			th.mu.Lock()
			entries := append([]LoggedEntry(nil), th.Entries...)
			th.mu.Unlock()
			t.Fatalf("required log entry not found in %s; captured %d entries: %#v", timeout, len(entries), entries)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
