package log_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	dlog "github.com/jlrickert/dexview/pkg/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		require.Equal(t, want, dlog.ParseLevel(in), "level %q", in)
	}
}

func TestNewLogger_WritesTextWithVersion(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	lg, shutdown, err := dlog.NewLogger(dlog.LoggerConfig{Out: &buf, Level: slog.LevelInfo, Version: "v1.2.3"})
	require.NoError(t, err)
	defer func() { require.NoError(t, shutdown()) }()

	lg.Info("hello", "k", "v")
	require.Contains(t, buf.String(), "msg=hello")
	require.Contains(t, buf.String(), "version=v1.2.3")
	require.Contains(t, buf.String(), "k=v")
}

func TestNewLogger_DiscardWithoutFile(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	lg, _, err := dlog.NewLogger(dlog.LoggerConfig{Out: &buf, Discard: true})
	require.NoError(t, err)
	lg.Error("dropped")
	require.Empty(t, buf.String())
}

func TestTestHandler_RecordsDerivedAttrs(t *testing.T) {
	t.Parallel()

	lg, th := dlog.NewTestLogger(t, slog.LevelDebug)
	lg.With("component", "dex").Debug("cycle completed", "seq", 3)

	entries := dlog.FindEntries(th, func(e dlog.LoggedEntry) bool { return e.Msg == "cycle completed" })
	require.Len(t, entries, 1)
	require.Equal(t, "dex", entries[0].Attrs["component"])
	require.Equal(t, "true", entries[0].Attrs["test"])
	require.True(t, dlog.HasMessage(th, "cycle completed"))
}
