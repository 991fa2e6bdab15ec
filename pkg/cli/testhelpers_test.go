package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jlrickert/dexview/pkg/cli"
	"github.com/jlrickert/dexview/pkg/log"
	"github.com/jlrickert/dexview/pkg/pokeapi/pokeapitest"
	"github.com/stretchr/testify/require"
)

// Sandbox is a fake PokeAPI plus a config file pointing at it, with the
// response cache kept under a temp dir.
type Sandbox struct {
	API        *pokeapitest.Server
	Dir        string
	ConfigPath string
	CacheDir   string
	Handler    *log.TestHandler
}

func NewSandbox(t *testing.T) *Sandbox {
	t.Helper()
	api := pokeapitest.NewStarterServer()
	t.Cleanup(api.Close)

	dir := t.TempDir()
	sb := &Sandbox{
		API:        api,
		Dir:        dir,
		ConfigPath: filepath.Join(dir, "config.yaml"),
		CacheDir:   filepath.Join(dir, "cache"),
	}
	cfg := fmt.Sprintf("api_base: %s\ncache_dir: %s\npage_size: 10\n", api.BaseURL(), sb.CacheDir)
	require.NoError(t, os.WriteFile(sb.ConfigPath, []byte(cfg), 0o644))
	return sb
}

// Result is the outcome of one command line run.
type Result struct {
	Code   int
	Err    error
	Stdout string
	Stderr string
}

func (sb *Sandbox) Run(t *testing.T, args ...string) Result {
	t.Helper()
	return sb.RunWithInput(t, nil, args...)
}

func (sb *Sandbox) RunWithInput(t *testing.T, in io.Reader, args ...string) Result {
	t.Helper()
	return sb.RunContext(t, context.Background(), in, args...)
}

func (sb *Sandbox) RunContext(t *testing.T, ctx context.Context, in io.Reader, args ...string) Result {
	t.Helper()
	var out, errb bytes.Buffer
	lg, th := log.NewTestLogger(t, slog.LevelDebug)
	sb.Handler = th
	deps := &cli.Deps{In: in, Out: &out, Err: &errb, Logger: lg}

	full := append([]string{"--config", sb.ConfigPath}, args...)
	code, err := cli.RunWithDeps(ctx, deps, full)
	return Result{Code: code, Err: err, Stdout: out.String(), Stderr: errb.String()}
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
