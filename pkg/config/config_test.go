package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRead_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestRead_FileOverridesOnlyPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page_size: 50\ntimeout: 3s\n"), 0o644))

	cfg, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, 50, cfg.PageSize)
	require.Equal(t, 3*time.Second, cfg.Timeout)
	require.Equal(t, Default().APIBase, cfg.APIBase)
	require.Equal(t, 2000, cfg.IndexLimit)
}

func TestRead_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page_size: 50\n"), 0o644))
	t.Setenv("DEXVIEW_PAGE_SIZE", "100")
	t.Setenv("DEXVIEW_API_BASE", "http://localhost:9999/api/v2")

	cfg, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, 100, cfg.PageSize)
	require.Equal(t, "http://localhost:9999/api/v2", cfg.APIBase)
}

func TestRead_RejectsInvalidPageSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page_size: 7\n"), 0o644))

	_, err := Read(path)
	require.ErrorIs(t, err, ErrInvalidConfig)

	var ice *InvalidConfigError
	require.ErrorAs(t, err, &ice)
	require.Equal(t, "page_size", ice.Field)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty base", mutate: func(c *Config) { c.APIBase = "" }, field: "api_base"},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, field: "timeout"},
		{name: "zero max types", mutate: func(c *Config) { c.MaxTypes = 0 }, field: "max_types"},
		{name: "negative concurrency", mutate: func(c *Config) { c.Concurrency = -1 }, field: "concurrency"},
		{name: "zero index limit", mutate: func(c *Config) { c.IndexLimit = 0 }, field: "index_limit"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.field == "" {
				require.NoError(t, err)
				return
			}
			var ice *InvalidConfigError
			require.ErrorAs(t, err, &ice)
			require.Equal(t, tc.field, ice.Field)
		})
	}
}

func TestWrite_RefusesOverwriteWithoutForce(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	require.NoError(t, Write(path, Default(), false))
	err := Write(path, Default(), false)
	require.ErrorIs(t, err, fs.ErrExist)

	cfg := Default()
	cfg.PageSize = 10
	require.NoError(t, Write(path, cfg, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Config
	require.NoError(t, Parse(data, &got))
	require.Equal(t, 10, got.PageSize)
	require.Equal(t, 15*time.Second, got.Timeout)
}
