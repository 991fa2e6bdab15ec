package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jlrickert/dexview/pkg/internal"
	"gopkg.in/yaml.v3"
)

// AppName is used for the config and cache directory names.
const AppName = "dexview"

// PageSizes are the page sizes the browser offers.
var PageSizes = []int{10, 25, 50, 100}

// Config is the effective dexview configuration. Values come from the YAML
// file first and are then overridden by DEXVIEW_* environment variables.
type Config struct {
	APIBase      string        `yaml:"api_base" env:"DEXVIEW_API_BASE"`
	Timeout      time.Duration `yaml:"timeout" env:"DEXVIEW_TIMEOUT"`
	PageSize     int           `yaml:"page_size" env:"DEXVIEW_PAGE_SIZE"`
	IndexLimit   int           `yaml:"index_limit" env:"DEXVIEW_INDEX_LIMIT"`
	RandomLimit  int           `yaml:"random_limit" env:"DEXVIEW_RANDOM_LIMIT"`
	MaxTypes     int           `yaml:"max_types" env:"DEXVIEW_MAX_TYPES"`
	Concurrency  int           `yaml:"concurrency" env:"DEXVIEW_CONCURRENCY"`
	CacheDir     string        `yaml:"cache_dir,omitempty" env:"DEXVIEW_CACHE_DIR"`
	CacheSizeMax uint64        `yaml:"cache_size_max" env:"DEXVIEW_CACHE_SIZE_MAX"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBase:      "https://pokeapi.co/api/v2",
		Timeout:      15 * time.Second,
		PageSize:     25,
		IndexLimit:   2000,
		RandomLimit:  1025,
		MaxTypes:     2,
		Concurrency:  16,
		CacheSizeMax: 8 << 20,
	}
}

// DefaultPath returns ~/.config/dexview/config.yaml (or the XDG/APPDATA
// equivalent).
func DefaultPath() (string, error) {
	dir, err := internal.GetConfigDir(AppName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultCacheDir returns the per-user response cache directory.
func DefaultCacheDir() (string, error) {
	return internal.GetCacheDir(AppName)
}

// Read loads the config at path. A missing file yields the defaults. Values
// absent from the file keep their defaults; environment variables override
// both.
func Read(path string) (Config, error) {
	cfg := Default()

	p, err := internal.ExpandPath(path)
	if err != nil {
		return cfg, fmt.Errorf("expand config path: %w", err)
	}
	if p != "" {
		data, err := os.ReadFile(p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", p, err)
		default:
			if err := Parse(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}

	if cfg.CacheDir, err = internal.ExpandPath(cfg.CacheDir); err != nil {
		return cfg, fmt.Errorf("expand cache_dir: %w", err)
	}
	return cfg, cfg.Validate()
}

// Parse decodes YAML into cfg, leaving fields not present in data untouched.
func Parse(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return yaml.Unmarshal(data, cfg)
}

// Marshal renders cfg as YAML.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write stores cfg at path, creating parent directories. An existing file is
// only replaced when force is set.
func Write(path string, cfg Config, force bool) error {
	p, err := internal.ExpandPath(path)
	if err != nil {
		return fmt.Errorf("expand config path: %w", err)
	}
	if !force {
		if _, err := os.Stat(p); err == nil {
			return fmt.Errorf("config %s: %w", p, fs.ErrExist)
		}
	}
	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", p, err)
	}
	return nil
}

// Validate rejects values the tool cannot run with.
func (c Config) Validate() error {
	switch {
	case c.APIBase == "":
		return NewInvalidConfigError("api_base", "must not be empty")
	case c.Timeout <= 0:
		return NewInvalidConfigError("timeout", "must be positive")
	case !slices.Contains(PageSizes, c.PageSize):
		return NewInvalidConfigError("page_size", fmt.Sprintf("must be one of %v", PageSizes))
	case c.IndexLimit <= 0:
		return NewInvalidConfigError("index_limit", "must be positive")
	case c.RandomLimit <= 0:
		return NewInvalidConfigError("random_limit", "must be positive")
	case c.MaxTypes <= 0:
		return NewInvalidConfigError("max_types", "must be positive")
	case c.Concurrency <= 0:
		return NewInvalidConfigError("concurrency", "must be positive")
	}
	return nil
}
