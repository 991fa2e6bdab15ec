package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/jlrickert/dexview/pkg/catalog"
	"github.com/jlrickert/dexview/pkg/config"
	"github.com/jlrickert/dexview/pkg/dex"
	"github.com/jlrickert/dexview/pkg/internal"
	"github.com/jlrickert/dexview/pkg/log"
	"github.com/jlrickert/dexview/pkg/pokeapi"
	"github.com/jlrickert/dexview/pkg/printer"
	"github.com/spf13/cobra"
)

const (
	// annotSkipSetup marks commands that run without config or a client.
	annotSkipSetup = "dexview/skip-setup"
	// annotOwnsTerminal marks commands whose stdout/stderr belong to a UI or
	// a protocol, so logs are discarded unless --log-file is set.
	annotOwnsTerminal = "dexview/owns-terminal"
)

// Deps carries the flags and the services built from them. Zero-valued
// fields are filled in by the root command before a subcommand runs.
type Deps struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	ConfigPath string
	LogFile    string
	LogLevel   string
	LogJSON    bool
	NoColor    bool
	NoCache    bool

	Logger *slog.Logger
	Clock  internal.Clock

	Config  config.Config
	Cache   *pokeapi.DiskCache
	Client  *pokeapi.Client
	Catalog *catalog.Catalog

	closers []func() error
}

func NewRootCmd(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = &Deps{}
	}

	cmd := &cobra.Command{
		Use:           "dexview",
		Short:         "browse the National Dex from the terminal",
		Long:          `dexview lists, filters and inspects Pokémon using the public PokeAPI.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := deps.setupLogger(cmd); err != nil {
				return err
			}
			if cmd.Annotations[annotSkipSetup] != "true" {
				if err := deps.setup(); err != nil {
					return err
				}
			}
			cmd.SetContext(log.ContextWithLogger(ctx, deps.Logger))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&deps.LogFile, "log-file", "", "write logs to file (default stderr)")
	cmd.PersistentFlags().StringVar(&deps.LogLevel, "log-level", "info", "minimum log level")
	cmd.PersistentFlags().BoolVar(&deps.LogJSON, "log-json", false, "output logs as JSON")
	cmd.PersistentFlags().StringVarP(&deps.ConfigPath, "config", "c", "", "path to config file")
	cmd.PersistentFlags().BoolVar(&deps.NoColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolVar(&deps.NoCache, "no-cache", false, "bypass the on-disk response cache")

	cmd.AddCommand(
		NewBrowseCmd(deps),
		NewCacheCmd(deps),
		NewConfigCmd(deps),
		NewListCmd(deps),
		NewMCPCmd(deps),
		NewRandomCmd(deps),
		NewSearchCmd(deps),
		NewShowCmd(deps),
		NewVersionCmd(deps),
	)

	return cmd
}

func (d *Deps) setupLogger(cmd *cobra.Command) error {
	if d.Logger != nil {
		return nil
	}
	lg, closeFn, err := log.NewLogger(log.LoggerConfig{
		Version: Version,
		Out:     cmd.ErrOrStderr(),
		File:    d.LogFile,
		Discard: cmd.Annotations[annotOwnsTerminal] == "true",
		Level:   log.ParseLevel(d.LogLevel),
		JSON:    d.LogJSON,
	})
	if err != nil {
		return err
	}
	d.Logger = lg
	d.closers = append(d.closers, closeFn)
	return nil
}

// setup reads the config and builds the API client and catalog.
func (d *Deps) setup() error {
	path := d.ConfigPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Read(path)
	if err != nil {
		return err
	}
	d.Config = cfg

	opts := []pokeapi.Option{pokeapi.WithLogger(d.Logger)}
	if !d.NoCache && cfg.CacheDir != "" {
		cache, err := pokeapi.NewDiskCache(cfg.CacheDir, cfg.CacheSizeMax)
		if err != nil {
			d.Logger.Warn("response cache disabled", "dir", cfg.CacheDir, "error", err)
		} else {
			d.Cache = cache
			opts = append(opts, pokeapi.WithCache(cache))
		}
	}
	client, err := pokeapi.NewClient(cfg.APIBase, cfg.Timeout, opts...)
	if err != nil {
		return err
	}
	d.Client = client
	d.Catalog = catalog.New(client, catalog.Options{
		RandomLimit: cfg.RandomLimit,
		Logger:      d.Logger,
	})
	d.Logger.Debug("config loaded", "path", path, "api_base", cfg.APIBase, "cache_dir", cfg.CacheDir)
	return nil
}

func (d *Deps) dexOptions() dex.Options {
	return dex.Options{
		IndexLimit:  d.Config.IndexLimit,
		PageSize:    d.Config.PageSize,
		MaxTypes:    d.Config.MaxTypes,
		Concurrency: d.Config.Concurrency,
		Logger:      d.Logger,
	}
}

// printer colors output only for a terminal, and honors --no-color and
// NO_COLOR.
func (d *Deps) printer(cmd *cobra.Command) *printer.Printer {
	out := cmd.OutOrStdout()
	f, ok := out.(*os.File)
	colored := ok && internal.IsTerminal(f) && !d.NoColor && os.Getenv("NO_COLOR") == ""
	return printer.New(out, colored)
}

func (d *Deps) clock() internal.Clock {
	return internal.OrReal(d.Clock)
}

func (d *Deps) shutdown() {
	for _, c := range d.closers {
		_ = c()
	}
	d.closers = nil
}
