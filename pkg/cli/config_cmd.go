package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/jlrickert/dexview/pkg/config"
	"github.com/spf13/cobra"
)

// NewConfigCmd returns the `config` cobra command.
//
// Usage examples:
//
//	dexview config
//	dexview config path
//	dexview config init --force
func NewConfigCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "display the effective configuration",
		Long: `Display the configuration after applying the config file and DEXVIEW_*
environment variables.

Use 'dexview config init' to write a starter file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, deps)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "display the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return showConfig(cmd, deps)
			},
		},
		&cobra.Command{
			Use:         "path",
			Short:       "print the config file path",
			Args:        cobra.NoArgs,
			Annotations: map[string]string{annotSkipSetup: "true"},
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := configPath(deps)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), p)
				return err
			},
		},
		newConfigInitCmd(deps),
	)
	return cmd
}

func newConfigInitCmd(deps *Deps) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "write the default configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotSkipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := configPath(deps)
			if err != nil {
				return err
			}
			cfg := config.Default()
			if dir, err := config.DefaultCacheDir(); err == nil {
				cfg.CacheDir = dir
			}
			err = config.Write(p, cfg, force)
			if errors.Is(err, fs.ErrExist) {
				return fmt.Errorf("%s already exists; use --force to overwrite", p)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
			return err
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func showConfig(cmd *cobra.Command, deps *Deps) error {
	data, err := deps.Config.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func configPath(deps *Deps) (string, error) {
	if deps.ConfigPath != "" {
		return deps.ConfigPath, nil
	}
	return config.DefaultPath()
}
