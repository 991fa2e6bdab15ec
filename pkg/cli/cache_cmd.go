package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errCacheDisabled = errors.New("response cache is disabled; set cache_dir in the config")

func NewCacheCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "manage the on-disk response cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "dir",
			Short: "print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if deps.Config.CacheDir == "" {
					return errCacheDisabled
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), deps.Config.CacheDir)
				return err
			},
		},
		&cobra.Command{
			Use:   "purge",
			Short: "delete every cached response",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if deps.Cache == nil {
					return errCacheDisabled
				}
				if err := deps.Cache.Purge(); err != nil {
					return err
				}
				deps.Logger.Info("response cache purged", "dir", deps.Config.CacheDir)
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "cache purged")
				return err
			},
		},
	)
	return cmd
}
