package cli

import (
	"errors"
	"os"

	"github.com/jlrickert/dexview/pkg/dex"
	"github.com/jlrickert/dexview/pkg/internal"
	"github.com/jlrickert/dexview/pkg/tui"
	"github.com/spf13/cobra"
)

func NewBrowseCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "browse",
		Short:       "browse the National Dex interactively",
		Aliases:     []string{"ui"},
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotOwnsTerminal: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !internal.IsTerminal(os.Stdout) {
				return errors.New("browse needs an interactive terminal; try 'dexview list'")
			}
			bridge := tui.NewBridge()
			d := dex.New(deps.Client, bridge, deps.dexOptions())
			defer d.Close()
			return tui.Run(cmd.Context(), d, deps.Catalog, bridge)
		},
	}
	return cmd
}
