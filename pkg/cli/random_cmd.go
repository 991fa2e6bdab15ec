package cli

import (
	"github.com/jlrickert/dexview/pkg/printer"
	"github.com/spf13/cobra"
)

func NewRandomCmd(deps *Deps) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "random",
		Short: "show a random Pokémon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := deps.Catalog.Random(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printer.JSON(cmd.OutOrStdout(), card)
			}
			return deps.printer(cmd).Card(card)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
