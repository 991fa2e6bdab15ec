package cli

import (
	"bufio"
	"errors"
	"strings"

	"github.com/jlrickert/dexview/pkg/catalog"
	"github.com/jlrickert/dexview/pkg/internal"
	"github.com/jlrickert/dexview/pkg/printer"
	"github.com/spf13/cobra"
)

// NewSearchCmd returns the `search` cobra command. Without an argument it
// reads one query per line from piped stdin.
func NewSearchCmd(deps *Deps) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search [name|number]",
		Short: "look up one Pokémon by exact name or number",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queries := args
			if len(queries) == 0 {
				if deps.In == nil && !internal.IsPipe() {
					return errors.New("a name or number is required")
				}
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					if q := strings.TrimSpace(sc.Text()); q != "" {
						queries = append(queries, q)
					}
				}
				if err := sc.Err(); err != nil {
					return err
				}
			}

			pr := deps.printer(cmd)
			var cards []catalog.Card
			var failed error
			for _, q := range queries {
				card, err := deps.Catalog.Search(cmd.Context(), q)
				if errors.Is(err, catalog.ErrEmptyQuery) {
					continue
				}
				if err != nil {
					if ctx := cmd.Context(); ctx.Err() != nil {
						return ctx.Err()
					}
					failed = err
					continue
				}
				if asJSON {
					cards = append(cards, card)
					continue
				}
				if err := pr.Card(card); err != nil {
					return err
				}
			}
			if asJSON && len(cards) > 0 {
				var v any = cards
				if len(cards) == 1 {
					v = cards[0]
				}
				if err := printer.JSON(cmd.OutOrStdout(), v); err != nil {
					return err
				}
			}
			return failed
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
