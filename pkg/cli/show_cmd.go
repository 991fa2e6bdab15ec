package cli

import (
	"errors"
	"fmt"

	"github.com/jlrickert/dexview/pkg/printer"
	"github.com/spf13/cobra"
)

// NewShowCmd returns the `show` cobra command.
//
// Usage examples:
//
//	dexview show pikachu
//	dexview show 1 --markdown > bulbasaur.md
//	dexview show 25 --html
func NewShowCmd(deps *Deps) *cobra.Command {
	var asMarkdown, asHTML, asJSON bool

	cmd := &cobra.Command{
		Use:     "show <name|number>",
		Short:   "show the full profile of one Pokémon",
		Aliases: []string{"profile"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 0
			for _, on := range []bool{asMarkdown, asHTML, asJSON} {
				if on {
					n++
				}
			}
			if n > 1 {
				return errors.New("--markdown, --html and --json are mutually exclusive")
			}

			p, err := deps.Catalog.Profile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				return printer.JSON(out, p)
			case asMarkdown:
				_, err = fmt.Fprint(out, printer.Markdown(p))
				return err
			case asHTML:
				html, err := printer.HTML(p)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(out, html)
				return err
			}
			return deps.printer(cmd).Profile(p)
		},
	}

	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "print the profile as Markdown")
	cmd.Flags().BoolVar(&asHTML, "html", false, "print the profile as HTML")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the profile as JSON")
	return cmd
}
