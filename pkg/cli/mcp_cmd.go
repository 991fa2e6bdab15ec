package cli

import (
	"github.com/jlrickert/dexview/pkg/dex"
	"github.com/jlrickert/dexview/pkg/mcpserver"
	"github.com/spf13/cobra"
)

func NewMCPCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "serve dexview tools over the Model Context Protocol",
		Long: `Launch an MCP server on stdio exposing the search, random, profile and
dex_page tools.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotOwnsTerminal: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			d := dex.New(deps.Client, nil, deps.dexOptions())
			defer d.Close()
			srv := mcpserver.New(deps.Catalog, d, mcpserver.Options{
				Name:    "dexview",
				Version: Version,
				Logger:  deps.Logger,
			})
			return srv.Run(cmd.Context())
		},
	}
	return cmd
}
