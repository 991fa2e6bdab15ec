package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"
)

// Build metadata, overridden with -ldflags "-X github.com/jlrickert/dexview/pkg/cli.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func NewVersionCmd(deps *Deps) *cobra.Command {
	shortened := false
	output := "json"

	cmd := &cobra.Command{
		Use:   "version",
		Short: "print the dexview version",
		Example: `
dexview version
dexview version --short
dexview version -o yaml
`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotSkipSetup: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := goversion.FuncWithOutput(shortened, Version, Commit, Date, output)
			_, err := fmt.Fprint(cmd.OutOrStdout(), resp)
			return err
		},
	}

	cmd.Flags().BoolVarP(&shortened, "short", "s", false, "Print just the version number.")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format. One of 'yaml' or 'json'.")
	return cmd
}
