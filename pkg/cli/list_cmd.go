package cli

import (
	"github.com/jlrickert/dexview/pkg/dex"
	"github.com/jlrickert/dexview/pkg/log"
	"github.com/jlrickert/dexview/pkg/printer"
	"github.com/spf13/cobra"
)

type listOptions struct {
	Text       string
	MinID      int
	MaxID      int
	Generation string
	Types      []string
	Page       int
	PageSize   int
	JSON       bool
}

// NewListCmd returns the `list` cobra command.
//
// Usage examples:
//
//	dexview list
//	dexview list --type fire --type flying
//	dexview list --gen 2 --page 3 --page-size 10
//	dexview list --min 1 --max 151 --json
func NewListCmd(deps *Deps) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "list one page of the National Dex",
		Long:    `Filter the National Dex and print one page with types and generations.`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := opts.query(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			lg := log.FromContext(ctx)
			rec := &dex.CaptureRenderer{}
			d := dex.New(deps.Client, rec, deps.dexOptions())
			defer d.Close()
			if err := d.Preset(q); err != nil {
				return err
			}

			start := deps.clock().Now()
			if err := d.Init(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return initFailure(d.Snapshot().Initialized, err)
			}
			v, ok := rec.Last()
			if !ok {
				return userFacing(dex.MsgLoadFailed, nil)
			}
			lg.Debug("list rendered", "count", v.Count, "page", v.Page,
				"elapsed", deps.clock().Now().Sub(start))

			if opts.JSON {
				return printer.JSON(cmd.OutOrStdout(), v)
			}
			return deps.printer(cmd).View(v)
		},
	}

	cmd.Flags().StringVarP(&opts.Text, "text", "t", "", "name substring, or an exact National Dex number")
	cmd.Flags().IntVar(&opts.MinID, "min", 0, "lowest National Dex number")
	cmd.Flags().IntVar(&opts.MaxID, "max", 0, "highest National Dex number")
	cmd.Flags().StringVarP(&opts.Generation, "gen", "g", "", "generation (I-IX or 1-9)")
	cmd.Flags().StringSliceVar(&opts.Types, "type", nil, "required type; repeat for more")
	cmd.Flags().IntVarP(&opts.Page, "page", "p", 1, "page number")
	cmd.Flags().IntVarP(&opts.PageSize, "page-size", "n", 0, "results per page (10, 25, 50 or 100)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print the page as JSON")

	_ = cmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return dex.TypeNames, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("gen", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return dex.Generations, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// initFailure tells a failed index fetch apart from a failed first page.
func initFailure(indexLoaded bool, err error) error {
	if indexLoaded {
		return userFacing(dex.MsgLoadFailed, err)
	}
	return userFacing(dex.MsgInitFailed, err)
}

func (o listOptions) query(cmd *cobra.Command) (dex.Query, error) {
	q := dex.Query{
		Filter: dex.FilterState{
			Text:       o.Text,
			Generation: o.Generation,
			Types:      o.Types,
		},
		Page:     o.Page,
		PageSize: o.PageSize,
	}
	if cmd.Flags().Changed("min") {
		v := o.MinID
		q.Filter.MinID = &v
	}
	if cmd.Flags().Changed("max") {
		v := o.MaxID
		q.Filter.MaxID = &v
	}
	return q, q.Validate()
}
