package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/lotbook/internal/display"
)

func newBrowseCmd(opts *rootOptions) *cobra.Command {
	var noBanner bool

	cmd := &cobra.Command{
		Use:   "browse <dish-id>",
		Short: "Browse a dish's lots interactively",
		Long: `Open an interactive lot browser. Use up/down (or k/j) to move, "/" to
filter, enter to compare the selected lot with its baseline, and q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				eng := a.engine()
				dish, err := eng.GetDish(ctx, args[0])
				if err != nil {
					return err
				}
				if !noBanner {
					fmt.Fprintln(cmd.OutOrStdout(), display.RenderBanner())
				}
				return display.NewBrowser(eng, dish).Run(ctx)
			})
		},
	}
	cmd.Flags().BoolVar(&noBanner, "no-banner", false, "skip the start-up banner")
	return cmd
}
