package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/lotbook/internal/config"
	"github.com/hammamikhairi/lotbook/internal/diff"
	"github.com/hammamikhairi/lotbook/internal/display"
	"github.com/hammamikhairi/lotbook/internal/engine"
)

func newDiffCmd(opts *rootOptions) *cobra.Command {
	var (
		baseline string
		topN     int
		all      bool
		taste    []string
	)

	cmd := &cobra.Command{
		Use:   "diff <lot-id>",
		Short: "Compare a lot with its baseline",
		Long: `Compare a lot with its baseline lot: a short summary, ingredient and
step changes, rating deltas with the largest changes, and line diffs of
the evaluation comments.

Examples:
  lotbook diff CR-2023-002
  lotbook diff CR-2023-003 --baseline CR-2023-002
  lotbook diff CR-2023-003 --top 5 --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				var extra []engine.Option
				if cmd.Flags().Changed("top") {
					extra = append(extra, engine.WithTopN(topN))
				}
				if all {
					extra = append(extra, engine.WithAllAttributes())
				}
				if len(taste) > 0 {
					extra = append(extra, engine.WithMainTaste(taste))
				}
				eng := a.engine(extra...)

				cmp, err := eng.Compare(ctx, args[0], baseline)
				if err != nil {
					return err
				}
				dish, err := eng.GetDish(ctx, cmp.Lot.DishID)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), display.RenderComparison(cmp, dish.Settings))
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&baseline, "baseline", "b", "", "compare against this lot instead of the lot's own baseline")
	f.IntVarP(&topN, "top", "n", 3, "number of largest rating changes to list")
	f.BoolVar(&all, "all", false, "compare every rated attribute, not only the main ones")
	f.StringSliceVar(&taste, "taste", nil, "main taste attributes to compare (default スパイス感,とろみ,辛さ)")
	return cmd
}

func newTextCmd(opts *rootOptions) *cobra.Command {
	var (
		lines    bool
		maxCells int
	)

	cmd := &cobra.Command{
		Use:   "text <baseline> <current>",
		Short: "Word-diff two pieces of text",
		Long: `Word-diff two pieces of text. Removed words are shown as [-word-],
added words as {+word+}. With --lines the texts are compared line by line.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-cells") {
				cfg, err := config.Load(opts.envFile)
				if err != nil {
					return err
				}
				maxCells = cfg.MaxCells
			}
			d := diff.TextDiffer{MaxCells: maxCells}
			out := cmd.OutOrStdout()
			if lines {
				fmt.Fprint(out, display.RenderLineDiff(d.Lines(args[0], args[1])))
				return nil
			}
			fmt.Fprintln(out, display.RenderTextDiff(d.Words(args[0], args[1])))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&lines, "lines", "l", false, "compare line by line")
	cmd.Flags().IntVar(&maxCells, "max-cells", config.Default().MaxCells, "largest LCS table before falling back to a coarse diff (env "+config.EnvMaxCells+")")
	return cmd
}
