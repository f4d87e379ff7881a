package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/lotbook/internal/display"
	"github.com/hammamikhairi/lotbook/internal/domain"
)

func newDishesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dishes",
		Short: "List dishes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				dishes, err := a.engine().ListDishes(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), display.RenderDishes(dishes))
				return nil
			})
		},
	}
}

func newLotsCmd(opts *rootOptions) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "lots <dish-id>",
		Short: "List the lots of a dish",
		Long: `List the lots of a dish ordered by test date.

With --search, only lots matching the query are shown. The query is
matched case-insensitively against lot numbers, assignees, titles,
memos, ingredients and steps, and against what a lot removed or changed
relative to its baseline.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				lots, err := a.engine().SearchLots(ctx, args[0], query)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), display.RenderLots(lots))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&query, "search", "s", "", "only show lots matching this text")
	return cmd
}

func newEvaluateCmd(opts *rootOptions) *cobra.Command {
	var eval domain.Evaluation

	cmd := &cobra.Command{
		Use:   "evaluate <lot-id>",
		Short: "Record a taste evaluation for a lot",
		Long: `Record a taste evaluation for a lot and mark it evaluated.

Examples:
  lotbook evaluate CR-2023-002 --overall 4 --taste 辛さ=9 --taste とろみ=5
  lotbook evaluate CR-2023-002 --comments "辛すぎる" --by 田中太郎`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				lot, err := a.engine().Evaluate(ctx, args[0], &eval)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), display.LotRow(lot))
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.IntVar(&eval.OverallRating, "overall", 0, "overall rating")
	f.IntVar(&eval.Appearance, "appearance", 0, "appearance rating")
	f.IntVar(&eval.Texture, "texture", 0, "texture rating")
	f.IntVar(&eval.Aroma, "aroma", 0, "aroma rating")
	f.StringToIntVar(&eval.TasteProfiles, "taste", nil, "taste rating as name=value (repeatable)")
	f.StringToIntVar(&eval.CustomStarRatings, "star", nil, "custom star rating as name=value (repeatable)")
	f.StringVar(&eval.Comments, "comments", "", "free-text comments")
	f.StringVar(&eval.Improvements, "improvements", "", "improvement notes")
	f.StringVar(&eval.EvaluatedBy, "by", "", "evaluator name")
	return cmd
}
