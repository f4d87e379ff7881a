package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/lotbook/internal/catalog"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import a dish and its lots from YAML",
		Long: `Import a dish and its lots from a YAML file with top-level "dish" and
"lots" keys. The dish is created or replaced; lots are saved baselines
first, so a file may reference its own lots as baselines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			bundle, err := catalog.DecodeYAML(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.writer.SaveDish(ctx, &bundle.Dish); err != nil {
					return err
				}
				eng := a.engine()
				for _, l := range bundle.Lots {
					if err := eng.SaveLot(ctx, l); err != nil {
						return fmt.Errorf("lot %s: %w", l.LotNumber, err)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %s with %d lots\n", bundle.Dish.ID, len(bundle.Lots))
				return nil
			})
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <dish-id>",
		Short: "Export a dish and its lots as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				eng := a.engine()
				dish, err := eng.GetDish(ctx, args[0])
				if err != nil {
					return err
				}
				lots, err := eng.ListLots(ctx, dish.ID)
				if err != nil {
					return err
				}

				var w io.Writer = cmd.OutOrStdout()
				if out != "" && out != "-" {
					f, err := os.Create(out)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				return catalog.EncodeYAML(w, &catalog.Bundle{Dish: *dish, Lots: lots})
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the built-in sample dish and lots to the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				src := catalog.NewMemorySource(a.log.Named("catalog"))
				n, err := src.Seed(ctx, a.lots, a.writer)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d lots\n", n)
				return nil
			})
		},
	}
}
