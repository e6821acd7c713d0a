package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"dreamworld/internal/adapter/repo"
	"dreamworld/internal/infra"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit     int
		olderThan time.Duration
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or prune generation runs stored in DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := infra.LoadConfig()
			if err != nil {
				return err
			}
			if !cfg.HistoryEnabled() {
				return fmt.Errorf("DATABASE_URL is not set")
			}
			logger := infra.NewLogger(cfg.AppEnv)
			pool, err := infra.NewDBPool(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()
			runs := repo.NewRunRepository(infra.NewSQLRunner(pool, logger))

			if olderThan > 0 {
				n, err := runs.Prune(cmd.Context(), time.Now().Add(-olderThan))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d runs\n", n)
				return nil
			}

			items, err := runs.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CREATED\tSTATUS\tTHEME\tSEED\tOUTPUTS")
			for _, r := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
					r.CreatedAt.Local().Format(time.DateTime), r.Status, r.ThemeName, r.Seed, len(r.OutputPaths))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", repo.DefaultHistoryLimit, "Runs to list")
	cmd.Flags().DurationVar(&olderThan, "prune-older-than", 0, "Delete runs older than this age instead of listing")
	return cmd
}
