package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/pkg/config"
	"github.com/spf13/cobra"
)

// getRankingCmd returns the ranking command.
func getRankingCmd() *cobra.Command {
	var (
		period string
		top    int
	)

	rankingCmd := &cobra.Command{
		Use:   "ranking",
		Short: "Rank countries by peace index",
		Long: `Rank countries by the peace index of one month.

Countries are sorted from the highest to the lowest value, countries
without a value come last. Besides the full ranking the output shows
the top countries and the countries in critical condition.

Examples:
  pvdash ranking
  pvdash ranking --period 2024-05 --top 5
  pvdash ranking -f csv > ranking.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("top") {
				cfg.Update([]config.Option{config.OptReportTopN(top)})
			}
			err := runRanking(cmd, period)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	rankingCmd.Flags().StringVarP(
		&period, "period", "p", "",
		"month of the ranking in YYYY-MM format (default latest)",
	)
	rankingCmd.Flags().IntVarP(
		&top, "top", "t", 10,
		"number of countries in the top list",
	)
	return rankingCmd
}

func runRanking(cmd *cobra.Command, period string) error {
	snap, err := loadSnapshot(context.Background())
	if err != nil {
		return err
	}

	p, err := selectPeriod(period, snap)
	if err != nil {
		return err
	}

	r, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return r.Ranking(p, snap.Ranking(p), cfg.Report.TopN)
}
