package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getReportCmd returns the report command.
func getReportCmd() *cobra.Command {
	var period string

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Monthly peace report",
		Long: `Build the report of one month.

The report contains:
  - overview: mean index, number of countries, peacekeepers registered
    in the month and in total
  - five best and five worst ranked countries
  - number of countries per peace level
  - countries in critical condition
  - the full ranking

Without --period the latest month of the dataset is used.

Examples:
  pvdash report
  pvdash report --period 2024-05 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runReport(cmd, period)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	reportCmd.Flags().StringVarP(
		&period, "period", "p", "",
		"month of the report in YYYY-MM format (default latest)",
	)
	return reportCmd
}

func runReport(cmd *cobra.Command, period string) error {
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
	return r.Report(snap.Report(p))
}
