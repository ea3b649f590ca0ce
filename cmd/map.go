package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/pkg/peace"
	"github.com/spf13/cobra"
)

// getMapCmd returns the map command.
func getMapCmd() *cobra.Command {
	var (
		period string
		year   int
		method string
	)

	mapCmd := &cobra.Command{
		Use:   "map",
		Short: "Peace index per country with coordinates",
		Long: `Combine peace index values per country for a map.

Method 'latest' uses values of one month. Methods 'mean', 'median' and
'sum' combine all values of one year. Without --period or --year the
latest available month and year are used. Countries without
coordinates are left out.

Examples:
  pvdash map
  pvdash map --period 2024-05
  pvdash map --year 2023 --method median -f json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runMap(cmd, period, year, method)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	mapCmd.Flags().StringVarP(
		&period, "period", "p", "",
		"month in YYYY-MM format",
	)
	mapCmd.Flags().IntVarP(
		&year, "year", "y", 0,
		"year (ignored when --period is set)",
	)
	mapCmd.Flags().StringVarP(
		&method, "method", "m", "latest",
		"aggregation method: latest, mean, median, sum",
	)
	return mapCmd
}

func runMap(cmd *cobra.Command, period string, year int, method string) error {
	m, err := peace.ParseMethod(method)
	if err != nil {
		return MethodFormatError(method, err)
	}
	sel := peace.MapSelection{Year: year, Method: m}
	if period != "" {
		p, err := peace.ParsePeriod(period)
		if err != nil {
			return PeriodFormatError(period, err)
		}
		sel.Year, sel.Month = p.Year, p.Month
	}

	snap, err := loadSnapshot(context.Background())
	if err != nil {
		return err
	}

	r, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return r.Map(peace.AggregateByCountry(snap.Metrics, snap.Countries, sel))
}
