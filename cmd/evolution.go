package cmd

import (
	"context"
	"strings"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/internal/ioreport"
	"github.com/pazviva/pvdash/pkg/peace"
	"github.com/spf13/cobra"
)

// getEvolutionCmd returns the evolution command.
func getEvolutionCmd() *cobra.Command {
	var (
		country string
		yearly  bool
	)

	evolutionCmd := &cobra.Command{
		Use:   "evolution",
		Short: "Mean peace index over time",
		Long: `Show how the mean peace index changes over time.

By default the mean of all countries is computed for every month. Use
--country to follow one country and --yearly to group values by year.

Examples:
  pvdash evolution
  pvdash evolution --country BR --yearly`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runEvolution(cmd, country, yearly)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	evolutionCmd.Flags().StringVarP(
		&country, "country", "c", "",
		"ISO country code (default all countries)",
	)
	evolutionCmd.Flags().BoolVarP(
		&yearly, "yearly", "y", false,
		"aggregate by year instead of month",
	)
	return evolutionCmd
}

func runEvolution(cmd *cobra.Command, country string, yearly bool) error {
	snap, err := loadSnapshot(context.Background())
	if err != nil {
		return err
	}

	scope := strings.ToUpper(strings.TrimSpace(country))
	var view ioreport.EvolutionView
	if yearly {
		view = ioreport.NewYearlyView(scope, peace.YearlySeries(snap.Metrics, scope))
	} else {
		view = ioreport.NewEvolutionView(scope, peace.EvolutionSeries(snap.Metrics, scope))
	}
	if len(view.Series) == 0 {
		gn.Warn("<warn>No indicator values for <em>%s</em></warn>", scopeName(scope))
	}

	r, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return r.Evolution(view)
}

func scopeName(scope string) string {
	if scope == "" {
		return "all countries"
	}
	return scope
}
