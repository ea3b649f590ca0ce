package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/pkg/peace"
	"github.com/spf13/cobra"
)

// getPeriodsCmd returns the periods command.
func getPeriodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "periods",
		Short: "List months with peace index values",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPeriods(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
}

func runPeriods(cmd *cobra.Command) error {
	snap, err := loadSnapshot(context.Background())
	if err != nil {
		return err
	}

	r, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return r.Periods(peace.Periods(snap.Metrics))
}
