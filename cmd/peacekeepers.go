package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/pkg/peace"
	"github.com/spf13/cobra"
)

// getPeacekeepersCmd returns the peacekeepers command.
func getPeacekeepersCmd() *cobra.Command {
	peacekeepersCmd := &cobra.Command{
		Use:     "peacekeepers",
		Aliases: []string{"pk"},
		Short:   "Count registered peacekeepers",
		Long: `Count registered peacekeepers in total, per country and per month.

Registrations with an unreadable date count in the total and per
country, but not per month.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPeacekeepers(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	return peacekeepersCmd
}

func runPeacekeepers(cmd *cobra.Command) error {
	snap, err := loadSnapshot(context.Background())
	if err != nil {
		return err
	}

	r, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return r.Peacekeepers(peace.SummarizeEvents(snap.Events, snap.Countries))
}
