package main

import (
	"github.com/spf13/cobra"

	"github.com/azan1ud/landlordshield/internal/tui"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive compliance dashboard",
		Long: `Open a full-screen dashboard with readiness scores, a scrollable deadline
timeline and a month calendar. Press ? for key bindings.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			settings, _, eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.Run(ctx,
				tui.WithEngine(eng),
				tui.WithOwner(settings.OwnerID),
				tui.WithIncome(settings.Income),
				tui.WithClock(settings.Clock),
			)
		},
	}
}
