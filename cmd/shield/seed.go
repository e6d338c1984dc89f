package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/azan1ud/landlordshield/internal/cli"
	"github.com/azan1ud/landlordshield/internal/regulatory"
	"github.com/azan1ud/landlordshield/internal/seed"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the default compliance checklist",
		Long: `Create the default checklist: account-wide tasks once, and property tasks for
every stored property. Tasks that already exist are left alone, so seed can be
rerun after adding properties.`,
		RunE: runSeed,
	}

	cmd.Flags().String("property", "", "only seed this property (account-wide tasks are still seeded)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	propertyID, _ := cmd.Flags().GetString("property")

	settings, store, _, cleanup, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	properties, err := store.ListProperties(ctx, settings.OwnerID)
	if err != nil {
		return err
	}
	if propertyID != "" {
		property, err := store.GetProperty(ctx, propertyID)
		if err != nil {
			return err
		}
		properties = properties[:0]
		properties = append(properties, *property)
	}

	checklist, err := seed.DefaultChecklist()
	if err != nil {
		return err
	}

	result, err := seed.NewSeeder(store, checklist, regulatory.MustDefault(), slog.Default()).
		Seed(ctx, settings.OwnerID, properties)
	if err != nil {
		return fmt.Errorf("failed to seed checklist: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Seeded %d tasks across %d properties (%d already present)",
		result.Created, len(properties), result.Skipped)))
	return nil
}
