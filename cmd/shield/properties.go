package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/azan1ud/landlordshield/internal/cli"
	"github.com/azan1ud/landlordshield/internal/model"
)

func propertiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "properties",
		Aliases: []string{"property"},
		Short:   "Manage rental properties",
	}

	cmd.AddCommand(propertiesAddCmd())
	cmd.AddCommand(propertiesListCmd())

	return cmd
}

func propertiesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a property",
		Example: `  shield properties add --address "12 Acacia Avenue, Leeds" --postcode ls6 2ab`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			address, _ := cmd.Flags().GetString("address")
			postcode, _ := cmd.Flags().GetString("postcode")

			settings, store, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			property := &model.Property{
				OwnerID:   settings.OwnerID,
				Address:   address,
				Postcode:  postcode,
				CreatedAt: settings.Clock().UTC(),
			}
			if err := store.CreateProperty(ctx, property); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s (%s)\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				property.DisplayAddress(),
				cli.InfoStyle.Render(property.ID))
			return nil
		},
	}

	cmd.Flags().String("address", "", "street address")
	cmd.Flags().String("postcode", "", "postcode")
	_ = cmd.MarkFlagRequired("address")

	return cmd
}

func propertiesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List properties",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			asJSON, _ := cmd.Flags().GetBool("json")

			settings, store, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			properties, err := store.ListProperties(ctx, settings.OwnerID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, properties)
			}
			if len(properties) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("No properties yet. Add one with 'shield properties add'."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tADDRESS\tPOSTCODE\tADDED")
			for _, p := range properties {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Address, p.Postcode, p.CreatedAt.Format(dateLayout))
			}
			return w.Flush()
		},
	}

	cmd.Flags().Bool("json", false, "output JSON")

	return cmd
}
