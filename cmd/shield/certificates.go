package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/azan1ud/landlordshield/internal/cli"
	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/service"
)

func certificatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "certificates",
		Aliases: []string{"certs"},
		Short:   "Manage property certificates",
		Long: `Manage safety and energy certificates. Every certificate with an expiry date
appears in the deadline feed.`,
	}

	cmd.AddCommand(certificatesAddCmd())
	cmd.AddCommand(certificatesListCmd())

	return cmd
}

func certificatesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Record a certificate",
		Example: `  shield certificates add --property 3f2a... --kind gas_safety --issued 2026-03-01 --expiry 2027-03-01`,
		RunE:    runCertificatesAdd,
	}

	cmd.Flags().String("property", "", "property id")
	cmd.Flags().String("kind", "", "certificate kind (gas_safety, eicr, epc, ...)")
	cmd.Flags().String("issued", "", "issue date (YYYY-MM-DD)")
	cmd.Flags().String("expiry", "", "expiry date (YYYY-MM-DD)")
	cmd.Flags().String("status", "", "status override (valid, expiring_soon, expired, missing)")
	_ = cmd.MarkFlagRequired("property")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func runCertificatesAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()
	propertyID, _ := flags.GetString("property")
	kind, _ := flags.GetString("kind")
	issuedRaw, _ := flags.GetString("issued")
	expiryRaw, _ := flags.GetString("expiry")
	status, _ := flags.GetString("status")

	issued, err := parseDateFlag("issued", issuedRaw)
	if err != nil {
		return err
	}
	expiry, err := parseDateFlag("expiry", expiryRaw)
	if err != nil {
		return err
	}

	settings, store, _, cleanup, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	property, err := store.GetProperty(ctx, propertyID)
	if err != nil {
		return err
	}

	certificate := &model.Certificate{
		PropertyID: property.ID,
		Kind:       kind,
		IssuedDate: issued,
		ExpiryDate: expiry,
		Status:     model.CertificateStatus(status),
	}
	if certificate.Status == "" {
		certificate.Status = model.DeriveCertificateStatus(expiry, settings.Clock())
	}
	if err := store.CreateCertificate(ctx, certificate); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Recorded %s for %s (%s, %s)\n",
		cli.SuccessStyle.Render(cli.SuccessIcon),
		certificate.KindName(),
		property.DisplayAddress(),
		certificate.Status,
		cli.InfoStyle.Render(certificate.ID))
	return nil
}

func certificatesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List certificates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			propertyID, _ := cmd.Flags().GetString("property")
			asJSON, _ := cmd.Flags().GetBool("json")

			settings, store, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			certificates, err := store.ListCertificates(ctx, service.CertificateFilter{
				OwnerID:    settings.OwnerID,
				PropertyID: optionalString(propertyID),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, certificates)
			}
			if len(certificates) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("No certificates recorded."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPROPERTY\tKIND\tISSUED\tEXPIRY\tSTATUS")
			for _, c := range certificates {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					c.ID, c.PropertyID, c.KindName(), formatDate(c.IssuedDate), formatDate(c.ExpiryDate),
					cli.CertificateStyle(c.Status).Render(string(c.Status)))
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("property", "", "only certificates for this property")
	cmd.Flags().Bool("json", false, "output JSON")

	return cmd
}
