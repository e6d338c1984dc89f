package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/azan1ud/landlordshield/internal/cli"
	"github.com/azan1ud/landlordshield/internal/model"
)

const scoreBarWidth = 20

func complianceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compliance",
		Short: "Show readiness scores",
		Long: `Show the readiness score of each regulatory domain and the weighted overall
score. Without --property the account-wide overview is shown, followed by a
one-line summary per property.`,
		RunE: runCompliance,
	}

	cmd.Flags().StringP("property", "p", "", "score a single property (account-wide tasks included)")
	cmd.Flags().Bool("json", false, "output JSON")

	return cmd
}

func runCompliance(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	propertyID, _ := cmd.Flags().GetString("property")
	asJSON, _ := cmd.Flags().GetBool("json")

	settings, _, eng, cleanup, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	now := settings.Clock()
	out := cmd.OutOrStdout()

	if propertyID != "" {
		overview, err := eng.Compliance(ctx, settings.OwnerID, &propertyID, now)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(out, overview)
		}
		printOverview(out, "Property "+propertyID, overview)
		return nil
	}

	r, err := eng.Report(ctx, settings.OwnerID, now, settings.Income)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(out, r.Portfolio)
	}

	printOverview(out, "All properties", r.Portfolio.Account)
	for _, p := range r.Portfolio.Properties {
		score := p.Overview.OverallScore
		fmt.Fprintf(out, "  %s %s %s  %s\n",
			cli.ScoreBar(score, scoreBarWidth/2),
			cli.BoldStyle.Render(fmt.Sprintf("%3d%%", score)),
			p.Property.DisplayAddress(),
			cli.SubtleStyle.Render(p.Property.ID))
	}
	return nil
}

func printOverview(out io.Writer, title string, overview model.ComplianceOverview) {
	var lines []string
	for _, d := range model.ScoredDomains {
		status := overview.PerDomain[d]
		line := fmt.Sprintf("%-20s %s %s  %d/%d done",
			d.Label(),
			cli.ScoreBar(status.Score, scoreBarWidth),
			cli.ReadinessStyle(status.Status).Render(fmt.Sprintf("%3d%% %-9s", status.Score, status.Status)),
			status.CompletedCount,
			status.TotalCount)
		if status.NextDeadline != nil && status.DaysUntilDeadline != nil {
			line += fmt.Sprintf("  next %s (%dd)", formatDate(status.NextDeadline), *status.DaysUntilDeadline)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", fmt.Sprintf("%-20s %s %s",
		"Overall",
		cli.ScoreBar(overview.OverallScore, scoreBarWidth),
		cli.BoldStyle.Render(fmt.Sprintf("%3d%%", overview.OverallScore))))

	fmt.Fprintln(out, cli.RenderBox(cli.ShieldIcon+" "+title, strings.Join(lines, "\n")))
}
