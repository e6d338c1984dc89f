package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/azan1ud/landlordshield/internal/cli"
	"github.com/azan1ud/landlordshield/internal/compliance"
	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/report"
)

func deadlinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deadlines",
		Short: "Show the compliance deadline feed",
		Long: `Show every compliance deadline in date order: regulatory dates, certificate
expiries and the due dates of outstanding checklist tasks.

Overdue deadlines are shown first because they carry the earliest dates.`,
		Example: `  # The next ten deadlines
  shield deadlines --upcoming 10

  # Only the statutory calendar, as JSON
  shield deadlines --calendar-only --json`,
		RunE: runDeadlines,
	}

	cmd.Flags().IntP("upcoming", "n", 0, "show only the next N deadlines (0 shows all)")
	cmd.Flags().Bool("calendar-only", false, "show only the regulatory calendar")
	cmd.Flags().Bool("json", false, "output JSON")

	return cmd
}

func runDeadlines(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	upcoming, _ := cmd.Flags().GetInt("upcoming")
	calendarOnly, _ := cmd.Flags().GetBool("calendar-only")
	asJSON, _ := cmd.Flags().GetBool("json")

	if upcoming < 0 {
		return fmt.Errorf("--upcoming must not be negative")
	}

	settings, _, eng, cleanup, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	now := settings.Clock()

	var deadlines []model.Deadline
	switch {
	case calendarOnly:
		deadlines = eng.CalendarDeadlines(now)
		if upcoming > 0 && len(deadlines) > upcoming {
			deadlines = deadlines[:upcoming]
		}
	case upcoming > 0:
		deadlines, err = eng.Upcoming(ctx, settings.OwnerID, now, settings.Income, upcoming)
	default:
		deadlines, err = eng.Deadlines(ctx, settings.OwnerID, now, settings.Income)
	}
	if err != nil {
		return fmt.Errorf("failed to build deadline feed: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, deadlines)
	}
	return printDeadlines(out, deadlines, now)
}

func printDeadlines(out io.Writer, deadlines []model.Deadline, now time.Time) error {
	if len(deadlines) == 0 {
		_, err := fmt.Fprintln(out, cli.FormatInfo("No deadlines."))
		return err
	}

	fmt.Fprintln(out, cli.FormatTitle(cli.CalendarIcon+" Compliance deadlines"))

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tIN\tDOMAIN\tTITLE\tSTATE")
	for _, d := range deadlines {
		days := compliance.DaysUntil(d.Date, today)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			d.Date.Format(dateLayout),
			fmt.Sprintf("%dd", days),
			d.Domain.Label(),
			d.Title,
			cli.DeadlineStyle(d).Render(report.State(d)))
	}
	return w.Flush()
}
