package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/azan1ud/landlordshield/internal/cli"
	"github.com/azan1ud/landlordshield/internal/config"
	"github.com/azan1ud/landlordshield/internal/ical"
	"github.com/azan1ud/landlordshield/internal/report"
	"github.com/azan1ud/landlordshield/internal/sheets"
)

const calendarName = "Landlord compliance deadlines"

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export deadlines and readiness scores",
		Long: `Export the deadline feed and readiness scores as a calendar file, CSV files
or a Google Sheets spreadsheet.`,
	}

	cmd.AddCommand(exportICSCmd())
	cmd.AddCommand(exportCSVCmd())
	cmd.AddCommand(exportSheetsCmd())

	return cmd
}

func exportICSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Write the deadline feed as an iCalendar file",
		Long: `Write every deadline as an all-day event with reminders one week and one day
before. Subscribe to the file from any calendar application.`,
		Example: `  shield export ics -o deadlines.ics
  shield export ics --calendar-only > statutory.ics`,
		RunE: runExportICS,
	}

	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	cmd.Flags().Bool("calendar-only", false, "only export statutory calendar deadlines")

	return cmd
}

func runExportICS(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	output, _ := cmd.Flags().GetString("output")
	calendarOnly, _ := cmd.Flags().GetBool("calendar-only")

	settings, _, eng, cleanup, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	now := settings.Clock()
	deadlines := eng.CalendarDeadlines(now)
	if !calendarOnly {
		if deadlines, err = eng.Deadlines(ctx, settings.OwnerID, now, settings.Income); err != nil {
			return err
		}
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output) //nolint:gosec
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				slog.Warn("Failed to close calendar file", "error", closeErr)
			}
		}()
		w = f
	}

	if err := ical.Write(w, calendarName, deadlines, now); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}

	if output != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Wrote %d deadlines to %s", len(deadlines), output)))
	}
	return nil
}

func exportCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Write readiness scores and deadlines as CSV files",
		RunE:  runExportCSV,
	}

	cmd.Flags().StringP("dir", "d", ".", "directory for the CSV files")

	return cmd
}

func runExportCSV(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	dir, _ := cmd.Flags().GetString("dir")

	settings, _, eng, cleanup, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	r, err := eng.Report(ctx, settings.OwnerID, settings.Clock(), settings.Income)
	if err != nil {
		return err
	}

	if err := report.NewCSVWriter(dir, slog.Default()).Write(ctx, r); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Wrote CSV report to "+dir))
	return nil
}

func exportSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Publish readiness scores and deadlines to Google Sheets",
		Long: `Publish the report to a Google Sheets spreadsheet. Run 'shield auth sheets'
first, or configure a service account with sheets.service_account_path.`,
		RunE: runExportSheets,
	}

	cmd.Flags().String("spreadsheet-id", "", "existing spreadsheet to update (overrides config)")

	return cmd
}

func runExportSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if id, _ := cmd.Flags().GetString("spreadsheet-id"); id != "" {
		viper.Set("sheets.spreadsheet_id", id)
	}

	sheetsConfig, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("google sheets is not configured: %w", err)
	}

	settings, _, eng, cleanup, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	r, err := eng.Report(ctx, settings.OwnerID, settings.Clock(), settings.Income)
	if err != nil {
		return err
	}

	writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	if err := writer.Write(ctx, r); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Report published to Google Sheets"))
	return nil
}
