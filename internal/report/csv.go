package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/azan1ud/landlordshield/internal/service"
)

// File names written by CSVWriter.
const (
	SummaryFile   = "summary.csv"
	OverviewFile  = "overview.csv"
	DeadlinesFile = "deadlines.csv"
)

var _ service.ReportWriter = (*CSVWriter)(nil)

// CSVWriter writes a report as three CSV files in a directory.
type CSVWriter struct {
	logger *slog.Logger
	dir    string
}

// NewCSVWriter creates a writer for dir. The directory is created on first write.
func NewCSVWriter(dir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: dir, logger: logger}
}

// Write implements service.ReportWriter.
func (w *CSVWriter) Write(ctx context.Context, r *service.Report) error {
	if r == nil {
		return fmt.Errorf("csv: nil report")
	}
	if err := os.MkdirAll(w.dir, 0750); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	overview := OverviewRows(r.Portfolio)
	overviewRecords := make([][]string, 0, len(overview))
	for _, row := range overview {
		overviewRecords = append(overviewRecords, row.Strings())
	}

	deadlines := DeadlineRows(r.Deadlines)
	deadlineRecords := make([][]string, 0, len(deadlines))
	for _, row := range deadlines {
		deadlineRecords = append(deadlineRecords, row.Strings())
	}

	files := []struct {
		name    string
		header  []string
		records [][]string
	}{
		{SummaryFile, SummaryHeader, SummaryRows(r)},
		{OverviewFile, OverviewHeader, overviewRecords},
		{DeadlinesFile, DeadlineHeader, deadlineRecords},
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(w.dir, f.name)
		if err := writeCSV(path, f.header, f.records); err != nil {
			return err
		}
		w.logger.Debug("wrote csv", "path", path, "rows", len(f.records))
	}

	w.logger.Info("report written", "dir", w.dir, "deadlines", len(deadlineRecords))
	return nil
}

func writeCSV(path string, header []string, records [][]string) error {
	// #nosec G304 - path is built from the configured output directory
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: write header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: write rows: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("csv: close %q: %w", path, err)
	}
	return nil
}
