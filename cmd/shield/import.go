package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/azan1ud/landlordshield/internal/cli"
	"github.com/azan1ud/landlordshield/internal/common"
	"github.com/azan1ud/landlordshield/internal/importer"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <portfolio.yaml>",
		Short: "Import properties, certificates and tasks from a YAML file",
		Long: `Import a portfolio from YAML. Properties matching an existing address and
postcode are reused and tasks whose key already exists are skipped, so the same
file can be imported repeatedly.

A snapshot of the database is taken first; restore it with 'shield snapshot restore'.`,
		Example: `  shield import portfolio.yaml
  shield import portfolio.yaml --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "parse and summarise the file without saving")
	cmd.Flags().Bool("no-snapshot", false, "skip the automatic snapshot")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noSnapshot, _ := cmd.Flags().GetBool("no-snapshot")
	out := cmd.OutOrStdout()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close import file", "error", closeErr)
		}
	}()

	doc, err := importer.Parse(f)
	if err != nil {
		return common.NewUserError("could not read "+args[0], err)
	}

	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Importing %d properties and %d account-wide tasks",
		len(doc.Properties), len(doc.Tasks))))

	if dryRun {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Dry run: %d records parsed, nothing saved", doc.Count())))
		return nil
	}

	settings, store, _, cleanup, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if !noSnapshot && store.Path() != ":memory:" {
		manager, err := store.NewSnapshotManager()
		if err != nil {
			return err
		}
		info, err := manager.Auto(ctx, "import")
		if err != nil {
			return fmt.Errorf("failed to snapshot database before import: %w", err)
		}
		slog.Info("Created snapshot before import", "snapshot", info.ID)
	}

	bar := cli.NewProgressBar(cmd.ErrOrStderr(), doc.Count(), "Importing")
	result, err := importer.New(store, settings.Clock(), slog.Default()).Import(ctx, settings.OwnerID, doc, bar)
	if err != nil {
		return err
	}
	_ = bar.Finish()

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d properties, %d certificates and %d tasks",
		result.Properties, result.Certificates, result.Tasks)))
	if result.Skipped > 0 {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Skipped %d records already present", result.Skipped)))
	}
	return nil
}
