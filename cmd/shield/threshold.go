package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azan1ud/landlordshield/internal/cli"
	"github.com/azan1ud/landlordshield/internal/common"
	"github.com/azan1ud/landlordshield/internal/config"
	"github.com/azan1ud/landlordshield/internal/model"
)

func thresholdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threshold",
		Short: "Check which digital tax phase your income falls into",
		Long: `Compute qualifying income and the first rollout phase whose threshold it
exceeds. Figures default to the income.* configuration keys; flags override them.

Qualifying income is property income (halved for joint ownership, zero when
shielded) plus other qualifying income.`,
		Example: `  shield threshold --income-a 62000 --joint --income-b 4000`,
		RunE:    runThreshold,
	}

	cmd.Flags().String("income-a", "", "gross property income")
	cmd.Flags().String("income-b", "", "other gross qualifying income")
	cmd.Flags().Bool("joint", false, "property income is jointly owned")
	cmd.Flags().Bool("shielded", false, "property income is shielded")
	cmd.Flags().Bool("json", false, "output JSON")

	return cmd
}

func runThreshold(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	input := model.ThresholdInput{}
	if settings.Income != nil {
		input = *settings.Income
	}

	flags := cmd.Flags()
	if flags.Changed("income-a") {
		raw, _ := flags.GetString("income-a")
		if input.GrossIncomeA, err = config.ParseAmount(raw); err != nil {
			return fmt.Errorf("--income-a: %w", err)
		}
	}
	if flags.Changed("income-b") {
		raw, _ := flags.GetString("income-b")
		if input.GrossIncomeB, err = config.ParseAmount(raw); err != nil {
			return fmt.Errorf("--income-b: %w", err)
		}
	}
	if flags.Changed("joint") {
		input.IsJointOwnership, _ = flags.GetBool("joint")
	}
	if flags.Changed("shielded") {
		input.IsIncomeShielded, _ = flags.GetBool("shielded")
	}

	if settings.Income == nil && !flags.Changed("income-a") && !flags.Changed("income-b") {
		return fmt.Errorf("%w: no income given, pass --income-a/--income-b or set income.gross_a", common.ErrMissingConfig)
	}

	// Threshold evaluation needs no database.
	status := newEngine(nil, settings).Threshold(&input)

	out := cmd.OutOrStdout()
	if asJSON, _ := flags.GetBool("json"); asJSON {
		return printJSON(out, status)
	}

	fmt.Fprintf(out, "Qualifying income: %s\n", cli.BoldStyle.Render("£"+status.QualifyingIncome.StringFixed(2)))
	if status.IsAffected {
		fmt.Fprintln(out, cli.FormatWarning(status.Message))
		if status.EffectiveDate != nil {
			fmt.Fprintf(out, "Effective from: %s\n", status.EffectiveDate.Format(dateLayout))
		}
	} else {
		fmt.Fprintln(out, cli.FormatSuccess(status.Message))
	}
	return nil
}
