// Package threshold places a landlord into a digital tax filing phase from their income.
package threshold

import (
	"fmt"
	"sort"
	"time"

	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/regulatory"
	"github.com/shopspring/decimal"
)

var jointShare = decimal.NewFromFloat(0.5)

// QualifyingIncome applies joint ownership and shielding to property income and adds
// other qualifying income.
func QualifyingIncome(in model.ThresholdInput) decimal.Decimal {
	propertyIncome := in.GrossIncomeA
	if in.IsJointOwnership {
		propertyIncome = propertyIncome.Mul(jointShare)
	}
	if in.IsIncomeShielded {
		propertyIncome = decimal.Zero
	}
	return propertyIncome.Add(in.GrossIncomeB)
}

// Compute returns the earliest phase whose threshold the qualifying income exceeds.
// Phases are evaluated in effective-date order regardless of the order given;
// phases with an unparsable effective date are ignored.
func Compute(in model.ThresholdInput, phases []regulatory.Threshold) model.ThresholdStatus {
	income := QualifyingIncome(in)

	type dated struct {
		effective time.Time
		phase     regulatory.Threshold
	}
	ordered := make([]dated, 0, len(phases))
	for _, p := range phases {
		eff, err := p.Effective()
		if err != nil {
			continue
		}
		ordered = append(ordered, dated{effective: eff, phase: p})
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].effective.Before(ordered[j].effective)
	})

	for _, d := range ordered {
		if income.GreaterThan(d.phase.Amount) {
			effective := d.effective
			return model.ThresholdStatus{
				QualifyingIncome: income,
				Phase:            d.phase.ID,
				IsAffected:       true,
				EffectiveDate:    &effective,
				Message: fmt.Sprintf("Qualifying income of £%s exceeds the £%s threshold: quarterly digital submissions apply from %s (%s).",
					income.StringFixed(0), d.phase.Amount.StringFixed(0),
					effective.Format("2 January 2006"), d.phase.Label),
			}
		}
	}

	msg := "Qualifying income is below every published threshold: quarterly digital submissions are not yet required."
	if len(ordered) > 0 {
		lowest := ordered[0].phase.Amount
		for _, d := range ordered[1:] {
			lowest = decimal.Min(lowest, d.phase.Amount)
		}
		msg = fmt.Sprintf("Qualifying income of £%s does not exceed the lowest threshold of £%s: quarterly digital submissions are not yet required.",
			income.StringFixed(0), lowest.StringFixed(0))
	}
	return model.ThresholdStatus{
		QualifyingIncome: income,
		Phase:            model.PhaseNotRequired,
		IsAffected:       false,
		Message:          msg,
	}
}
