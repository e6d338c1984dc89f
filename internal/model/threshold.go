package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PhaseNotRequired is reported when no threshold is exceeded.
const PhaseNotRequired = "not_required"

// ThresholdInput carries the income figures used to place a landlord in a phase.
// IncomeA is property income, IncomeB is other qualifying income.
type ThresholdInput struct {
	GrossIncomeA     decimal.Decimal `json:"grossIncomeA"`
	GrossIncomeB     decimal.Decimal `json:"grossIncomeB"`
	IsJointOwnership bool            `json:"isJointOwnership"`
	IsIncomeShielded bool            `json:"isIncomeShielded"`
}

// ThresholdStatus is the outcome of a threshold calculation.
type ThresholdStatus struct {
	EffectiveDate    *time.Time      `json:"effectiveDate,omitempty"`
	QualifyingIncome decimal.Decimal `json:"qualifyingIncome"`
	Phase            string          `json:"phase"`
	Message          string          `json:"message"`
	IsAffected       bool            `json:"isAffected"`
}
