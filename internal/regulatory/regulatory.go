// Package regulatory holds the immutable regulatory reference data that the deadline
// feed and the threshold calculator are built from.
//
// The data is embedded into the binary and parsed once. When the law changes the
// YAML is edited; nothing here computes anything beyond flattening the tables.
package regulatory

import (
	_ "embed"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DateLayout is the layout used for every date in the dataset.
const DateLayout = "2006-01-02"

//go:embed regulatory.yaml
var embedded []byte

// Calendar is the full regulatory dataset.
type Calendar struct {
	Version       string         `yaml:"version"`
	LastUpdated   string         `yaml:"last_updated"`
	Tax           TaxProgram     `yaml:"tax"`
	TenancyRights RolloutProgram `yaml:"tenancy_rights"`
	Energy        EnergyProgram  `yaml:"energy"`
}

// TaxProgram holds the quarterly submission calendar and the phased income thresholds.
type TaxProgram struct {
	Name              string             `yaml:"name"`
	Quarters          []Quarter          `yaml:"quarters"`
	FinalDeclarations []FinalDeclaration `yaml:"final_declarations"`
	Thresholds        []Threshold        `yaml:"thresholds"`
}

// Quarter is one quarterly submission window.
type Quarter struct {
	TaxYear            string `yaml:"tax_year"`
	PeriodStart        string `yaml:"period_start"`
	PeriodEnd          string `yaml:"period_end"`
	SubmissionDeadline string `yaml:"submission_deadline"`
	Severity           string `yaml:"severity"`
	Number             int    `yaml:"quarter"`
}

// FinalDeclaration is the year-end return deadline for a tax year.
type FinalDeclaration struct {
	TaxYear  string `yaml:"tax_year"`
	Deadline string `yaml:"deadline"`
	Severity string `yaml:"severity"`
}

// Threshold is one phase of the income threshold rollout.
type Threshold struct {
	Amount        decimal.Decimal `yaml:"threshold"`
	ID            string          `yaml:"id"`
	Label         string          `yaml:"label"`
	EffectiveDate string          `yaml:"effective_date"`
}

// Effective parses the phase's effective date.
func (t Threshold) Effective() (time.Time, error) {
	return time.Parse(DateLayout, t.EffectiveDate)
}

// RolloutProgram is a reform delivered in dated phases.
type RolloutProgram struct {
	Name   string  `yaml:"name"`
	Phases []Phase `yaml:"phases"`
}

// Phase is one dated step of a rollout.
type Phase struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Date    string   `yaml:"date"`
	Changes []Change `yaml:"changes"`
}

// Change is a single obligation introduced by a phase.
type Change struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Severity    string `yaml:"severity"`
}

// EnergyProgram holds the minimum energy efficiency key dates and amounts.
type EnergyProgram struct {
	SpendingCap   decimal.Decimal `yaml:"spending_cap"`
	MaximumFine   decimal.Decimal `yaml:"maximum_fine"`
	Name          string          `yaml:"name"`
	MinimumRating string          `yaml:"minimum_rating"`
	KeyDates      []KeyDate       `yaml:"key_dates"`
}

// KeyDate is a named program date.
type KeyDate struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
	Severity    string `yaml:"severity"`
}

// Entry is a flattened, account-wide calendar date ready for normalization.
// Domain and Severity are raw tags; Date is kept as text.
type Entry struct {
	ID          string
	Title       string
	Date        string
	Domain      string
	Description string
	Severity    string
	Source      string
}

var (
	defaultOnce sync.Once
	defaultCal  *Calendar
	defaultErr  error
)

// Load parses a regulatory dataset.
func Load(data []byte) (*Calendar, error) {
	var cal Calendar
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("failed to parse regulatory data: %w", err)
	}
	if cal.Version == "" {
		return nil, fmt.Errorf("regulatory data has no version")
	}
	return &cal, nil
}

// Default returns the embedded dataset, parsed on first use.
func Default() (*Calendar, error) {
	defaultOnce.Do(func() {
		defaultCal, defaultErr = Load(embedded)
	})
	return defaultCal, defaultErr
}

// MustDefault is like Default but panics if the embedded data cannot be parsed.
func MustDefault() *Calendar {
	cal, err := Default()
	if err != nil {
		panic(err)
	}
	return cal
}

// Thresholds returns the income thresholds in dataset order.
func (c *Calendar) Thresholds() []Threshold {
	out := make([]Threshold, len(c.Tax.Thresholds))
	copy(out, c.Tax.Thresholds)
	return out
}

// Entries flattens every dated item of the dataset into calendar entries.
// IDs are stable across calls for the same dataset version.
func (c *Calendar) Entries() []Entry {
	entries := make([]Entry, 0, len(c.Tax.Quarters)+len(c.Tax.FinalDeclarations)+len(c.Energy.KeyDates)+8)

	for _, q := range c.Tax.Quarters {
		entries = append(entries, Entry{
			ID:     fmt.Sprintf("tax-%s-q%d", q.TaxYear, q.Number),
			Title:  fmt.Sprintf("Quarterly update Q%d %s due", q.Number, q.TaxYear),
			Date:   q.SubmissionDeadline,
			Domain: "tax",
			Description: fmt.Sprintf("Submit the quarterly update for %s to %s.",
				q.PeriodStart, q.PeriodEnd),
			Severity: q.Severity,
			Source:   c.Tax.Name,
		})
	}

	for _, fd := range c.Tax.FinalDeclarations {
		entries = append(entries, Entry{
			ID:          fmt.Sprintf("tax-%s-final", fd.TaxYear),
			Title:       fmt.Sprintf("Final declaration %s due", fd.TaxYear),
			Date:        fd.Deadline,
			Domain:      "tax",
			Description: "Confirm the year's figures and submit the final declaration.",
			Severity:    fd.Severity,
			Source:      c.Tax.Name,
		})
	}

	for _, phase := range c.TenancyRights.Phases {
		for i, change := range phase.Changes {
			entries = append(entries, Entry{
				ID:          "rra-" + phase.ID + "-" + strconv.Itoa(i),
				Title:       change.Title,
				Date:        phase.Date,
				Domain:      "tenancy-rights",
				Description: change.Description,
				Severity:    change.Severity,
				Source:      c.TenancyRights.Name + ": " + phase.Name,
			})
		}
	}

	for _, kd := range c.Energy.KeyDates {
		entries = append(entries, Entry{
			ID:          "energy-" + kd.ID,
			Title:       kd.Title,
			Date:        kd.Date,
			Domain:      "energy",
			Description: kd.Description,
			Severity:    kd.Severity,
			Source:      c.Energy.Name,
		})
	}

	return entries
}
