package portfolio

import (
	"time"

	"github.com/azan1ud/landlordshield/internal/model"
)

// Fixture is a predefined portfolio for common test scenarios.
type Fixture interface {
	// Name returns the fixture's descriptive name.
	Name() string

	// Apply adds the fixture's records to b.
	Apply(b Builder) Builder
}

type fixture struct {
	apply func(Builder) Builder
	name  string
}

func (f *fixture) Name() string              { return f.name }
func (f *fixture) Apply(b Builder) Builder { return f.apply(b) }

// RefAlpha and RefBeta are the property refs used by the fixtures.
const (
	RefAlpha Ref = "alpha"
	RefBeta  Ref = "beta"
)

// Date returns a pointer to midnight UTC on the given day.
func Date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

var (
	// FixtureSingleLet is one property with an outstanding critical tenancy
	// task due 2026-04-01 and a completed account-wide tax task.
	FixtureSingleLet Fixture = &fixture{
		name: "Single let",
		apply: func(b Builder) Builder {
			return b.
				WithProperty(RefAlpha, "1 Alpha Street", "M1 1AE").
				WithTask(TaskSpec{
					Property: RefAlpha,
					Domain:   model.DomainTenancyRights,
					Key:      "deposit-protection",
					Title:    "Protect deposit",
					Priority: model.PriorityCritical,
					Due:      Date(2026, 4, 1),
				}).
				WithTask(TaskSpec{
					Domain:    model.DomainTax,
					Key:       "mtd-software",
					Title:     "Choose compatible software",
					Priority:  model.PriorityHigh,
					Due:       Date(2026, 2, 1),
					Completed: true,
				})
		},
	}

	// FixtureTwoProperties extends FixtureSingleLet with a second property
	// holding an energy task and an expired gas safety certificate.
	FixtureTwoProperties Fixture = &fixture{
		name: "Two properties",
		apply: func(b Builder) Builder {
			return FixtureSingleLet.Apply(b).
				WithProperty(RefBeta, "2 Beta Road", "LS1 4AP").
				WithTask(TaskSpec{
					Property: RefBeta,
					Domain:   model.DomainEnergy,
					Key:      "epc-upgrade",
					Title:    "Commission EPC upgrade survey",
					Priority: model.PriorityMedium,
					Due:      Date(2027, 6, 30),
				}).
				WithCertificate(CertificateSpec{
					Property: RefBeta,
					Kind:     "gas_safety",
					Issued:   Date(2024, 12, 1),
					Expiry:   Date(2025, 12, 1),
					Status:   model.CertificateExpired,
				})
		},
	}
)
