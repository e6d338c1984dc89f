package model

import "strings"

// Domain identifies the regulatory area a deadline or task belongs to.
type Domain string

const (
	// DomainTax covers quarterly digital tax submissions and the annual declaration.
	DomainTax Domain = "tax"
	// DomainTenancyRights covers tenancy reform obligations.
	DomainTenancyRights Domain = "tenancy-rights"
	// DomainEnergy covers minimum energy performance standards.
	DomainEnergy Domain = "energy"
	// DomainCertificate is used for deadlines derived from certificate expiries.
	DomainCertificate Domain = "certificate"
	// DomainCustom is the catch-all for unrecognized domain tags.
	DomainCustom Domain = "custom"
)

// ScoredDomains are the three domains that carry a compliance score, in display order.
var ScoredDomains = []Domain{DomainTax, DomainTenancyRights, DomainEnergy}

// ParseDomain maps a free-form tag onto a known domain. Unknown tags become DomainCustom.
func ParseDomain(s string) Domain {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tax", "mtd", "making-tax-digital":
		return DomainTax
	case "tenancy-rights", "tenancy_rights", "renters-rights", "rra":
		return DomainTenancyRights
	case "energy", "epc", "mees":
		return DomainEnergy
	case "certificate", "certificates":
		return DomainCertificate
	default:
		return DomainCustom
	}
}

// IsScored reports whether the domain contributes to the compliance score.
func (d Domain) IsScored() bool {
	return d == DomainTax || d == DomainTenancyRights || d == DomainEnergy
}

// Label returns a human readable name for the domain.
func (d Domain) Label() string {
	switch d {
	case DomainTax:
		return "Making Tax Digital"
	case DomainTenancyRights:
		return "Renters' Rights"
	case DomainEnergy:
		return "Energy Performance"
	case DomainCertificate:
		return "Certificates"
	default:
		return "Other"
	}
}

// Severity is the pre-tagged importance of a regulatory change.
type Severity string

const (
	// SeverityCritical marks changes that carry enforcement risk.
	SeverityCritical Severity = "critical"
	// SeverityHigh marks significant changes.
	SeverityHigh Severity = "high"
	// SeverityMedium marks everything else worth surfacing.
	SeverityMedium Severity = "medium"
)
