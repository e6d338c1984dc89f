package model

import "time"

// ReadinessStatus buckets a domain score.
type ReadinessStatus string

const (
	// StatusReady means the domain score is at least 80.
	StatusReady ReadinessStatus = "ready"
	// StatusPartial means the domain score is at least 40.
	StatusPartial ReadinessStatus = "partial"
	// StatusNotReady is everything below 40.
	StatusNotReady ReadinessStatus = "not_ready"
)

// DomainStatus is the readiness of a single scored domain.
type DomainStatus struct {
	NextDeadline      *time.Time      `json:"nextDeadline,omitempty"`
	DaysUntilDeadline *int            `json:"daysUntilDeadline,omitempty"`
	Status            ReadinessStatus `json:"status"`
	Score             int             `json:"score"`
	CompletedCount    int             `json:"completedCount"`
	TotalCount        int             `json:"totalCount"`
	OutstandingCount  int             `json:"outstandingCount"`
}

// ComplianceOverview is the weighted readiness across the three scored domains.
type ComplianceOverview struct {
	PerDomain    map[Domain]DomainStatus `json:"perDomain"`
	OverallScore int                     `json:"overallScore"`
}

// PropertyOverview pairs a property with its scoped overview.
type PropertyOverview struct {
	Property Property           `json:"property"`
	Overview ComplianceOverview `json:"overview"`
}

// PortfolioOverview is the account-level overview plus one overview per property.
type PortfolioOverview struct {
	Account    ComplianceOverview `json:"account"`
	Properties []PropertyOverview `json:"properties"`
}
