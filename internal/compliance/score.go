// Package compliance reduces checklist task completion into per-domain readiness
// scores and one weighted overall score.
//
// Every consumer (account dashboard, single property view, reports, HTTP API) goes
// through Compute so the domain weights live in exactly one place.
package compliance

import (
	"math"
	"time"

	"github.com/azan1ud/landlordshield/internal/model"
)

// Weights reflect the relative fine and enforcement severity of each domain. They sum to 1.
var Weights = map[model.Domain]float64{
	model.DomainTax:           0.35,
	model.DomainTenancyRights: 0.40,
	model.DomainEnergy:        0.25,
}

// Status thresholds for a domain score.
const (
	ReadyThreshold   = 80
	PartialThreshold = 40
)

// Options tunes the overall score.
type Options struct {
	// ExcludeEmptyDomains drops domains with no tasks from the weighted average and
	// renormalizes the remaining weights. Off by default: an empty domain scores 0.
	ExcludeEmptyDomains bool
}

// Compute builds the overview for the given tasks. A non-nil scope restricts the
// tasks to that property plus account-wide tasks. now is only used for
// daysUntilDeadline.
func Compute(tasks []model.Task, scope *string, now time.Time, opts Options) model.ComplianceOverview {
	perDomain := make(map[model.Domain]model.DomainStatus, len(model.ScoredDomains))
	for _, d := range model.ScoredDomains {
		perDomain[d] = domainStatus(tasks, d, scope, now)
	}

	return model.ComplianceOverview{
		OverallScore: OverallScore(perDomain, opts),
		PerDomain:    perDomain,
	}
}

// ComputePortfolio returns the account-wide overview and one scoped overview per property.
func ComputePortfolio(tasks []model.Task, properties []model.Property, now time.Time, opts Options) model.PortfolioOverview {
	portfolio := model.PortfolioOverview{
		Account:    Compute(tasks, nil, now, opts),
		Properties: make([]model.PropertyOverview, 0, len(properties)),
	}
	for _, p := range properties {
		id := p.ID
		portfolio.Properties = append(portfolio.Properties, model.PropertyOverview{
			Property: p,
			Overview: Compute(tasks, &id, now, opts),
		})
	}
	return portfolio
}

// DomainScore is the rounded completion percentage, or 0 when there are no tasks.
func DomainScore(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// StatusFor buckets a score.
func StatusFor(score int) model.ReadinessStatus {
	switch {
	case score >= ReadyThreshold:
		return model.StatusReady
	case score >= PartialThreshold:
		return model.StatusPartial
	default:
		return model.StatusNotReady
	}
}

// OverallScore is the weighted average of the domain scores, rounded.
func OverallScore(perDomain map[model.Domain]model.DomainStatus, opts Options) int {
	var sum, weightSum float64
	for _, d := range model.ScoredDomains {
		status := perDomain[d]
		if opts.ExcludeEmptyDomains && status.TotalCount == 0 {
			continue
		}
		sum += Weights[d] * float64(status.Score)
		weightSum += Weights[d]
	}
	if weightSum == 0 {
		return 0
	}
	if opts.ExcludeEmptyDomains {
		sum /= weightSum
	}
	return int(math.Round(sum))
}

func domainStatus(tasks []model.Task, domain model.Domain, scope *string, now time.Time) model.DomainStatus {
	var total, completed int
	var next *time.Time

	for _, task := range tasks {
		if model.ParseDomain(string(task.Domain)) != domain || !task.InScope(scope) {
			continue
		}
		total++
		if task.IsCompleted {
			completed++
			continue
		}
		if task.DueDate != nil && !task.DueDate.IsZero() && (next == nil || task.DueDate.Before(*next)) {
			due := *task.DueDate
			next = &due
		}
	}

	score := DomainScore(completed, total)
	status := model.DomainStatus{
		Score:            score,
		Status:           StatusFor(score),
		CompletedCount:   completed,
		TotalCount:       total,
		OutstandingCount: total - completed,
		NextDeadline:     next,
	}
	if next != nil {
		days := DaysUntil(*next, now)
		status.DaysUntilDeadline = &days
	}
	return status
}

// DaysUntil is the number of whole days from now to t, rounded up.
func DaysUntil(t, now time.Time) int {
	return int(math.Ceil(float64(t.Sub(now)) / float64(24*time.Hour)))
}
