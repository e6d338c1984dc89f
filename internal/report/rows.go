// Package report flattens compliance results into tabular rows for file and spreadsheet output.
package report

import (
	"strconv"

	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/service"
)

const (
	dateLayout = "2006-01-02"
	// AccountScope labels rows computed across every property.
	AccountScope = "All properties"
	overallRow   = "Overall"
)

// OverviewHeader is the column order of overview rows.
var OverviewHeader = []string{"scope", "domain", "score", "status", "completed", "total", "next_deadline", "days_until"}

// DeadlineHeader is the column order of deadline rows.
var DeadlineHeader = []string{"date", "title", "domain", "state", "description", "source"}

// SummaryHeader is the column order of summary rows.
var SummaryHeader = []string{"field", "value"}

// OverviewRow is one domain score within a scope.
type OverviewRow struct {
	Scope        string
	Domain       string
	Status       string
	NextDeadline string
	DaysUntil    string
	Score        int
	Completed    int
	Total        int
}

// Strings returns the row in OverviewHeader order.
func (r OverviewRow) Strings() []string {
	return []string{
		r.Scope, r.Domain, strconv.Itoa(r.Score), r.Status,
		strconv.Itoa(r.Completed), strconv.Itoa(r.Total), r.NextDeadline, r.DaysUntil,
	}
}

// DeadlineRow is one entry of the deadline feed.
type DeadlineRow struct {
	Date        string
	Title       string
	Domain      string
	State       string
	Description string
	Source      string
}

// Strings returns the row in DeadlineHeader order.
func (r DeadlineRow) Strings() []string {
	return []string{r.Date, r.Title, r.Domain, r.State, r.Description, r.Source}
}

// OverviewRows returns the account scope followed by each property, one row per
// scored domain and a closing overall row per scope.
func OverviewRows(portfolio model.PortfolioOverview) []OverviewRow {
	rows := make([]OverviewRow, 0, (len(portfolio.Properties)+1)*(len(model.ScoredDomains)+1))
	rows = appendScope(rows, AccountScope, portfolio.Account)
	for _, p := range portfolio.Properties {
		rows = appendScope(rows, p.Property.DisplayAddress(), p.Overview)
	}
	return rows
}

func appendScope(rows []OverviewRow, scope string, overview model.ComplianceOverview) []OverviewRow {
	for _, domain := range model.ScoredDomains {
		status := overview.PerDomain[domain]
		row := OverviewRow{
			Scope:     scope,
			Domain:    domain.Label(),
			Score:     status.Score,
			Status:    string(status.Status),
			Completed: status.CompletedCount,
			Total:     status.TotalCount,
		}
		if status.NextDeadline != nil {
			row.NextDeadline = status.NextDeadline.Format(dateLayout)
		}
		if status.DaysUntilDeadline != nil {
			row.DaysUntil = strconv.Itoa(*status.DaysUntilDeadline)
		}
		rows = append(rows, row)
	}

	return append(rows, OverviewRow{
		Scope:  scope,
		Domain: overallRow,
		Score:  overview.OverallScore,
	})
}

// DeadlineRows converts the feed, preserving its order.
func DeadlineRows(deadlines []model.Deadline) []DeadlineRow {
	rows := make([]DeadlineRow, 0, len(deadlines))
	for _, d := range deadlines {
		rows = append(rows, DeadlineRow{
			Date:        d.Date.Format(dateLayout),
			Title:       d.Title,
			Domain:      d.Domain.Label(),
			State:       State(d),
			Description: d.Description,
			Source:      d.SourceRef,
		})
	}
	return rows
}

// State summarises the derived flags of a deadline.
func State(d model.Deadline) string {
	switch {
	case d.IsOverdue && d.IsCritical:
		return "overdue, critical"
	case d.IsOverdue:
		return "overdue"
	case d.IsCritical:
		return "critical"
	default:
		return "upcoming"
	}
}

// SummaryRows describes when the report was generated and the threshold result, if any.
func SummaryRows(r *service.Report) [][]string {
	rows := [][]string{
		{"generated_at", r.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z")},
		{"overall_score", strconv.Itoa(r.Portfolio.Account.OverallScore)},
		{"properties", strconv.Itoa(len(r.Portfolio.Properties))},
		{"deadlines", strconv.Itoa(len(r.Deadlines))},
	}
	if r.Threshold != nil {
		rows = append(rows,
			[]string{"qualifying_income", r.Threshold.QualifyingIncome.StringFixed(2)},
			[]string{"phase", r.Threshold.Phase},
			[]string{"threshold_message", r.Threshold.Message},
		)
		if r.Threshold.EffectiveDate != nil {
			rows = append(rows, []string{"effective_date", r.Threshold.EffectiveDate.Format(dateLayout)})
		}
	}
	return rows
}
