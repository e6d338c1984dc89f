package sheets

import (
	"github.com/azan1ud/landlordshield/internal/report"
	"github.com/azan1ud/landlordshield/internal/service"
)

// Tab names in the order they are created.
const (
	SummaryTab   = "Summary"
	OverviewTab  = "Overview"
	DeadlinesTab = "Deadlines"
)

// TabNames lists every tab the writer manages.
var TabNames = []string{SummaryTab, OverviewTab, DeadlinesTab}

// TabData holds the cell values for one tab, header row first.
type TabData struct {
	Name   string
	Values [][]any
}

// BuildTabs lays out a report as spreadsheet tabs.
func BuildTabs(r *service.Report) []TabData {
	summary := rowsToValues(report.SummaryHeader, report.SummaryRows(r))

	overviewRows := report.OverviewRows(r.Portfolio)
	overview := make([][]any, 0, len(overviewRows)+1)
	overview = append(overview, toAny(report.OverviewHeader))
	for _, row := range overviewRows {
		overview = append(overview, []any{
			row.Scope, row.Domain, row.Score, row.Status,
			row.Completed, row.Total, row.NextDeadline, row.DaysUntil,
		})
	}

	deadlineRows := report.DeadlineRows(r.Deadlines)
	deadlines := make([][]any, 0, len(deadlineRows)+1)
	deadlines = append(deadlines, toAny(report.DeadlineHeader))
	for _, row := range deadlineRows {
		deadlines = append(deadlines, toAny(row.Strings()))
	}

	return []TabData{
		{Name: SummaryTab, Values: summary},
		{Name: OverviewTab, Values: overview},
		{Name: DeadlinesTab, Values: deadlines},
	}
}

func rowsToValues(header []string, rows [][]string) [][]any {
	values := make([][]any, 0, len(rows)+1)
	values = append(values, toAny(header))
	for _, row := range rows {
		values = append(values, toAny(row))
	}
	return values
}

func toAny(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
