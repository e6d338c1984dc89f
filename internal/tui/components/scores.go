// Package components holds the dashboard panels.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/azan1ud/landlordshield/internal/compliance"
	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/tui/themes"
)

const labelWidth = 20

// ScorePanelModel renders one compliance overview as score bars.
type ScorePanelModel struct {
	theme    themes.Theme
	title    string
	overview model.ComplianceOverview
	bar      progress.Model
	width    int
}

// NewScorePanel creates a panel for overview.
func NewScorePanel(title string, overview model.ComplianceOverview, theme themes.Theme) ScorePanelModel {
	bar := progress.New(progress.WithSolidFill(string(theme.Primary)))
	bar.ShowPercentage = false
	bar.Width = 30

	return ScorePanelModel{
		theme:    theme,
		title:    title,
		overview: overview,
		bar:      bar,
		width:    60,
	}
}

// Resize sets the panel width.
func (m *ScorePanelModel) Resize(width int) {
	m.width = width
	m.bar.Width = max(10, min(width-labelWidth-24, 40))
}

// Overview returns the overview shown by the panel.
func (m ScorePanelModel) Overview() model.ComplianceOverview {
	return m.overview
}

// View renders the panel.
func (m ScorePanelModel) View() string {
	lines := []string{m.theme.Title.Render(m.title)}

	for _, d := range model.ScoredDomains {
		lines = append(lines, m.renderDomain(d, m.overview.PerDomain[d]))
	}

	overall := m.overview.OverallScore
	lines = append(lines, "", fmt.Sprintf("%s %s %s",
		m.theme.Bold.Width(labelWidth).Render("Overall"),
		m.bar.ViewAs(float64(overall)/100),
		m.theme.ReadinessStyle(compliance.StatusFor(overall)).Render(fmt.Sprintf("%3d%%", overall))))

	return m.theme.RoundedBox.Width(m.width).Render(strings.Join(lines, "\n"))
}

func (m ScorePanelModel) renderDomain(d model.Domain, status model.DomainStatus) string {
	label := lipgloss.NewStyle().
		Foreground(m.theme.DomainColor(d)).
		Width(labelWidth).
		Render(d.Label())

	score := m.theme.ReadinessStyle(status.Status).Render(fmt.Sprintf("%3d%%", status.Score))
	counts := m.theme.Subtitle.Render(fmt.Sprintf("%d/%d done", status.CompletedCount, status.TotalCount))

	line := fmt.Sprintf("%s %s %s  %s", label, m.bar.ViewAs(float64(status.Score)/100), score, counts)
	if status.DaysUntilDeadline != nil {
		line += "  " + m.renderDue(*status.DaysUntilDeadline)
	}
	return line
}

func (m ScorePanelModel) renderDue(days int) string {
	switch {
	case days < 0:
		return m.theme.Overdue.Render(fmt.Sprintf("next %s", RelativeDays(days)))
	case days <= 7:
		return m.theme.Critical.Render(fmt.Sprintf("next %s", RelativeDays(days)))
	default:
		return m.theme.Subtitle.Render(fmt.Sprintf("next %s", RelativeDays(days)))
	}
}

// RelativeDays renders a day offset as "today", "in 3 days" or "2 days ago".
func RelativeDays(days int) string {
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days > 0:
		return fmt.Sprintf("in %d days", days)
	default:
		return fmt.Sprintf("%d days ago", -days)
	}
}
