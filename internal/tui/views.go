package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateLoading:
		return m.renderLoading()
	case StateError:
		return m.renderError()
	}

	sections := []string{
		m.renderHeader(),
		m.renderTabs(),
		"",
		m.renderBody(),
		"",
		m.renderStatusBar(),
		m.help.View(m.keymap),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderLoading renders the loading screen.
func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Title.Render("LandlordShield"),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Loading compliance report..."),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderError() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.StatusError.Render("Failed to load report"),
		"",
		fmt.Sprintf("%v", m.lastError),
		"",
		m.theme.Subtitle.Render("Press r to retry or q to quit."),
	)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("LandlordShield")
	date := m.theme.Subtitle.Render(m.now.Format("Monday 2 January 2006"))

	parts := []string{title, date}
	if t := m.report.Threshold; t != nil {
		style := m.theme.StatusSuccess
		if t.IsAffected {
			style = m.theme.StatusWarning
		}
		parts = append(parts, style.Render(t.Message))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if View(i) == m.view {
			tabs[i] = m.theme.TabActive.Render(label)
		} else {
			tabs[i] = m.theme.TabInactive.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderBody() string {
	switch m.view {
	case ViewTimeline:
		return m.timeline.View()
	case ViewCalendar:
		return m.month.View()
	default:
		return m.renderOverview()
	}
}

func (m Model) renderOverview() string {
	if len(m.panels) == 0 {
		return ""
	}
	position := m.theme.Subtitle.Render(fmt.Sprintf("%d/%d  [ ] to switch property", m.panel+1, len(m.panels)))
	return lipgloss.JoinVertical(lipgloss.Left, m.panels[m.panel].View(), position)
}

func (m Model) renderStatusBar() string {
	var overdue, critical int
	for _, d := range m.report.Deadlines {
		if d.IsOverdue {
			overdue++
		}
		if d.IsCritical {
			critical++
		}
	}

	parts := []string{fmt.Sprintf("%d deadlines", len(m.report.Deadlines))}
	if overdue > 0 {
		parts = append(parts, m.theme.Overdue.Render(fmt.Sprintf("%d overdue", overdue)))
	}
	if critical > 0 {
		parts = append(parts, m.theme.Critical.Render(fmt.Sprintf("%d critical", critical)))
	}
	parts = append(parts, fmt.Sprintf("%d properties", len(m.report.Portfolio.Properties)))
	return strings.Join(parts, " · ")
}
