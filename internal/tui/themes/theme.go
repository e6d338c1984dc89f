package themes

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/azan1ud/landlordshield/internal/model"
)

// Theme defines the visual style for the dashboard.
type Theme struct {
	DomainColors  map[model.Domain]lipgloss.Color
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	RoundedBox    lipgloss.Style
	TabActive     lipgloss.Style
	TabInactive   lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusPending lipgloss.Style
	Overdue       lipgloss.Style
	Critical      lipgloss.Style
	Today         lipgloss.Style
	DayWithEvents lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Error         lipgloss.Color
}

// DomainColor returns the accent color for a domain.
func (t Theme) DomainColor(d model.Domain) lipgloss.Color {
	if c, ok := t.DomainColors[d]; ok {
		return c
	}
	return t.Muted
}

// ReadinessStyle returns the status style for a readiness bucket.
func (t Theme) ReadinessStyle(status model.ReadinessStatus) lipgloss.Style {
	switch status {
	case model.StatusReady:
		return t.StatusSuccess
	case model.StatusPartial:
		return t.StatusWarning
	default:
		return t.StatusError
	}
}

// DeadlineStyle picks the style for a feed row.
func (t Theme) DeadlineStyle(d model.Deadline) lipgloss.Style {
	switch {
	case d.IsOverdue:
		return t.Overdue
	case d.IsCritical:
		return t.Critical
	default:
		return t.Normal
	}
}

// Default is the default theme.
var Default = Theme{
	// Colors
	Primary: lipgloss.Color("#7c3aed"),
	Error:   lipgloss.Color("#ef4444"),
	Border:  lipgloss.Color("#404040"),
	Muted:   lipgloss.Color("#737373"),

	DomainColors: map[model.Domain]lipgloss.Color{
		model.DomainTax:           lipgloss.Color("#3b82f6"),
		model.DomainTenancyRights: lipgloss.Color("#a78bfa"),
		model.DomainEnergy:        lipgloss.Color("#10b981"),
		model.DomainCertificate:   lipgloss.Color("#f59e0b"),
		model.DomainCustom:        lipgloss.Color("#737373"),
	},

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#7c3aed")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),

	// Component styles
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
	TabActive: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		Background(lipgloss.Color("#7c3aed")).
		Padding(0, 2),
	TabInactive: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")).
		Padding(0, 2),

	// Status styles
	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")).
		Bold(true),
	StatusWarning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	StatusPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		Italic(true),

	// Deadline styles
	Overdue: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	Critical: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")).
		Bold(true),
	Today: lipgloss.NewStyle().
		Underline(true).
		Bold(true),
	DayWithEvents: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7c3aed")).
		Bold(true),
}
