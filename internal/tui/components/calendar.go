package components

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/tui/themes"
)

const cellWidth = 4

var weekdayHeader = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// MonthModel is a month grid that marks days carrying deadlines.
type MonthModel struct {
	month     time.Time
	today     time.Time
	theme     themes.Theme
	deadlines []model.Deadline
}

// NewMonth shows the month containing now.
func NewMonth(deadlines []model.Deadline, now time.Time, theme themes.Theme) MonthModel {
	today := startOfDay(now)
	return MonthModel{
		month:     firstOfMonth(today),
		today:     today,
		theme:     theme,
		deadlines: deadlines,
	}
}

// Update handles month navigation keys.
func (m MonthModel) Update(msg tea.Msg) (MonthModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "left", "h":
		m.month = m.month.AddDate(0, -1, 0)
	case "right", "l":
		m.month = m.month.AddDate(0, 1, 0)
	case "t":
		m.month = firstOfMonth(m.today)
	case "n":
		if next, ok := m.nextMonthWithDeadlines(); ok {
			m.month = next
		}
	}
	return m, nil
}

// Month returns the first day of the displayed month.
func (m MonthModel) Month() time.Time {
	return m.month
}

// InMonth returns the deadlines dated within the displayed month.
func (m MonthModel) InMonth() []model.Deadline {
	var out []model.Deadline
	for _, d := range m.deadlines {
		if d.Date.Year() == m.month.Year() && d.Date.Month() == m.month.Month() {
			out = append(out, d)
		}
	}
	return out
}

// View renders the grid and the month's deadline list.
func (m MonthModel) View() string {
	inMonth := m.InMonth()
	byDay := make(map[int][]model.Deadline)
	for _, d := range inMonth {
		byDay[d.Date.Day()] = append(byDay[d.Date.Day()], d)
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(m.month.Format("January 2006")))
	b.WriteString("\n")
	for _, wd := range weekdayHeader {
		b.WriteString(m.theme.Subtitle.Width(cellWidth).Render(wd))
	}
	b.WriteString("\n")

	// Monday-first column of the 1st.
	col := (int(m.month.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat(" ", col*cellWidth))

	daysInMonth := m.month.AddDate(0, 1, -1).Day()
	for day := 1; day <= daysInMonth; day++ {
		b.WriteString(m.renderDay(day, byDay[day]))
		col++
		if col == 7 && day < daysInMonth {
			b.WriteString("\n")
			col = 0
		}
	}

	b.WriteString("\n\n")
	if len(inMonth) == 0 {
		b.WriteString(m.theme.StatusPending.Render("No deadlines this month. Press n for the next month with deadlines."))
		return b.String()
	}
	for _, d := range inMonth {
		marker := lipgloss.NewStyle().Foreground(m.theme.DomainColor(d.Domain)).Render("●")
		b.WriteString(fmt.Sprintf("%s %s  %s\n", marker, d.Date.Format("02"), m.theme.DeadlineStyle(d).Render(d.Title)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m MonthModel) renderDay(day int, deadlines []model.Deadline) string {
	label := fmt.Sprintf("%2d", day)
	style := m.theme.Normal

	if len(deadlines) > 0 {
		style = m.theme.DayWithEvents
		for _, d := range deadlines {
			if d.IsOverdue {
				style = m.theme.Overdue
				break
			}
			if d.IsCritical {
				style = m.theme.Critical
			}
		}
		label += "•"
	}

	date := time.Date(m.month.Year(), m.month.Month(), day, 0, 0, 0, 0, time.UTC)
	if date.Equal(m.today) {
		style = style.Inherit(m.theme.Today)
	}
	return style.Width(cellWidth).Render(label)
}

func (m MonthModel) nextMonthWithDeadlines() (time.Time, bool) {
	after := m.month.AddDate(0, 1, 0)
	for _, d := range m.deadlines {
		if !d.Date.Before(after) {
			return firstOfMonth(d.Date), true
		}
	}
	return time.Time{}, false
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
