package components

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/azan1ud/landlordshield/internal/compliance"
	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/tui/themes"
)

// TimelineModel is a scrollable list of deadlines.
type TimelineModel struct {
	now       time.Time
	theme     themes.Theme
	deadlines []model.Deadline
	cursor    int
	offset    int
	width     int
	height    int
}

// NewTimeline creates a timeline over deadlines, which must already be sorted.
// The cursor starts on the first deadline that is not overdue.
func NewTimeline(deadlines []model.Deadline, now time.Time, theme themes.Theme) TimelineModel {
	m := TimelineModel{
		now:       now,
		theme:     theme,
		deadlines: deadlines,
		width:     80,
		height:    20,
	}
	for i, d := range deadlines {
		if !d.IsOverdue {
			m.cursor = i
			break
		}
	}
	m.ensureVisible()
	return m
}

// Update handles navigation keys.
func (m TimelineModel) Update(msg tea.Msg) (TimelineModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		m.cursor--
	case "down", "j":
		m.cursor++
	case "pgup", "ctrl+b":
		m.cursor -= m.visibleRows()
	case "pgdown", "ctrl+f":
		m.cursor += m.visibleRows()
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.deadlines) - 1
	default:
		return m, nil
	}

	m.cursor = max(0, min(m.cursor, len(m.deadlines)-1))
	m.ensureVisible()
	return m, nil
}

// Resize sets the visible area.
func (m *TimelineModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.ensureVisible()
}

// Cursor returns the selected index.
func (m TimelineModel) Cursor() int {
	return m.cursor
}

// Selected returns the deadline under the cursor.
func (m TimelineModel) Selected() (model.Deadline, bool) {
	if m.cursor < 0 || m.cursor >= len(m.deadlines) {
		return model.Deadline{}, false
	}
	return m.deadlines[m.cursor], true
}

// View renders the visible window of the list plus the selected deadline's detail.
func (m TimelineModel) View() string {
	if len(m.deadlines) == 0 {
		return m.theme.StatusPending.Render("No deadlines.")
	}

	rows := make([]string, 0, m.visibleRows()+3)
	end := min(m.offset+m.visibleRows(), len(m.deadlines))
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.renderRow(i))
	}

	rows = append(rows, "", m.theme.Subtitle.Render(fmt.Sprintf("%d of %d", m.cursor+1, len(m.deadlines))))
	if d, ok := m.Selected(); ok && d.Description != "" {
		rows = append(rows, lipgloss.NewStyle().Width(m.width).Render(d.Description))
	}
	return strings.Join(rows, "\n")
}

func (m TimelineModel) renderRow(i int) string {
	d := m.deadlines[i]

	marker := lipgloss.NewStyle().Foreground(m.theme.DomainColor(d.Domain)).Render("●")
	date := d.Date.Format("Mon 02 Jan 2006")
	when := RelativeDays(compliance.DaysUntil(d.Date, startOfDay(m.now)))

	titleWidth := max(10, m.width-len(date)-18)
	title := truncate(d.Title, titleWidth)
	if d.IsCritical {
		title = "! " + title
	}

	row := fmt.Sprintf("%s %s  %-*s  %s", marker, date, titleWidth, title, when)
	if i == m.cursor {
		return m.theme.Selected.Render(row)
	}
	return m.theme.DeadlineStyle(d).Render(row)
}

func (m TimelineModel) visibleRows() int {
	// Leave room for the position line and the description.
	return max(1, m.height-4)
}

func (m *TimelineModel) ensureVisible() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = max(0, m.offset)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
