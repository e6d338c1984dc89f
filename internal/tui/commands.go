package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const loadTimeout = 30 * time.Second

// loadReport builds the report in the background.
func (m Model) loadReport() tea.Cmd {
	eng := m.config.Engine
	ownerID := m.config.OwnerID
	income := m.config.Income
	now := m.config.Clock()

	return func() tea.Msg {
		if eng == nil {
			return reportLoadedMsg{err: fmt.Errorf("engine not configured"), now: now}
		}

		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		report, err := eng.Report(ctx, ownerID, now, income)
		return reportLoadedMsg{report: report, err: err, now: now}
	}
}
