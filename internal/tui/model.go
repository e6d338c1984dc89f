package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/azan1ud/landlordshield/internal/service"
	"github.com/azan1ud/landlordshield/internal/tui/components"
	"github.com/azan1ud/landlordshield/internal/tui/themes"
)

// State represents the current state of the dashboard.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

// View represents the current view mode.
type View int

const (
	ViewOverview View = iota
	ViewTimeline
	ViewCalendar
	viewCount
)

var viewNames = []string{"Scores", "Timeline", "Calendar"}

// Model holds the dashboard state.
type Model struct {
	theme     themes.Theme
	now       time.Time
	lastError error
	report    *service.Report
	help      help.Model
	config    Config
	keymap    KeyMap
	panels    []components.ScorePanelModel
	timeline  components.TimelineModel
	month     components.MonthModel
	panel     int
	width     int
	height    int
	state     State
	view      View
	quitting  bool
	showHelp  bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	return Model{
		state:  StateLoading,
		view:   ViewOverview,
		config: cfg,
		keymap: DefaultKeyMap(),
		theme:  cfg.Theme,
		help:   help.New(),
		width:  cfg.Width,
		height: cfg.Height,
	}
}

// Init starts loading the report.
func (m Model) Init() tea.Cmd {
	return m.loadReport()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case reportLoadedMsg:
		m.handleReport(msg)
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKeys(msg); handled {
			return m, cmd
		}
	}

	if m.state != StateReady {
		return m, nil
	}

	// Delegate to the active view.
	var cmd tea.Cmd
	switch m.view {
	case ViewOverview:
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, m.keymap.PropNext):
				m.panel = (m.panel + 1) % len(m.panels)
			case key.Matches(msg, m.keymap.PropPrev):
				m.panel = (m.panel - 1 + len(m.panels)) % len(m.panels)
			}
		}
	case ViewTimeline:
		m.timeline, cmd = m.timeline.Update(msg)
	case ViewCalendar:
		m.month, cmd = m.month.Update(msg)
	}
	return m, cmd
}

// handleGlobalKeys handles keys that work in any view.
func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return tea.Quit, true
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return nil, true
	case key.Matches(msg, m.keymap.Refresh):
		m.state = StateLoading
		return m.loadReport(), true
	case key.Matches(msg, m.keymap.NextView):
		m.view = (m.view + 1) % viewCount
		return nil, true
	case key.Matches(msg, m.keymap.PrevView):
		m.view = (m.view + viewCount - 1) % viewCount
		return nil, true
	case key.Matches(msg, m.keymap.Overview):
		m.view = ViewOverview
		return nil, true
	case key.Matches(msg, m.keymap.Timeline):
		m.view = ViewTimeline
		return nil, true
	case key.Matches(msg, m.keymap.Calendar):
		m.view = ViewCalendar
		return nil, true
	}
	return nil, false
}

// handleReport rebuilds every panel from a loaded report.
func (m *Model) handleReport(msg reportLoadedMsg) {
	if msg.err != nil {
		m.lastError = msg.err
		m.state = StateError
		return
	}

	m.report = msg.report
	m.now = msg.now
	m.lastError = nil
	m.state = StateReady

	portfolio := msg.report.Portfolio
	m.panels = []components.ScorePanelModel{
		components.NewScorePanel("All properties", portfolio.Account, m.theme),
	}
	for _, p := range portfolio.Properties {
		m.panels = append(m.panels, components.NewScorePanel(p.Property.DisplayAddress(), p.Overview, m.theme))
	}
	if m.panel >= len(m.panels) {
		m.panel = 0
	}

	m.timeline = components.NewTimeline(msg.report.Deadlines, msg.now, m.theme)
	m.month = components.NewMonth(msg.report.Deadlines, msg.now, m.theme)
	m.handleResize()
}

// handleResize adjusts component sizes when the terminal resizes.
func (m *Model) handleResize() {
	// Header, tabs, status bar and help.
	bodyHeight := max(5, m.height-6)
	for i := range m.panels {
		m.panels[i].Resize(m.width - 2)
	}
	m.timeline.Resize(m.width-2, bodyHeight)
	m.help.Width = m.width
}

// CurrentView returns the active view.
func (m Model) CurrentView() View {
	return m.view
}

// CurrentState returns the load state.
func (m Model) CurrentState() State {
	return m.state
}
