// Package tui implements the interactive report viewer.
package tui

import (
	"context"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/report"
	"github.com/Veraticus/tally/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Source supplies the data the viewer shows.
type Source interface {
	Report(ctx context.Context, tf report.Timeframe) (report.Report, error)
	Budgets(ctx context.Context) ([]report.BudgetLine, error)
	MonthlyStatus(ctx context.Context) (report.MonthlyStatus, error)
	Preferences(ctx context.Context) (model.Preferences, error)
}

// View represents the current view mode.
type View int

const (
	ViewReport View = iota
	ViewBudgets
)

// Model holds the main TUI state.
type Model struct {
	ctx       context.Context
	source    Source
	lastError error
	theme     themes.Theme
	timeframe report.Timeframe
	currency  string
	budgets   []report.BudgetLine
	help      help.Model
	keymap    KeyMap
	viewport  viewport.Model
	report    report.Report
	status    report.MonthlyStatus
	width     int
	height    int
	view      View
	quitting  bool
	ready     bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, src Source, cfg Config) Model {
	m := Model{
		ctx:       ctx,
		source:    src,
		theme:     cfg.Theme,
		timeframe: cfg.Timeframe,
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		viewport:  viewport.New(cfg.Width, cfg.Height),
		width:     cfg.Width,
		height:    cfg.Height,
		view:      ViewReport,
	}
	m.handleResize()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.loadData()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.handleGlobalKeys(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case dataLoadedMsg:
		// A reply for a timeframe the user already left
		if msg.timeframe != m.timeframe {
			return m, nil
		}
		m.handleDataLoaded(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return true, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.handleResize()
		return true, nil

	case key.Matches(msg, m.keymap.ToggleView):
		if m.view == ViewReport {
			m.view = ViewBudgets
		} else {
			m.view = ViewReport
		}
		m.refreshContent()
		return true, nil

	case key.Matches(msg, m.keymap.Refresh):
		return true, m.loadData()

	case key.Matches(msg, m.keymap.NextTimeframe):
		return true, m.setTimeframe(shiftTimeframe(m.timeframe, 1))
	case key.Matches(msg, m.keymap.PrevTimeframe):
		return true, m.setTimeframe(shiftTimeframe(m.timeframe, -1))
	case key.Matches(msg, m.keymap.Week):
		return true, m.setTimeframe(report.TimeframeWeek)
	case key.Matches(msg, m.keymap.Month):
		return true, m.setTimeframe(report.TimeframeMonth)
	case key.Matches(msg, m.keymap.Year):
		return true, m.setTimeframe(report.TimeframeYear)
	}
	return false, nil
}

// setTimeframe switches the timeframe and reloads, or does nothing when tf
// is already selected.
func (m *Model) setTimeframe(tf report.Timeframe) tea.Cmd {
	if tf == m.timeframe {
		return nil
	}
	m.timeframe = tf
	return m.loadData()
}

func (m *Model) handleDataLoaded(msg dataLoadedMsg) {
	if msg.err != nil {
		m.lastError = msg.err
		return
	}
	m.lastError = nil
	m.currency = msg.currency
	m.report = msg.report
	m.budgets = msg.budgets
	m.status = msg.status
	m.ready = true
	m.refreshContent()
}

func (m *Model) handleResize() {
	m.help.Width = m.width
	m.viewport.Width = m.width
	m.viewport.Height = max(1, m.height-lipgloss.Height(m.renderHeader())-lipgloss.Height(m.renderFooter()))
}

func (m *Model) refreshContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderBody())
	m.viewport.GotoTop()
}

// Timeframe returns the selected timeframe.
func (m Model) Timeframe() report.Timeframe {
	return m.timeframe
}
