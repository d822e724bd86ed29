package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/report"
	"github.com/charmbracelet/lipgloss"
)

// View renders the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	body := m.viewport.View()
	if !m.ready {
		body = m.renderLoading()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)
}

func (m Model) renderLoading() string {
	if m.lastError != nil {
		return ""
	}
	return m.theme.Subtitle.Render("Loading...")
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("tally") + m.theme.Subtitle.Render(" • "+cli.TimeframeTitle(m.timeframe))

	tabs := make([]string, 0, len(report.Timeframes())+2)
	for _, tf := range report.Timeframes() {
		tabs = append(tabs, m.tab(string(tf), tf == m.timeframe))
	}
	tabs = append(tabs,
		m.theme.Subtitle.Render(" │ "),
		m.tab("report", m.view == ViewReport),
		m.tab("budgets", m.view == ViewBudgets),
	)

	return title + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) tab(label string, active bool) string {
	if active {
		return m.theme.Selected.Render(label)
	}
	return m.theme.Unselected.Render(label)
}

func (m Model) renderBody() string {
	if m.view == ViewBudgets {
		return cli.RenderBudgets(m.budgets, m.status, m.currency)
	}
	return cli.RenderReport(m.report, m.currency)
}

func (m Model) renderFooter() string {
	return m.renderStatusBar() + "\n" + m.help.View(m.keymap)
}

func (m Model) renderStatusBar() string {
	if m.lastError != nil {
		return m.theme.StatusError.Render("Error: " + m.lastError.Error())
	}
	if !m.ready {
		return ""
	}

	parts := []string{
		fmt.Sprintf("%d transactions", m.report.TransactionCount),
		fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100),
	}
	if m.report.MixedCurrencies() {
		parts = append(parts, "mixed currencies")
	}
	return m.theme.StatusBar.Render(strings.Join(parts, " • "))
}
