package tui

import (
	"fmt"

	"github.com/Veraticus/tally/internal/report"
	tea "github.com/charmbracelet/bubbletea"
)

// loadData fetches everything both views show for the current timeframe.
func (m Model) loadData() tea.Cmd {
	ctx, src, tf := m.ctx, m.source, m.timeframe
	return func() tea.Msg {
		msg := dataLoadedMsg{timeframe: tf}

		prefs, err := src.Preferences(ctx)
		if err != nil {
			msg.err = fmt.Errorf("failed to load preferences: %w", err)
			return msg
		}
		msg.currency = prefs.Currency

		if msg.report, err = src.Report(ctx, tf); err != nil {
			msg.err = fmt.Errorf("failed to build report: %w", err)
			return msg
		}
		if msg.budgets, err = src.Budgets(ctx); err != nil {
			msg.err = fmt.Errorf("failed to load budgets: %w", err)
			return msg
		}
		if msg.status, err = src.MonthlyStatus(ctx); err != nil {
			msg.err = fmt.Errorf("failed to load monthly status: %w", err)
			return msg
		}
		return msg
	}
}

// shiftTimeframe moves delta steps through report.Timeframes, clamped to
// the ends.
func shiftTimeframe(tf report.Timeframe, delta int) report.Timeframe {
	all := report.Timeframes()
	idx := 0
	for i, t := range all {
		if t == tf {
			idx = i
			break
		}
	}
	idx = max(0, min(len(all)-1, idx+delta))
	return all[idx]
}
