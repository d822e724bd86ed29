package tui

import "github.com/Veraticus/tally/internal/report"

// Data loading messages.
type dataLoadedMsg struct {
	err       error
	timeframe report.Timeframe
	currency  string
	budgets   []report.BudgetLine
	report    report.Report
	status    report.MonthlyStatus
}
