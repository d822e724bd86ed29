package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/report"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultBarWidth is the bar length used by report and budget views.
const DefaultBarWidth = 24

var printer = message.NewPrinter(language.English)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"KRW": "₩",
	"BRL": "R$",
}

// FormatMoney rounds amount to the minor unit of the currency and formats it
// with thousands separators. Codes without a known symbol are written as a
// prefix, so 5 CHF renders as "CHF 5.00".
func FormatMoney(amount float64, code string) string {
	code = strings.ToUpper(code)

	scale := 2
	if unit, err := currency.ParseISO(code); err == nil {
		scale, _ = currency.Standard.Rounding(unit)
	}

	factor := math.Pow10(scale)
	rounded := math.Round(amount*factor) / factor
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}

	number := printer.Sprintf(fmt.Sprintf("%%.%df", scale), rounded)
	if sym, ok := currencySymbols[code]; ok {
		return sign + sym + number
	}
	if code == "" {
		return sign + number
	}
	return sign + code + " " + number
}

// FormatPercent formats a percentage with one decimal.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatChange formats a percentage change with an explicit sign.
func FormatChange(p float64) string {
	if math.Round(p*10) == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%+.1f%%", p)
}

// TimeframeTitle names the lookback window of tf.
func TimeframeTitle(tf report.Timeframe) string {
	switch tf {
	case report.TimeframeWeek:
		return "Last 7 days"
	case report.TimeframeMonth:
		return "Last 30 days"
	case report.TimeframeYear:
		return "Last 365 days"
	default:
		return "All time"
	}
}

// Bar draws value relative to peak as a bar of width cells. Any positive
// value gets at least one filled cell.
func Bar(value, peak float64, width int) string {
	if width <= 0 {
		return ""
	}

	filled := 0
	if peak > 0 && value > 0 {
		filled = int(math.Round(value / peak * float64(width)))
		filled = max(1, min(filled, width))
	}

	return BarStyle.Render(strings.Repeat("█", filled)) +
		SubtleStyle.Render(strings.Repeat("░", width-filled))
}

// RenderSeries draws one bar per point, scaled to the largest value.
func RenderSeries(title string, points []report.Point, code string, width int) string {
	var b strings.Builder
	b.WriteString(BoldStyle.Render(title))
	b.WriteString("\n")

	if len(points) == 0 {
		b.WriteString(SubtleStyle.Render("  no data"))
		return b.String()
	}

	labelWidth := 0
	peak := 0.0
	for _, p := range points {
		labelWidth = max(labelWidth, lipgloss.Width(p.Label))
		peak = max(peak, p.Value)
	}

	for i, p := range points {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  %s %s %s", pad(p.Label, labelWidth), Bar(p.Value, peak, width), FormatMoney(p.Value, code))
	}
	return b.String()
}

// RenderReport renders the full report view for r. Amounts are shown in code.
func RenderReport(r report.Report, code string) string {
	sections := []string{RenderBox(ChartIcon+" "+TimeframeTitle(r.Timeframe), renderSummary(r, code))}

	if r.MixedCurrencies() {
		sections = append(sections, FormatWarning(fmt.Sprintf(
			"Totals add amounts in %s without conversion", strings.Join(r.Currencies, ", "))))
	}

	if r.TransactionCount == 0 {
		sections = append(sections, SubtleStyle.Render("No transactions in this timeframe."))
	} else {
		sections = append(sections, renderCategories(r.Categories, code))

		trendTitle := "Daily expenses"
		if r.TrendGranularity == report.GranularityMonth {
			trendTitle = "Monthly expenses"
		}
		sections = append(sections, RenderSeries(trendTitle, report.Points(r.Trend, report.ExpenseValue), code, DefaultBarWidth))
	}

	sections = append(sections,
		RenderSeries("Last 4 weeks", report.Points(r.RecentWeeks, report.ExpenseValue), code, DefaultBarWidth),
		RenderSeries("Last 6 months", report.Points(r.RecentMonths, report.ExpenseValue), code, DefaultBarWidth),
	)

	return strings.Join(sections, "\n\n")
}

func renderSummary(r report.Report, code string) string {
	rows := [][2]string{
		{"Income", IncomeStyle.Render(FormatMoney(r.Totals.Income, code))},
		{"Expenses", ExpenseStyle.Render(FormatMoney(r.Totals.Expense, code))},
		{"Balance", balanceStyle(r.Totals.Balance).Render(FormatMoney(r.Totals.Balance, code))},
		{"Transactions", fmt.Sprintf("%d", r.TransactionCount)},
	}
	if r.TopCategory != nil {
		rows = append(rows, [2]string{"Top category", fmt.Sprintf("%s (%s)", r.TopCategory.Category, FormatMoney(r.TopCategory.Amount, code))})
	}
	rows = append(rows,
		[2]string{"Month over month", FormatChange(r.MonthOverMonth)},
		[2]string{"Avg monthly expense", FormatMoney(r.AverageMonthlyExpense, code)},
	)
	return renderPairs(rows)
}

func renderCategories(c report.CategoryTotals, code string) string {
	var b strings.Builder
	b.WriteString(BoldStyle.Render("Spending by category"))
	b.WriteString("\n")

	shares := c.Shares()
	if len(shares) == 0 {
		b.WriteString(SubtleStyle.Render("  no expenses"))
		return b.String()
	}

	labelWidth := 0
	peak := 0.0
	for _, s := range shares {
		labelWidth = max(labelWidth, lipgloss.Width(s.Category))
		peak = max(peak, s.Amount)
	}

	for i, s := range shares {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  %s %s %s %s",
			pad(s.Category, labelWidth),
			Bar(s.Amount, peak, DefaultBarWidth),
			FormatMoney(s.Amount, code),
			SubtleStyle.Render(FormatPercent(s.Percent)))
	}
	return b.String()
}

// RenderBudgets renders the monthly budget status followed by one bar per
// category budget.
func RenderBudgets(lines []report.BudgetLine, status report.MonthlyStatus, code string) string {
	monthly := fmt.Sprintf("%s of %s", FormatMoney(status.Spent, code), FormatMoney(status.Budget, code))
	if status.Defined {
		monthly += " " + SubtleStyle.Render("("+FormatPercent(status.Percent)+")")
	}
	if status.Remaining < 0 {
		monthly += "  " + ExpenseStyle.Render("over by "+FormatMoney(-status.Remaining, code))
	} else {
		monthly += "  " + IncomeStyle.Render(FormatMoney(status.Remaining, code)+" left")
	}

	sections := []string{RenderBox("This month", monthly)}

	if len(lines) == 0 {
		sections = append(sections, SubtleStyle.Render("No category budgets set."))
		return strings.Join(sections, "\n\n")
	}

	labelWidth := 0
	for _, l := range lines {
		labelWidth = max(labelWidth, lipgloss.Width(l.Category))
	}

	var b strings.Builder
	b.WriteString(BoldStyle.Render("Category budgets"))
	for _, l := range lines {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s %s / %s",
			pad(l.Category, labelWidth),
			Bar(l.Spent, l.Limit, DefaultBarWidth),
			FormatMoney(l.Spent, code),
			FormatMoney(l.Limit, code))
		switch {
		case !l.Defined:
			b.WriteString(" " + SubtleStyle.Render("no limit"))
		case l.Over():
			b.WriteString(" " + ExpenseStyle.Render(FormatPercent(l.Percent)+", over by "+FormatMoney(l.OverBy(), code)))
		default:
			b.WriteString(" " + SubtleStyle.Render(FormatPercent(l.Percent)))
		}
	}
	sections = append(sections, b.String())

	return strings.Join(sections, "\n\n")
}

const maxDescriptionWidth = 40

// RenderTransactions renders txns as a table, in the order given.
func RenderTransactions(txns []model.Transaction) string {
	if len(txns) == 0 {
		return SubtleStyle.Render("No transactions.")
	}

	header := []string{"DATE", "TYPE", "CATEGORY", "DESCRIPTION", "AMOUNT", "ID"}
	rows := make([][]string, 0, len(txns))
	for _, txn := range txns {
		amount := FormatMoney(txn.Amount, txn.Currency)
		if txn.IsExpense() {
			amount = "-" + amount
		} else {
			amount = "+" + amount
		}
		rows = append(rows, []string{
			txn.Date.Format(model.DateLayout),
			string(txn.Type),
			txn.Category,
			truncate(txn.Description, maxDescriptionWidth),
			amount,
			txn.ID,
		})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(renderRow(header, widths)))
	for i, row := range rows {
		b.WriteString("\n")
		line := renderRow(row, widths)
		if txns[i].IsExpense() {
			b.WriteString(line)
		} else {
			b.WriteString(IncomeStyle.Render(line))
		}
	}
	return b.String()
}

func renderRow(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = TableCellStyle.Render(pad(cell, widths[i]))
	}
	return strings.Join(parts, "")
}

func renderPairs(rows [][2]string) string {
	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(r[0]))
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = SubtleStyle.Render(pad(r[0], labelWidth)) + "  " + r[1]
	}
	return strings.Join(lines, "\n")
}

func balanceStyle(balance float64) lipgloss.Style {
	if balance < 0 {
		return ExpenseStyle
	}
	return IncomeStyle
}

func pad(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
