// Package ledger is the single owner of the persisted transactions, budgets,
// and preferences. It validates input at the boundary, keeps the store
// consistent, and hands clean snapshots to the report engine.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/report"
	"github.com/Veraticus/tally/internal/service"
	"github.com/Veraticus/tally/internal/snapshot"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Ledger coordinates every state change and query against a service.Storage.
type Ledger struct {
	store    service.Storage
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
	defaults model.Preferences
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces time.Now as the reference instant for reports and date checks.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithIDGenerator replaces the UUID generator used for new transactions.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) {
		l.newID = newID
	}
}

// New creates a Ledger. defaults supply the currency and monthly budget used
// until preferences are stored, and again after Clear.
func New(store service.Storage, defaults model.Preferences, opts ...Option) *Ledger {
	if defaults.Currency == "" {
		defaults.Currency = model.FallbackCurrency
	}
	if defaults.MonthlyBudget <= 0 {
		defaults.MonthlyBudget = model.FallbackMonthlyBudget
	}

	l := &Ledger{
		store:    store,
		validate: newValidator(),
		now:      time.Now,
		newID:    uuid.NewString,
		defaults: defaults,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Init seeds default preferences and budgets on first run. It does nothing
// when preferences already exist.
func (l *Ledger) Init(ctx context.Context) error {
	_, err := l.store.GetPreferences(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	tx, err := l.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.SavePreferences(ctx, l.defaults); err != nil {
		return err
	}
	for _, b := range model.DefaultBudgets() {
		if err := tx.SaveBudget(ctx, b); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit initial data: %w", err)
	}

	slog.Info("Initialized ledger", "currency", l.defaults.Currency, "monthly_budget", l.defaults.MonthlyBudget)
	return nil
}

// Now returns the ledger's reference instant.
func (l *Ledger) Now() time.Time {
	return l.now()
}

// AddTransaction validates entry, assigns an ID, and stores it. Dates after
// today are rejected.
func (l *Ledger) AddTransaction(ctx context.Context, entry Entry) (model.Transaction, error) {
	entry.Type = strings.ToLower(strings.TrimSpace(entry.Type))
	entry.Category = strings.ToLower(strings.TrimSpace(entry.Category))
	entry.Description = strings.TrimSpace(entry.Description)
	entry.Currency = strings.ToUpper(strings.TrimSpace(entry.Currency))

	if err := l.validate.Struct(entry); err != nil {
		return model.Transaction{}, translate(err)
	}

	date := model.CalendarDate(entry.Date)
	if date.After(model.CalendarDate(l.now())) {
		return model.Transaction{}, fmt.Errorf("%w: %s", common.ErrFutureDate, date.Format(model.DateLayout))
	}

	if entry.Currency == "" {
		prefs, err := l.Preferences(ctx)
		if err != nil {
			return model.Transaction{}, err
		}
		entry.Currency = prefs.Currency
	}

	txn := model.Transaction{
		ID:          l.newID(),
		Amount:      entry.Amount,
		Type:        model.TransactionType(entry.Type),
		Category:    entry.Category,
		Description: entry.Description,
		Date:        date,
		Currency:    entry.Currency,
	}
	if err := l.store.SaveTransactions(ctx, []model.Transaction{txn}); err != nil {
		return model.Transaction{}, fmt.Errorf("failed to save transaction: %w", err)
	}

	slog.Debug("Added transaction", "id", txn.ID, "type", txn.Type, "category", txn.Category)
	return txn, nil
}

// ImportTransactions stores already-built transactions, for example from a
// bank statement. Transactions whose ID is already stored are skipped.
// Empty currencies take the preferred currency.
func (l *Ledger) ImportTransactions(ctx context.Context, txns []model.Transaction) (added int, err error) {
	fresh, err := l.NewTransactions(ctx, txns)
	if err != nil {
		return 0, err
	}
	if len(fresh) == 0 {
		return 0, nil
	}
	if err := l.store.SaveTransactions(ctx, fresh); err != nil {
		return 0, fmt.Errorf("failed to save transactions: %w", err)
	}
	return len(fresh), nil
}

// NewTransactions returns the transactions of txns whose ID is not stored
// yet, with empty currencies set to the preferred currency.
func (l *Ledger) NewTransactions(ctx context.Context, txns []model.Transaction) ([]model.Transaction, error) {
	if len(txns) == 0 {
		return nil, nil
	}

	prefs, err := l.Preferences(ctx)
	if err != nil {
		return nil, err
	}

	fresh := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if txn.Currency == "" {
			txn.Currency = prefs.Currency
		}
		_, getErr := l.store.GetTransactionByID(ctx, txn.ID)
		switch {
		case getErr == nil:
			continue
		case !errors.Is(getErr, common.ErrNotFound):
			return nil, getErr
		}
		fresh = append(fresh, txn)
	}
	return fresh, nil
}

// DeleteTransaction removes a transaction permanently.
func (l *Ledger) DeleteTransaction(ctx context.Context, id string) error {
	if err := l.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	slog.Debug("Deleted transaction", "id", id)
	return nil
}

// ListTransactions returns stored transactions newest first.
func (l *Ledger) ListTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	return l.store.GetTransactions(ctx, filter)
}

// Preferences returns the stored preferences, or the defaults before any
// have been saved.
func (l *Ledger) Preferences(ctx context.Context) (model.Preferences, error) {
	prefs, err := l.store.GetPreferences(ctx)
	if errors.Is(err, common.ErrNotFound) {
		return l.defaults, nil
	}
	if err != nil {
		return model.Preferences{}, err
	}
	return *prefs, nil
}

// SetCurrency changes the preferred currency. Existing transactions keep
// their own currency.
func (l *Ledger) SetCurrency(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := l.validate.Var(code, "required,iso4217"); err != nil {
		return &ValidationError{Fields: []FieldError{{Field: "currency", Message: fmt.Sprintf("%q is not an ISO 4217 currency code", code)}}}
	}

	prefs, err := l.Preferences(ctx)
	if err != nil {
		return err
	}
	prefs.Currency = code
	return l.store.SavePreferences(ctx, prefs)
}

// SetMonthlyBudget changes the overall monthly budget.
func (l *Ledger) SetMonthlyBudget(ctx context.Context, amount float64) error {
	if err := l.validate.Var(amount, "gt=0"); err != nil {
		return &ValidationError{Fields: []FieldError{{Field: "monthly_budget", Message: "must be greater than 0"}}}
	}

	prefs, err := l.Preferences(ctx)
	if err != nil {
		return err
	}
	prefs.MonthlyBudget = amount
	return l.store.SavePreferences(ctx, prefs)
}

// SetBudget creates the budget for an expense category or updates its limit.
// An empty color keeps the current color.
func (l *Ledger) SetBudget(ctx context.Context, category string, limit float64, color string) error {
	in := budgetInput{
		Category: strings.ToLower(strings.TrimSpace(category)),
		Color:    strings.ToLower(strings.TrimSpace(color)),
		Limit:    limit,
	}
	if err := l.validate.Struct(in); err != nil {
		return translate(err)
	}
	return l.store.SaveBudget(ctx, model.Budget{Category: in.Category, Limit: in.Limit, Color: in.Color})
}

// RemoveBudget deletes the budget for category.
func (l *Ledger) RemoveBudget(ctx context.Context, category string) error {
	return l.store.DeleteBudget(ctx, strings.ToLower(strings.TrimSpace(category)))
}

// Snapshot loads the complete stored state.
func (l *Ledger) Snapshot(ctx context.Context) (snapshot.Snapshot, error) {
	txns, err := l.store.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	budgets, err := l.store.GetBudgets(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	prefs, err := l.Preferences(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return snapshot.Snapshot{Transactions: txns, Budgets: budgets, Preferences: prefs}, nil
}

// Export writes the stored state as a snapshot document.
func (l *Ledger) Export(ctx context.Context, w io.Writer) error {
	snap, err := l.Snapshot(ctx)
	if err != nil {
		return err
	}
	return snapshot.Encode(w, snap, l.now())
}

// Import replaces the stored state with the document read from r. Keys that
// are missing or malformed fall back to the ledger defaults and are returned
// as issues. The store is left untouched when the document is unreadable.
func (l *Ledger) Import(ctx context.Context, r io.Reader) ([]snapshot.Issue, error) {
	snap, issues, err := snapshot.Decode(r, snapshot.DefaultsFrom(l.defaults))
	if err != nil {
		return nil, err
	}

	if err := l.store.ReplaceAll(ctx, snap.Transactions, snap.Budgets, snap.Preferences); err != nil {
		return issues, fmt.Errorf("failed to replace stored data: %w", err)
	}

	slog.Info("Imported snapshot",
		"transactions", len(snap.Transactions),
		"budgets", len(snap.Budgets),
		"issues", len(issues))
	return issues, nil
}

// Clear deletes every transaction and restores default preferences and budgets.
func (l *Ledger) Clear(ctx context.Context) error {
	if err := l.store.ReplaceAll(ctx, nil, model.DefaultBudgets(), l.defaults); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	slog.Info("Cleared all data")
	return nil
}

// Report builds the report for tf over every stored transaction.
func (l *Ledger) Report(ctx context.Context, tf report.Timeframe) (report.Report, error) {
	txns, err := l.store.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return report.Report{}, err
	}
	return report.Build(txns, tf, l.now()), nil
}

// Budgets returns progress against every stored budget.
func (l *Ledger) Budgets(ctx context.Context) ([]report.BudgetLine, error) {
	txns, err := l.store.GetTransactions(ctx, service.TransactionFilter{Type: model.TypeExpense})
	if err != nil {
		return nil, err
	}
	budgets, err := l.store.GetBudgets(ctx)
	if err != nil {
		return nil, err
	}
	return report.BudgetProgress(txns, budgets), nil
}

// MonthlyStatus compares this month's expenses with the monthly budget.
func (l *Ledger) MonthlyStatus(ctx context.Context) (report.MonthlyStatus, error) {
	prefs, err := l.Preferences(ctx)
	if err != nil {
		return report.MonthlyStatus{}, err
	}
	txns, err := l.store.GetTransactions(ctx, service.TransactionFilter{Type: model.TypeExpense})
	if err != nil {
		return report.MonthlyStatus{}, err
	}
	return report.MonthlyBudgetStatus(txns, prefs.MonthlyBudget, l.now()), nil
}
