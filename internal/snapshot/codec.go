package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/tally/internal/model"
	"github.com/google/uuid"
)

// Document keys.
const (
	KeyTransactions  = "transactions"
	KeyLegacyRecords = "expenses"
	KeyCurrency      = "currency"
	KeyMonthlyBudget = "monthlyBudget"
	KeyBudgets       = "budgets"
	KeyExportDate    = "exportDate"
)

type document struct {
	Transactions  []record `json:"transactions"`
	Budgets       []budget `json:"budgets"`
	Currency      string   `json:"currency"`
	ExportDate    string   `json:"exportDate,omitempty"`
	MonthlyBudget float64  `json:"monthlyBudget"`
}

// record uses pointers so absent fields can be told apart from zero values.
type record struct {
	ID          *string  `json:"id,omitempty"`
	Amount      *float64 `json:"amount"`
	Type        *string  `json:"type,omitempty"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
	Currency    *string  `json:"currency,omitempty"`
}

type budget struct {
	Category string  `json:"category"`
	Color    string  `json:"color,omitempty"`
	Limit    float64 `json:"limit"`
}

// Encode writes snap as indented JSON. A non-zero exportedAt is recorded as
// exportDate.
func Encode(w io.Writer, snap Snapshot, exportedAt time.Time) error {
	doc := document{
		Transactions:  make([]record, 0, len(snap.Transactions)),
		Budgets:       make([]budget, 0, len(snap.Budgets)),
		Currency:      snap.Preferences.Currency,
		MonthlyBudget: snap.Preferences.MonthlyBudget,
	}
	if !exportedAt.IsZero() {
		doc.ExportDate = exportedAt.UTC().Format(time.RFC3339)
	}
	for _, txn := range snap.Transactions {
		doc.Transactions = append(doc.Transactions, fromTransaction(txn))
	}
	for _, b := range snap.Budgets {
		doc.Budgets = append(doc.Budgets, budget{Category: b.Category, Color: b.Color, Limit: b.Limit})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

func fromTransaction(txn model.Transaction) record {
	typ := string(txn.Type)
	date := txn.Date.Format(model.DateLayout)
	return record{
		ID:          &txn.ID,
		Amount:      &txn.Amount,
		Type:        &typ,
		Category:    &txn.Category,
		Description: &txn.Description,
		Date:        &date,
		Currency:    &txn.Currency,
	}
}

// Decode reads a snapshot document. Keys that are missing or hold the wrong
// JSON type take their value from defaults, and budgets and transactions
// become empty lists. The legacy "expenses" key is read when "transactions"
// is absent. Records that cannot be turned into valid transactions are
// skipped. Every substitution is returned as an Issue.
func Decode(r io.Reader, defaults Defaults) (Snapshot, []Issue, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Snapshot{}, nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if raw == nil {
		return Snapshot{}, nil, fmt.Errorf("%w: not a JSON object", ErrInvalidSnapshot)
	}

	d := &decoder{raw: raw}
	snap := Snapshot{
		Preferences: model.Preferences{
			Currency:      d.currency(defaults.Currency),
			MonthlyBudget: d.monthlyBudget(defaults.MonthlyBudget),
		},
	}
	snap.Budgets = d.budgets()
	snap.Transactions = d.transactions(snap.Preferences.Currency)

	if len(d.issues) > 0 {
		slog.Warn("Snapshot imported with substitutions", "issues", len(d.issues))
	}
	return snap, d.issues, nil
}

type decoder struct {
	raw    map[string]json.RawMessage
	issues []Issue
}

func (d *decoder) note(key string, index int, format string, args ...any) {
	d.issues = append(d.issues, Issue{Key: key, Index: index, Reason: fmt.Sprintf(format, args...)})
}

// lookup returns the raw value for key, treating JSON null as absent.
func (d *decoder) lookup(key string) (json.RawMessage, bool) {
	v, ok := d.raw[key]
	if !ok || string(v) == "null" {
		return nil, false
	}
	return v, true
}

func (d *decoder) currency(fallback string) string {
	v, ok := d.lookup(KeyCurrency)
	if !ok {
		return fallback
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		d.note(KeyCurrency, -1, "expected a string, using %s", fallback)
		return fallback
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return fallback
	}
	return s
}

func (d *decoder) monthlyBudget(fallback float64) float64 {
	v, ok := d.lookup(KeyMonthlyBudget)
	if !ok {
		return fallback
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		d.note(KeyMonthlyBudget, -1, "expected a number, using %g", fallback)
		return fallback
	}
	if f <= 0 {
		d.note(KeyMonthlyBudget, -1, "must be positive, using %g", fallback)
		return fallback
	}
	return f
}

func (d *decoder) budgets() []model.Budget {
	out := []model.Budget{}
	v, ok := d.lookup(KeyBudgets)
	if !ok {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		d.note(KeyBudgets, -1, "expected a list, ignoring")
		return out
	}

	seen := make(map[string]int)
	for i, item := range items {
		var b budget
		if err := json.Unmarshal(item, &b); err != nil {
			d.note(KeyBudgets, i, "malformed budget: %v", err)
			continue
		}
		category := normalizeCategory(b.Category)
		if category == "" {
			d.note(KeyBudgets, i, "missing category")
			continue
		}
		if b.Limit < 0 {
			d.note(KeyBudgets, i, "negative limit %g", b.Limit)
			continue
		}
		mb := model.Budget{Category: category, Color: b.Color, Limit: b.Limit}
		if j, dup := seen[category]; dup {
			d.note(KeyBudgets, i, "duplicate category %q replaces earlier entry", category)
			out[j] = mb
			continue
		}
		seen[category] = len(out)
		out = append(out, mb)
	}
	return out
}

func (d *decoder) transactions(currency string) []model.Transaction {
	out := []model.Transaction{}
	key := KeyTransactions
	v, ok := d.lookup(KeyTransactions)
	if !ok {
		key = KeyLegacyRecords
		v, ok = d.lookup(KeyLegacyRecords)
	}
	if !ok {
		return out
	}

	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		d.note(key, -1, "expected a list, ignoring")
		return out
	}

	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		var rec record
		if err := json.Unmarshal(item, &rec); err != nil {
			d.note(key, i, "malformed record: %v", err)
			continue
		}
		txn, err := rec.toTransaction(currency)
		if err != nil {
			d.note(key, i, "%v", err)
			continue
		}
		if _, dup := seen[txn.ID]; dup {
			d.note(key, i, "duplicate id %q, assigning a new one", txn.ID)
			txn.ID = uuid.NewString()
		}
		seen[txn.ID] = struct{}{}
		out = append(out, txn)
	}
	return out
}

// toTransaction applies the record defaults and the entry rules every
// stored transaction satisfies.
func (r record) toTransaction(currency string) (model.Transaction, error) {
	txn := model.Transaction{Type: model.TypeExpense, Currency: currency}

	if r.Amount == nil {
		return txn, fmt.Errorf("missing amount")
	}
	if *r.Amount <= 0 {
		return txn, fmt.Errorf("amount must be positive, got %g", *r.Amount)
	}
	txn.Amount = *r.Amount

	if r.Type != nil && *r.Type != "" {
		typ, err := model.ParseTransactionType(*r.Type)
		if err != nil {
			return txn, err
		}
		txn.Type = typ
	}

	if r.Date == nil {
		return txn, fmt.Errorf("missing date")
	}
	date, err := model.ParseDate(*r.Date)
	if err != nil {
		return txn, err
	}
	// The zero time is how the store spells "no date".
	if date.IsZero() {
		return txn, fmt.Errorf("missing date")
	}
	txn.Date = date

	if r.Description == nil || strings.TrimSpace(*r.Description) == "" {
		return txn, fmt.Errorf("missing description")
	}
	txn.Description = strings.TrimSpace(*r.Description)

	if r.Category != nil {
		txn.Category = normalizeCategory(*r.Category)
	}
	if txn.Category == "" {
		txn.Category = "other"
	}

	if r.Currency != nil && strings.TrimSpace(*r.Currency) != "" {
		txn.Currency = strings.ToUpper(strings.TrimSpace(*r.Currency))
	}

	if r.ID != nil && strings.TrimSpace(*r.ID) != "" {
		txn.ID = strings.TrimSpace(*r.ID)
	} else {
		txn.ID = uuid.NewString()
	}
	return txn, nil
}

func normalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
