package snapshot

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/tally/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDefaults = Defaults{Currency: "USD", MonthlyBudget: 50000}

func TestDecode_FullDocument(t *testing.T) {
	input := `{
		"transactions": [
			{"id": "1", "amount": 100, "type": "expense", "category": "food", "description": "Groceries", "date": "2024-01-01", "currency": "USD"},
			{"id": "2", "amount": 50, "type": "income", "category": "salary", "description": "Pay", "date": "2024-01-02T09:30:00.000Z", "currency": "EUR"}
		],
		"currency": "eur",
		"monthlyBudget": 1200,
		"budgets": [{"category": "Food", "limit": 300, "color": "emerald"}],
		"exportDate": "2024-01-03T00:00:00Z"
	}`

	snap, issues, err := Decode(strings.NewReader(input), testDefaults)
	require.NoError(t, err)
	assert.Empty(t, issues)

	assert.Equal(t, model.Preferences{Currency: "EUR", MonthlyBudget: 1200}, snap.Preferences)
	assert.Equal(t, []model.Budget{{Category: "food", Limit: 300, Color: "emerald"}}, snap.Budgets)

	require.Len(t, snap.Transactions, 2)
	assert.Equal(t, model.Transaction{
		ID:          "1",
		Amount:      100,
		Type:        model.TypeExpense,
		Category:    "food",
		Description: "Groceries",
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Currency:    "USD",
	}, snap.Transactions[0])
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), snap.Transactions[1].Date)
	assert.Equal(t, model.TypeIncome, snap.Transactions[1].Type)
}

func TestDecode_MissingKeysUseDefaults(t *testing.T) {
	snap, issues, err := Decode(strings.NewReader(`{}`), testDefaults)
	require.NoError(t, err)
	assert.Empty(t, issues)

	assert.Equal(t, "USD", snap.Preferences.Currency)
	assert.Equal(t, 50000.0, snap.Preferences.MonthlyBudget)
	assert.NotNil(t, snap.Transactions)
	assert.Empty(t, snap.Transactions)
	assert.NotNil(t, snap.Budgets)
	assert.Empty(t, snap.Budgets)
}

func TestDecode_WrongTypesFallBackPerKey(t *testing.T) {
	input := `{
		"transactions": {"not": "a list"},
		"currency": 42,
		"monthlyBudget": "lots",
		"budgets": "none"
	}`

	snap, issues, err := Decode(strings.NewReader(input), testDefaults)
	require.NoError(t, err)

	assert.Equal(t, model.Preferences{Currency: "USD", MonthlyBudget: 50000}, snap.Preferences)
	assert.Empty(t, snap.Transactions)
	assert.Empty(t, snap.Budgets)

	keys := make([]string, 0, len(issues))
	for _, issue := range issues {
		keys = append(keys, issue.Key)
		assert.Equal(t, -1, issue.Index)
	}
	assert.ElementsMatch(t, []string{KeyTransactions, KeyCurrency, KeyMonthlyBudget, KeyBudgets}, keys)
}

func TestDecode_ZeroMonthlyBudgetUsesDefault(t *testing.T) {
	snap, issues, err := Decode(strings.NewReader(`{"monthlyBudget": 0}`), testDefaults)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, snap.Preferences.MonthlyBudget)
	require.Len(t, issues, 1)
	assert.Equal(t, KeyMonthlyBudget, issues[0].Key)
}

func TestDecode_LegacyExpensesKey(t *testing.T) {
	input := `{
		"expenses": [
			{"id": "1700000000000", "amount": 250, "category": "Food", "description": "Dinner", "date": "2024-03-05", "currency": "INR"}
		],
		"currency": "INR"
	}`

	snap, issues, err := Decode(strings.NewReader(input), testDefaults)
	require.NoError(t, err)
	assert.Empty(t, issues)

	require.Len(t, snap.Transactions, 1)
	txn := snap.Transactions[0]
	assert.Equal(t, "1700000000000", txn.ID)
	assert.Equal(t, model.TypeExpense, txn.Type)
	assert.Equal(t, "food", txn.Category)
	assert.Equal(t, "INR", txn.Currency)
}

func TestDecode_TransactionsKeyWinsOverLegacy(t *testing.T) {
	input := `{
		"transactions": [{"amount": 1, "description": "new", "date": "2024-01-01"}],
		"expenses": [{"amount": 2, "description": "old", "date": "2024-01-01"}]
	}`

	snap, _, err := Decode(strings.NewReader(input), testDefaults)
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, "new", snap.Transactions[0].Description)
}

func TestDecode_RecordDefaults(t *testing.T) {
	input := `{"currency": "GBP", "transactions": [{"amount": 9.5, "description": "Coffee", "date": "2024-02-02"}]}`

	snap, issues, err := Decode(strings.NewReader(input), testDefaults)
	require.NoError(t, err)
	assert.Empty(t, issues)

	require.Len(t, snap.Transactions, 1)
	txn := snap.Transactions[0]
	assert.NotEmpty(t, txn.ID)
	assert.Equal(t, model.TypeExpense, txn.Type)
	assert.Equal(t, "GBP", txn.Currency)
	assert.Equal(t, "other", txn.Category)
}

func TestDecode_InvalidRecordsAreSkipped(t *testing.T) {
	input := `{"transactions": [
		{"id": "ok", "amount": 10, "description": "fine", "date": "2024-01-01"},
		{"id": "zero", "amount": 0, "description": "zero", "date": "2024-01-01"},
		{"id": "negative", "amount": -5, "description": "neg", "date": "2024-01-01"},
		{"id": "nodate", "amount": 5, "description": "no date"},
		{"id": "baddate", "amount": 5, "description": "bad", "date": "01/02/2024"},
		{"id": "nodesc", "amount": 5, "description": "  ", "date": "2024-01-01"},
		{"id": "badtype", "amount": 5, "type": "transfer", "description": "x", "date": "2024-01-01"},
		{"id": "stringamount", "amount": "5", "description": "x", "date": "2024-01-01"},
		{"id": "zerodate", "amount": 5, "description": "x", "date": "0001-01-01"},
		{"id": "zeroinstant", "amount": 5, "description": "x", "date": "0001-01-01T00:00:00Z"},
		"not an object"
	]}`

	snap, issues, err := Decode(strings.NewReader(input), testDefaults)
	require.NoError(t, err)

	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, "ok", snap.Transactions[0].ID)

	require.Len(t, issues, 10)
	assert.Contains(t, issues[8].Reason, "missing date")
	assert.Contains(t, issues[9].Reason, "missing date")
	for i, issue := range issues {
		assert.Equal(t, KeyTransactions, issue.Key)
		assert.Equal(t, i+1, issue.Index)
	}
}

func TestDecode_DuplicateIDsAreReassigned(t *testing.T) {
	input := `{"transactions": [
		{"id": "same", "amount": 1, "description": "a", "date": "2024-01-01"},
		{"id": "same", "amount": 2, "description": "b", "date": "2024-01-01"}
	]}`

	snap, issues, err := Decode(strings.NewReader(input), testDefaults)
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 2)
	assert.Equal(t, "same", snap.Transactions[0].ID)
	assert.NotEqual(t, "same", snap.Transactions[1].ID)
	assert.Len(t, issues, 1)
}

func TestDecode_DuplicateBudgetReplacesEarlier(t *testing.T) {
	input := `{"budgets": [
		{"category": "food", "limit": 10},
		{"category": "rent", "limit": 20},
		{"category": "FOOD", "limit": 30},
		{"category": "", "limit": 5},
		{"category": "health", "limit": -1}
	]}`

	snap, issues, err := Decode(strings.NewReader(input), testDefaults)
	require.NoError(t, err)
	assert.Equal(t, []model.Budget{
		{Category: "food", Limit: 30},
		{Category: "rent", Limit: 20},
	}, snap.Budgets)
	assert.Len(t, issues, 3)
}

func TestDecode_NotAnObject(t *testing.T) {
	for _, input := range []string{`not json`, `[1, 2, 3]`, `"text"`, `null`, ``} {
		t.Run(input, func(t *testing.T) {
			_, _, err := Decode(strings.NewReader(input), testDefaults)
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}

func TestEncode(t *testing.T) {
	snap := Snapshot{
		Transactions: []model.Transaction{{
			ID:          "abc",
			Amount:      12.5,
			Type:        model.TypeIncome,
			Category:    "gift",
			Description: "Birthday",
			Date:        time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			Currency:    "USD",
		}},
		Budgets:     []model.Budget{{Category: "food", Limit: 100, Color: "emerald"}},
		Preferences: model.Preferences{Currency: "USD", MonthlyBudget: 2000},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, snap, time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "2024-04-02T08:00:00Z", doc[KeyExportDate])
	assert.Equal(t, "USD", doc[KeyCurrency])
	assert.Equal(t, 2000.0, doc[KeyMonthlyBudget])

	txns, ok := doc[KeyTransactions].([]any)
	require.True(t, ok)
	require.Len(t, txns, 1)
	first, ok := txns[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2024-04-01", first["date"])
	assert.Equal(t, "income", first["type"])

	decoded, issues, err := Decode(&buf, testDefaults)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, snap, decoded)
}

func TestEncode_EmptySnapshotWritesLists(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Snapshot{}, time.Time{}))

	out := buf.String()
	assert.Contains(t, out, `"transactions": []`)
	assert.Contains(t, out, `"budgets": []`)
	assert.NotContains(t, out, KeyExportDate)
}

func TestDefaultsFrom(t *testing.T) {
	assert.Equal(t, Defaults{Currency: "USD", MonthlyBudget: 50000}, DefaultsFrom(model.Preferences{}))
	assert.Equal(t, Defaults{Currency: "EUR", MonthlyBudget: 10}, DefaultsFrom(model.Preferences{Currency: "EUR", MonthlyBudget: 10}))
}

func TestIssueString(t *testing.T) {
	assert.Equal(t, "currency: bad", Issue{Key: "currency", Index: -1, Reason: "bad"}.String())
	assert.Equal(t, "transactions[2]: bad", Issue{Key: "transactions", Index: 2, Reason: "bad"}.String())
}
