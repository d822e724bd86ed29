package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Veraticus/tally/internal/model"
)

var fixtureSeq atomic.Int64

// TransactionBuilder assembles a valid transaction with readable test code.
type TransactionBuilder struct {
	txn model.Transaction
}

// NewTransaction starts an expense of 1 USD in category, dated 2024-01-01,
// with a unique ID.
func NewTransaction(category string) *TransactionBuilder {
	n := fixtureSeq.Add(1)
	return &TransactionBuilder{txn: model.Transaction{
		ID:          fmt.Sprintf("fixture-%d", n),
		Amount:      1,
		Type:        model.TypeExpense,
		Category:    category,
		Description: fmt.Sprintf("%s #%d", category, n),
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Currency:    "USD",
	}}
}

// ID sets the transaction ID.
func (b *TransactionBuilder) ID(id string) *TransactionBuilder {
	b.txn.ID = id
	return b
}

// Expense makes the transaction an expense of amount.
func (b *TransactionBuilder) Expense(amount float64) *TransactionBuilder {
	b.txn.Type = model.TypeExpense
	b.txn.Amount = amount
	return b
}

// Income makes the transaction income of amount.
func (b *TransactionBuilder) Income(amount float64) *TransactionBuilder {
	b.txn.Type = model.TypeIncome
	b.txn.Amount = amount
	return b
}

// On sets the date from a YYYY-MM-DD string. It panics on a malformed date.
func (b *TransactionBuilder) On(date string) *TransactionBuilder {
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		panic(err)
	}
	b.txn.Date = d
	return b
}

// Currency sets the currency code.
func (b *TransactionBuilder) Currency(code string) *TransactionBuilder {
	b.txn.Currency = code
	return b
}

// Description sets the description.
func (b *TransactionBuilder) Description(desc string) *TransactionBuilder {
	b.txn.Description = desc
	return b
}

// Build returns the transaction.
func (b *TransactionBuilder) Build() model.Transaction {
	return b.txn
}
