// Package testutil provides shared helpers for tests that need a real store
// or realistic transactions.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
	"github.com/Veraticus/tally/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database seeded with txns.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.NewTransaction("rent").Expense(1200).On("2024-01-01").Build(),
//	)
func SetupTestDB(t *testing.T, txns ...model.Transaction) *TestDB {
	t.Helper()

	return SetupTestDBWithOptions(t, TestDBOptions{Transactions: txns})
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, service.Storage) error
	Preferences    *model.Preferences
	Transactions   []model.Transaction
	Budgets        []model.Budget
	SkipMigrations bool
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	// Create in-memory SQLite storage
	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	ctx := context.Background()

	// Run migrations unless skipped
	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	if len(opts.Transactions) > 0 {
		if err := store.SaveTransactions(ctx, opts.Transactions); err != nil {
			t.Fatalf("failed to seed transactions: %v", err)
		}
	}
	for _, b := range opts.Budgets {
		if err := store.SaveBudget(ctx, b); err != nil {
			t.Fatalf("failed to seed budget %q: %v", b.Category, err)
		}
	}
	if opts.Preferences != nil {
		if err := store.SavePreferences(ctx, *opts.Preferences); err != nil {
			t.Fatalf("failed to seed preferences: %v", err)
		}
	}

	// Run custom setup
	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// WithTransaction executes the given function within a database transaction.
// The transaction is automatically rolled back after the function completes.
func (db *TestDB) WithTransaction(fn func(tx service.Transaction) error) error {
	ctx := context.Background()
	tx, err := db.Storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	return fn(tx)
}

// MustTransactions returns every stored transaction or fails the test.
func (db *TestDB) MustTransactions() []model.Transaction {
	db.t.Helper()
	txns, err := db.Storage.GetTransactions(context.Background(), service.TransactionFilter{})
	if err != nil {
		db.t.Fatalf("failed to load transactions: %v", err)
	}
	return txns
}
