// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/tally/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
// Zero values leave the corresponding dimension unfiltered.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      model.TransactionType
	Category  string
	Limit     int
	Offset    int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// Budget operations
	GetBudgets(ctx context.Context) ([]model.Budget, error)
	SaveBudget(ctx context.Context, budget model.Budget) error
	DeleteBudget(ctx context.Context, category string) error

	// Preference operations
	GetPreferences(ctx context.Context) (*model.Preferences, error)
	SavePreferences(ctx context.Context, prefs model.Preferences) error

	// Bulk operations
	ReplaceAll(ctx context.Context, transactions []model.Transaction, budgets []model.Budget, prefs model.Preferences) error
	ClearAll(ctx context.Context) error

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
