package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		str     string
		wantErr bool
	}{
		{name: "valid string", str: "test"},
		{name: "empty string", str: "", wantErr: true},
		{name: "whitespace only", str: " \t\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, "param")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrEmptyString) {
				t.Errorf("validateString() error = %v, want ErrEmptyString", err)
			}
		})
	}
}

func TestValidateTransaction(t *testing.T) {
	valid := func() model.Transaction {
		return model.Transaction{
			ID:          "txn-1",
			Amount:      10,
			Type:        model.TypeExpense,
			Category:    "food",
			Description: "Lunch",
			Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Currency:    "USD",
		}
	}

	tests := []struct {
		mutate  func(*model.Transaction)
		name    string
		wantErr bool
	}{
		{name: "valid", mutate: func(*model.Transaction) {}},
		{name: "missing ID", mutate: func(t *model.Transaction) { t.ID = "" }, wantErr: true},
		{name: "zero date", mutate: func(t *model.Transaction) { t.Date = time.Time{} }, wantErr: true},
		{name: "zero amount", mutate: func(t *model.Transaction) { t.Amount = 0 }, wantErr: true},
		{name: "negative amount", mutate: func(t *model.Transaction) { t.Amount = -1 }, wantErr: true},
		{name: "unknown type", mutate: func(t *model.Transaction) { t.Type = "transfer" }, wantErr: true},
		{name: "missing category", mutate: func(t *model.Transaction) { t.Category = " " }, wantErr: true},
		{name: "missing description", mutate: func(t *model.Transaction) { t.Description = "" }, wantErr: true},
		{name: "missing currency", mutate: func(t *model.Transaction) { t.Currency = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := valid()
			tt.mutate(&txn)
			err := validateTransaction(&txn)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateTransaction() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidTransaction) {
				t.Errorf("validateTransaction() error = %v, want ErrInvalidTransaction", err)
			}
		})
	}

	if err := validateTransaction(nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("validateTransaction(nil) error = %v, want ErrNilParameter", err)
	}
}

func TestValidateTransactions(t *testing.T) {
	if err := validateTransactions(nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("validateTransactions(nil) error = %v, want ErrNilParameter", err)
	}
	if err := validateTransactions([]model.Transaction{}); !errors.Is(err, ErrEmptySlice) {
		t.Errorf("validateTransactions([]) error = %v, want ErrEmptySlice", err)
	}
}

func TestValidateBudgetAndPreferences(t *testing.T) {
	if err := validateBudget(model.Budget{Category: "food", Limit: 0}); err != nil {
		t.Errorf("zero limit should be valid: %v", err)
	}
	if err := validateBudget(model.Budget{Category: "food", Limit: -1}); !errors.Is(err, ErrInvalidBudget) {
		t.Errorf("negative limit error = %v, want ErrInvalidBudget", err)
	}
	if err := validateBudget(model.Budget{Limit: 1}); !errors.Is(err, ErrInvalidBudget) {
		t.Errorf("missing category error = %v, want ErrInvalidBudget", err)
	}
	if err := validatePreferences(model.Preferences{Currency: "USD"}); err != nil {
		t.Errorf("zero monthly budget should be valid: %v", err)
	}
	if err := validatePreferences(model.Preferences{MonthlyBudget: 1}); !errors.Is(err, ErrInvalidPreferences) {
		t.Errorf("missing currency error = %v, want ErrInvalidPreferences", err)
	}
}

func TestValidateFilter(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := validateFilter(service.TransactionFilter{StartDate: &start, EndDate: &end}); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("reversed range error = %v, want ErrInvalidDateRange", err)
	}
	if err := validateFilter(service.TransactionFilter{Limit: -1}); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("negative limit error = %v, want ErrInvalidFilter", err)
	}
	if err := validateFilter(service.TransactionFilter{EndDate: &start, StartDate: &end, Limit: 5}); err != nil {
		t.Errorf("valid filter error = %v", err)
	}
}
