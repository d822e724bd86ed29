package model

import "slices"

// ExpenseCategories lists the category keys offered for expenses.
var ExpenseCategories = []string{
	"rent",
	"utilities",
	"food",
	"transport",
	"entertainment",
	"shopping",
	"health",
	"travel",
	"education",
	"other",
}

// IncomeCategories lists the category keys offered for income.
var IncomeCategories = []string{
	"salary",
	"freelance",
	"investment",
	"rental",
	"gift",
	"other",
}

// CategoriesFor returns the category enumeration for a transaction type.
func CategoriesFor(t TransactionType) []string {
	switch t {
	case TypeIncome:
		return IncomeCategories
	case TypeExpense:
		return ExpenseCategories
	default:
		return nil
	}
}

// IsValidCategory reports whether category belongs to the enumeration for t.
func IsValidCategory(t TransactionType, category string) bool {
	return slices.Contains(CategoriesFor(t), category)
}
