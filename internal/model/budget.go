package model

// Budget is a spending ceiling for one category.
type Budget struct {
	Category string  `json:"category"`
	Color    string  `json:"color,omitempty"`
	Limit    float64 `json:"limit"`
}

// Preferences holds user-level settings stored next to the transactions.
type Preferences struct {
	Currency      string  `json:"currency"`
	MonthlyBudget float64 `json:"monthly_budget"`
}

const (
	// FallbackCurrency is used when neither the store nor the config names one.
	FallbackCurrency = "USD"
	// FallbackMonthlyBudget is the monthly budget used when none is stored.
	FallbackMonthlyBudget = 50000
)

// DefaultBudgets returns the budget set seeded on first run and restored by a full clear.
func DefaultBudgets() []Budget {
	return []Budget{
		{Category: "food", Limit: 10000, Color: "emerald"},
		{Category: "transport", Limit: 5000, Color: "blue"},
		{Category: "entertainment", Limit: 3000, Color: "purple"},
		{Category: "shopping", Limit: 8000, Color: "pink"},
		{Category: "utilities", Limit: 15000, Color: "orange"},
		{Category: "health", Limit: 5000, Color: "red"},
		{Category: "education", Limit: 10000, Color: "indigo"},
	}
}
