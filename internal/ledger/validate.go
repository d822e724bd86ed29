package ledger

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/go-playground/validator/v10"
)

// Entry is a transaction as submitted by the user, before it has an ID.
type Entry struct {
	Date        time.Time `validate:"required"`
	Type        string    `validate:"required,transaction_type"`
	Category    string    `validate:"required"`
	Description string    `validate:"required,max=200"`
	// Currency may be empty, in which case the preferred currency is used.
	Currency string  `validate:"omitempty,iso4217"`
	Amount   float64 `validate:"gt=0"`
}

type budgetInput struct {
	Category string  `validate:"required,expense_category"`
	Color    string  `validate:"omitempty,alpha"`
	Limit    float64 `validate:"gte=0"`
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every field that failed validation. It matches
// common.ErrInvalidInput with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrInvalidInput
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.ToLower(f.Name)
	})
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("expense_category", validateExpenseCategory)
	v.RegisterStructValidation(validateEntryCategory, Entry{})
	return v
}

func validateTransactionType(fl validator.FieldLevel) bool {
	_, err := model.ParseTransactionType(fl.Field().String())
	return err == nil
}

func validateExpenseCategory(fl validator.FieldLevel) bool {
	return model.IsValidCategory(model.TypeExpense, fl.Field().String())
}

// validateEntryCategory checks the category against the list for the entry's type.
func validateEntryCategory(sl validator.StructLevel) {
	e, ok := sl.Current().Interface().(Entry)
	if !ok || e.Category == "" {
		return
	}
	typ, err := model.ParseTransactionType(e.Type)
	if err != nil {
		return
	}
	if !model.IsValidCategory(typ, e.Category) {
		sl.ReportError(e.Category, "category", "Category", "category_for_type", e.Type)
	}
}

// translate turns validator output into a ValidationError.
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must not be negative"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "iso4217":
		return fmt.Sprintf("%q is not an ISO 4217 currency code", fe.Value())
	case "transaction_type":
		return "must be income or expense"
	case "expense_category":
		return fmt.Sprintf("%q is not an expense category (%s)", fe.Value(), strings.Join(model.ExpenseCategories, ", "))
	case "category_for_type":
		typ := model.TransactionType(fe.Param())
		return fmt.Sprintf("%q is not a %s category (%s)", fe.Value(), typ, strings.Join(model.CategoriesFor(typ), ", "))
	case "alpha":
		return "must contain letters only"
	default:
		return "failed " + fe.Tag()
	}
}
