package entity

import "strings"

// Category sets are fixed configuration data, selected by transaction type.
// Wire values are the lowercased display names.
var (
	IncomeCategories = []string{
		"Salário", "Freelance", "Investimentos", "Vendas", "Outros",
	}

	ExpenseCategories = []string{
		"Alimentação", "Moradia", "Transporte", "Saúde", "Educação",
		"Lazer", "Vestuário", "Contas", "Outros",
	}
)

// CategoriesFor returns the category set for the given transaction type.
// Unknown types yield nil.
func CategoriesFor(t Type) []string {
	switch t {
	case TypeIncome:
		return IncomeCategories
	case TypeExpense:
		return ExpenseCategories
	default:
		return nil
	}
}

// CategoryAllowed reports whether name belongs to the category set of the
// given type. Matching is case-insensitive so both the display form and the
// lowercased wire form are accepted.
func CategoryAllowed(t Type, name string) bool {
	for _, c := range CategoriesFor(t) {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}
