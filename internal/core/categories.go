package core

// Category vocabularies offered by the form. The two lists are disjoint per
// transaction type. These are UI affordances only; the data layer accepts any
// non-empty category string.

var incomeCategories = []string{
	"Salary",
	"Freelance",
	"Investments",
	"Business",
	"Rental",
	"Gifts",
	"Other Income",
}

var expenseCategories = []string{
	"Food",
	"Housing",
	"Transportation",
	"Utilities",
	"Healthcare",
	"Entertainment",
	"Shopping",
	"Education",
	"Travel",
	"Insurance",
	"Other Expenses",
}

// CategoriesFor returns the vocabulary for a transaction type. Unknown types
// get an empty list.
func CategoriesFor(t TransactionType) []string {
	var src []string
	switch t {
	case Income:
		src = incomeCategories
	case Expense:
		src = expenseCategories
	default:
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
