package core

// Fixed registry of valid expense categories and income sources. Used for
// validation on create; the lists are not user-editable.

var ExpenseCategories = []string{
	"Food & Drinks",
	"Shopping",
	"Housing",
	"Transportation",
	"Vehicle",
	"Life & Entertainment",
	"Communication, PC",
	"Financial Expenses",
	"Investments",
	"Other",
}

var IncomeSources = []string{
	"Salary",
	"Business",
	"Gifts",
	"Savings",
	"Rental Income",
	"Other",
}

var (
	expenseCategorySet = toSet(ExpenseCategories)
	incomeSourceSet    = toSet(IncomeSources)
)

// ValidExpenseCategory reports whether name is a registered expense category.
func ValidExpenseCategory(name string) bool {
	_, ok := expenseCategorySet[name]
	return ok
}

// ValidIncomeSource reports whether name is a registered income source.
func ValidIncomeSource(name string) bool {
	_, ok := incomeSourceSet[name]
	return ok
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
