package core

// CategoryType classifies a category (and the transactions carrying it) as
// money coming in or going out.
type CategoryType string

const (
	Income  CategoryType = "income"
	Expense CategoryType = "expense"
)

// Valid reports whether the type is one of the two known classifications.
func (t CategoryType) Valid() bool {
	return t == Income || t == Expense
}

// Category is a closed classification label with a fixed income/expense
// polarity. The set is defined at compile time and has no lifecycle.
type Category string

const (
	Salary        Category = "salary"
	Interest      Category = "interest"
	Rental        Category = "rental"
	Business      Category = "business"
	Food          Category = "food"
	Travel        Category = "travel"
	Entertainment Category = "entertainment"
	Shopping      Category = "shopping"
	Healthcare    Category = "healthcare"
	Other         Category = "other"
)

// categories holds the catalog in its fixed order. FirstOfType depends on
// this order: salary is the first income category, food the first expense.
var categories = []Category{
	Salary,
	Interest,
	Rental,
	Business,
	Food,
	Travel,
	Entertainment,
	Shopping,
	Healthcare,
	Other,
}

// Categories returns the full catalog in fixed order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory returns the category matching the given raw value.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	if c.Valid() {
		return c, true
	}
	return "", false
}

// FirstOfType returns the first catalog entry with the given type.
func FirstOfType(t CategoryType) (Category, bool) {
	for _, c := range categories {
		if c.Type() == t {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether the category belongs to the catalog.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Type returns the fixed income/expense classification of the category.
func (c Category) Type() CategoryType {
	switch c {
	case Salary, Interest, Rental, Business:
		return Income
	default:
		return Expense
	}
}

// DisplayName returns the user-facing label.
func (c Category) DisplayName() string {
	switch c {
	case Salary:
		return "Salary"
	case Interest:
		return "Interest"
	case Rental:
		return "Rental"
	case Business:
		return "Business"
	case Food:
		return "Food"
	case Travel:
		return "Travel"
	case Entertainment:
		return "Entertainment"
	case Shopping:
		return "Shopping"
	case Healthcare:
		return "Healthcare"
	case Other:
		return "Other"
	default:
		return string(c)
	}
}

// Color returns the display color for the category as a hex RGB string.
func (c Category) Color() string {
	switch c {
	case Salary:
		return "#34c759" // green
	case Interest:
		return "#ffcc00" // yellow
	case Rental:
		return "#30b0c7" // teal
	case Business:
		return "#007aff" // blue
	case Food:
		return "#ff9500" // orange
	case Travel:
		return "#af52de" // purple
	case Entertainment:
		return "#ff2d55" // pink
	case Shopping:
		return "#ff3b30" // red
	case Healthcare:
		return "#00c7be" // mint
	case Other:
		return "#5856d6" // indigo
	default:
		return "#8e8e93"
	}
}
