package model

import "strings"

// Category is one of the fixed spending categories a transaction can be assigned to.
type Category string

// Category constants, declared in table order.
const (
	CategoryGroceries      Category = "groceries"
	CategoryUtilities      Category = "utilities"
	CategoryTransportation Category = "transportation"
	CategoryEntertainment  Category = "entertainment"
	CategoryHealthcare     Category = "healthcare"
	CategoryDining         Category = "dining"
	CategoryShopping       Category = "shopping"
	CategoryBills          Category = "bills"
	CategoryEducation      Category = "education"
	CategoryOther          Category = "other"
)

// Categories returns every category in table order. Category scoring ties are
// broken by this order, so it must not change.
func Categories() []Category {
	return []Category{
		CategoryGroceries,
		CategoryUtilities,
		CategoryTransportation,
		CategoryEntertainment,
		CategoryHealthcare,
		CategoryDining,
		CategoryShopping,
		CategoryBills,
		CategoryEducation,
		CategoryOther,
	}
}

// ParseCategory maps a name to a Category, ignoring case and surrounding space.
func ParseCategory(name string) (Category, bool) {
	normalized := Category(strings.ToLower(strings.TrimSpace(name)))
	for _, c := range Categories() {
		if c == normalized {
			return c, true
		}
	}
	return "", false
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}
