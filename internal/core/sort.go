package core

import "strings"

// SortOption is a deterministic ordering over transactions. All options are
// applied with a stable sort so equal keys keep their original relative
// order.
type SortOption string

const (
	DateDescending   SortOption = "dateDescending"
	DateAscending    SortOption = "dateAscending"
	AmountDescending SortOption = "amountDescending"
	AmountAscending  SortOption = "amountAscending"
	TitleAscending   SortOption = "titleAscending"
	TitleDescending  SortOption = "titleDescending"
)

var sortOptions = []SortOption{
	DateDescending,
	DateAscending,
	AmountDescending,
	AmountAscending,
	TitleAscending,
	TitleDescending,
}

// SortOptions returns all orderings.
func SortOptions() []SortOption {
	out := make([]SortOption, len(sortOptions))
	copy(out, sortOptions)
	return out
}

// ParseSortOption returns the ordering matching the given raw value.
func ParseSortOption(s string) (SortOption, bool) {
	so := SortOption(s)
	if so.Valid() {
		return so, true
	}
	return "", false
}

func (so SortOption) Valid() bool {
	for _, known := range sortOptions {
		if so == known {
			return true
		}
	}
	return false
}

// DisplayName returns the user-facing label.
func (so SortOption) DisplayName() string {
	switch so {
	case DateDescending:
		return "Date ↓"
	case DateAscending:
		return "Date ↑"
	case AmountDescending:
		return "Amount ↓"
	case AmountAscending:
		return "Amount ↑"
	case TitleAscending:
		return "Title A-Z"
	case TitleDescending:
		return "Title Z-A"
	default:
		return string(so)
	}
}

// Less reports whether a orders strictly before b. Equal keys return false
// so a stable sort preserves input order. Titles compare lowercased.
func (so SortOption) Less(a, b Transaction) bool {
	switch so {
	case DateDescending:
		return a.Date.After(b.Date)
	case DateAscending:
		return a.Date.Before(b.Date)
	case AmountDescending:
		return a.Amount.Cents > b.Amount.Cents
	case AmountAscending:
		return a.Amount.Cents < b.Amount.Cents
	case TitleAscending:
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	case TitleDescending:
		return strings.ToLower(a.Title) > strings.ToLower(b.Title)
	default:
		return a.Date.After(b.Date)
	}
}
