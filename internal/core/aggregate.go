package core

import (
	"sort"
	"strings"
	"time"
)

// Query holds the view parameters the aggregation derives from. Now is the
// reference time for the TimeFrame cutoff; a zero Now means time.Now().
// Pinning Now makes the transform fully deterministic.
type Query struct {
	TimeFrame TimeFrame
	Search    string
	Sort      SortOption
	Now       time.Time
}

// Summary is the derived view over a transaction snapshot.
//
// TotalIncome, TotalExpense and Balance are headline figures computed over
// the entire input set: time windows and search narrow the displayed list
// and breakdown, never the balance. ExpenseByCategory sums expense amounts
// in the filtered set only, and omits categories with no matching
// transactions.
type Summary struct {
	Filtered          []Transaction
	TotalIncome       Money
	TotalExpense      Money
	Balance           Money
	ExpenseByCategory map[Category]Money
}

// Aggregate derives the filtered, sorted and summed views from a raw
// transaction snapshot. It is pure: the input slice is never mutated, and
// identical inputs (including Query.Now) produce identical output.
func Aggregate(transactions []Transaction, q Query) Summary {
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}

	s := Summary{
		Filtered:          make([]Transaction, 0, len(transactions)),
		ExpenseByCategory: make(map[Category]Money),
	}

	// Headline totals over the whole set, before any filtering.
	for _, tx := range transactions {
		switch tx.Type {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		case Expense:
			s.TotalExpense = s.TotalExpense.Add(tx.Amount)
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpense)

	cutoff, hasCutoff := q.TimeFrame.Start(now)
	search := strings.ToLower(strings.TrimSpace(q.Search))

	for _, tx := range transactions {
		if hasCutoff && tx.Date.Before(cutoff) {
			continue
		}
		if search != "" && !matchesSearch(tx, search) {
			continue
		}
		s.Filtered = append(s.Filtered, tx)
	}

	sort.SliceStable(s.Filtered, func(i, j int) bool {
		return q.Sort.Less(s.Filtered[i], s.Filtered[j])
	})

	for _, tx := range s.Filtered {
		if tx.Type != Expense {
			continue
		}
		s.ExpenseByCategory[tx.Category] = s.ExpenseByCategory[tx.Category].Add(tx.Amount)
	}

	return s
}

// matchesSearch reports whether the lowercased search term occurs in the
// title or the category display name.
func matchesSearch(tx Transaction, search string) bool {
	return strings.Contains(strings.ToLower(tx.Title), search) ||
		strings.Contains(strings.ToLower(tx.Category.DisplayName()), search)
}
