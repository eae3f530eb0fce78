package core

import "sort"

// CategoryTotal is the summed spend for one category.
type CategoryTotal struct {
	Total Money
	Color string
}

// BreakdownEntry is one row of the sorted category breakdown.
type BreakdownEntry struct {
	Category   string
	Total      Money
	Color      string
	Percentage float64
}

// TotalExpenses sums all transaction amounts. Zero for an empty ledger.
func TotalExpenses(l Ledger) Money {
	var sum int64
	for _, tx := range l.Transactions {
		sum += tx.Amount.Cents
	}
	return Money{Cents: sum}
}

// Remaining is budget minus total expenses. Deliberately unclamped: a
// negative value is the true overspend.
func Remaining(l Ledger) Money {
	return Money{Cents: l.Budget.Cents - TotalExpenses(l).Cents}
}

// ProgressRatio is spend as a percentage of budget, capped at 100 so the
// progress bar never overflows. Zero whenever the budget is unset.
func ProgressRatio(l Ledger) float64 {
	if l.Budget.Cents <= 0 {
		return 0
	}
	ratio := float64(TotalExpenses(l).Cents) / float64(l.Budget.Cents) * 100
	if ratio > 100 {
		return 100
	}
	return ratio
}

// CategoryTotals groups transactions by category name. The color comes
// from the first-seen transaction of each category; transactions carry the
// registry color, so first-seen is as good as any.
func CategoryTotals(l Ledger) map[string]CategoryTotal {
	totals := make(map[string]CategoryTotal)
	for _, tx := range l.Transactions {
		t, ok := totals[tx.Category]
		if !ok {
			t = CategoryTotal{Color: tx.Color}
		}
		t.Total.Cents += tx.Amount.Cents
		totals[tx.Category] = t
	}
	return totals
}

// CategoryBreakdown returns per-category totals with their share of the
// grand total, sorted by total descending. The sort is stable: categories
// with equal totals keep their first-seen order. All percentages are zero
// when there is no spend.
func CategoryBreakdown(l Ledger) []BreakdownEntry {
	totals := CategoryTotals(l)
	if len(totals) == 0 {
		return nil
	}

	// First-seen order makes the tie-break deterministic.
	seen := make(map[string]bool, len(totals))
	entries := make([]BreakdownEntry, 0, len(totals))
	for _, tx := range l.Transactions {
		if seen[tx.Category] {
			continue
		}
		seen[tx.Category] = true
		t := totals[tx.Category]
		entries = append(entries, BreakdownEntry{
			Category: tx.Category,
			Total:    t.Total,
			Color:    t.Color,
		})
	}

	grand := TotalExpenses(l).Cents
	if grand > 0 {
		for i := range entries {
			entries[i].Percentage = float64(entries[i].Total.Cents) / float64(grand) * 100
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total.Cents > entries[j].Total.Cents
	})
	return entries
}
