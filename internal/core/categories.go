package core

import (
	"sort"
	"strings"
)

// CategoryOther is the catch-all category; it always sorts last.
const CategoryOther = "Other"

// DefaultCategories is the fixed set every ledger starts with.
var DefaultCategories = []string{"Food", "Travel", "Bills", "Shopping", CategoryOther}

// NormalizeCategory trims the submitted category and falls back to the
// "Other" literal when nothing usable was supplied.
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return CategoryOther
	}
	return category
}

// DeriveCategories returns the sorted union of the default set and every
// distinct category observed in the expenses, with "Other" pinned to the
// final position. Recomputed on every read; nothing is stored.
func DeriveCategories(expenses []ExpenseRecord) []string {
	seen := make(map[string]struct{}, len(DefaultCategories)+len(expenses))
	for _, c := range DefaultCategories {
		seen[c] = struct{}{}
	}
	for _, e := range expenses {
		c := strings.TrimSpace(e.Category)
		if c == "" {
			continue
		}
		seen[c] = struct{}{}
	}
	delete(seen, CategoryOther)

	out := make([]string, 0, len(seen)+1)
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return append(out, CategoryOther)
}
