package staticprice

import (
	"sort"
	"strings"

	"github.com/pricescout/backend/internal/domain"
)

// defaultEstimates is the built-in keyword -> price range table, in full
// Rupiah. Used when live search is unavailable or inconclusive.
var defaultEstimates = map[string]domain.EstimateRange{
	// Electronics
	"laptop":    {Min: 3_000_000, Max: 25_000_000, Avg: 8_000_000},
	"iphone":    {Min: 8_000_000, Max: 25_000_000, Avg: 15_000_000},
	"ps5":       {Min: 7_000_000, Max: 9_000_000, Avg: 8_000_000},
	"samsung":   {Min: 2_000_000, Max: 20_000_000, Avg: 7_000_000},
	"macbook":   {Min: 12_000_000, Max: 35_000_000, Avg: 20_000_000},
	"headphone": {Min: 100_000, Max: 5_000_000, Avg: 800_000},

	// Common items
	"sepatu": {Min: 200_000, Max: 3_000_000, Avg: 500_000},
	"baju":   {Min: 50_000, Max: 1_000_000, Avg: 200_000},
	"tas":    {Min: 100_000, Max: 5_000_000, Avg: 500_000},
	"jam":    {Min: 150_000, Max: 10_000_000, Avg: 1_000_000},
}

// Table is the static estimate table: loaded once, immutable thereafter.
// Keywords are kept sorted so lookups are deterministic when an item name
// matches more than one keyword.
type Table struct {
	estimates map[string]domain.EstimateRange
	keywords  []string
}

// NewTable creates a table from the built-in estimates plus any overrides
// from configuration. Overrides win on keyword collision.
func NewTable(overrides map[string]domain.EstimateRange) *Table {
	estimates := make(map[string]domain.EstimateRange, len(defaultEstimates)+len(overrides))
	for keyword, estimate := range defaultEstimates {
		estimates[keyword] = estimate
	}
	for keyword, estimate := range overrides {
		estimates[strings.ToLower(keyword)] = estimate
	}

	keywords := make([]string, 0, len(estimates))
	for keyword := range estimates {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)

	return &Table{estimates: estimates, keywords: keywords}
}

// Lookup finds an estimate by case-insensitive substring match in both
// directions: the keyword appearing in the item name ("laptop" in "laptop
// gaming murah") or the item name appearing in the keyword.
func (t *Table) Lookup(itemName string) (string, domain.EstimateRange, bool) {
	itemLower := strings.ToLower(strings.TrimSpace(itemName))
	if itemLower == "" {
		return "", domain.EstimateRange{}, false
	}

	for _, keyword := range t.keywords {
		if strings.Contains(itemLower, keyword) || strings.Contains(keyword, itemLower) {
			return keyword, t.estimates[keyword], true
		}
	}
	return "", domain.EstimateRange{}, false
}

// Size returns the number of entries in the table.
func (t *Table) Size() int {
	return len(t.estimates)
}
