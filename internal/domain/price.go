package domain

// SearchResult is one normalized entry from the web search capability.
// Order follows provider rank; nothing downstream depends on it.
type SearchResult struct {
	Title          string `json:"title"`
	URL            string `json:"url"`
	ContentSnippet string `json:"contentSnippet"`
}

// PriceCandidate is one extracted (amount, currency, source) triple before
// deduplication. Amount is in major currency units (e.g. full Rupiah).
type PriceCandidate struct {
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	SourceTitle   string `json:"sourceTitle"`
	SourceURL     string `json:"sourceUrl"`
	SourceDomain  string `json:"sourceDomain"`
	URLUnverified bool   `json:"urlUnverified,omitempty"`
}

// QuoteKey identifies the dedup bucket for a candidate. Candidates are never
// compared or merged across currencies.
type QuoteKey struct {
	Domain   string
	Currency string
}

// PriceQuoteSet holds at most one surviving candidate per (domain, currency)
// pair - always the lowest amount observed for that pair.
type PriceQuoteSet map[QuoteKey]PriceCandidate

// Candidates returns the surviving candidates for one currency.
func (qs PriceQuoteSet) Candidates(currency string) []PriceCandidate {
	var out []PriceCandidate
	for key, c := range qs {
		if key.Currency == currency {
			out = append(out, c)
		}
	}
	return out
}

// Currencies returns the distinct currency codes present in the set.
func (qs PriceQuoteSet) Currencies() []string {
	seen := make(map[string]bool)
	var out []string
	for key := range qs {
		if !seen[key.Currency] {
			seen[key.Currency] = true
			out = append(out, key.Currency)
		}
	}
	return out
}

// PriceRange summarizes surviving candidates of a single currency.
// Avg is the integer-truncated arithmetic mean.
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
	Avg int64 `json:"avg"`
}

// PriceSource is one (price, url, title) tuple reported back to the caller.
type PriceSource struct {
	Price         int64  `json:"price"`
	Currency      string `json:"currency"`
	URL           string `json:"url"`
	Title         string `json:"title"`
	URLUnverified bool   `json:"urlUnverified,omitempty"`
}

// PriceReport is the result contract returned to the caller for every
// lookup, successful or not.
type PriceReport struct {
	Success     bool                  `json:"success"`
	Item        string                `json:"item"`
	PriceRange  map[string]PriceRange `json:"priceRange,omitempty"`
	SampleCount int                   `json:"sampleCount,omitempty"`
	Sources     []PriceSource         `json:"sources,omitempty"`
	Source      string                `json:"source,omitempty"` // "live", "estimate", or "cache"
	Message     string                `json:"message"`
}

// EstimateRange is one fixed entry of the static fallback table.
type EstimateRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
	Avg int64 `json:"avg"`
}

// PriceContext is the per-user "last searched item" memory retained for
// follow-up flows. It is always passed explicitly, never ambient state.
type PriceContext struct {
	Item       string                `json:"item"`
	PriceRange map[string]PriceRange `json:"priceRange"`
}

// plausibilityFloors are the minimum believable amounts per currency, in
// major units. A flat constant tuned for IDR misfires on low-denomination
// currencies, so the floor is parameterized per currency code.
var plausibilityFloors = map[string]int64{
	"IDR": 10000,
	"JPY": 100,
	"KRW": 1000,
	"VND": 10000,
}

// PlausibilityFloor returns the minimum plausible amount for a currency.
// Unknown currencies get a floor of 1 (any positive amount passes).
func PlausibilityFloor(currency string) int64 {
	if floor, ok := plausibilityFloors[currency]; ok {
		return floor
	}
	return 1
}

// Plausible reports whether the candidate amount clears the floor for its
// currency.
func (c PriceCandidate) Plausible() bool {
	return c.Amount >= PlausibilityFloor(c.Currency)
}
