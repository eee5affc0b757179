package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pricescout/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	// idrPriceRegex matches Rupiah-tagged amounts with optional grouping
	// separators and magnitude suffix words, e.g. "Rp25.999.000",
	// "Rp 25 juta", "Rp2,5 jt", "Rp 150 ribu"
	idrPriceRegex = regexp.MustCompile(`(?i)\brp\.?\s*([0-9][0-9.,]*)\s*(jutaan|juta|jt|ribuan|ribu|rb)?`)

	// usdPriceRegex matches dollar-tagged amounts with comma grouping and
	// an optional decimal part, e.g. "$249.99", "USD 1,299"
	usdPriceRegex = regexp.MustCompile(`(?i)(?:\$|\busd\s?)\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

	// decimalWithSuffixRegex recognizes a short decimal that should scale
	// with a magnitude suffix, e.g. the "2,5" in "Rp 2,5 juta"
	decimalWithSuffixRegex = regexp.MustCompile(`^[0-9]+[.,][0-9]{1,2}$`)
)

// idrSuffixMultipliers maps Indonesian magnitude suffix words to their
// numeric multiplier.
var idrSuffixMultipliers = map[string]int64{
	"juta":   1_000_000,
	"jutaan": 1_000_000,
	"jt":     1_000_000,
	"ribu":   1_000,
	"ribuan": 1_000,
	"rb":     1_000,
}

// FastExtraction is the deterministic path's outcome. Confident is true only
// when at least one price was matched and every match cleared its currency's
// plausibility floor; a single implausible number disqualifies the whole
// fast path for this call.
type FastExtraction struct {
	Confident  bool
	Candidates []domain.PriceCandidate
}

// FastPriceExtractor scans result snippets for currency-tagged numeric
// patterns. Precision over recall: a wrong silent price is costlier than an
// unnecessary escalation to the semantic path.
type FastPriceExtractor struct{}

// NewFastPriceExtractor creates the deterministic extractor.
func NewFastPriceExtractor() *FastPriceExtractor {
	return &FastPriceExtractor{}
}

// Extract scans each result's title and content for prices.
func (e *FastPriceExtractor) Extract(results []domain.SearchResult) FastExtraction {
	var candidates []domain.PriceCandidate
	matched := 0
	allPlausible := true

	for _, result := range results {
		text := result.Title + "\n" + result.ContentSnippet
		srcDomain := sourceDomain(result.URL)

		for _, m := range idrPriceRegex.FindAllStringSubmatch(text, -1) {
			amount, ok := parseIDRAmount(m[1], strings.ToLower(m[2]))
			if !ok {
				continue
			}
			matched++
			candidate := domain.PriceCandidate{
				Amount:       amount,
				Currency:     "IDR",
				SourceTitle:  result.Title,
				SourceURL:    result.URL,
				SourceDomain: srcDomain,
			}
			if !candidate.Plausible() {
				allPlausible = false
				continue
			}
			candidates = append(candidates, candidate)
		}

		for _, m := range usdPriceRegex.FindAllStringSubmatch(text, -1) {
			amount, ok := parseUSDAmount(m[1])
			if !ok {
				continue
			}
			matched++
			candidate := domain.PriceCandidate{
				Amount:       amount,
				Currency:     "USD",
				SourceTitle:  result.Title,
				SourceURL:    result.URL,
				SourceDomain: srcDomain,
			}
			if !candidate.Plausible() {
				allPlausible = false
				continue
			}
			candidates = append(candidates, candidate)
		}
	}

	return FastExtraction{
		Confident:  matched > 0 && allPlausible,
		Candidates: candidates,
	}
}

// parseIDRAmount normalizes an Indonesian-formatted number plus optional
// magnitude suffix into a full Rupiah amount. Dots and commas are grouping
// separators ("25.999.000"), except a short trailing decimal combined with a
// suffix ("2,5 juta" = 2500000).
func parseIDRAmount(number, suffix string) (int64, bool) {
	multiplier := int64(1)
	if suffix != "" {
		m, ok := idrSuffixMultipliers[suffix]
		if !ok {
			return 0, false
		}
		multiplier = m
	}

	if multiplier > 1 && decimalWithSuffixRegex.MatchString(number) {
		normalized := strings.ReplaceAll(number, ",", ".")
		f, err := strconv.ParseFloat(normalized, 64)
		if err != nil {
			return 0, false
		}
		return int64(f * float64(multiplier)), true
	}

	stripped := strings.NewReplacer(".", "", ",", "").Replace(number)
	n, err := strconv.ParseInt(stripped, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n * multiplier, true
}

// parseUSDAmount normalizes a dollar amount: commas are grouping, the dot
// starts a decimal part which is truncated. "$249.99" is 249, never 24999.
func parseUSDAmount(number string) (int64, bool) {
	stripped := strings.ReplaceAll(number, ",", "")
	if idx := strings.Index(stripped, "."); idx >= 0 {
		stripped = stripped[:idx]
	}
	n, err := strconv.ParseInt(stripped, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
