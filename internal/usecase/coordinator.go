package usecase

import (
	"context"
	"log"
	"net/url"
	"strings"

	"github.com/pricescout/backend/internal/domain"
)

// ExtractionCoordinator selects an extraction strategy and reconciles the
// resulting candidates. The strategy choice is an explicit two-variant
// outcome (fast | semantic) gated by the fast path's confidence predicate,
// not virtual dispatch, so it stays inspectable in tests.
type ExtractionCoordinator struct {
	fast     *FastPriceExtractor
	semantic *SemanticPriceExtractor
}

// NewExtractionCoordinator creates a coordinator over both extractors.
func NewExtractionCoordinator(fast *FastPriceExtractor, semantic *SemanticPriceExtractor) *ExtractionCoordinator {
	return &ExtractionCoordinator{fast: fast, semantic: semantic}
}

// Resolve runs the fast extractor first and escalates to the semantic
// extractor only when the fast path is not confident. The surviving
// candidates are deduplicated per (domain, currency), keeping the minimum
// amount for each pair. Returns ErrPriceNotFound when nothing survives.
func (c *ExtractionCoordinator) Resolve(ctx context.Context, results []domain.SearchResult, itemName string) (domain.PriceQuoteSet, error) {
	if len(results) == 0 {
		return nil, domain.ErrPriceNotFound
	}

	var candidates []domain.PriceCandidate

	fast := c.fast.Extract(results)
	if fast.Confident {
		log.Printf("[COORDINATOR] Fast path confident: %d candidates for %q", len(fast.Candidates), itemName)
		candidates = fast.Candidates
	} else {
		log.Printf("[COORDINATOR] Fast path not confident, escalating to semantic extraction for %q", itemName)
		semantic := c.semantic.Extract(ctx, results, itemName)
		if !semantic.Success {
			log.Printf("[COORDINATOR] Semantic extraction failed for %q: %s", itemName, semantic.Reason)
			return nil, domain.ErrPriceNotFound
		}
		candidates = semantic.Candidates
	}

	quotes := dedupeCandidates(candidates)
	if len(quotes) == 0 {
		return nil, domain.ErrPriceNotFound
	}
	return quotes, nil
}

// dedupeCandidates folds candidates into at most one survivor per
// (domain, currency) pair, keeping the lowest amount observed. Pure,
// single-threaded fold over an already-completed list.
func dedupeCandidates(candidates []domain.PriceCandidate) domain.PriceQuoteSet {
	quotes := make(domain.PriceQuoteSet)
	for _, candidate := range candidates {
		key := domain.QuoteKey{Domain: candidate.SourceDomain, Currency: candidate.Currency}
		if existing, ok := quotes[key]; ok && existing.Amount <= candidate.Amount {
			continue
		}
		quotes[key] = candidate
	}
	return quotes
}

// ComputeRanges aggregates the surviving candidates into one PriceRange per
// currency. Currencies are never averaged or compared against each other.
func ComputeRanges(quotes domain.PriceQuoteSet) map[string]domain.PriceRange {
	ranges := make(map[string]domain.PriceRange)
	for _, currency := range quotes.Currencies() {
		candidates := quotes.Candidates(currency)

		r := domain.PriceRange{Min: candidates[0].Amount, Max: candidates[0].Amount}
		var sum int64
		for _, c := range candidates {
			if c.Amount < r.Min {
				r.Min = c.Amount
			}
			if c.Amount > r.Max {
				r.Max = c.Amount
			}
			sum += c.Amount
		}
		r.Avg = sum / int64(len(candidates))

		ranges[currency] = r
	}
	return ranges
}

// sourceDomain extracts the lowercase host from a URL, without the common
// "www." prefix. Returns "" for unparseable input.
func sourceDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	host := strings.ToLower(parsed.Host)
	return strings.TrimPrefix(host, "www.")
}
