package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pricescout/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// maxReportedSources caps how many (price, url, title) tuples the report
// carries back to the caller.
const maxReportedSources = 5

// PriceServiceConfig holds configuration for the price service
type PriceServiceConfig struct {
	SearchTimeout time.Duration
	ResultLimit   int
	CacheTTL      time.Duration
}

// PriceService is the top-level orchestrator: it runs the live search under
// a deadline, drives the extraction coordinator, and degrades to the static
// estimate table on any failure. No error ever escapes it - every lookup
// resolves to a PriceReport.
type PriceService struct {
	search        domain.SearchClient
	parser        *ResultParser
	coordinator   *ExtractionCoordinator
	estimates     domain.EstimateTable
	cache         domain.CacheRepository
	searchTimeout time.Duration
	resultLimit   int
	cacheTTL      time.Duration
}

// NewPriceService creates a price service with dependencies
func NewPriceService(
	search domain.SearchClient,
	parser *ResultParser,
	coordinator *ExtractionCoordinator,
	estimates domain.EstimateTable,
	cache domain.CacheRepository,
	config PriceServiceConfig,
) *PriceService {
	searchTimeout := config.SearchTimeout
	if searchTimeout == 0 {
		searchTimeout = 20 * time.Second
	}
	resultLimit := config.ResultLimit
	if resultLimit <= 0 || resultLimit > 10 {
		resultLimit = 5
	}
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	return &PriceService{
		search:        search,
		parser:        parser,
		coordinator:   coordinator,
		estimates:     estimates,
		cache:         cache,
		searchTimeout: searchTimeout,
		resultLimit:   resultLimit,
		cacheTTL:      cacheTTL,
	}
}

// SearchPrice looks up the current market price for an item.
// Flow: check cache -> live search under deadline -> extract/aggregate ->
// fall back to the static estimate table on any failure.
func (s *PriceService) SearchPrice(ctx context.Context, itemName string) *domain.PriceReport {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return s.notFoundReport(itemName)
	}

	cacheKey := s.generateCacheKey(itemName)
	if cached := s.getFromCache(ctx, cacheKey); cached != nil {
		cached.Source = "cache"
		return cached
	}

	report, fallbackReason := s.searchLive(ctx, itemName)
	if report == nil {
		report = s.fallback(itemName, fallbackReason)
	} else {
		// Only live results are worth caching; estimates are static anyway
		// and failures should be retried on the next lookup.
		s.setInCache(ctx, cacheKey, report)
	}

	return report
}

// searchLive runs the Searching and Extracting states. It returns a nil
// report with a reason string whenever the Fallback branch must be taken.
func (s *PriceService) searchLive(ctx context.Context, itemName string) (*domain.PriceReport, string) {
	if s.search == nil || !s.search.Available() {
		return nil, "search unavailable"
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.searchTimeout)
	defer cancel()

	query := itemName + " price"
	raw, err := s.search.Search(searchCtx, query, s.resultLimit, true)
	if err != nil {
		// Deadline overruns and transport failures take the same branch;
		// the distinct reasons only matter for observability.
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, domain.ErrSearchTimeout) {
			log.Printf("[PRICE] Search timed out after %s for %q", s.searchTimeout, itemName)
			return nil, "search timeout"
		}
		log.Printf("[PRICE] Search failed for %q: %v", itemName, err)
		return nil, "search failed"
	}

	results := s.parser.Parse(raw, s.resultLimit)
	if len(results) == 0 {
		log.Printf("[PRICE] Search returned no parseable results for %q", itemName)
		return nil, "searched, no price"
	}

	quotes, err := s.coordinator.Resolve(searchCtx, results, itemName)
	if err != nil {
		log.Printf("[PRICE] No price extracted for %q", itemName)
		return nil, "searched, no price"
	}

	return s.buildLiveReport(itemName, quotes), ""
}

// buildLiveReport formats the surviving quotes into the result contract:
// per-currency ranges plus the cheapest sources in ascending price order.
func (s *PriceService) buildLiveReport(itemName string, quotes domain.PriceQuoteSet) *domain.PriceReport {
	ranges := ComputeRanges(quotes)

	sources := make([]domain.PriceSource, 0, len(quotes))
	for _, c := range quotes {
		sources = append(sources, domain.PriceSource{
			Price:         c.Amount,
			Currency:      c.Currency,
			URL:           c.SourceURL,
			Title:         c.SourceTitle,
			URLUnverified: c.URLUnverified,
		})
	}
	// Ascending price within a currency; currencies grouped alphabetically
	// since amounts are not comparable across them.
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Currency != sources[j].Currency {
			return sources[i].Currency < sources[j].Currency
		}
		return sources[i].Price < sources[j].Price
	})
	if len(sources) > maxReportedSources {
		sources = sources[:maxReportedSources]
	}

	return &domain.PriceReport{
		Success:     true,
		Item:        itemName,
		PriceRange:  ranges,
		SampleCount: len(quotes),
		Sources:     sources,
		Source:      "live",
		Message:     formatLiveMessage(itemName, ranges, sources),
	}
}

// fallback looks the item up in the static estimate table, both directions,
// case-insensitive. A miss produces the structured "not found" report.
func (s *PriceService) fallback(itemName, reason string) *domain.PriceReport {
	log.Printf("[PRICE] Falling back to estimate table for %q (%s)", itemName, reason)

	keyword, estimate, found := s.estimates.Lookup(itemName)
	if !found {
		return s.notFoundReport(itemName)
	}

	log.Printf("[PRICE] Estimate table hit for %q via keyword %q", itemName, keyword)
	return &domain.PriceReport{
		Success:     true,
		Item:        itemName,
		PriceRange:  map[string]domain.PriceRange{"IDR": {Min: estimate.Min, Max: estimate.Max, Avg: estimate.Avg}},
		SampleCount: 0,
		Source:      "estimate",
		Message:     formatEstimateMessage(itemName, estimate),
	}
}

func (s *PriceService) notFoundReport(itemName string) *domain.PriceReport {
	return &domain.PriceReport{
		Success: false,
		Item:    itemName,
		Message: fmt.Sprintf("🔍 Maaf, tidak menemukan informasi harga untuk '%s'.\n"+
			"Coba sebutkan item dengan lebih spesifik (contoh: 'laptop', 'iPhone', 'PS5')", itemName),
	}
}

// generateCacheKey creates a normalized cache key from the item name.
// Format: "price:{normalized_item_name}"
func (s *PriceService) generateCacheKey(itemName string) string {
	normalized := strings.ToLower(itemName)
	normalized = nonAlphanumericRegex.ReplaceAllString(normalized, "")
	normalized = multipleSpacesRegex.ReplaceAllString(normalized, " ")
	return "price:" + strings.TrimSpace(normalized)
}

func (s *PriceService) getFromCache(ctx context.Context, key string) *domain.PriceReport {
	if s.cache == nil {
		return nil
	}
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil
	}
	report, ok := value.(*domain.PriceReport)
	if !ok {
		return nil
	}
	// Copy so the cached entry is not mutated by the caller.
	clone := *report
	return &clone
}

func (s *PriceService) setInCache(ctx context.Context, key string, report *domain.PriceReport) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
		log.Printf("[PRICE] Failed to cache report for %s: %v", key, err)
	}
}

// formatLiveMessage renders the preformatted user-facing text for a live
// search hit.
func formatLiveMessage(itemName string, ranges map[string]domain.PriceRange, sources []domain.PriceSource) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔍 Hasil pencarian harga untuk '%s':\n", itemName)

	currencies := make([]string, 0, len(ranges))
	for currency := range ranges {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	for _, currency := range currencies {
		r := ranges[currency]
		fmt.Fprintf(&sb, "\n💰 Kisaran harga (%s): %s - %s\n", currency,
			formatPrice(r.Min, currency), formatPrice(r.Max, currency))
		fmt.Fprintf(&sb, "   Rata-rata: %s\n", formatPrice(r.Avg, currency))
	}

	if len(sources) > 0 {
		sb.WriteString("\n🏪 Sumber harga:\n")
		for i, src := range sources {
			domainName := sourceDomain(src.URL)
			if domainName == "" {
				domainName = "(sumber tidak terverifikasi)"
			}
			fmt.Fprintf(&sb, "  %d. %s - %s\n", i+1, domainName, formatPrice(src.Price, src.Currency))
		}
	}

	sb.WriteString("\n💡 Harga bisa bervariasi tergantung spesifikasi dan toko")
	return sb.String()
}

// formatEstimateMessage renders the fallback estimate in the same voice.
func formatEstimateMessage(itemName string, estimate domain.EstimateRange) string {
	return fmt.Sprintf("🔍 Hasil pencarian harga untuk '%s':\n"+
		"  • Harga terendah: %s\n"+
		"  • Harga tertinggi: %s\n"+
		"  • Harga rata-rata: %s\n\n"+
		"💡 Harga bisa bervariasi tergantung spesifikasi dan toko",
		itemName,
		formatPrice(estimate.Min, "IDR"),
		formatPrice(estimate.Max, "IDR"),
		formatPrice(estimate.Avg, "IDR"))
}

// formatPrice renders an amount with thousand separators, prefixed "Rp" for
// Rupiah and suffixed with the currency code otherwise.
func formatPrice(amount int64, currency string) string {
	if currency == "IDR" {
		return "Rp " + groupDigits(amount)
	}
	return groupDigits(amount) + " " + currency
}

// groupDigits inserts comma thousand separators into a positive amount.
func groupDigits(amount int64) string {
	digits := fmt.Sprintf("%d", amount)
	if len(digits) <= 3 {
		return digits
	}
	var sb strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}
