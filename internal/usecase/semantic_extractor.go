package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/pricescout/backend/internal/domain"
)

// maxExtractionResponse bounds how much of the model's response is parsed.
// The capability is an untrusted oracle and must not be allowed to blow up
// memory with a runaway completion.
const maxExtractionResponse = 16 * 1024

const extractionSystemPrompt = `You are a precise price extraction engine. ` +
	`You read web search results and extract product prices. ` +
	`You reply with exactly one JSON object and nothing else.`

const extractionRules = `Rules:
- Report each price in its ORIGINAL currency. Never convert between currencies.
- Parse decimals correctly: "$249.99" is 249 USD, never 24900 or 24999.
- "Rp25.999.000" uses dots as thousand separators: 25999000 IDR.
- Only report prices for the item being searched, not accessories or bundles.
- The "url" of each price must be copied verbatim from the search results.
- If no price is found, set "found" to false and explain in "reason".

Respond with exactly one JSON object in this schema:
{"found": true, "prices": [{"price": 25999000, "currency": "IDR", "title": "...", "url": "https://..."}], "reason": ""}`

// SemanticExtraction is the delegated path's outcome.
type SemanticExtraction struct {
	Success    bool
	Candidates []domain.PriceCandidate
	Reason     string
}

// SemanticPriceExtractor delegates extraction to a generative-text
// capability. It is invoked only when the fast path lacks confidence, and
// treats the capability as an untrusted oracle: the response is
// schema-validated, provenance-validated, and size-bounded, and every
// failure resolves to Success=false rather than an error escaping.
type SemanticPriceExtractor struct {
	completer domain.ChatCompleter
}

// NewSemanticPriceExtractor creates the delegated extractor.
func NewSemanticPriceExtractor(completer domain.ChatCompleter) *SemanticPriceExtractor {
	return &SemanticPriceExtractor{completer: completer}
}

// Extract runs one chat exchange over the adapted results.
func (e *SemanticPriceExtractor) Extract(ctx context.Context, results []domain.SearchResult, itemName string) SemanticExtraction {
	if e.completer == nil || !e.completer.Available() {
		return SemanticExtraction{Success: false, Reason: domain.ErrExtractionUnavailable.Error()}
	}

	adaptedText := formatResultsForPrompt(results)
	userPrompt := fmt.Sprintf("Item being searched: %s\n\nSearch results:\n%s\n\n%s",
		itemName, adaptedText, extractionRules)

	response, err := e.completer.Complete(ctx, extractionSystemPrompt, userPrompt)
	if err != nil {
		log.Printf("[SEMANTIC] Extraction call failed: %v", err)
		return SemanticExtraction{Success: false, Reason: err.Error()}
	}

	parsed, err := parseExtractionResponse(response)
	if err != nil {
		log.Printf("[SEMANTIC] %v", err)
		return SemanticExtraction{Success: false, Reason: err.Error()}
	}

	if !parsed.Found {
		return SemanticExtraction{Success: false, Reason: parsed.Reason}
	}

	candidates := e.validateCandidates(parsed.Prices, adaptedText, results)
	if len(candidates) == 0 {
		return SemanticExtraction{Success: false, Reason: "no plausible prices in extraction response"}
	}

	return SemanticExtraction{Success: true, Candidates: candidates}
}

// extractionResponse is the JSON schema the capability must answer with.
type extractionResponse struct {
	Found  bool             `json:"found"`
	Prices []extractedPrice `json:"prices"`
	Reason string           `json:"reason"`
}

// extractedPrice keeps Price as float64 so a model answering "249.99"
// still parses; the decimal part is truncated during validation.
type extractedPrice struct {
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Title    string  `json:"title"`
	URL      string  `json:"url"`
}

// parseExtractionResponse locates the single JSON object in the raw model
// output. The capability may wrap its answer in commentary or reasoning
// markup, so the object is taken from the first '{' to the last '}'.
func parseExtractionResponse(raw string) (*extractionResponse, error) {
	if len(raw) > maxExtractionResponse {
		raw = raw[:maxExtractionResponse]
	}

	// Some models wrap their answer in <think> reasoning blocks.
	if idx := strings.LastIndex(raw, "</think>"); idx >= 0 {
		raw = raw[idx+len("</think>"):]
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response", domain.ErrMalformedExtraction)
	}

	var parsed extractionResponse
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedExtraction, err)
	}
	return &parsed, nil
}

// validateCandidates turns the oracle's price entries into PriceCandidates,
// dropping implausible amounts and verifying provenance. A price is never
// discarded solely because its URL cannot be verified, but an unverifiable
// URL is never trusted either: it is replaced by a same-domain URL from the
// source text when possible, or flagged urlUnverified.
func (e *SemanticPriceExtractor) validateCandidates(prices []extractedPrice, adaptedText string, results []domain.SearchResult) []domain.PriceCandidate {
	var candidates []domain.PriceCandidate
	for _, p := range prices {
		currency := strings.ToUpper(strings.TrimSpace(p.Currency))
		amount := int64(p.Price)
		if amount <= 0 || len(currency) != 3 {
			continue
		}

		candidate := domain.PriceCandidate{
			Amount:      amount,
			Currency:    currency,
			SourceTitle: strings.TrimSpace(p.Title),
			SourceURL:   strings.TrimSpace(p.URL),
		}
		if !candidate.Plausible() {
			continue
		}

		if candidate.SourceURL == "" || !strings.Contains(adaptedText, candidate.SourceURL) {
			// Hallucinated provenance: try a same-domain URL actually
			// present in the source text before flagging it.
			if substitute := findSameDomainURL(candidate.SourceURL, results); substitute != "" {
				candidate.SourceURL = substitute
			} else {
				candidate.URLUnverified = true
			}
		}
		candidate.SourceDomain = sourceDomain(candidate.SourceURL)

		candidates = append(candidates, candidate)
	}
	return candidates
}

// findSameDomainURL returns a URL from the parsed results that shares the
// claimed URL's domain, or "" when none does.
func findSameDomainURL(claimedURL string, results []domain.SearchResult) string {
	claimedDomain := sourceDomain(claimedURL)
	if claimedDomain == "" {
		return ""
	}
	for _, r := range results {
		if sourceDomain(r.URL) == claimedDomain {
			return r.URL
		}
	}
	return ""
}

// formatResultsForPrompt renders adapted results as numbered blocks for the
// extraction prompt.
func formatResultsForPrompt(results []domain.SearchResult) string {
	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "[%d] %s\nURL: %s\n%s\n\n", i+1, r.Title, r.URL, r.ContentSnippet)
	}
	return strings.TrimSpace(sb.String())
}
