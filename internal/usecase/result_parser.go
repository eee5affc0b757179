package usecase

import (
	"regexp"
	"strings"

	"github.com/pricescout/backend/internal/domain"
)

// Content length caps for a single result snippet. The raw provider text can
// carry tens of kilobytes of page content per result; capping it bounds the
// cost of everything downstream (regex scans, LLM prompts).
const (
	minContentCap     = 500
	maxContentCap     = 3000
	defaultContentCap = 1500

	// maxResults is the hard cap on parsed results regardless of what the
	// caller asks for.
	maxResults = 10
)

// Package-level compiled regex patterns for performance
var (
	// titleMarkerRegex matches the bold "N. Title" marker that starts each
	// result block, e.g. `**1. KOMPAS.com ... Harga iPhone ...**`
	titleMarkerRegex = regexp.MustCompile(`(?m)^\*\*(\d+)\.\s+(.+?)\*\*\s*$`)

	// urlLineRegex matches the "URL: https://..." line inside a block
	urlLineRegex = regexp.MustCompile(`(?m)^URL:\s*(\S+)\s*$`)

	// adminLineRegex matches administrative status lines interleaved with
	// result blocks, which carry no result data and must be skipped
	adminLineRegex = regexp.MustCompile(`(?m)^(\*\*Status:\*\*.*|Search completed for .*|---\s*)$`)

	// contentHeaderRegex matches the "**Full Content:**" section header
	contentHeaderRegex = regexp.MustCompile(`(?m)^\*\*Full Content:\*\*\s*$`)
)

// ResultParser normalizes the search provider's free-text response into an
// ordered, bounded slice of SearchResults.
type ResultParser struct {
	contentCap int
}

// NewResultParser creates a parser with the given per-result content cap.
// The cap is clamped to [500, 3000]; zero selects the default.
func NewResultParser(contentCap int) *ResultParser {
	if contentCap == 0 {
		contentCap = defaultContentCap
	}
	if contentCap < minContentCap {
		contentCap = minContentCap
	}
	if contentCap > maxContentCap {
		contentCap = maxContentCap
	}
	return &ResultParser{contentCap: contentCap}
}

// Parse splits the raw provider text on title markers and associates each
// content block with its preceding title/URL pair. Every URL is passed
// through ResolveRedirect before being stored. At most limit results are
// returned (capped at 10).
func (p *ResultParser) Parse(raw string, limit int) []domain.SearchResult {
	if limit <= 0 || limit > maxResults {
		limit = maxResults
	}

	cleaned := adminLineRegex.ReplaceAllString(raw, "")

	markers := titleMarkerRegex.FindAllStringSubmatchIndex(cleaned, -1)
	if len(markers) == 0 {
		return nil
	}

	var results []domain.SearchResult
	for i, marker := range markers {
		if len(results) >= limit {
			break
		}

		title := cleanTitle(cleaned[marker[4]:marker[5]])

		// Block runs from the end of this marker to the start of the next.
		blockEnd := len(cleaned)
		if i+1 < len(markers) {
			blockEnd = markers[i+1][0]
		}
		block := cleaned[marker[1]:blockEnd]

		urlMatch := urlLineRegex.FindStringSubmatch(block)
		if urlMatch == nil {
			// A title without a URL is not a usable result.
			continue
		}
		resolvedURL := ResolveRedirect(urlMatch[1])

		results = append(results, domain.SearchResult{
			Title:          title,
			URL:            resolvedURL,
			ContentSnippet: p.extractContent(block),
		})
	}

	return results
}

// extractContent pulls the description and full-content text out of a result
// block, capped at the configured length.
func (p *ResultParser) extractContent(block string) string {
	// Drop the URL line; everything else in the block is content.
	content := urlLineRegex.ReplaceAllString(block, "")
	content = contentHeaderRegex.ReplaceAllString(content, "")
	content = strings.TrimPrefix(strings.TrimSpace(content), "Description:")
	content = strings.TrimSpace(content)

	if len(content) > p.contentCap {
		content = content[:p.contentCap]
	}
	return content
}

// cleanTitle collapses the breadcrumb noise search engines embed in titles
// (site name, section path) down to a single-spaced string.
func cleanTitle(title string) string {
	title = strings.ReplaceAll(title, "›", " ")
	return strings.Join(strings.Fields(title), " ")
}
