package domain

import "errors"

var (
	// ErrPriceNotFound is returned when neither extraction path nor the
	// fallback table yields a price for the item
	ErrPriceNotFound = errors.New("no price found for item")

	// ErrSearchUnavailable is returned when the web search capability is
	// unreachable or not configured
	ErrSearchUnavailable = errors.New("web search unavailable")

	// ErrSearchTimeout is returned when the search deadline elapsed
	ErrSearchTimeout = errors.New("web search timed out")

	// ErrExtractionUnavailable is returned when the generative extraction
	// capability is unreachable or not configured
	ErrExtractionUnavailable = errors.New("semantic extraction unavailable")

	// ErrMalformedExtraction is returned when the semantic response is not
	// a valid JSON object matching the expected schema
	ErrMalformedExtraction = errors.New("malformed extraction response")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
