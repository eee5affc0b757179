package domain

import (
	"context"
	"time"
)

// SearchClient defines the interface to the external web search capability.
// Search returns the provider's raw multi-source text for the query; the
// adapter downstream turns it into SearchResults.
type SearchClient interface {
	Search(ctx context.Context, query string, limit int, includeContent bool) (string, error)
	Available() bool
}

// ChatCompleter defines the interface to the external generative-text
// capability: one system + user exchange, returning the raw assistant text.
type ChatCompleter interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Available() bool
}

// EstimateTable defines the read-only static fallback price table.
type EstimateTable interface {
	Lookup(itemName string) (keyword string, estimate EstimateRange, found bool)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ContextStore retains the latest item/price pair per user for follow-up
// flows. Implementations must be safe for concurrent use.
type ContextStore interface {
	SetContext(ctx context.Context, userID string, pc *PriceContext) error
	GetContext(ctx context.Context, userID string) (*PriceContext, error)
}
