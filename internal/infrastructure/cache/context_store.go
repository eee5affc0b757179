package cache

import (
	"context"
	"errors"
	"time"

	"github.com/pricescout/backend/internal/domain"
)

// contextTTL bounds how long a user's "last searched item" memory is kept.
const contextTTL = 24 * time.Hour

// UserContextStore keeps the latest item/price pair per user on top of the
// in-memory cache. It exists so follow-up flows ("buy it") can be handed the
// context explicitly instead of reading ambient state.
type UserContextStore struct {
	cache *MemoryCache
}

// NewUserContextStore creates a context store backed by the given cache.
func NewUserContextStore(cache *MemoryCache) *UserContextStore {
	return &UserContextStore{cache: cache}
}

// SetContext stores the user's latest searched item and price range.
func (s *UserContextStore) SetContext(ctx context.Context, userID string, pc *domain.PriceContext) error {
	if userID == "" || pc == nil {
		return domain.ErrInvalidRequest
	}
	return s.cache.Set(ctx, contextKey(userID), pc, contextTTL)
}

// GetContext retrieves the user's latest searched item, or ErrCacheMiss.
func (s *UserContextStore) GetContext(ctx context.Context, userID string) (*domain.PriceContext, error) {
	if userID == "" {
		return nil, domain.ErrInvalidRequest
	}
	value, err := s.cache.Get(ctx, contextKey(userID))
	if err != nil {
		return nil, err
	}
	pc, ok := value.(*domain.PriceContext)
	if !ok {
		return nil, errors.New("unexpected value type in context store")
	}
	return pc, nil
}

func contextKey(userID string) string {
	return "context:" + userID
}
