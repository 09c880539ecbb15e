package entitlement

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 5 * time.Minute

// CachedStore decorates a Store with a redis read-through cache so repeated
// balance reads between spends skip the primary store. Every write path
// refreshes the cached view, keeping subsequent reads consistent without
// re-querying.
type CachedStore struct {
	inner Store
	rdb   redis.UniversalClient
	ttl   time.Duration
}

// CacheOption configures a CachedStore.
type CacheOption func(*CachedStore)

// WithCacheTTL sets how long a cached entitlement stays fresh.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(s *CachedStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewCachedStore wraps a Store with a redis cache.
func NewCachedStore(inner Store, rdb redis.UniversalClient, opts ...CacheOption) *CachedStore {
	if inner == nil {
		panic("entitlement: inner store is required")
	}
	if rdb == nil {
		panic("entitlement: redis client is required")
	}

	s := &CachedStore{
		inner: inner,
		rdb:   rdb,
		ttl:   defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func cacheKey(accountID uuid.UUID) string {
	return "entitlement:" + accountID.String()
}

func (s *CachedStore) Get(ctx context.Context, accountID uuid.UUID) (*Entitlement, error) {
	raw, err := s.rdb.Get(ctx, cacheKey(accountID)).Bytes()
	if err == nil {
		var ent Entitlement
		if jsonErr := json.Unmarshal(raw, &ent); jsonErr == nil {
			return &ent, nil
		}
		// Corrupt cache entry; fall through to the primary store.
	} else if !errors.Is(err, redis.Nil) && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	ent, err := s.inner.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	s.cache(ctx, ent)
	return ent, nil
}

func (s *CachedStore) Create(ctx context.Context, ent *Entitlement) error {
	if err := s.inner.Create(ctx, ent); err != nil {
		return err
	}
	s.cache(ctx, ent)
	return nil
}

func (s *CachedStore) Update(ctx context.Context, ent *Entitlement) error {
	if err := s.inner.Update(ctx, ent); err != nil {
		// The cached copy may now be stale relative to the failed intent.
		s.invalidate(ctx, ent.AccountID)
		return err
	}
	s.cache(ctx, ent)
	return nil
}

func (s *CachedStore) SpendToken(ctx context.Context, accountID uuid.UUID) (*Entitlement, error) {
	ent, err := s.inner.SpendToken(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrInsufficientBalance) {
			s.invalidate(ctx, accountID)
		}
		return nil, err
	}
	s.cache(ctx, ent)
	return ent, nil
}

// cache refreshes the cached view. Cache write failures are swallowed: the
// primary store already holds the truth and the next read repopulates.
func (s *CachedStore) cache(ctx context.Context, ent *Entitlement) {
	raw, err := json.Marshal(ent)
	if err != nil {
		return
	}
	_ = s.rdb.Set(ctx, cacheKey(ent.AccountID), raw, s.ttl).Err()
}

func (s *CachedStore) invalidate(ctx context.Context, accountID uuid.UUID) {
	_ = s.rdb.Del(ctx, cacheKey(accountID)).Err()
}

// Compile-time interface assertion
var _ Store = (*CachedStore)(nil)
