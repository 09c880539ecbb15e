package entitlement_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldkit/coldkit/pkg/entitlement"
)

// unreachableRedis returns a client whose every command fails, to prove
// the decorator degrades to the primary store when the cache is down.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCachedStoreDegradesWithoutRedis(t *testing.T) {
	t.Parallel()

	inner := entitlement.NewMemoryStore()
	store := entitlement.NewCachedStore(inner, unreachableRedis(t),
		entitlement.WithCacheTTL(time.Minute))
	accountID := uuid.New()

	now := time.Now().UTC()
	ent := &entitlement.Entitlement{
		AccountID:        accountID,
		Tokens:           3,
		MonthlyAllowance: 5,
		Plan:             entitlement.PlanFree,
		PeriodStart:      now,
		PeriodEnd:        now.AddDate(0, 1, 0),
		TokensResetAt:    now.AddDate(0, 1, 0),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, store.Create(context.Background(), ent))

	got, err := store.Get(context.Background(), accountID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.Tokens)

	spent, err := store.SpendToken(context.Background(), accountID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, spent.Tokens)

	got.Tokens = 1
	require.NoError(t, store.Update(context.Background(), got))

	again, err := store.Get(context.Background(), accountID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, again.Tokens)

	_, err = store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, entitlement.ErrEntitlementNotFound)
}

func TestCachedStoreRequiresDependencies(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		entitlement.NewCachedStore(nil, unreachableRedis(t))
	})
	assert.Panics(t, func() {
		entitlement.NewCachedStore(entitlement.NewMemoryStore(), nil)
	})
}
