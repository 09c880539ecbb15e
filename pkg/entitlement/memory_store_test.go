package entitlement_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldkit/coldkit/pkg/entitlement"
)

func seedEntitlement(t *testing.T, store *entitlement.MemoryStore, tokens int64) uuid.UUID {
	t.Helper()

	now := time.Now().UTC()
	accountID := uuid.New()
	require.NoError(t, store.Create(context.Background(), &entitlement.Entitlement{
		AccountID:        accountID,
		Tokens:           tokens,
		MonthlyAllowance: 5,
		Plan:             entitlement.PlanFree,
		PeriodStart:      now,
		PeriodEnd:        now.AddDate(0, 1, 0),
		TokensResetAt:    now.AddDate(0, 1, 0),
		CreatedAt:        now,
		UpdatedAt:        now,
	}))
	return accountID
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	t.Run("get missing returns not found", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		_, err := store.Get(context.Background(), uuid.New())
		assert.ErrorIs(t, err, entitlement.ErrEntitlementNotFound)
	})

	t.Run("create rejects duplicates", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		accountID := seedEntitlement(t, store, 5)

		err := store.Create(context.Background(), &entitlement.Entitlement{AccountID: accountID})
		assert.ErrorIs(t, err, entitlement.ErrEntitlementAlreadyExists)
	})

	t.Run("update missing returns not found", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		err := store.Update(context.Background(), &entitlement.Entitlement{AccountID: uuid.New()})
		assert.ErrorIs(t, err, entitlement.ErrEntitlementNotFound)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		accountID := seedEntitlement(t, store, 5)

		ent, err := store.Get(context.Background(), accountID)
		require.NoError(t, err)
		ent.Tokens = 999

		again, err := store.Get(context.Background(), accountID)
		require.NoError(t, err)
		assert.EqualValues(t, 5, again.Tokens)
	})
}

func TestMemoryStoreSpendToken(t *testing.T) {
	t.Parallel()

	t.Run("decrements and returns updated row", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		accountID := seedEntitlement(t, store, 2)

		ent, err := store.SpendToken(context.Background(), accountID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, ent.Tokens)
	})

	t.Run("refuses at zero balance", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		accountID := seedEntitlement(t, store, 0)

		_, err := store.SpendToken(context.Background(), accountID)
		assert.ErrorIs(t, err, entitlement.ErrInsufficientBalance)
	})

	t.Run("missing account returns not found", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		_, err := store.SpendToken(context.Background(), uuid.New())
		assert.ErrorIs(t, err, entitlement.ErrEntitlementNotFound)
	})

	t.Run("never drives tokens below zero under contention", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		accountID := seedEntitlement(t, store, 5)

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = store.SpendToken(context.Background(), accountID)
			}()
		}
		wg.Wait()

		ent, err := store.Get(context.Background(), accountID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, ent.Tokens)
	})
}
