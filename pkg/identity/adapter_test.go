package identity_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldkit/coldkit/pkg/entitlement"
	"github.com/coldkit/coldkit/pkg/identity"
	"github.com/coldkit/coldkit/pkg/profile"
	"github.com/coldkit/coldkit/pkg/storage"
)

func newTestDeps(t *testing.T) (entitlement.Service, profile.Service) {
	t.Helper()

	ents, err := entitlement.NewService(context.Background(),
		entitlement.NewInMemSource(nil), entitlement.NewMemoryStore())
	require.NoError(t, err)

	blobs, err := storage.NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	return ents, profile.NewService(profile.NewMemoryStore(), blobs)
}

func TestSignInProvisionsEntitlement(t *testing.T) {
	t.Parallel()

	ents, profiles := newTestDeps(t)
	provider := identity.NewMemoryProvider()

	adapter := identity.NewAdapter(provider, ents, profiles)
	require.NoError(t, adapter.Start(context.Background()))
	defer adapter.Stop()

	accountID := uuid.New()
	provider.SignIn(identity.Session{AccountID: accountID, Email: "a@example.com"})

	ent, err := ents.GetEntitlement(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, entitlement.PlanFree, ent.Plan)
	assert.EqualValues(t, entitlement.FreeTierAllowance, ent.Tokens)

	s, ok := adapter.Session()
	require.True(t, ok)
	assert.Equal(t, accountID, s.AccountID)

	got, err := adapter.AccountID()
	require.NoError(t, err)
	assert.Equal(t, accountID, got)
}

func TestSignInSignalsOnboarding(t *testing.T) {
	t.Parallel()

	t.Run("fires for accounts without a profile", func(t *testing.T) {
		t.Parallel()

		ents, profiles := newTestDeps(t)
		provider := identity.NewMemoryProvider()

		var signaled []uuid.UUID
		adapter := identity.NewAdapter(provider, ents, profiles,
			identity.WithOnboardingSignal(func(s identity.Session) {
				signaled = append(signaled, s.AccountID)
			}))
		require.NoError(t, adapter.Start(context.Background()))
		defer adapter.Stop()

		accountID := uuid.New()
		provider.SignIn(identity.Session{AccountID: accountID})

		require.Len(t, signaled, 1)
		assert.Equal(t, accountID, signaled[0])
	})

	t.Run("silent for accounts with a profile", func(t *testing.T) {
		t.Parallel()

		ents, profiles := newTestDeps(t)
		provider := identity.NewMemoryProvider()

		accountID := uuid.New()
		_, err := profiles.SaveAbout(context.Background(), accountID, "returning user")
		require.NoError(t, err)

		fired := false
		adapter := identity.NewAdapter(provider, ents, profiles,
			identity.WithOnboardingSignal(func(identity.Session) { fired = true }))
		require.NoError(t, adapter.Start(context.Background()))
		defer adapter.Stop()

		provider.SignIn(identity.Session{AccountID: accountID})
		assert.False(t, fired)
	})
}

func TestSignOutClearsSession(t *testing.T) {
	t.Parallel()

	ents, profiles := newTestDeps(t)
	provider := identity.NewMemoryProvider()

	adapter := identity.NewAdapter(provider, ents, profiles)
	require.NoError(t, adapter.Start(context.Background()))
	defer adapter.Stop()

	provider.SignIn(identity.Session{AccountID: uuid.New()})
	_, ok := adapter.Session()
	require.True(t, ok)

	provider.SignOut()
	_, ok = adapter.Session()
	assert.False(t, ok)

	_, err := adapter.AccountID()
	assert.ErrorIs(t, err, identity.ErrNoActiveSession)
}

func TestStartPicksUpExistingSession(t *testing.T) {
	t.Parallel()

	ents, profiles := newTestDeps(t)
	provider := identity.NewMemoryProvider()

	accountID := uuid.New()
	provider.SignIn(identity.Session{AccountID: accountID})

	adapter := identity.NewAdapter(provider, ents, profiles)
	require.NoError(t, adapter.Start(context.Background()))
	defer adapter.Stop()

	_, err := ents.GetEntitlement(context.Background(), accountID)
	require.NoError(t, err)

	got, err := adapter.AccountID()
	require.NoError(t, err)
	assert.Equal(t, accountID, got)
}

func TestIgnoresSessionWithoutAccountID(t *testing.T) {
	t.Parallel()

	ents, profiles := newTestDeps(t)
	provider := identity.NewMemoryProvider()

	adapter := identity.NewAdapter(provider, ents, profiles)
	require.NoError(t, adapter.Start(context.Background()))
	defer adapter.Stop()

	provider.SignIn(identity.Session{Email: "anonymous@example.com"})

	_, ok := adapter.Session()
	assert.False(t, ok)
}
