package profile_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldkit/coldkit/pkg/profile"
)

func TestMemoryStoreProfiles(t *testing.T) {
	t.Parallel()

	store := profile.NewMemoryStore()
	accountID := uuid.New()

	_, err := store.GetProfile(context.Background(), accountID)
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)

	p := &profile.Profile{AccountID: accountID, AboutText: "hello", UpdatedAt: time.Now().UTC()}
	require.NoError(t, store.SaveProfile(context.Background(), p))

	got, err := store.GetProfile(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.AboutText)

	// Mutating the returned copy must not affect the stored value.
	got.AboutText = "mutated"
	again, err := store.GetProfile(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, "hello", again.AboutText)
}

func TestMemoryStoreDocuments(t *testing.T) {
	t.Parallel()

	store := profile.NewMemoryStore()
	accountID := uuid.New()
	base := time.Now().UTC()

	older := &profile.UserDocument{
		ID: uuid.New(), AccountID: accountID, Name: "older.pdf",
		StorageKey: "k1", CreatedAt: base.Add(-time.Hour),
	}
	newer := &profile.UserDocument{
		ID: uuid.New(), AccountID: accountID, Name: "newer.pdf",
		StorageKey: "k2", CreatedAt: base,
	}
	require.NoError(t, store.AddDocument(context.Background(), older))
	require.NoError(t, store.AddDocument(context.Background(), newer))

	docs, err := store.ListDocuments(context.Background(), accountID)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "newer.pdf", docs[0].Name)
	assert.Equal(t, "older.pdf", docs[1].Name)

	// Other accounts see nothing and cannot delete.
	other := uuid.New()
	docs, err = store.ListDocuments(context.Background(), other)
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = store.DeleteDocument(context.Background(), other, older.ID)
	assert.ErrorIs(t, err, profile.ErrDocumentNotFound)

	deleted, err := store.DeleteDocument(context.Background(), accountID, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "k1", deleted.StorageKey)

	docs, err = store.ListDocuments(context.Background(), accountID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, newer.ID, docs[0].ID)
}
