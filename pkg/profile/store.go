package profile

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the persistence interface for profiles and document metadata.
type Store interface {
	// GetProfile retrieves the account's profile.
	// Returns ErrProfileNotFound if onboarding hasn't happened yet.
	GetProfile(ctx context.Context, accountID uuid.UUID) (*Profile, error)

	// SaveProfile creates or updates the account's profile.
	SaveProfile(ctx context.Context, p *Profile) error

	// AddDocument inserts a document metadata record.
	AddDocument(ctx context.Context, doc *UserDocument) error

	// ListDocuments returns the account's documents, newest first.
	ListDocuments(ctx context.Context, accountID uuid.UUID) ([]UserDocument, error)

	// DeleteDocument removes a document owned by the account.
	// Returns ErrDocumentNotFound when the document doesn't exist or belongs
	// to another account.
	DeleteDocument(ctx context.Context, accountID, docID uuid.UUID) (*UserDocument, error)
}
