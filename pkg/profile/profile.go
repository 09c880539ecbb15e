package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the free-text background a user provides during onboarding
// and the AI-derived summary used to personalize generated emails.
// One-to-one with an account; may be absent until onboarding completes.
type Profile struct {
	AccountID uuid.UUID // primary key - one profile per account
	AboutText string
	Summary   string // derived from AboutText, may lag behind it
	UpdatedAt time.Time
}

// UserDocument is the metadata record of an uploaded attachment.
// Content bytes live in a storage backend under StorageKey; this record
// only describes them. Zero or many per account, individually deletable.
type UserDocument struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Name        string
	ContentType string
	SizeBytes   int64
	StorageKey  string
	CreatedAt   time.Time
}
