package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/coldkit/coldkit/pkg/storage"
)

// Summarizer condenses a user's about text into a short summary suitable
// for prompt context. Typically backed by the same generative model that
// writes emails.
type Summarizer interface {
	Summarize(ctx context.Context, aboutText string) (string, error)
}

// Service manages onboarding profiles and uploaded document metadata.
type Service interface {
	GetProfile(ctx context.Context, accountID uuid.UUID) (*Profile, error)

	// NeedsOnboarding reports whether the account has no profile yet.
	// Errors are treated as "needs onboarding" since re-prompting is harmless.
	NeedsOnboarding(ctx context.Context, accountID uuid.UUID) bool

	// SaveAbout upserts the profile's about text and refreshes the derived
	// summary when a summarizer is configured. Summarizer failures degrade
	// to saving the raw text only.
	SaveAbout(ctx context.Context, accountID uuid.UUID, aboutText string) (*Profile, error)

	// AddDocument stores document content and records its metadata.
	AddDocument(ctx context.Context, accountID uuid.UUID, name, contentType string, sizeBytes int64, content io.Reader) (*UserDocument, error)

	ListDocuments(ctx context.Context, accountID uuid.UUID) ([]UserDocument, error)

	// DeleteDocument removes a document's metadata and content, enforcing
	// ownership.
	DeleteDocument(ctx context.Context, accountID, docID uuid.UUID) error
}

type service struct {
	store      Store
	blobs      storage.Storage
	summarizer Summarizer
	log        *slog.Logger
	now        func() time.Time
}

// Option configures the profile service.
type Option func(*service)

// WithSummarizer enables AI-derived summaries on profile updates.
func WithSummarizer(s Summarizer) Option {
	return func(svc *service) {
		svc.summarizer = s
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(svc *service) {
		if log != nil {
			svc.log = log
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(svc *service) {
		if now != nil {
			svc.now = now
		}
	}
}

// NewService creates a profile service. Panics if store or blob storage is
// nil to fail fast during initialization.
func NewService(store Store, blobs storage.Storage, opts ...Option) Service {
	if store == nil {
		panic("profile: Store is required")
	}
	if blobs == nil {
		panic("profile: blob storage is required")
	}

	svc := &service{
		store: store,
		blobs: blobs,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *service) GetProfile(ctx context.Context, accountID uuid.UUID) (*Profile, error) {
	if accountID == uuid.Nil {
		return nil, ErrMissingAccountID
	}
	return s.store.GetProfile(ctx, accountID)
}

func (s *service) NeedsOnboarding(ctx context.Context, accountID uuid.UUID) bool {
	if accountID == uuid.Nil {
		return false
	}
	_, err := s.store.GetProfile(ctx, accountID)
	return err != nil
}

func (s *service) SaveAbout(ctx context.Context, accountID uuid.UUID, aboutText string) (*Profile, error) {
	if accountID == uuid.Nil {
		return nil, ErrMissingAccountID
	}
	if aboutText == "" {
		return nil, ErrEmptyAboutText
	}

	p := &Profile{
		AccountID: accountID,
		AboutText: aboutText,
		UpdatedAt: s.now(),
	}

	if s.summarizer != nil {
		summary, err := s.summarizer.Summarize(ctx, aboutText)
		if err != nil {
			s.log.WarnContext(ctx, "profile summarization failed, saving raw text",
				slog.String("account_id", accountID.String()),
				slog.Any("error", err))
		} else {
			p.Summary = summary
		}
	}

	if err := s.store.SaveProfile(ctx, p); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return p, nil
}

func (s *service) AddDocument(ctx context.Context, accountID uuid.UUID, name, contentType string, sizeBytes int64, content io.Reader) (*UserDocument, error) {
	if accountID == uuid.Nil {
		return nil, ErrMissingAccountID
	}
	if content == nil || sizeBytes <= 0 {
		return nil, ErrEmptyDocument
	}

	doc := &UserDocument{
		ID:          uuid.New(),
		AccountID:   accountID,
		Name:        name,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		CreatedAt:   s.now(),
	}
	doc.StorageKey = accountID.String() + "/" + doc.ID.String()

	if err := s.blobs.Save(ctx, doc.StorageKey, contentType, content); err != nil {
		return nil, err
	}

	if err := s.store.AddDocument(ctx, doc); err != nil {
		// Don't leave orphaned blobs behind a failed metadata insert.
		_ = s.blobs.Delete(ctx, doc.StorageKey)
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return doc, nil
}

func (s *service) ListDocuments(ctx context.Context, accountID uuid.UUID) ([]UserDocument, error) {
	if accountID == uuid.Nil {
		return nil, ErrMissingAccountID
	}
	return s.store.ListDocuments(ctx, accountID)
}

func (s *service) DeleteDocument(ctx context.Context, accountID, docID uuid.UUID) error {
	if accountID == uuid.Nil {
		return ErrMissingAccountID
	}

	doc, err := s.store.DeleteDocument(ctx, accountID, docID)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, doc.StorageKey); err != nil {
		// Metadata is gone; an orphaned blob is recoverable by a cleanup job.
		s.log.WarnContext(ctx, "failed to delete document content",
			slog.String("storage_key", doc.StorageKey),
			slog.Any("error", err))
	}
	return nil
}

// Compile-time interface assertion
var _ Service = (*service)(nil)
