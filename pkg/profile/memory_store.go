package profile

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store implementation for tests and local
// development. Safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	profiles  map[uuid.UUID]Profile
	documents map[uuid.UUID]UserDocument
}

// NewMemoryStore creates an empty in-memory profile store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:  make(map[uuid.UUID]Profile),
		documents: make(map[uuid.UUID]UserDocument),
	}
}

func (s *MemoryStore) GetProfile(ctx context.Context, accountID uuid.UUID) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[accountID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

func (s *MemoryStore) SaveProfile(ctx context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[p.AccountID] = *p
	return nil
}

func (s *MemoryStore) AddDocument(ctx context.Context, doc *UserDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[doc.ID] = *doc
	return nil
}

func (s *MemoryStore) ListDocuments(ctx context.Context, accountID uuid.UUID) ([]UserDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []UserDocument
	for _, doc := range s.documents {
		if doc.AccountID == accountID {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

func (s *MemoryStore) DeleteDocument(ctx context.Context, accountID, docID uuid.UUID) (*UserDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[docID]
	if !ok || doc.AccountID != accountID {
		return nil, ErrDocumentNotFound
	}
	delete(s.documents, docID)
	return &doc, nil
}

// Compile-time interface assertion
var _ Store = (*MemoryStore)(nil)
