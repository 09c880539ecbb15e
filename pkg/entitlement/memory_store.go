package entitlement

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store implementation.
// Safe for concurrent use; intended for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Entitlement
}

// NewMemoryStore creates an empty in-memory entitlement store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uuid.UUID]Entitlement),
	}
}

func (s *MemoryStore) Get(ctx context.Context, accountID uuid.UUID) (*Entitlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ent, ok := s.records[accountID]
	if !ok {
		return nil, ErrEntitlementNotFound
	}
	return &ent, nil
}

func (s *MemoryStore) Create(ctx context.Context, ent *Entitlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[ent.AccountID]; exists {
		return ErrEntitlementAlreadyExists
	}
	s.records[ent.AccountID] = *ent
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, ent *Entitlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[ent.AccountID]; !exists {
		return ErrEntitlementNotFound
	}
	s.records[ent.AccountID] = *ent
	return nil
}

// SpendToken decrements under the store lock, mirroring the conditional
// single-row update a SQL backend performs.
func (s *MemoryStore) SpendToken(ctx context.Context, accountID uuid.UUID) (*Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.records[accountID]
	if !ok {
		return nil, ErrEntitlementNotFound
	}
	if ent.Tokens <= 0 {
		return nil, ErrInsufficientBalance
	}

	ent.Tokens--
	s.records[accountID] = ent
	return &ent, nil
}

// Compile-time interface assertion
var _ Store = (*MemoryStore)(nil)
