package entitlement

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the interface for entitlement persistence.
// Each account has exactly one entitlement, so AccountID serves as the
// primary key.
type Store interface {
	// Get retrieves an entitlement by account ID.
	// Returns ErrEntitlementNotFound if none exists.
	Get(ctx context.Context, accountID uuid.UUID) (*Entitlement, error)

	// Create inserts a new entitlement.
	// Returns ErrEntitlementAlreadyExists if the account already has one,
	// so racing creators can treat the violation as "already exists, re-fetch".
	Create(ctx context.Context, ent *Entitlement) error

	// Update overwrites an existing entitlement by account ID.
	Update(ctx context.Context, ent *Entitlement) error

	// SpendToken atomically decrements the balance by one where tokens > 0
	// and returns the updated row. Returns ErrInsufficientBalance when the
	// condition does not hold, ErrEntitlementNotFound when no row exists.
	// Pushing the conditional update into the store keeps concurrent spends
	// from losing decrements.
	SpendToken(ctx context.Context, accountID uuid.UUID) (*Entitlement, error)
}
