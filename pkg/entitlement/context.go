package entitlement

import (
	"context"

	"github.com/google/uuid"
)

type accountIDCtxKey struct{}

// SetAccountIDToContext stores the account ID for downstream request layers.
// Service operations never read it implicitly; the account ID is always an
// explicit parameter.
func SetAccountIDToContext(ctx context.Context, accountID uuid.UUID) context.Context {
	return context.WithValue(ctx, accountIDCtxKey{}, accountID)
}

// GetAccountIDFromContext retrieves the account ID placed by a request layer.
func GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	accountID, ok := ctx.Value(accountIDCtxKey{}).(uuid.UUID)
	return accountID, ok
}
