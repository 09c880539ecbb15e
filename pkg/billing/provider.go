package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/coldkit/coldkit/pkg/entitlement"
)

// Provider defines the minimal interface for checkout-provider integrations.
// Providers handle all payment complexity through hosted checkouts; this
// package only builds checkout links and translates webhook payloads into
// the normalized event shape the entitlement service consumes.
//
// ParseWebhook must verify payload authenticity before returning an event:
// plan changes are applied downstream without further payment verification,
// so the signature check here is the trust boundary.
type Provider interface {
	// CheckoutURL returns a hosted checkout link for a purchasable plan,
	// carrying the account ID as custom data so the resulting webhook can be
	// attributed.
	CheckoutURL(ctx context.Context, plan entitlement.Plan, accountID uuid.UUID) (string, error)

	// ParseWebhook verifies and normalizes an incoming webhook payload.
	// Events the integration doesn't act on come back with StatusUnknown
	// rather than an error.
	ParseWebhook(ctx context.Context, payload []byte, signature string) (*entitlement.SubscriptionEvent, error)
}
