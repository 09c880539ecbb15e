package entitlement

import "github.com/google/uuid"

// EventStatus is the normalized subscription state carried by a billing event.
type EventStatus string

const (
	StatusActive    EventStatus = "active"
	StatusCancelled EventStatus = "cancelled"
	StatusUnknown   EventStatus = "unknown"
)

// SubscriptionEvent is the normalized shape of a billing-provider webhook.
// Translation from a specific provider's payload lives in the billing
// package; the service consumes only this form.
type SubscriptionEvent struct {
	AccountID uuid.UUID
	Plan      Plan
	Status    EventStatus
}
