package identity

import "github.com/google/uuid"

// Session is the authenticated identity handed over by an external
// auth provider. Credential checks, OAuth flows and token refresh are
// the provider's business; this package only consumes the result.
type Session struct {
	AccountID uuid.UUID
	Email     string
	Metadata  map[string]string
}

// EventType classifies a session lifecycle change.
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// Event is a session lifecycle notification from the provider.
type Event struct {
	Type    EventType
	Session *Session
}
