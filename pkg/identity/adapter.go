package identity

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/coldkit/coldkit/pkg/entitlement"
	"github.com/coldkit/coldkit/pkg/profile"
)

// OnboardingChecker reports whether an account still needs to complete
// onboarding. Satisfied by the profile service.
type OnboardingChecker interface {
	NeedsOnboarding(ctx context.Context, accountID uuid.UUID) bool
}

// Adapter bridges an external auth provider to the account packages.
// On sign-in it provisions the account's entitlement and checks whether
// profile onboarding is still pending; on sign-out it drops its cached
// session. All downstream calls carry the explicit account ID from the
// session, the adapter holds no ambient user state beyond the cache.
type Adapter struct {
	provider   Provider
	ents       entitlement.Service
	onboarding OnboardingChecker
	log        *slog.Logger

	onOnboardingNeeded func(Session)

	mu      sync.RWMutex
	session *Session

	unsubscribe func()
}

// AdapterOption configures the adapter.
type AdapterOption func(*Adapter)

// WithLogger sets the logger used by the adapter. Defaults to a
// discard logger.
func WithLogger(log *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		a.log = log
	}
}

// WithOnboardingSignal registers a callback invoked after sign-in when
// the account has no profile yet.
func WithOnboardingSignal(fn func(Session)) AdapterOption {
	return func(a *Adapter) {
		a.onOnboardingNeeded = fn
	}
}

// NewAdapter wires the auth provider to entitlement provisioning and
// the onboarding check. Panics if any dependency is nil.
func NewAdapter(provider Provider, ents entitlement.Service, onboarding OnboardingChecker, opts ...AdapterOption) *Adapter {
	if provider == nil {
		panic("identity: provider is required")
	}
	if ents == nil {
		panic("identity: entitlement service is required")
	}
	if onboarding == nil {
		panic("identity: onboarding checker is required")
	}

	a := &Adapter{
		provider:   provider,
		ents:       ents,
		onboarding: onboarding,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start subscribes to provider events and processes any already-active
// session. Call Stop to unsubscribe.
func (a *Adapter) Start(ctx context.Context) error {
	a.unsubscribe = a.provider.OnSessionChange(func(e Event) {
		a.handleEvent(ctx, e)
	})

	s, err := a.provider.CurrentSession(ctx)
	if err == nil && s != nil {
		a.handleEvent(ctx, Event{Type: EventSignedIn, Session: s})
	}
	return nil
}

// Stop unsubscribes from provider events.
func (a *Adapter) Stop() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// Session returns the cached session, or false when signed out.
func (a *Adapter) Session() (*Session, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.session == nil {
		return nil, false
	}
	s := *a.session
	return &s, true
}

// AccountID returns the signed-in account's ID, or ErrNoActiveSession.
func (a *Adapter) AccountID() (uuid.UUID, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.session == nil {
		return uuid.Nil, ErrNoActiveSession
	}
	return a.session.AccountID, nil
}

func (a *Adapter) handleEvent(ctx context.Context, e Event) {
	switch e.Type {
	case EventSignedIn:
		a.handleSignIn(ctx, e.Session)
	case EventSignedOut:
		a.mu.Lock()
		a.session = nil
		a.mu.Unlock()
	}
}

func (a *Adapter) handleSignIn(ctx context.Context, s *Session) {
	if s == nil || s.AccountID == uuid.Nil {
		a.log.WarnContext(ctx, "ignoring sign-in without account ID")
		return
	}

	a.mu.Lock()
	a.session = s
	a.mu.Unlock()

	if _, err := a.ents.EnsureEntitlement(ctx, s.AccountID); err != nil {
		a.log.ErrorContext(ctx, "failed to provision entitlement",
			slog.String("account_id", s.AccountID.String()),
			slog.Any("error", err))
	}

	if a.onboarding.NeedsOnboarding(ctx, s.AccountID) && a.onOnboardingNeeded != nil {
		a.onOnboardingNeeded(*s)
	}
}

// Compile-time interface assertion
var _ OnboardingChecker = (profile.Service)(nil)
