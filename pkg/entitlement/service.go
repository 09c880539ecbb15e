package entitlement

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Service is the single source of truth for "may this account perform a
// token-costing action right now, and what happens if it does".
type Service interface {
	// EnsureEntitlement returns the account's entitlement, creating one with
	// free-tier defaults if absent. Idempotent under concurrent callers.
	EnsureEntitlement(ctx context.Context, accountID uuid.UUID) (*Entitlement, error)

	// GetEntitlement retrieves the account's entitlement without side effects.
	GetEntitlement(ctx context.Context, accountID uuid.UUID) (*Entitlement, error)

	// SpendToken attempts to consume exactly one token. The boolean result is
	// what gating callers act on; the error classifies refusals
	// (ErrInsufficientBalance, ErrPlanExpired, ErrEntitlementNotFound) and
	// surfaces store failures.
	SpendToken(ctx context.Context, accountID uuid.UUID) (bool, error)

	// GrantPlan activates a purchasable plan, fully overwriting the prior
	// balance and period. Payment verification is the caller's responsibility.
	GrantPlan(ctx context.Context, accountID uuid.UUID, plan Plan) (*Entitlement, error)

	// ApplySubscriptionEvent mutates plan state from a normalized billing
	// event. Unrecognized statuses are a no-op, not an error.
	ApplySubscriptionEvent(ctx context.Context, event SubscriptionEvent) error
}

// CatalogSource defines how the plan allowance table is loaded.
type CatalogSource interface {
	Load(ctx context.Context) (Catalog, error)
}

type service struct {
	catalog Catalog
	store   Store
	log     *slog.Logger
	now     func() time.Time
}

// NewService creates a Service backed by the given store and plan catalog.
// Panics if required dependencies are nil to fail fast during initialization.
func NewService(ctx context.Context, src CatalogSource, store Store, opts ...ServiceOption) (Service, error) {
	if src == nil {
		panic("entitlement: CatalogSource is required")
	}
	if store == nil {
		panic("entitlement: Store is required")
	}

	catalog, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}
	if err := validateCatalog(catalog); err != nil {
		return nil, err
	}

	s := &service{
		catalog: catalog,
		store:   store,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *service) EnsureEntitlement(ctx context.Context, accountID uuid.UUID) (*Entitlement, error) {
	if accountID == uuid.Nil {
		return nil, ErrMissingAccountID
	}

	ent, err := s.store.Get(ctx, accountID)
	if err == nil {
		return ent, nil
	}
	if !errors.Is(err, ErrEntitlementNotFound) {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	ent = newFreeTier(accountID, s.now())
	if err := s.store.Create(ctx, ent); err != nil {
		// A concurrent caller won the race; their record is authoritative.
		if errors.Is(err, ErrEntitlementAlreadyExists) {
			existing, getErr := s.store.Get(ctx, accountID)
			if getErr != nil {
				return nil, errors.Join(ErrStoreUnavailable, getErr)
			}
			return existing, nil
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	s.log.InfoContext(ctx, "entitlement created",
		slog.String("account_id", accountID.String()),
		slog.String("plan", string(ent.Plan)))

	return ent, nil
}

func (s *service) GetEntitlement(ctx context.Context, accountID uuid.UUID) (*Entitlement, error) {
	if accountID == uuid.Nil {
		return nil, ErrMissingAccountID
	}
	return s.store.Get(ctx, accountID)
}

// SpendToken preconditions are checked in a fixed order: expiry first, then
// the renewal boundary, then the balance. The expiry downgrade rejects the
// triggering spend so the caller re-reads the downgraded balance before
// retrying; the renewal reset refreshes the allowance and then charges the
// request like any other.
func (s *service) SpendToken(ctx context.Context, accountID uuid.UUID) (bool, error) {
	if accountID == uuid.Nil {
		return false, ErrMissingAccountID
	}

	ent, err := s.store.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrEntitlementNotFound) {
			return false, ErrEntitlementNotFound
		}
		return false, errors.Join(ErrStoreUnavailable, err)
	}

	now := s.now()

	if ent.IsExpiredAt(now) {
		ent.resetToFreeTier(now)
		if err := s.store.Update(ctx, ent); err != nil {
			return false, errors.Join(ErrStoreUnavailable, err)
		}
		s.log.InfoContext(ctx, "entitlement expired, downgraded to free tier",
			slog.String("account_id", accountID.String()))
		return false, ErrPlanExpired
	}

	if ent.IsResetDueAt(now) {
		ent.Tokens = ent.MonthlyAllowance
		ent.TokensResetAt = ent.TokensResetAt.AddDate(0, 1, 0)
		ent.UpdatedAt = now
		if err := s.store.Update(ctx, ent); err != nil {
			return false, errors.Join(ErrStoreUnavailable, err)
		}
		s.log.InfoContext(ctx, "token allowance reset",
			slog.String("account_id", accountID.String()),
			slog.Int64("tokens", ent.Tokens))
		// Fall through: the refreshed balance still pays for this request.
	}

	if !ent.CanSpend() {
		return false, ErrInsufficientBalance
	}

	if _, err := s.store.SpendToken(ctx, accountID); err != nil {
		if errors.Is(err, ErrInsufficientBalance) {
			// A concurrent spend drained the balance between read and decrement.
			return false, ErrInsufficientBalance
		}
		if errors.Is(err, ErrEntitlementNotFound) {
			return false, ErrEntitlementNotFound
		}
		return false, errors.Join(ErrStoreUnavailable, err)
	}

	return true, nil
}

func (s *service) GrantPlan(ctx context.Context, accountID uuid.UUID, plan Plan) (*Entitlement, error) {
	if accountID == uuid.Nil {
		return nil, ErrMissingAccountID
	}
	if !plan.IsPaid() {
		return nil, fmt.Errorf("%w: %q", ErrPlanNotPurchasable, plan)
	}

	allowance, err := s.catalog.Allowance(plan)
	if err != nil {
		return nil, err
	}

	ent, err := s.EnsureEntitlement(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// Full overwrite, no carry-over of unused tokens from the prior plan.
	now := s.now()
	periodEnd := now.AddDate(0, 1, 0)
	ent.Tokens = allowance
	ent.MonthlyAllowance = allowance
	ent.Plan = plan
	ent.PeriodStart = now
	ent.PeriodEnd = periodEnd
	ent.TokensResetAt = periodEnd
	ent.UpdatedAt = now

	if err := s.store.Update(ctx, ent); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	s.log.InfoContext(ctx, "plan granted",
		slog.String("account_id", accountID.String()),
		slog.String("plan", string(plan)),
		slog.Int64("tokens", allowance))

	return ent, nil
}

func (s *service) ApplySubscriptionEvent(ctx context.Context, event SubscriptionEvent) error {
	if event.AccountID == uuid.Nil {
		return ErrMissingAccountID
	}

	switch event.Status {
	case StatusActive:
		_, err := s.GrantPlan(ctx, event.AccountID, event.Plan)
		return err

	case StatusCancelled:
		ent, err := s.EnsureEntitlement(ctx, event.AccountID)
		if err != nil {
			return err
		}
		ent.resetToFreeTier(s.now())
		if err := s.store.Update(ctx, ent); err != nil {
			return errors.Join(ErrStoreUnavailable, err)
		}
		s.log.InfoContext(ctx, "subscription cancelled, downgraded to free tier",
			slog.String("account_id", event.AccountID.String()))
		return nil

	default:
		// Forward compatibility: event types this version doesn't act on.
		s.log.DebugContext(ctx, "ignoring subscription event",
			slog.String("account_id", event.AccountID.String()),
			slog.String("status", string(event.Status)))
		return nil
	}
}

// Compile-time interface assertion
var _ Service = (*service)(nil)
