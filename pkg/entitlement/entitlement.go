package entitlement

import (
	"time"

	"github.com/google/uuid"
)

// Entitlement is the mutable record of an account's spendable token balance
// and subscription plan. Each account has exactly one entitlement at a time.
type Entitlement struct {
	AccountID        uuid.UUID // primary key - one entitlement per account
	Tokens           int64
	MonthlyAllowance int64
	Plan             Plan
	PeriodStart      time.Time
	PeriodEnd        time.Time
	TokensResetAt    time.Time // next allowance grant; tracked separately from PeriodEnd
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsExpiredAt reports whether the billing period has lapsed at the given time.
func (e *Entitlement) IsExpiredAt(now time.Time) bool {
	return now.After(e.PeriodEnd)
}

// IsResetDueAt reports whether a renewal boundary has passed without the
// period itself expiring.
func (e *Entitlement) IsResetDueAt(now time.Time) bool {
	return now.After(e.TokensResetAt) && !e.IsExpiredAt(now)
}

// CanSpend reports whether the balance covers at least one token.
func (e *Entitlement) CanSpend() bool {
	return e.Tokens > 0
}

// newFreeTier returns an entitlement with free-tier defaults and a fresh
// one-month billing period starting at now.
func newFreeTier(accountID uuid.UUID, now time.Time) *Entitlement {
	periodEnd := now.AddDate(0, 1, 0)
	return &Entitlement{
		AccountID:        accountID,
		Tokens:           FreeTierAllowance,
		MonthlyAllowance: FreeTierAllowance,
		Plan:             PlanFree,
		PeriodStart:      now,
		PeriodEnd:        periodEnd,
		TokensResetAt:    periodEnd,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// resetToFreeTier overwrites plan state with free-tier defaults in place,
// keeping CreatedAt. Used for expiry and cancellation downgrades.
func (e *Entitlement) resetToFreeTier(now time.Time) {
	periodEnd := now.AddDate(0, 1, 0)
	e.Tokens = FreeTierAllowance
	e.MonthlyAllowance = FreeTierAllowance
	e.Plan = PlanFree
	e.PeriodStart = now
	e.PeriodEnd = periodEnd
	e.TokensResetAt = periodEnd
	e.UpdatedAt = now
}
