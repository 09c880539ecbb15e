// Package entitlement manages metered token balances and subscription plan
// state for accounts in an AI email-generation SaaS.
//
// Every account owns exactly one Entitlement record tracking its spendable
// token balance, monthly allowance, plan tier, and billing period timing.
// The Service is the single source of truth for whether an account may
// perform a token-costing action and what happens when it does: balances
// decrement one token per action, allowances replenish at renewal
// boundaries, and lapsed paid plans downgrade to the free tier.
//
// # Architecture
//
//   - Service: entitlement operations (ensure, spend, grant, apply events)
//   - Store: persistence interface with memory, postgres, and cached impls
//   - Catalog / CatalogSource: plan allowance table and its loaders
//   - SubscriptionEvent: normalized billing webhook shape consumed by
//     ApplySubscriptionEvent
//
// Account identity always travels as an explicit parameter. The context
// helpers exist for request plumbing only; no operation reads ambient
// session state.
//
// # Spend Semantics
//
// SpendToken checks preconditions in a fixed order: period expiry (downgrade
// to free tier, reject the triggering spend), renewal boundary (reset the
// balance to the monthly allowance, then charge the request normally),
// then balance. The decrement itself is a single conditional update inside
// the store ("decrement where tokens > 0, return the new row"), so two
// concurrent generation requests can never spend the same token twice.
//
// # Quick Start
//
//	store := entitlement.NewMemoryStore()
//	svc, err := entitlement.NewService(ctx, entitlement.NewInMemSource(nil), store)
//	if err != nil {
//		// handle error
//	}
//
//	ent, err := svc.EnsureEntitlement(ctx, accountID)
//	if err != nil {
//		// handle error
//	}
//
//	ok, err := svc.SpendToken(ctx, accountID)
//	if !ok {
//		// render the refusal: errors.Is(err, entitlement.ErrInsufficientBalance) etc.
//	}
//
// Paid plans are activated either directly after a confirmed purchase or by
// a normalized billing event:
//
//	_, err = svc.GrantPlan(ctx, accountID, entitlement.PlanPro)
//
//	err = svc.ApplySubscriptionEvent(ctx, entitlement.SubscriptionEvent{
//		AccountID: accountID,
//		Plan:      entitlement.PlanBasic,
//		Status:    entitlement.StatusActive,
//	})
//
// GrantPlan performs no payment verification; callers must invoke it only
// after the billing layer has confirmed payment or verified a webhook
// signature.
//
// # Persistence
//
// PostgresStore relies on the entitlements table's primary key for create
// idempotence (concurrent EnsureEntitlement callers race safely) and on a
// conditional UPDATE ... RETURNING for the decrement. CachedStore layers a
// redis read-through cache over any Store, refreshed on every write path.
package entitlement
