// Package billing bridges hosted checkout providers and the entitlement
// service.
//
// Token refills are bought through a provider's hosted checkout page;
// the provider later reports subscription changes through webhooks. This
// package builds the checkout links (carrying the account ID as custom
// data) and translates verified webhook payloads into the normalized
// entitlement.SubscriptionEvent shape. Signature verification happens here,
// at the trust boundary: the entitlement service applies plan changes
// without any further payment verification of its own.
//
// Two providers are included: Lemon Squeezy (static buy links plus
// HMAC-SHA256 webhook signatures, no API client needed) and Paddle (catalog
// transactions through the official SDK).
//
// # Usage
//
//	provider, err := billing.NewLemonSqueezyProvider(cfg)
//	if err != nil {
//		// handle error
//	}
//
//	// Send the user to checkout.
//	link, err := provider.CheckoutURL(ctx, entitlement.PlanPro, accountID)
//
//	// In the webhook handler: verify, normalize, apply. Webhooks are
//	// fire-and-forget, so log and drop invalid events instead of failing
//	// the request.
//	event, err := provider.ParseWebhook(ctx, body, r.Header.Get("X-Signature"))
//	if err != nil {
//		log.WarnContext(ctx, "dropping webhook", slog.Any("error", err))
//		return
//	}
//	if err := svc.ApplySubscriptionEvent(ctx, *event); err != nil {
//		log.ErrorContext(ctx, "failed to apply event", slog.Any("error", err))
//	}
package billing
