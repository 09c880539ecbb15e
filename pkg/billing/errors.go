package billing

import "errors"

var (
	ErrMissingCheckoutURL      = errors.New("checkout URL is not configured for plan")
	ErrMissingSigningSecret    = errors.New("webhook signing secret is required")
	ErrMissingAPIKey           = errors.New("billing provider API key is required")
	ErrMissingPriceID          = errors.New("billing provider price ID is not configured for plan")
	ErrInvalidEnvironment      = errors.New("invalid billing provider environment")
	ErrPlanNotPurchasable      = errors.New("plan cannot be checked out")
	ErrSignatureVerification   = errors.New("webhook signature verification failed")
	ErrInvalidWebhookPayload   = errors.New("invalid webhook payload")
	ErrMissingWebhookAccountID = errors.New("webhook payload has no account ID")
	ErrNoCheckoutURL           = errors.New("no checkout URL returned from provider")
	ErrFailedToCreateCheckout  = errors.New("failed to create checkout session")
)
