package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/coldkit/coldkit/pkg/entitlement"
)

// LemonSqueezyConfig holds configuration for the Lemon Squeezy provider.
// Checkout URLs are the hosted buy links of the store's plan variants.
type LemonSqueezyConfig struct {
	BasicCheckoutURL string `env:"LEMON_BASIC_URL,required"`
	ProCheckoutURL   string `env:"LEMON_PRO_URL,required"`
	SigningSecret    string `env:"LEMON_WEBHOOK_SECRET,required"`
}

// LemonSqueezyProvider implements Provider for Lemon Squeezy hosted checkouts.
// It needs no API client: checkout links are static store URLs decorated with
// custom data, and webhooks are authenticated with an HMAC-SHA256 signature.
type LemonSqueezyProvider struct {
	config LemonSqueezyConfig
}

// NewLemonSqueezyProvider creates a Lemon Squeezy billing provider.
func NewLemonSqueezyProvider(config LemonSqueezyConfig) (*LemonSqueezyProvider, error) {
	if config.SigningSecret == "" {
		return nil, ErrMissingSigningSecret
	}
	if config.BasicCheckoutURL == "" || config.ProCheckoutURL == "" {
		return nil, ErrMissingCheckoutURL
	}
	return &LemonSqueezyProvider{config: config}, nil
}

// CheckoutURL decorates the plan's hosted buy link with the account ID and
// plan as checkout custom data, which Lemon Squeezy echoes back in webhook
// payloads under meta.custom_data.
func (p *LemonSqueezyProvider) CheckoutURL(ctx context.Context, plan entitlement.Plan, accountID uuid.UUID) (string, error) {
	var base string
	switch plan {
	case entitlement.PlanBasic:
		base = p.config.BasicCheckoutURL
	case entitlement.PlanPro:
		base = p.config.ProCheckoutURL
	default:
		return "", fmt.Errorf("%w: %q", ErrPlanNotPurchasable, plan)
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingCheckoutURL, err)
	}

	q := u.Query()
	q.Set("checkout[custom][user_id]", accountID.String())
	q.Set("checkout[custom][plan]", string(plan))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// lemonEvent mirrors the subset of the Lemon Squeezy webhook payload the
// integration consumes.
type lemonEvent struct {
	Meta struct {
		EventName  string `json:"event_name"`
		CustomData struct {
			UserID string `json:"user_id"`
			Plan   string `json:"plan"`
		} `json:"custom_data"`
	} `json:"meta"`
	Data struct {
		Attributes struct {
			Status string `json:"status"`
		} `json:"attributes"`
	} `json:"data"`
}

// ParseWebhook verifies the X-Signature header (hex HMAC-SHA256 of the raw
// body) and normalizes the event. Event names this integration doesn't act
// on produce StatusUnknown, not an error.
func (p *LemonSqueezyProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (*entitlement.SubscriptionEvent, error) {
	if err := p.verifySignature(payload, signature); err != nil {
		return nil, err
	}

	var raw lemonEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, errors.Join(ErrInvalidWebhookPayload, err)
	}

	accountID, err := uuid.Parse(raw.Meta.CustomData.UserID)
	if err != nil {
		return nil, errors.Join(ErrMissingWebhookAccountID, err)
	}

	event := &entitlement.SubscriptionEvent{
		AccountID: accountID,
		Status:    entitlement.StatusUnknown,
	}

	if plan, err := entitlement.ParsePlan(raw.Meta.CustomData.Plan); err == nil {
		event.Plan = plan
	} else {
		// Older checkout links omit the plan; the store configured basic as
		// the default variant.
		event.Plan = entitlement.PlanBasic
	}

	switch raw.Meta.EventName {
	case "subscription_created":
		event.Status = entitlement.StatusActive
	case "subscription_updated":
		event.Status = mapLemonStatus(raw.Data.Attributes.Status)
	case "subscription_cancelled", "subscription_expired":
		event.Status = entitlement.StatusCancelled
	}

	return event, nil
}

func (p *LemonSqueezyProvider) verifySignature(payload []byte, signature string) error {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return errors.Join(ErrSignatureVerification, err)
	}

	mac := hmac.New(sha256.New, []byte(p.config.SigningSecret))
	mac.Write(payload)
	if !hmac.Equal(mac.Sum(nil), expected) {
		return ErrSignatureVerification
	}
	return nil
}

func mapLemonStatus(status string) entitlement.EventStatus {
	switch status {
	case "active", "on_trial":
		return entitlement.StatusActive
	case "cancelled", "expired", "unpaid":
		return entitlement.StatusCancelled
	default:
		return entitlement.StatusUnknown
	}
}

// Compile-time interface assertion
var _ Provider = (*LemonSqueezyProvider)(nil)
