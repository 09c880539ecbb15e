package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
	"github.com/google/uuid"

	"github.com/coldkit/coldkit/pkg/entitlement"
)

// PaddleConfig holds configuration for the Paddle billing provider.
// Price IDs map the purchasable plans to the catalog prices configured in
// the Paddle dashboard.
type PaddleConfig struct {
	APIKey        string `env:"PADDLE_API_KEY,required"`
	WebhookSecret string `env:"PADDLE_WEBHOOK_SECRET,required"`
	Environment   string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
	BasicPriceID  string `env:"PADDLE_BASIC_PRICE_ID,required"`
	ProPriceID    string `env:"PADDLE_PRO_PRICE_ID,required"`
}

// PaddleProvider implements Provider on the official Paddle SDK.
type PaddleProvider struct {
	client   *paddle.SDK
	verifier *paddle.WebhookVerifier
	config   PaddleConfig
}

// NewPaddleProvider creates a Paddle billing provider.
func NewPaddleProvider(config PaddleConfig) (*PaddleProvider, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.WebhookSecret == "" {
		return nil, ErrMissingSigningSecret
	}
	if config.BasicPriceID == "" || config.ProPriceID == "" {
		return nil, ErrMissingPriceID
	}

	var client *paddle.SDK
	var err error

	switch strings.ToLower(config.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(config.APIKey)
	case "production", "":
		client, err = paddle.New(config.APIKey)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidEnvironment, config.Environment)
	}
	if err != nil {
		return nil, errors.Join(ErrFailedToCreateCheckout, err)
	}

	return &PaddleProvider{
		client:   client,
		verifier: paddle.NewWebhookVerifier(config.WebhookSecret),
		config:   config,
	}, nil
}

// CheckoutURL creates a Paddle transaction for the plan's catalog price and
// returns its hosted checkout link. The account ID and plan travel as custom
// data so the subscription webhooks can be attributed.
func (p *PaddleProvider) CheckoutURL(ctx context.Context, plan entitlement.Plan, accountID uuid.UUID) (string, error) {
	var priceID string
	switch plan {
	case entitlement.PlanBasic:
		priceID = p.config.BasicPriceID
	case entitlement.PlanPro:
		priceID = p.config.ProPriceID
	default:
		return "", fmt.Errorf("%w: %q", ErrPlanNotPurchasable, plan)
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  priceID,
		Quantity: 1,
	})

	transaction, err := p.client.TransactionsClient.CreateTransaction(ctx, &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"user_id": accountID.String(),
			"plan":    string(plan),
		},
	})
	if err != nil {
		return "", errors.Join(ErrFailedToCreateCheckout, err)
	}

	if transaction.Checkout == nil || transaction.Checkout.URL == nil {
		return "", ErrNoCheckoutURL
	}
	return *transaction.Checkout.URL, nil
}

// paddlePayload mirrors the envelope shared by all Paddle webhook events.
type paddlePayload struct {
	EventType string         `json:"event_type"`
	Data      map[string]any `json:"data"`
}

// ParseWebhook verifies the Paddle-Signature header via the SDK verifier and
// normalizes subscription events. Unmapped event types produce StatusUnknown.
func (p *PaddleProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (*entitlement.SubscriptionEvent, error) {
	// The SDK verifier consumes an http.Request, so wrap the raw payload.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/webhook", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Join(ErrSignatureVerification, err)
	}
	req.Header.Set("Paddle-Signature", signature)

	valid, err := p.verifier.Verify(req)
	if err != nil {
		return nil, errors.Join(ErrSignatureVerification, err)
	}
	if !valid {
		return nil, ErrSignatureVerification
	}

	var raw paddlePayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, errors.Join(ErrInvalidWebhookPayload, err)
	}

	accountID, plan := paddleCustomData(raw.Data)
	if accountID == uuid.Nil {
		return nil, ErrMissingWebhookAccountID
	}

	return &entitlement.SubscriptionEvent{
		AccountID: accountID,
		Plan:      plan,
		Status:    mapPaddleEvent(raw),
	}, nil
}

// paddleCustomData extracts the account ID and plan set during checkout.
func paddleCustomData(data map[string]any) (uuid.UUID, entitlement.Plan) {
	accountID := uuid.Nil
	plan := entitlement.PlanBasic

	custom, ok := data["custom_data"].(map[string]any)
	if !ok {
		return accountID, plan
	}

	if raw, ok := custom["user_id"].(string); ok {
		if parsed, err := uuid.Parse(raw); err == nil {
			accountID = parsed
		}
	}
	if raw, ok := custom["plan"].(string); ok {
		if parsed, err := entitlement.ParsePlan(raw); err == nil {
			plan = parsed
		}
	}

	return accountID, plan
}

func mapPaddleEvent(raw paddlePayload) entitlement.EventStatus {
	switch raw.EventType {
	case "subscription.created", "subscription.activated", "subscription.resumed", "transaction.completed":
		return entitlement.StatusActive
	case "subscription.canceled", "subscription.past_due":
		return entitlement.StatusCancelled
	case "subscription.updated":
		if status, ok := raw.Data["status"].(string); ok {
			switch status {
			case "active", "trialing":
				return entitlement.StatusActive
			case "canceled", "paused", "past_due":
				return entitlement.StatusCancelled
			}
		}
		return entitlement.StatusUnknown
	default:
		return entitlement.StatusUnknown
	}
}

// Compile-time interface assertion
var _ Provider = (*PaddleProvider)(nil)
