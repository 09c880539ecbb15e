package compose

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/coldkit/coldkit/pkg/entitlement"
)

// EmailRequest describes a single cold-email generation request.
type EmailRequest struct {
	// Prompt is the user's description of the email they want. Required.
	Prompt string

	// AttachmentContext carries text extracted from uploaded documents,
	// appended to the prompt when present.
	AttachmentContext string

	// UserContext is the sender's professional background, used to
	// personalize the email when present.
	UserContext string

	// Template, when set, replaces the built-in cold-email template and
	// is customized around the prompt instead.
	Template string
}

// Email is a parsed generation result.
type Email struct {
	Subject   string
	Body      string
	FullEmail string
}

// Composer generates cold emails, charging one token per generation.
type Composer interface {
	// Compose spends one of the account's tokens and generates an email.
	// Accounts without balance get ErrOutOfTokens wrapping the refusal
	// cause; no generation call is made in that case.
	Compose(ctx context.Context, accountID uuid.UUID, req EmailRequest) (*Email, error)

	// Summarize condenses free-form background text into a short
	// professional summary. Summaries are not metered.
	Summarize(ctx context.Context, input string) (string, error)

	// SummarizeWithDocuments is Summarize with extracted document text
	// folded into the prompt.
	SummarizeWithDocuments(ctx context.Context, input, documentContext string) (string, error)
}

type composer struct {
	gen Generator
	ent entitlement.Service
	log *slog.Logger
}

// ComposerOption configures the composer.
type ComposerOption func(*composer)

// WithLogger sets the logger used by the composer. Defaults to a
// discard logger.
func WithLogger(log *slog.Logger) ComposerOption {
	return func(c *composer) {
		c.log = log
	}
}

// NewComposer creates a Composer backed by the given generator and
// entitlement service. Panics if either dependency is nil.
func NewComposer(gen Generator, ent entitlement.Service, opts ...ComposerOption) Composer {
	if gen == nil {
		panic("compose: generator is required")
	}
	if ent == nil {
		panic("compose: entitlement service is required")
	}

	c := &composer{
		gen: gen,
		ent: ent,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *composer) Compose(ctx context.Context, accountID uuid.UUID, req EmailRequest) (*Email, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	if req.Template != "" && strings.TrimSpace(req.Template) == "" {
		return nil, ErrEmptyTemplate
	}

	ok, err := c.ent.SpendToken(ctx, accountID)
	if !ok {
		if err != nil && isBalanceRefusal(err) {
			c.log.InfoContext(ctx, "generation refused",
				slog.String("account_id", accountID.String()),
				slog.String("reason", err.Error()))
			return nil, errors.Join(ErrOutOfTokens, err)
		}
		return nil, fmt.Errorf("failed to spend token: %w", err)
	}

	text, err := c.gen.Generate(ctx, buildEmailPrompt(req))
	if err != nil {
		// The token stays spent: the account paid for the attempt.
		c.log.ErrorContext(ctx, "email generation failed",
			slog.String("account_id", accountID.String()),
			slog.Any("error", err))
		return nil, err
	}

	return parseEmail(text), nil
}

func (c *composer) Summarize(ctx context.Context, input string) (string, error) {
	return c.SummarizeWithDocuments(ctx, input, "")
}

func (c *composer) SummarizeWithDocuments(ctx context.Context, input, documentContext string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", ErrEmptyPrompt
	}

	text, err := c.gen.Generate(ctx, buildSummaryPrompt(input, documentContext))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func isBalanceRefusal(err error) bool {
	return errors.Is(err, entitlement.ErrInsufficientBalance) ||
		errors.Is(err, entitlement.ErrPlanExpired) ||
		errors.Is(err, entitlement.ErrEntitlementNotFound)
}

// Compile-time interface assertion
var _ Composer = (*composer)(nil)
