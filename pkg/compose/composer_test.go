package compose_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldkit/coldkit/pkg/compose"
	"github.com/coldkit/coldkit/pkg/entitlement"
)

type stubGenerator struct {
	output     string
	err        error
	calls      int
	lastPrompt string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	return g.output, g.err
}

const modelOutput = `Subject: Cut fraud losses in half

Hi [Name],

I noticed [Company] recently expanded into payments. Our fraud detection API blocks 98% of chargebacks before they happen.

Worth a quick call this week?

Best,
Alex`

func newTestEntitlements(t *testing.T) entitlement.Service {
	t.Helper()
	svc, err := entitlement.NewService(context.Background(),
		entitlement.NewInMemSource(nil), entitlement.NewMemoryStore())
	require.NoError(t, err)
	return svc
}

func TestCompose(t *testing.T) {
	t.Parallel()

	t.Run("generates and parses an email", func(t *testing.T) {
		t.Parallel()

		gen := &stubGenerator{output: modelOutput}
		ents := newTestEntitlements(t)
		accountID := uuid.New()
		_, err := ents.EnsureEntitlement(context.Background(), accountID)
		require.NoError(t, err)

		c := compose.NewComposer(gen, ents)
		email, err := c.Compose(context.Background(), accountID, compose.EmailRequest{
			Prompt: "Reach out to a fintech CTO",
		})
		require.NoError(t, err)

		assert.Equal(t, "Cut fraud losses in half", email.Subject)
		assert.True(t, strings.HasPrefix(email.Body, "Hi [Name],"))
		assert.Contains(t, email.Body, "Worth a quick call this week?")
		assert.Equal(t, "Subject: "+email.Subject+"\n\n"+email.Body, email.FullEmail)
		assert.Contains(t, gen.lastPrompt, "Reach out to a fintech CTO")
	})

	t.Run("each generation costs one token", func(t *testing.T) {
		t.Parallel()

		gen := &stubGenerator{output: modelOutput}
		ents := newTestEntitlements(t)
		accountID := uuid.New()
		_, err := ents.EnsureEntitlement(context.Background(), accountID)
		require.NoError(t, err)

		c := compose.NewComposer(gen, ents)
		_, err = c.Compose(context.Background(), accountID, compose.EmailRequest{Prompt: "hello"})
		require.NoError(t, err)

		ent, err := ents.GetEntitlement(context.Background(), accountID)
		require.NoError(t, err)
		assert.EqualValues(t, entitlement.FreeTierAllowance-1, ent.Tokens)
	})

	t.Run("refuses without balance and skips the model", func(t *testing.T) {
		t.Parallel()

		gen := &stubGenerator{output: modelOutput}
		ents := newTestEntitlements(t)
		accountID := uuid.New()
		_, err := ents.EnsureEntitlement(context.Background(), accountID)
		require.NoError(t, err)

		c := compose.NewComposer(gen, ents)
		for range entitlement.FreeTierAllowance {
			_, err := c.Compose(context.Background(), accountID, compose.EmailRequest{Prompt: "hi"})
			require.NoError(t, err)
		}

		callsBefore := gen.calls
		_, err = c.Compose(context.Background(), accountID, compose.EmailRequest{Prompt: "hi"})
		assert.ErrorIs(t, err, compose.ErrOutOfTokens)
		assert.ErrorIs(t, err, entitlement.ErrInsufficientBalance)
		assert.Equal(t, callsBefore, gen.calls)
	})

	t.Run("unknown account is refused", func(t *testing.T) {
		t.Parallel()

		c := compose.NewComposer(&stubGenerator{output: modelOutput}, newTestEntitlements(t))
		_, err := c.Compose(context.Background(), uuid.New(), compose.EmailRequest{Prompt: "hi"})
		assert.ErrorIs(t, err, compose.ErrOutOfTokens)
		assert.ErrorIs(t, err, entitlement.ErrEntitlementNotFound)
	})

	t.Run("generation failure keeps the token spent", func(t *testing.T) {
		t.Parallel()

		gen := &stubGenerator{err: errors.New("model unavailable")}
		ents := newTestEntitlements(t)
		accountID := uuid.New()
		_, err := ents.EnsureEntitlement(context.Background(), accountID)
		require.NoError(t, err)

		c := compose.NewComposer(gen, ents)
		_, err = c.Compose(context.Background(), accountID, compose.EmailRequest{Prompt: "hi"})
		require.Error(t, err)

		ent, err := ents.GetEntitlement(context.Background(), accountID)
		require.NoError(t, err)
		assert.EqualValues(t, entitlement.FreeTierAllowance-1, ent.Tokens)
	})

	t.Run("rejects empty prompt before spending", func(t *testing.T) {
		t.Parallel()

		ents := newTestEntitlements(t)
		accountID := uuid.New()
		_, err := ents.EnsureEntitlement(context.Background(), accountID)
		require.NoError(t, err)

		c := compose.NewComposer(&stubGenerator{output: modelOutput}, ents)
		_, err = c.Compose(context.Background(), accountID, compose.EmailRequest{Prompt: "  "})
		assert.ErrorIs(t, err, compose.ErrEmptyPrompt)

		ent, err := ents.GetEntitlement(context.Background(), accountID)
		require.NoError(t, err)
		assert.EqualValues(t, entitlement.FreeTierAllowance, ent.Tokens)
	})

	t.Run("request context reaches the prompt", func(t *testing.T) {
		t.Parallel()

		gen := &stubGenerator{output: modelOutput}
		ents := newTestEntitlements(t)
		accountID := uuid.New()
		_, err := ents.EnsureEntitlement(context.Background(), accountID)
		require.NoError(t, err)

		c := compose.NewComposer(gen, ents)
		_, err = c.Compose(context.Background(), accountID, compose.EmailRequest{
			Prompt:            "pitch our API",
			UserContext:       "10 years in payments infrastructure",
			AttachmentContext: "case study: reduced fraud 40%",
		})
		require.NoError(t, err)

		assert.Contains(t, gen.lastPrompt, "User Background: 10 years in payments infrastructure")
		assert.Contains(t, gen.lastPrompt, "Additional Context from attachments: case study: reduced fraud 40%")
	})

	t.Run("rejects whitespace-only template before spending", func(t *testing.T) {
		t.Parallel()

		ents := newTestEntitlements(t)
		accountID := uuid.New()
		_, err := ents.EnsureEntitlement(context.Background(), accountID)
		require.NoError(t, err)

		c := compose.NewComposer(&stubGenerator{output: modelOutput}, ents)
		_, err = c.Compose(context.Background(), accountID, compose.EmailRequest{
			Prompt:   "make it about logistics",
			Template: "   \n\t",
		})
		assert.ErrorIs(t, err, compose.ErrEmptyTemplate)

		ent, err := ents.GetEntitlement(context.Background(), accountID)
		require.NoError(t, err)
		assert.EqualValues(t, entitlement.FreeTierAllowance, ent.Tokens)
	})

	t.Run("custom template replaces the default prompt", func(t *testing.T) {
		t.Parallel()

		gen := &stubGenerator{output: modelOutput}
		ents := newTestEntitlements(t)
		accountID := uuid.New()
		_, err := ents.EnsureEntitlement(context.Background(), accountID)
		require.NoError(t, err)

		c := compose.NewComposer(gen, ents)
		_, err = c.Compose(context.Background(), accountID, compose.EmailRequest{
			Prompt:   "make it about logistics",
			Template: "Dear [Name], our warehouse robots...",
		})
		require.NoError(t, err)

		assert.Contains(t, gen.lastPrompt, "Dear [Name], our warehouse robots...")
		assert.NotContains(t, gen.lastPrompt, "expert cold email writer. Generate a professional, personalized cold email based on the user's requirements.")
	})
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("trims model output", func(t *testing.T) {
		t.Parallel()

		gen := &stubGenerator{output: "  Payments veteran selling fraud APIs.  \n"}
		c := compose.NewComposer(gen, newTestEntitlements(t))

		summary, err := c.Summarize(context.Background(), "I build fraud APIs")
		require.NoError(t, err)
		assert.Equal(t, "Payments veteran selling fraud APIs.", summary)
	})

	t.Run("folds document context into the prompt", func(t *testing.T) {
		t.Parallel()

		gen := &stubGenerator{output: "summary"}
		c := compose.NewComposer(gen, newTestEntitlements(t))

		_, err := c.SummarizeWithDocuments(context.Background(), "about me", "resume text")
		require.NoError(t, err)
		assert.Contains(t, gen.lastPrompt, "Document Context: resume text")
	})

	t.Run("summaries are not metered", func(t *testing.T) {
		t.Parallel()

		ents := newTestEntitlements(t)
		accountID := uuid.New()
		_, err := ents.EnsureEntitlement(context.Background(), accountID)
		require.NoError(t, err)

		c := compose.NewComposer(&stubGenerator{output: "summary"}, ents)
		_, err = c.Summarize(context.Background(), "about me")
		require.NoError(t, err)

		ent, err := ents.GetEntitlement(context.Background(), accountID)
		require.NoError(t, err)
		assert.EqualValues(t, entitlement.FreeTierAllowance, ent.Tokens)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		c := compose.NewComposer(&stubGenerator{}, newTestEntitlements(t))
		_, err := c.Summarize(context.Background(), "")
		assert.ErrorIs(t, err, compose.ErrEmptyPrompt)
	})
}

func TestParseFallback(t *testing.T) {
	t.Parallel()

	// Output without a greeting line falls back to full-text body.
	gen := &stubGenerator{output: "Subject: Partnership idea\n\nGreetings team, let's talk."}
	ents := newTestEntitlements(t)
	accountID := uuid.New()
	_, err := ents.EnsureEntitlement(context.Background(), accountID)
	require.NoError(t, err)

	c := compose.NewComposer(gen, ents)
	email, err := c.Compose(context.Background(), accountID, compose.EmailRequest{Prompt: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "Partnership idea", email.Subject)
	assert.Equal(t, "Greetings team, let's talk.", email.Body)
}
