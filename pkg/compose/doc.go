// Package compose generates cold emails with a language model, metered
// through the entitlement package.
//
// # Architecture
//
// The package separates transport from orchestration. A Generator is a
// thin client for a model provider (GeminiProvider ships with the
// package); the Composer owns prompt construction, token accounting,
// and parsing of the model output into a subject and body.
//
// Every Compose call charges exactly one token before the model is
// invoked. Accounts with no balance are refused with ErrOutOfTokens
// and no model call is made. A failed model call after a successful
// charge does not refund the token.
//
// The Composer also satisfies the profile package's Summarizer
// interface, so the same model backend condenses user background text
// during onboarding.
//
// # Quick Start
//
//	gen, err := compose.NewGeminiProvider(compose.GeminiConfig{APIKey: apiKey})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	composer := compose.NewComposer(gen, entitlements)
//
//	email, err := composer.Compose(ctx, accountID, compose.EmailRequest{
//		Prompt: "Reach out to a fintech CTO about our fraud detection API",
//	})
//	if errors.Is(err, compose.ErrOutOfTokens) {
//		// prompt the user to upgrade
//	}
package compose
