// Package profile manages onboarding profiles and uploaded document
// metadata for accounts.
//
// A profile carries the free-text background a user writes during
// onboarding plus an AI-derived summary of it; both feed the email
// generation prompt. Documents are user-uploaded attachments (typically
// PDFs run through the text extractor): their bytes live in a blob storage
// backend while this package tracks the metadata and enforces ownership.
//
// A missing profile is the onboarding signal: the identity adapter checks
// NeedsOnboarding after each sign-in and the UI routes new users into the
// onboarding flow.
package profile
