// Package identity consumes sessions from an external authentication
// provider and hooks account provisioning into the sign-in flow.
//
// The package deliberately owns no credentials. A Provider hands over
// ready-made sessions; the Adapter reacts to them: sign-in ensures the
// account has an entitlement record and signals when profile onboarding
// is still pending, sign-out clears the cached session. Everything
// downstream receives the account ID explicitly from the session.
package identity
