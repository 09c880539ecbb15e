package profile

import "errors"

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrMissingAccountID = errors.New("account ID is required")
	ErrEmptyAboutText   = errors.New("about text is required")
	ErrEmptyDocument    = errors.New("document has no content")
	ErrStoreUnavailable = errors.New("profile store unavailable")
)
