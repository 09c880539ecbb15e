package compose

import "errors"

var (
	ErrMissingAPIKey      = errors.New("API key is required")
	ErrEmptyPrompt        = errors.New("prompt cannot be empty")
	ErrEmptyTemplate      = errors.New("template cannot be empty")
	ErrOutOfTokens        = errors.New("no generation tokens available")
	ErrGenerationFailed   = errors.New("failed to generate content")
	ErrEmptyModelResponse = errors.New("model returned no content")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
)
