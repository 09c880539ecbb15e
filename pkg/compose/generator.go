package compose

import "context"

// Generator produces raw text from a prompt. Implementations wrap a
// specific model provider; the Composer owns prompt construction and
// output parsing, so a Generator stays a thin transport.
type Generator interface {
	// Generate sends the prompt to the model and returns its raw text output.
	Generate(ctx context.Context, prompt string) (string, error)
}
