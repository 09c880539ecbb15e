package compose

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// Default Gemini model with good balance of quality and latency
	DefaultGeminiModel = "gemini-1.5-flash"

	// Generative Language API endpoint template
	geminiGenerateURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

	// Default timeout for API requests
	defaultTimeout = 30 * time.Second
)

// GeminiProvider implements the Generator interface using Google's
// Generative Language API.
type GeminiProvider struct {
	apiKey string
	model  string
	client *http.Client
}

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	// APIKey is required for authentication
	APIKey string `env:"GEMINI_API_KEY,required"`

	// Model specifies which model to use
	// Default: gemini-1.5-flash
	Model string `env:"GEMINI_MODEL"`

	// HTTPClient allows custom HTTP client configuration
	// Default: http.Client with 30s timeout
	HTTPClient *http.Client `env:"-"`
}

// NewGeminiProvider creates a new Gemini text generator.
func NewGeminiProvider(config GeminiConfig) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	model := config.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout: defaultTimeout,
		}
	}

	return &GeminiProvider{
		apiKey: config.APIKey,
		model:  model,
		client: client,
	}, nil
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends the prompt to the model and returns the concatenated
// text parts of the first candidate.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	requestBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf(geminiGenerateURL, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp geminiErrorResponse
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			if resp.StatusCode == http.StatusTooManyRequests {
				return "", fmt.Errorf("%w: %s", ErrRateLimitExceeded, errorResp.Error.Message)
			}
			return "", fmt.Errorf("%w: %s", ErrGenerationFailed, errorResp.Error.Message)
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrGenerationFailed, resp.StatusCode, string(body))
	}

	var response geminiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Candidates) == 0 {
		return "", ErrEmptyModelResponse
	}

	var sb strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyModelResponse
	}

	return text, nil
}

// Compile-time interface assertion
var _ Generator = (*GeminiProvider)(nil)
