// Package llm provides clients for text-generation providers plus the
// variation generator and cache used by the suspicion engine.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hollis-dev/invoice-sentinel/internal/common"
)

// Client defines the interface for text-generation providers.
//
// Generate may fail at any call: timeouts, malformed output, provider
// errors. Callers own the failure policy; the variation generator degrades
// to identity, the invoice extractor retries.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds configuration for LLM clients.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// NewClient creates a text-generation client for the configured provider.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		return newGeminiClient(cfg)
	case "openai":
		return newOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// statusError maps a non-200 provider response to an error WithRetry can
// reason about: 429 is retryable after the full backoff, other 4xx responses
// will fail the same way every time, 5xx responses stay retryable.
func statusError(provider string, statusCode int, body []byte) error {
	err := fmt.Errorf("%w: %s API error (status %d): %s",
		common.ErrGenerationFailed, provider, statusCode, string(body))

	switch {
	case statusCode == http.StatusTooManyRequests:
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: %w", common.ErrRateLimit, err),
			Retryable: true,
		}
	case statusCode >= 400 && statusCode < 500:
		return &common.RetryableError{Err: err, Retryable: false}
	default:
		return err
	}
}
