package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hollis-dev/invoice-sentinel/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiClient(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "valid config",
			config: Config{APIKey: "test-key"},
		},
		{
			name:    "missing API key",
			config:  Config{},
			wantErr: true,
		},
		{
			name: "custom model and settings",
			config: Config{
				APIKey:      "test-key",
				Model:       "gemini-1.5-flash",
				Temperature: 0.4,
				MaxTokens:   256,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := newGeminiClient(tt.config)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, client)
			}
		})
	}
}

func TestGeminiClient_Generate(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		statusCode int
		want       string
		wantErr    bool
	}{
		{
			name:       "successful generation",
			statusCode: http.StatusOK,
			response: `{"candidates":[{"content":{"parts":[{"text":"notebook computer, portable computer"}]}}]}`,
			want: "notebook computer, portable computer",
		},
		{
			name:       "multiple parts are concatenated",
			statusCode: http.StatusOK,
			response: `{"candidates":[{"content":{"parts":[{"text":"notebook"},{"text":" computer"}]}}]}`,
			want: "notebook computer",
		},
		{
			name:       "api error status",
			statusCode: http.StatusTooManyRequests,
			response:   `{"error":{"code":429,"message":"quota exceeded"}}`,
			wantErr:    true,
		},
		{
			name:       "no candidates",
			statusCode: http.StatusOK,
			response:   `{"candidates":[]}`,
			wantErr:    true,
		},
		{
			name:       "malformed json",
			statusCode: http.StatusOK,
			response:   `not json`,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Contains(t, r.URL.Path, ":generateContent")
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			c, err := newGeminiClient(Config{APIKey: "test-key"})
			require.NoError(t, err)
			c.(*geminiClient).baseURL = server.URL

			got, err := c.Generate(context.Background(), "test prompt")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func errorStatusClient(t *testing.T, statusCode int, response string) Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	c, err := newGeminiClient(Config{APIKey: "test-key"})
	require.NoError(t, err)
	c.(*geminiClient).baseURL = server.URL
	return c
}

func TestGeminiClient_GenerateRateLimited(t *testing.T) {
	c := errorStatusClient(t, http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota exceeded"}}`)

	_, err := c.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRateLimit)
	assert.ErrorIs(t, err, common.ErrGenerationFailed)

	var retryable *common.RetryableError
	require.True(t, errors.As(err, &retryable))
	assert.True(t, retryable.Retryable)
}

func TestGeminiClient_GenerateBadRequestNotRetryable(t *testing.T) {
	c := errorStatusClient(t, http.StatusBadRequest, `{"error":{"code":400,"message":"invalid argument"}}`)

	_, err := c.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrGenerationFailed)
	assert.NotErrorIs(t, err, common.ErrRateLimit)

	var retryable *common.RetryableError
	require.True(t, errors.As(err, &retryable))
	assert.False(t, retryable.Retryable)
}

func TestGeminiClient_GenerateServerErrorStaysRetryable(t *testing.T) {
	c := errorStatusClient(t, http.StatusInternalServerError, `backend unavailable`)

	_, err := c.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrGenerationFailed)

	var retryable *common.RetryableError
	assert.False(t, errors.As(err, &retryable), "5xx should not be marked non-retryable")
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(Config{Provider: "mystery", APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider")
}
