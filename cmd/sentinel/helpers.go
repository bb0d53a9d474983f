package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hollis-dev/invoice-sentinel/internal/common"
	"github.com/hollis-dev/invoice-sentinel/internal/config"
	"github.com/hollis-dev/invoice-sentinel/internal/engine"
	"github.com/hollis-dev/invoice-sentinel/internal/llm"
	"github.com/hollis-dev/invoice-sentinel/internal/ocr"
	"github.com/hollis-dev/invoice-sentinel/internal/service"
	"github.com/hollis-dev/invoice-sentinel/internal/storage"
	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/sentinel/sentinel.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// createLLMClient creates an LLM client based on configuration.
// This function is shared by the scan pipeline's extractor and
// variation generator.
func createLLMClient() (llm.Client, error) {
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = "gemini" // default provider
	}

	cfg := llm.Config{
		Provider:    provider,
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		Timeout:     viper.GetDuration("llm.timeout"),
	}

	// Get API key based on provider
	switch provider {
	case "gemini":
		apiKey := viper.GetString("llm.gemini_api_key")
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("%w: gemini API key not found in config or GEMINI_API_KEY environment variable", common.ErrMissingConfig)
		}
		cfg.APIKey = apiKey

	case "openai":
		apiKey := viper.GetString("llm.openai_api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("%w: OpenAI API key not found in config or OPENAI_API_KEY environment variable", common.ErrMissingConfig)
		}
		cfg.APIKey = apiKey

	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider %q", common.ErrInvalidConfig, provider)
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return client, nil
}

// createVariationSource wires the LLM-backed variation generator behind
// its LRU cache, honoring the configured capacity.
func createVariationSource(client llm.Client, logger *slog.Logger) engine.VariationSource {
	capacity := viper.GetInt("llm.variation_cache_size")
	generator := llm.NewVariationGenerator(client, logger)
	return llm.NewVariationCache(generator, capacity)
}

// createOCRReader builds the OCR reader from config.
func createOCRReader(logger *slog.Logger) *ocr.Reader {
	binary := viper.GetString("ocr.binary")
	languages := viper.GetString("ocr.languages")
	return ocr.New(binary, languages, logger)
}

// retryOptions reads extraction retry settings from config with sane defaults.
func retryOptions() service.RetryOptions {
	opts := service.RetryOptions{
		MaxAttempts:  viper.GetInt("llm.max_retries"),
		InitialDelay: viper.GetDuration("llm.retry_delay"),
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialDelay == 0 {
		opts.InitialDelay = time.Second
	}
	return opts
}
