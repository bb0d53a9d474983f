package main

import (
	"testing"

	"github.com/hollis-dev/invoice-sentinel/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestCreateLLMClientMissingKey(t *testing.T) {
	resetViper(t)
	viper.Set("llm.provider", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := createLLMClient()

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestCreateLLMClientUnsupportedProvider(t *testing.T) {
	resetViper(t)
	viper.Set("llm.provider", "telegraph")

	_, err := createLLMClient()

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestCreateLLMClientKeyFromEnv(t *testing.T) {
	resetViper(t)
	viper.Set("llm.provider", "gemini")
	t.Setenv("GEMINI_API_KEY", "test-key")

	client, err := createLLMClient()

	require.NoError(t, err)
	assert.NotNil(t, client)
}
