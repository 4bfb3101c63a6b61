package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing provider",
			mutate:  func(c *Config) { c.Provider.Name = "" },
			wantErr: "provider.name is required",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Provider.Name = "cohere" },
			wantErr: "unknown provider",
		},
		{
			name:    "missing model",
			mutate:  func(c *Config) { c.Provider.Model = "" },
			wantErr: "provider.model is required",
		},
		{
			name:    "temperature out of range",
			mutate:  func(c *Config) { c.Agent.Temperature = 3.5 },
			wantErr: "out of range",
		},
		{
			name:    "negative max tokens",
			mutate:  func(c *Config) { c.Agent.MaxTokens = -1 },
			wantErr: "max_tokens",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolveAPIKey_ExplicitWins(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-key")

	cfg := DefaultConfig()
	cfg.Provider.APIKey = "explicit-key"

	key, err := cfg.ResolveAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "explicit-key", key)
}

func TestResolveAPIKey_ConfiguredEnvVar(t *testing.T) {
	t.Setenv("MY_SECRET_KEY", "from-custom-env")

	cfg := DefaultConfig()
	cfg.Provider.APIKeyEnv = "MY_SECRET_KEY"

	key, err := cfg.ResolveAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "from-custom-env", key)
}

func TestResolveAPIKey_ConfiguredEnvVarMissing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider.APIKeyEnv = "ORIN_TEST_DEFINITELY_UNSET"

	_, err := cfg.ResolveAPIKey()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORIN_TEST_DEFINITELY_UNSET")
}

func TestResolveAPIKey_ConventionalEnvVar(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "openai-key")

	cfg := DefaultConfig()
	cfg.Provider.Name = "openai"

	key, err := cfg.ResolveAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "openai-key", key)
}
