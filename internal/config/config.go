// Package config defines the orin configuration and its loader. The file
// lives at ~/.orin/orin.json by default and every value can be overridden
// through ORIN_ environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/halim/orin/internal/logger"
	"github.com/halim/orin/pkg/scheduler"
)

// Config is the root orin configuration.
type Config struct {
	Provider  ProviderConfig    `json:"provider" mapstructure:"provider"`
	Agent     AgentConfig       `json:"agent" mapstructure:"agent"`
	Tools     ToolsConfig       `json:"tools" mapstructure:"tools"`
	Schedules []scheduler.Entry `json:"schedules" mapstructure:"schedules"`
	Serve     ServeConfig       `json:"serve" mapstructure:"serve"`
	Logging   logger.Config     `json:"logging" mapstructure:"logging"`
	DataDir   string            `json:"data_dir" mapstructure:"data_dir"`
}

// ProviderConfig selects the model backend.
type ProviderConfig struct {
	Name      string `json:"name" mapstructure:"name"` // anthropic or openai
	Model     string `json:"model" mapstructure:"model"`
	APIKey    string `json:"api_key" mapstructure:"api_key"`
	APIKeyEnv string `json:"api_key_env" mapstructure:"api_key_env"`
}

// AgentConfig tunes the completion request.
type AgentConfig struct {
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens"`
}

// ToolsConfig controls the built-in tools and the manifest directory.
type ToolsConfig struct {
	Workspace    string `json:"workspace" mapstructure:"workspace"`
	ManifestDir  string `json:"manifest_dir" mapstructure:"manifest_dir"`
	MaxReadBytes int64  `json:"max_read_bytes" mapstructure:"max_read_bytes"`
}

// ServeConfig configures the daemon's HTTP surface.
type ServeConfig struct {
	Addr string `json:"addr" mapstructure:"addr"`
}

// DefaultConfig returns the configuration used before any file or
// environment override is applied.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Name:  "anthropic",
			Model: "claude-sonnet-4-20250514",
		},
		Agent: AgentConfig{
			Temperature: 0.0,
			MaxTokens:   1024,
		},
		Tools: ToolsConfig{
			Workspace:    "workspace",
			MaxReadBytes: 1 << 20,
		},
		Serve: ServeConfig{
			Addr: ":8420",
		},
		Logging: logger.DefaultConfig(),
	}
}

// Validate reports the first structural problem in the config.
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case "anthropic", "openai":
	case "":
		return fmt.Errorf("provider.name is required")
	default:
		return fmt.Errorf("unknown provider %q (expected anthropic or openai)", c.Provider.Name)
	}

	if c.Provider.Model == "" {
		return fmt.Errorf("provider.model is required")
	}
	if c.Agent.Temperature < 0 || c.Agent.Temperature > 2 {
		return fmt.Errorf("agent.temperature %v is out of range [0, 2]", c.Agent.Temperature)
	}
	if c.Agent.MaxTokens < 0 {
		return fmt.Errorf("agent.max_tokens must not be negative")
	}
	if c.Tools.MaxReadBytes < 0 {
		return fmt.Errorf("tools.max_read_bytes must not be negative")
	}
	return nil
}

// ResolveAPIKey returns the provider API key, preferring the explicit
// config value, then the configured environment variable, then the
// provider's conventional one.
func (c *Config) ResolveAPIKey() (string, error) {
	if c.Provider.APIKey != "" {
		return c.Provider.APIKey, nil
	}
	if c.Provider.APIKeyEnv != "" {
		if key := os.Getenv(c.Provider.APIKeyEnv); key != "" {
			return key, nil
		}
		return "", fmt.Errorf("environment variable %s is not set", c.Provider.APIKeyEnv)
	}

	conventional := map[string]string{
		"anthropic": "ANTHROPIC_API_KEY",
		"openai":    "OPENAI_API_KEY",
	}
	envName, ok := conventional[c.Provider.Name]
	if !ok {
		return "", fmt.Errorf("no API key configured for provider %q", c.Provider.Name)
	}
	if key := os.Getenv(envName); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("no API key found: set provider.api_key or %s", envName)
}
