package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_MissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orin.json")

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider.Name)
	assert.Equal(t, ":8420", cfg.Serve.Addr)
	assert.NotEmpty(t, cfg.DataDir)
	assert.NotEmpty(t, cfg.Logging.File)
	assert.NotEmpty(t, cfg.Tools.ManifestDir)
}

func TestLoader_ReadsFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orin.json")
	content := `{
		"provider": {"name": "openai", "model": "gpt-4o-mini"},
		"agent": {"temperature": 0.2, "max_tokens": 512},
		"schedules": [{"cron": "0 9 * * *", "instruction": "summarize yesterday's log"}],
		"data_dir": "` + dir + `"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Provider.Name)
	assert.Equal(t, "gpt-4o-mini", cfg.Provider.Model)
	assert.Equal(t, 0.2, cfg.Agent.Temperature)
	assert.Equal(t, 512, cfg.Agent.MaxTokens)
	require.Len(t, cfg.Schedules, 1)
	assert.Equal(t, "0 9 * * *", cfg.Schedules[0].Cron)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "orin.log"), cfg.Logging.File)
}

func TestLoader_InvalidFileContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orin.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"provider": {"name": "cohere"}}`), 0o644))

	_, err := NewLoader(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestLoader_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "orin.json")
	loader := NewLoader(path)

	cfg := DefaultConfig()
	cfg.Provider.Model = "claude-haiku-4"
	cfg.DataDir = filepath.Dir(path)
	require.NoError(t, loader.Save(cfg))

	loaded, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4", loaded.Provider.Model)
}
