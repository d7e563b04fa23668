package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "sonar", cfg.LLM.Model)
	assert.Equal(t, "https://api.perplexity.ai/chat/completions", cfg.LLM.APIURL)
	assert.Equal(t, 3000, cfg.Pipeline.TokenCeiling)
	assert.Equal(t, 4, cfg.Pipeline.BatchConcurrency)
	assert.InDelta(t, 0.001, cfg.Ledger.CostPer1KTokens, 1e-9)
}

func TestLoadConfig_FromFile(t *testing.T) {
	content := `
llm:
  model: sonar-pro
  timeout_seconds: 60
pipeline:
  token_ceiling: 2000
  batch_concurrency: 8
logger:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sonar-pro", cfg.LLM.Model)
	assert.Equal(t, 60, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, 2000, cfg.Pipeline.TokenCeiling)
	assert.Equal(t, 8, cfg.Pipeline.BatchConcurrency)
	assert.Equal(t, "debug", cfg.Logger.Level)

	// 未出现在文件中的字段应回落到默认值
	assert.Equal(t, "https://api.perplexity.ai/chat/completions", cfg.LLM.APIURL)
	assert.Equal(t, 6000, cfg.Pipeline.MaxResumeChars)
}

func TestLoadConfig_EnvOverridesKey(t *testing.T) {
	t.Setenv("RESUME_MATCH_API_KEY", "env-key")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.LLM.APIKey)
}

func TestLoadConfig_PerplexityEnvFallback(t *testing.T) {
	t.Setenv("RESUME_MATCH_API_KEY", "")
	t.Setenv("PERPLEXITY_API_KEY", "pplx-key")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "pplx-key", cfg.LLM.APIKey)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/no/such/config.yaml")
	assert.Error(t, err)
}

func TestRequestTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "30s", cfg.RequestTimeout().String())

	cfg.LLM.TimeoutSeconds = 0
	assert.Equal(t, "30s", cfg.RequestTimeout().String())
}
