package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.monday.com/v2", cfg.Monday.APIURL)
	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.Equal(t, "https://api.hunter.io/v2", cfg.Hunter.BaseURL)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 10, cfg.Pipeline.DefaultCount)
	assert.Equal(t, "hunter", cfg.Pipeline.EnrichmentMode)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEADGEN_LLM_MODEL", "mixtral-8x7b")
	t.Setenv("LEADGEN_PIPELINE_DEFAULT_COUNT", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mixtral-8x7b", cfg.LLM.Model)
	assert.Equal(t, 25, cfg.Pipeline.DefaultCount)
}

func TestValidate_MissingKeys(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate("hunter", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.api_key")
	assert.Contains(t, err.Error(), "monday.api_key")
	assert.Contains(t, err.Error(), "hunter.api_key")
	assert.Contains(t, err.Error(), "smtp.address")
}

func TestValidate_ScrapeModeSkipsHunterKey(t *testing.T) {
	cfg := &Config{
		LLM:    LLMConfig{APIKey: "k"},
		Monday: MondayConfig{APIKey: "k"},
	}
	assert.NoError(t, cfg.Validate("scrape", false))
}
