package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv("test")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.BindAddr)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "test", cfg.Version)
	assert.Equal(t, "mealmind_engine", cfg.Database.Database)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "https://api.search.brave.com/res/v1/web/search", cfg.Search.Endpoint)
	assert.Equal(t, 5, cfg.Search.ResultCount)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("PGPASSWORD", "s3cret")
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("LLM_TIMEOUT_SECONDS", "30")
	t.Setenv("BRAVE_SEARCH_API_KEY", "brave-key")
	t.Setenv("SEARCH_REGION", "AU")

	cfg, err := LoadFromEnv("test")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)

	llmCfg := cfg.LLMClientConfig()
	assert.Equal(t, 30*time.Second, llmCfg.Timeout)

	searchCfg := cfg.SearchClientConfig()
	assert.Equal(t, "brave-key", searchCfg.APIKey)
	assert.Equal(t, "AU", searchCfg.Region)
}

func TestDatabaseURL(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "mealmind",
		Password: "pw",
		Database: "mealmind_engine",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"postgres://mealmind:pw@localhost:5432/mealmind_engine?sslmode=disable",
		cfg.URL())
}
