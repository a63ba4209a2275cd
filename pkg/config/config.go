package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/mealmind-inc/mealmind-engine/pkg/database"
	"github.com/mealmind-inc/mealmind-engine/pkg/llm"
	"github.com/mealmind-inc/mealmind-engine/pkg/search"
)

// Config holds all configuration for mealmind-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (API keys, passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL ledger)
	Database DatabaseConfig `yaml:"database"`

	// LocalLedgerPath is the SQLite fallback ledger used when the primary
	// database is unreachable. Empty disables the fallback.
	LocalLedgerPath string `yaml:"local_ledger_path" env:"LOCAL_LEDGER_PATH" env-default:"mealmind-fallback.db"`

	// MigrationsPath is the directory holding SQL migration files.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	// LLM extraction engine configuration
	LLM LLMConfig `yaml:"llm"`

	// Web search grounding configuration
	Search SearchConfig `yaml:"search"`
}

// DatabaseConfig holds PostgreSQL ledger configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"mealmind"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"mealmind_engine"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
}

// URL builds the pgx connection string.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// LLMConfig holds extraction engine settings.
type LLMConfig struct {
	Provider       string  `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`
	Endpoint       string  `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:""`
	Model          string  `yaml:"model" env:"LLM_MODEL" env-default:"gpt-4o-mini"`
	APIKey         string  `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML
	Temperature    float32 `yaml:"temperature" env:"LLM_TEMPERATURE" env-default:"0.2"`
	MaxTokens      int     `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"1024"`
	TimeoutSeconds int     `yaml:"timeout_seconds" env:"LLM_TIMEOUT_SECONDS" env-default:"60"`
}

// SearchConfig holds web search grounding settings. An empty API key
// disables grounding; turns still complete without it.
type SearchConfig struct {
	Endpoint       string `yaml:"endpoint" env:"SEARCH_ENDPOINT" env-default:"https://api.search.brave.com/res/v1/web/search"`
	APIKey         string `yaml:"-" env:"BRAVE_SEARCH_API_KEY"` // Secret - not in YAML
	Region         string `yaml:"region" env:"SEARCH_REGION" env-default:"US"`
	ResultCount    int    `yaml:"result_count" env:"SEARCH_RESULT_COUNT" env-default:"5"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"SEARCH_TIMEOUT_SECONDS" env-default:"10"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}
	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}
	return cfg, nil
}

// LoadFromEnv reads configuration from environment variables only, for
// deployments without a config file.
func LoadFromEnv(version string) (*Config, error) {
	cfg := &Config{Version: version}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// DatabaseConfig converts to the connection pool settings.
func (c *Config) DatabaseConfig() *database.Config {
	return &database.Config{
		URL:            c.Database.URL(),
		MaxConnections: c.Database.MaxConnections,
	}
}

// LLMClientConfig converts to the chat client settings.
func (c *Config) LLMClientConfig() *llm.Config {
	return &llm.Config{
		Provider:    c.LLM.Provider,
		Endpoint:    c.LLM.Endpoint,
		Model:       c.LLM.Model,
		APIKey:      c.LLM.APIKey,
		Temperature: c.LLM.Temperature,
		MaxTokens:   c.LLM.MaxTokens,
		Timeout:     time.Duration(c.LLM.TimeoutSeconds) * time.Second,
	}
}

// SearchClientConfig converts to the search client settings.
func (c *Config) SearchClientConfig() *search.Config {
	return &search.Config{
		Endpoint:    c.Search.Endpoint,
		APIKey:      c.Search.APIKey,
		Region:      c.Search.Region,
		ResultCount: c.Search.ResultCount,
		Timeout:     time.Duration(c.Search.TimeoutSeconds) * time.Second,
	}
}
