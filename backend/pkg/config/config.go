package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	apperrors "castgraph/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	ListenAddr          string `env:"LISTEN_ADDR" envDefault:"0.0.0.0:3000"`
	Env                 string `env:"ENV" envDefault:"development"`
	StaticFileDirectory string `env:"STATIC_FILE_DIRECTORY" envDefault:"../frontend/dist"`

	// Name generation backend
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	ModelID         string `env:"MODEL_ID" envDefault:"gpt-3.5-turbo"`
	NameMaxTokens   int    `env:"NAME_MAX_TOKENS" envDefault:"512"`
	NameMaxAttempts int    `env:"NAME_MAX_ATTEMPTS" envDefault:"1"`

	// Neo4j export, disabled when NEO4J_URI is empty
	Neo4jURI      string `env:"NEO4J_URI"`
	Neo4jUser     string `env:"NEO4J_USER" envDefault:"neo4j"`
	Neo4jPassword string `env:"NEO4J_PASSWORD"`

	// Editor client
	NamingServerURL string        `env:"NAMING_SERVER_URL" envDefault:"http://localhost:3000"`
	NamingTimeout   time.Duration `env:"NAMING_TIMEOUT" envDefault:"60s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return apperrors.NewConfigMissingRequired("LISTEN_ADDR")
	}
	if c.ModelID == "" {
		return apperrors.NewConfigMissingRequired("MODEL_ID")
	}
	if c.NameMaxTokens <= 0 {
		return apperrors.NewConfigInvalid("NAME_MAX_TOKENS", "must be positive")
	}
	if c.NameMaxAttempts <= 0 {
		return apperrors.NewConfigInvalid("NAME_MAX_ATTEMPTS", "must be positive")
	}
	if c.Neo4jURI != "" && c.Neo4jUser == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_USER")
	}
	// OPENAI_API_KEY is optional: OpenAI-compatible proxies may not need one
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ExportEnabled reports whether a Neo4j target is configured.
func (c *Config) ExportEnabled() bool {
	return c.Neo4jURI != ""
}
