package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for chatdb-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Object store configuration (MinIO / S3-compatible)
	ObjectStore ObjectStoreConfig `yaml:"object_store"`

	// LLM translation configuration
	LLM LLMConfig `yaml:"llm"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// EnableVerification controls whether JWT signatures are validated.
	// Set to false for local development without an identity provider.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// JWKSEndpointsStr is a comma-separated list of issuer=jwks_url pairs.
	// Format: "issuer1=url1,issuer2=url2"
	JWKSEndpointsStr string `yaml:"jwks_endpoints" env:"JWKS_ENDPOINTS" env-default:""`

	// JWKSEndpoints is the parsed map from JWKSEndpointsStr (not from config file).
	JWKSEndpoints map[string]string `yaml:"-"`

	// Audience is the required "aud" claim for accepted tokens.
	Audience string `yaml:"audience" env:"AUTH_AUDIENCE" env-default:"authenticated"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"chatdb"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"chatdb_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"PG_MIGRATIONS_PATH" env-default:"migrations"`
}

// ObjectStoreConfig holds MinIO / S3-compatible object store configuration.
type ObjectStoreConfig struct {
	Endpoint        string `yaml:"endpoint" env:"OBJECT_STORE_ENDPOINT" env-default:"localhost:9000"`
	AccessKeyID     string `yaml:"-" env:"OBJECT_STORE_ACCESS_KEY"` // Secret - not in YAML
	SecretAccessKey string `yaml:"-" env:"OBJECT_STORE_SECRET_KEY"` // Secret - not in YAML
	Bucket          string `yaml:"bucket" env:"OBJECT_STORE_BUCKET" env-default:"chatdb-datasets"`
	UseSSL          bool   `yaml:"use_ssl" env:"OBJECT_STORE_USE_SSL" env-default:"false"`
}

// LLMConfig holds configuration for the NL-to-SQL translation model.
type LLMConfig struct {
	// Provider selects the client implementation: "openai" (any
	// OpenAI-compatible endpoint) or "anthropic".
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`
	Endpoint string `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:"https://api.openai.com/v1"`
	Model    string `yaml:"model" env:"LLM_MODEL" env-default:"gpt-4o-mini"`
	APIKey   string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML

	// TimeoutSeconds bounds a single translation round-trip.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"LLM_TIMEOUT_SECONDS" env-default:"30"`
}

// Timeout returns the translation timeout as a duration.
func (c *LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	cfg.Auth.JWKSEndpoints = parseJWKSEndpoints(cfg.Auth.JWKSEndpointsStr)

	if cfg.Auth.EnableVerification && len(cfg.Auth.JWKSEndpoints) == 0 {
		return nil, fmt.Errorf("auth verification enabled but no JWKS endpoints configured")
	}

	return cfg, nil
}

// parseJWKSEndpoints parses the JWKS endpoints string into a map.
// Format: "issuer1=url1,issuer2=url2"
func parseJWKSEndpoints(value string) map[string]string {
	endpoints := make(map[string]string)
	if value == "" {
		return endpoints
	}

	pairs := strings.Split(value, ",")
	for _, pair := range pairs {
		parts := strings.Split(pair, "=")
		if len(parts) == 2 {
			endpoints[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return endpoints
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
