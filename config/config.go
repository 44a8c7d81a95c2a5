// Package config loads the agent's settings from defaults, an optional
// YAML file and environment variables, in that order of precedence.
// A .env file in the working directory is picked up before the
// environment is read.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of all environment variables read by Load.
const EnvPrefix = "RESEARCH_AGENT_"

// Storage backend names accepted in Config.Storage.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config holds every runtime setting of the agent.
type Config struct {
	// Provider selects the model backend: "openai" or "langchain".
	Provider string `yaml:"provider"`
	// Model is the model name passed to the provider.
	Model string `yaml:"model"`
	// APIKey authenticates against the provider. Also read from
	// OPENAI_API_KEY for the openai provider.
	APIKey string `yaml:"api_key"`
	// BaseURL overrides the provider endpoint, for OpenAI-compatible servers.
	BaseURL string `yaml:"base_url"`

	// Collection is the vector store collection name.
	Collection string `yaml:"collection"`
	// Storage selects the store backend: memory, sqlite, redis or postgres.
	Storage string `yaml:"storage"`
	// StorageDir is the directory holding the sqlite database file.
	StorageDir string `yaml:"storage_dir"`
	// RedisAddr is the host:port of the redis server.
	RedisAddr string `yaml:"redis_addr"`
	// PostgresURL is the postgres connection string.
	PostgresURL string `yaml:"postgres_url"`

	// TopK is the number of documents retrieved per query.
	TopK int `yaml:"top_k"`
	// LogLevel is one of debug, info, warn, error, none.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Provider:   "openai",
		Collection: "documents",
		Storage:    StorageSQLite,
		StorageDir: "./chroma_db",
		RedisAddr:  "localhost:6379",
		TopK:       5,
		LogLevel:   "info",
	}
}

// Load builds the configuration: defaults first, then the YAML file at
// path when one is given, then environment variables. A .env file in the
// working directory is loaded before the environment is read.
func Load(path string) (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}

	setString("PROVIDER", &c.Provider)
	setString("MODEL", &c.Model)
	setString("API_KEY", &c.APIKey)
	setString("BASE_URL", &c.BaseURL)
	setString("COLLECTION", &c.Collection)
	setString("STORAGE", &c.Storage)
	setString("STORAGE_DIR", &c.StorageDir)
	setString("REDIS_ADDR", &c.RedisAddr)
	setString("POSTGRES_URL", &c.PostgresURL)
	setString("LOG_LEVEL", &c.LogLevel)

	if v, ok := os.LookupEnv(EnvPrefix + "TOP_K"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sTOP_K %q: %w", EnvPrefix, v, err)
		}
		c.TopK = n
	}

	if c.APIKey == "" {
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return nil
}

// Validate reports configuration combinations that cannot work.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageSQLite, StorageRedis, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}
	if c.Storage == StoragePostgres && c.PostgresURL == "" {
		return fmt.Errorf("postgres storage requires a connection string")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	return nil
}
