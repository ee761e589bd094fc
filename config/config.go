// Package config provides the explicit configuration object passed into
// constructors. Nothing here runs at import time: environment files are
// loaded only when the caller asks (LoadEnv), and unknown backend selections
// fail loudly instead of silently falling back.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/agentpool/memory"
)

// ProviderConfig holds credentials and model selection for one LLM provider.
type ProviderConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// EmbeddingConfig selects the embedding backend used by long-term memory.
type EmbeddingConfig struct {
	// Backend is "simple" or "openai".
	Backend string `yaml:"backend"`
	// Model overrides the embedding model for backends that take one.
	Model string `yaml:"model"`
}

// StorageConfig points at persistent store locations.
type StorageConfig struct {
	// SQLitePath backs the SQLite history and vector stores.
	SQLitePath string `yaml:"sqlite_path"`
	// PostgresDSN backs the pgvector store.
	PostgresDSN string `yaml:"postgres_dsn"`
}

// Config is the full runtime configuration.
type Config struct {
	OpenAI    ProviderConfig  `yaml:"openai"`
	Anthropic ProviderConfig  `yaml:"anthropic"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Storage   StorageConfig   `yaml:"storage"`
	LogLevel  string          `yaml:"log_level"`
}

// Default returns the baseline configuration: deterministic simple embeddings
// and info-level logging.
func Default() Config {
	return Config{
		Embedding: EmbeddingConfig{Backend: memory.EmbeddingBackendSimple},
		LogLevel:  "info",
	}
}

// LoadEnv loads .env files into the process environment. It is an explicit
// call so importing this package has no side effects; pass no arguments to
// load "./.env".
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("config: load env: %w", err)
	}
	return nil
}

// Load reads the YAML file at path (skipped when path is empty) over the
// defaults, then overlays well-known environment variables, and validates.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overlay(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	overlay(&c.OpenAI.Model, "AGENTPOOL_OPENAI_MODEL")
	overlay(&c.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	overlay(&c.Anthropic.Model, "AGENTPOOL_ANTHROPIC_MODEL")
	overlay(&c.Embedding.Backend, "AGENTPOOL_EMBEDDING_BACKEND")
	overlay(&c.Embedding.Model, "AGENTPOOL_EMBEDDING_MODEL")
	overlay(&c.Storage.SQLitePath, "AGENTPOOL_SQLITE_PATH")
	overlay(&c.Storage.PostgresDSN, "AGENTPOOL_POSTGRES_DSN")
	overlay(&c.LogLevel, "AGENTPOOL_LOG_LEVEL")
}

func overlay(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks selections that would otherwise fail deep inside a run.
func (c Config) Validate() error {
	switch c.Embedding.Backend {
	case "", memory.EmbeddingBackendSimple, memory.EmbeddingBackendOpenAI:
	default:
		return fmt.Errorf("config: unknown embedding backend %q", c.Embedding.Backend)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}

// Embedder resolves the configured embedding backend.
func (c Config) Embedder() (memory.EmbeddingGenerator, error) {
	return memory.NewEmbedder(c.Embedding.Backend, func(o *memory.OpenAIEmbedderOptions) {
		if c.Embedding.Model != "" {
			o.Model = c.Embedding.Model
		}
	})
}
