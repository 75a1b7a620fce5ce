// Package config holds runtime configuration and analysis thresholds.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider identifies an LLM or embedding backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Config holds all runtime configuration values.
type Config struct {
	// LLM text generation
	LLMProvider Provider
	LLMModel    string

	// Embeddings
	EmbedProvider  Provider
	EmbedModel     string
	EmbedDimension int

	// Provider credentials / endpoints
	OllamaHost      string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// SurrealDB (embedding cache + article store)
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Logging
	LogFile  string
	LogLevel slog.Level

	// Analysis tunables
	Thresholds Thresholds
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		LLMProvider: Provider(getEnv("CONTENTIQ_LLM_PROVIDER", "ollama")),
		LLMModel:    getEnv("CONTENTIQ_LLM_MODEL", "llama3.2"),

		EmbedProvider:  Provider(getEnv("CONTENTIQ_EMBED_PROVIDER", "ollama")),
		EmbedModel:     getEnv("CONTENTIQ_EMBED_MODEL", "all-minilm:l6-v2"),
		EmbedDimension: 384,

		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),

		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "contentiq"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "articles"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LogFile:  getEnv("CONTENTIQ_LOG_FILE", "/tmp/contentiq.log"),
		LogLevel: parseLogLevel(getEnv("CONTENTIQ_LOG_LEVEL", "INFO")),

		Thresholds: DefaultThresholds(),
	}
}

// LoadWithOverrides reads env config and applies a YAML thresholds overlay
// when path is non-empty. Fields absent from the file keep their defaults.
func LoadWithOverrides(path string) (Config, error) {
	cfg := Load()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read thresholds file: %w", err)
	}

	t := cfg.Thresholds
	if err := yaml.Unmarshal(data, &t); err != nil {
		return cfg, fmt.Errorf("parse thresholds file: %w", err)
	}
	cfg.Thresholds = t
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
