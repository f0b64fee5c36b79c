// Package config loads service configuration from the environment with an
// optional YAML file overlay.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LLM provider identifiers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Config holds all configuration values.
type Config struct {
	// HTTP server
	Port string

	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// LLM
	LLMProvider     string
	LLMModel        string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string

	// Voice transcription (Whisper via the OpenAI API)
	TranscribeModel    string
	TranscribeLanguage string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// fileConfig mirrors Config for the optional YAML overlay. Only non-zero
// values override environment-derived settings.
type fileConfig struct {
	Port               string `yaml:"port"`
	SurrealDBURL       string `yaml:"surrealdb_url"`
	SurrealDBNamespace string `yaml:"surrealdb_namespace"`
	SurrealDBDatabase  string `yaml:"surrealdb_database"`
	SurrealDBUser      string `yaml:"surrealdb_user"`
	SurrealDBPass      string `yaml:"surrealdb_pass"`
	SurrealDBAuthLevel string `yaml:"surrealdb_auth_level"`
	LLMProvider        string `yaml:"llm_provider"`
	LLMModel           string `yaml:"llm_model"`
	OpenAIAPIKey       string `yaml:"openai_api_key"`
	AnthropicAPIKey    string `yaml:"anthropic_api_key"`
	OllamaHost         string `yaml:"ollama_host"`
	TranscribeModel    string `yaml:"transcribe_model"`
	TranscribeLanguage string `yaml:"transcribe_language"`
	LogFile            string `yaml:"log_file"`
	LogLevel           string `yaml:"log_level"`
}

// Load reads configuration from environment variables. If LOOPIN_CONFIG
// points at a YAML file, its values override the environment.
func Load() (Config, error) {
	cfg := Config{
		Port: getEnv("LOOPIN_PORT", "8787"),

		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "loopin"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "app"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LLMProvider:     getEnv("LOOPIN_LLM_PROVIDER", ProviderOpenAI),
		LLMModel:        getEnv("LOOPIN_LLM_MODEL", "gpt-4o"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),

		TranscribeModel:    getEnv("LOOPIN_TRANSCRIBE_MODEL", "whisper-1"),
		TranscribeLanguage: getEnv("LOOPIN_TRANSCRIBE_LANGUAGE", "ja"),

		LogFile:  getEnv("LOOPIN_LOG_FILE", "/tmp/loopin.log"),
		LogLevel: parseLogLevel(getEnv("LOOPIN_LOG_LEVEL", "INFO")),
	}

	if path := os.Getenv("LOOPIN_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	override(&c.Port, fc.Port)
	override(&c.SurrealDBURL, fc.SurrealDBURL)
	override(&c.SurrealDBNamespace, fc.SurrealDBNamespace)
	override(&c.SurrealDBDatabase, fc.SurrealDBDatabase)
	override(&c.SurrealDBUser, fc.SurrealDBUser)
	override(&c.SurrealDBPass, fc.SurrealDBPass)
	override(&c.SurrealDBAuthLevel, fc.SurrealDBAuthLevel)
	override(&c.LLMProvider, fc.LLMProvider)
	override(&c.LLMModel, fc.LLMModel)
	override(&c.OpenAIAPIKey, fc.OpenAIAPIKey)
	override(&c.AnthropicAPIKey, fc.AnthropicAPIKey)
	override(&c.OllamaHost, fc.OllamaHost)
	override(&c.TranscribeModel, fc.TranscribeModel)
	override(&c.TranscribeLanguage, fc.TranscribeLanguage)
	override(&c.LogFile, fc.LogFile)
	if fc.LogLevel != "" {
		c.LogLevel = parseLogLevel(fc.LogLevel)
	}

	return nil
}

func override(dst *string, val string) {
	if val != "" {
		*dst = val
	}
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
