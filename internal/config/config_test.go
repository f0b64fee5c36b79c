package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8787" {
		t.Errorf("Port = %q, want 8787", cfg.Port)
	}
	if cfg.SurrealDBURL != "ws://localhost:8000/rpc" {
		t.Errorf("SurrealDBURL = %q", cfg.SurrealDBURL)
	}
	if cfg.SurrealDBNamespace != "loopin" {
		t.Errorf("SurrealDBNamespace = %q", cfg.SurrealDBNamespace)
	}
	if cfg.LLMProvider != ProviderOpenAI {
		t.Errorf("LLMProvider = %q", cfg.LLMProvider)
	}
	if cfg.TranscribeModel != "whisper-1" {
		t.Errorf("TranscribeModel = %q", cfg.TranscribeModel)
	}
	if cfg.TranscribeLanguage != "ja" {
		t.Errorf("TranscribeLanguage = %q", cfg.TranscribeLanguage)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LOOPIN_PORT", "9999")
	t.Setenv("LOOPIN_LLM_PROVIDER", "ollama")
	t.Setenv("LOOPIN_LLM_MODEL", "llama3")
	t.Setenv("LOOPIN_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9999" {
		t.Errorf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.LLMProvider != ProviderOllama {
		t.Errorf("LLMProvider = %q, want ollama", cfg.LLMProvider)
	}
	if cfg.LLMModel != "llama3" {
		t.Errorf("LLMModel = %q, want llama3", cfg.LLMModel)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
}

func TestLoadFileOverridesEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loopin.yaml")
	content := []byte("port: \"7070\"\nllm_model: gpt-4o-mini\nlog_level: warn\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LOOPIN_PORT", "9999")
	t.Setenv("LOOPIN_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "7070" {
		t.Errorf("Port = %q, want file value 7070", cfg.Port)
	}
	if cfg.LLMModel != "gpt-4o-mini" {
		t.Errorf("LLMModel = %q", cfg.LLMModel)
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Errorf("LogLevel = %v, want warn", cfg.LogLevel)
	}
	// Untouched fields keep their environment or default values.
	if cfg.SurrealDBDatabase != "app" {
		t.Errorf("SurrealDBDatabase = %q, want app", cfg.SurrealDBDatabase)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("LOOPIN_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"DEBUG":     slog.LevelDebug,
		"debug":     slog.LevelDebug,
		"INFO":      slog.LevelInfo,
		"WARN":      slog.LevelWarn,
		"WARNING":   slog.LevelWarn,
		"ERROR":     slog.LevelError,
		"gibberish": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
