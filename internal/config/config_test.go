package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.APIKey != "${OPENAI_API_KEY}" {
		t.Errorf("expected API key placeholder, got %s", cfg.APIKey)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("expected default model gpt-4o-mini, got %s", cfg.Model)
	}
	if cfg.MaxWorkers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.MaxWorkers)
	}
	if cfg.Separator != "." {
		t.Errorf("expected separator '.', got %q", cfg.Separator)
	}
	if cfg.Timeout() != 300*time.Second {
		t.Errorf("expected 300s timeout, got %s", cfg.Timeout())
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "secret123")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestConfig_ResolvedAPIKey(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-test-123")

	cfg := &Config{APIKey: "${TEST_OPENAI_KEY}"}
	if got := cfg.ResolvedAPIKey(); got != "sk-test-123" {
		t.Errorf("expected sk-test-123, got %s", got)
	}

	cfg = &Config{APIKey: "direct-key"}
	if got := cfg.ResolvedAPIKey(); got != "direct-key" {
		t.Errorf("expected direct-key, got %s", got)
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults without config file", func(t *testing.T) {
		cfg, err := Load("", t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Model != "gpt-4o-mini" {
			t.Errorf("expected default model, got %s", cfg.Model)
		}
		if cfg.MaxWorkers != 4 {
			t.Errorf("expected default workers, got %d", cfg.MaxWorkers)
		}
	})

	t.Run("loads from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		configContent := `
model: gpt-4o
max_workers: 8
log_level: debug
`
		if err := os.WriteFile(configFile, []byte(configContent), 0o644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := Load(configFile, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Model != "gpt-4o" {
			t.Errorf("expected gpt-4o, got %s", cfg.Model)
		}
		if cfg.MaxWorkers != 8 {
			t.Errorf("expected 8 workers, got %d", cfg.MaxWorkers)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("expected debug, got %s", cfg.LogLevel)
		}
		// Unset keys keep their defaults.
		if cfg.Separator != "." {
			t.Errorf("expected default separator, got %q", cfg.Separator)
		}
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("DOCSIFT_MODEL", "gpt-5")

		cfg, err := Load("", t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Model != "gpt-5" {
			t.Errorf("expected env override gpt-5, got %s", cfg.Model)
		}
	})

	t.Run("explicit missing config file errors", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
		if err == nil {
			t.Fatal("expected error for missing explicit config file")
		}
	})
}

func TestWriteDefault(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# docsift configuration") {
		t.Error("expected comment header")
	}

	// Round-trip: the written file loads back to the defaults.
	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("failed to load written config: %v", err)
	}
	want := DefaultConfig()
	if cfg.Model != want.Model || cfg.MaxWorkers != want.MaxWorkers ||
		cfg.Separator != want.Separator || cfg.APIKey != want.APIKey {
		t.Errorf("round-trip mismatch: got %+v, want %+v", cfg, want)
	}
}
