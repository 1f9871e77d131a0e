package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "FINANCEHUB_API_URL", "DEV_AUTH", "SESSION_TTL", "WIZARD_TTL", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.FinanceHubAPIURL != "http://localhost:3001" {
		t.Errorf("unexpected api url %q", cfg.FinanceHubAPIURL)
	}
	if !cfg.DevAuth {
		t.Error("DEV_AUTH should default to true")
	}
	if cfg.SessionTTL != 8*time.Hour || cfg.WizardTTL != 24*time.Hour {
		t.Errorf("unexpected ttls: session=%v wizard=%v", cfg.SessionTTL, cfg.WizardTTL)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEV_AUTH", "false")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("MAX_RETRIES", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	if cfg.Port != 9090 {
		t.Errorf("expected 9090, got %d", cfg.Port)
	}
	if cfg.DevAuth {
		t.Error("expected DevAuth=false")
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("expected 3s, got %v", cfg.HTTPTimeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("bad int should fall back to default, got %d", cfg.MaxRetries)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoad_ZeroHTTPTimeoutDisablesTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "0")

	if cfg := Load(); cfg.HTTPTimeout != 0 {
		t.Errorf("expected HTTP_TIMEOUT=0 to disable the timeout, got %v", cfg.HTTPTimeout)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\n\nexport FH_TEST_A=\"quoted value\"\nFH_TEST_B='x=y'\nFH_TEST_C=from-file\nmalformed line\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FH_TEST_C", "from-env")
	t.Setenv("FH_TEST_A", "")
	os.Unsetenv("FH_TEST_A")
	t.Setenv("FH_TEST_B", "")
	os.Unsetenv("FH_TEST_B")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("FH_TEST_A"); got != "quoted value" {
		t.Errorf("FH_TEST_A = %q", got)
	}
	if got := os.Getenv("FH_TEST_B"); got != "x=y" {
		t.Errorf("FH_TEST_B = %q", got)
	}
	if got := os.Getenv("FH_TEST_C"); got != "from-env" {
		t.Errorf("existing env must win, got %q", got)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("expected error for missing file")
	}
}
