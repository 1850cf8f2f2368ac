package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerURL != defaultServerURL {
		t.Fatalf("ServerURL = %q, want default", cfg.ServerURL)
	}
	if cfg.PollSeconds != 60 || cfg.ReconnectSeconds != 5 || cfg.RequestTimeoutSeconds != 10 {
		t.Fatalf("cadence defaults = %d/%d/%d, want 60/5/10", cfg.PollSeconds, cfg.ReconnectSeconds, cfg.RequestTimeoutSeconds)
	}
}

func TestLoad_ParsesAndOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	tokenPath := filepath.Join(dir, "token")
	body := `
server_url = "https://kiosk.example.com"
renter = "Kim"
poll_seconds = 15
reconnect_seconds = 2
request_timeout_seconds = 3
insecure_tls = true
token_path = "` + tokenPath + `"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerURL != "https://kiosk.example.com" {
		t.Fatalf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.Renter != "Kim" {
		t.Fatalf("Renter = %q, want Kim", cfg.Renter)
	}
	if !cfg.InsecureTLS {
		t.Fatal("InsecureTLS = false, want true")
	}
	if cfg.PollInterval() != 15*time.Second {
		t.Fatalf("PollInterval = %v, want 15s", cfg.PollInterval())
	}
	if cfg.ReconnectDelay() != 2*time.Second {
		t.Fatalf("ReconnectDelay = %v, want 2s", cfg.ReconnectDelay())
	}
	if cfg.RequestTimeout() != 3*time.Second {
		t.Fatalf("RequestTimeout = %v, want 3s", cfg.RequestTimeout())
	}
	if cfg.TokenPath != tokenPath {
		t.Fatalf("TokenPath = %q, want %q", cfg.TokenPath, tokenPath)
	}
}

func TestLoad_RejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("server_url = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load returned nil for malformed TOML, want error")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := defaults()
	cfg.TokenPath = filepath.Join(t.TempDir(), "nested", "token")

	if got := cfg.LoadToken(); got != "" {
		t.Fatalf("LoadToken before save = %q, want empty", got)
	}
	if err := cfg.SaveToken("jwt-abc123"); err != nil {
		t.Fatalf("SaveToken returned error: %v", err)
	}
	if got := cfg.LoadToken(); got != "jwt-abc123" {
		t.Fatalf("LoadToken = %q, want jwt-abc123", got)
	}

	info, err := os.Stat(cfg.TokenPath)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("token perm = %o, want 600", perm)
	}
}
