package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything the loaner client needs to talk to a kiosk
// server.
type Config struct {
	ServerURL             string
	Renter                string
	PollSeconds           int
	ReconnectSeconds      int
	RequestTimeoutSeconds int
	InsecureTLS           bool
	TokenPath             string
}

const (
	defaultConfigPath     = "~/.config/loaner/config.toml"
	defaultTokenPath      = "~/.config/loaner/token"
	defaultServerURL      = "http://127.0.0.1:8080"
	defaultPollSeconds    = 60
	defaultReconnectSecs  = 5
	defaultRequestTimeout = 10
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the loaner config, falling back to defaults when
// the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ServerURL             string `toml:"server_url"`
		Renter                string `toml:"renter"`
		PollSeconds           int    `toml:"poll_seconds"`
		ReconnectSeconds      int    `toml:"reconnect_seconds"`
		RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
		InsecureTLS           bool   `toml:"insecure_tls"`
		TokenPath             string `toml:"token_path"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.ServerURL); v != "" {
		cfg.ServerURL = v
	}
	cfg.Renter = strings.TrimSpace(raw.Renter)
	if raw.PollSeconds > 0 {
		cfg.PollSeconds = raw.PollSeconds
	}
	if raw.ReconnectSeconds > 0 {
		cfg.ReconnectSeconds = raw.ReconnectSeconds
	}
	if raw.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeoutSeconds = raw.RequestTimeoutSeconds
	}
	cfg.InsecureTLS = raw.InsecureTLS
	if v := strings.TrimSpace(raw.TokenPath); v != "" {
		cfg.TokenPath = v
	}
	cfg.TokenPath = mustExpand(cfg.TokenPath)

	return cfg, nil
}

func defaults() Config {
	return Config{
		ServerURL:             defaultServerURL,
		PollSeconds:           defaultPollSeconds,
		ReconnectSeconds:      defaultReconnectSecs,
		RequestTimeoutSeconds: defaultRequestTimeout,
		TokenPath:             mustExpand(defaultTokenPath),
	}
}

// PollInterval returns the status poll cadence.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollSeconds) * time.Second
}

// ReconnectDelay returns the stream reconnect delay.
func (c Config) ReconnectDelay() time.Duration {
	return time.Duration(c.ReconnectSeconds) * time.Second
}

// RequestTimeout returns the per-request HTTP timeout.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// LoadToken reads the saved admin token, returning "" when none is stored.
func (c Config) LoadToken() string {
	raw, err := os.ReadFile(c.TokenPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// SaveToken persists the admin token, creating directories as needed.
func (c Config) SaveToken(token string) error {
	dir := filepath.Dir(c.TokenPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(c.TokenPath, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
