// Package cliconfig loads todoctl settings from ~/.config/todoctl/config.toml.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultServer  = "http://localhost:8080/api"
	DefaultTimeout = 10 * time.Second

	// ServerEnv overrides the configured server URL.
	ServerEnv = "TODOCTL_SERVER"
)

// Config represents the todoctl config file.
type Config struct {
	Server Server `toml:"server"`
}

// Server describes the API todoctl talks to.
type Server struct {
	// URL is the API root including the route prefix.
	URL string `toml:"url"`
	// Timeout is a Go duration string such as "5s".
	Timeout string `toml:"timeout"`
}

// Settings are the resolved values todoctl runs with.
type Settings struct {
	Server  string
	Timeout time.Duration
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "todoctl", "config.toml"), nil
}

// Load reads the config file at path. A missing file yields an empty config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("parse config file %s: unknown key %s", path, undecoded[0])
	}
	return cfg, nil
}

// Resolve picks the server URL from flag, then $TODOCTL_SERVER, then the
// file, then the default.
func (c Config) Resolve(flagServer string) (Settings, error) {
	settings := Settings{Server: DefaultServer, Timeout: DefaultTimeout}

	for _, candidate := range []string{flagServer, os.Getenv(ServerEnv), c.Server.URL} {
		if v := strings.TrimSpace(candidate); v != "" {
			settings.Server = v
			break
		}
	}

	if v := strings.TrimSpace(c.Server.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid server.timeout %q: %w", v, err)
		}
		if d <= 0 {
			return Settings{}, fmt.Errorf("invalid server.timeout %q: must be positive", v)
		}
		settings.Timeout = d
	}

	return settings, nil
}
