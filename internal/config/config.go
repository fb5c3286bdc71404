// Package config loads client settings: defaults, then an optional TOML
// file, then DOCCHAT_* environment variables. Command-line flags are applied
// last by the caller.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/yourusername/docchat/internal/docsync"
)

// DefaultFileName is looked up in the working directory when no path is given
const DefaultFileName = "docchat.toml"

// Duration lets TOML use strings like "500ms"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config holds every client setting
type Config struct {
	ServerURL  string   `toml:"server_url"`
	APIURL     string   `toml:"api_url"`
	Debounce   Duration `toml:"debounce"`
	SyncPolicy string   `toml:"sync_policy"`
	ExportDir  string   `toml:"export_dir"`
	DataDir    string   `toml:"data_dir"`

	Log LogConfig `toml:"log"`
}

// LogConfig controls the zerolog output
type LogConfig struct {
	File   string `toml:"file"`
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ServerURL:  "ws://localhost:4000",
		APIURL:     "http://localhost:4000",
		Debounce:   Duration{docsync.DefaultDelay},
		SyncPolicy: string(docsync.PolicyDual),
		ExportDir:  "exports",
		DataDir:    defaultDataDir(),
		Log: LogConfig{
			File:   "docchat.log",
			Level:  "info",
			Format: "json",
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docchat"
	}
	return filepath.Join(home, ".docchat")
}

// Load builds the configuration. An explicit path must exist; without one,
// DefaultFileName is used when present.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFileName); err == nil {
			path = DefaultFileName
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ApplyEnv overrides fields from DOCCHAT_* variables
func (c *Config) ApplyEnv() error {
	c.ServerURL = getEnv("DOCCHAT_SERVER_URL", c.ServerURL)
	c.APIURL = getEnv("DOCCHAT_API_URL", c.APIURL)
	c.SyncPolicy = getEnv("DOCCHAT_SYNC_POLICY", c.SyncPolicy)
	c.ExportDir = getEnv("DOCCHAT_EXPORT_DIR", c.ExportDir)
	c.DataDir = getEnv("DOCCHAT_DATA_DIR", c.DataDir)
	c.Log.File = getEnv("DOCCHAT_LOG_FILE", c.Log.File)
	c.Log.Level = getEnv("DOCCHAT_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("DOCCHAT_LOG_FORMAT", c.Log.Format)

	if v := os.Getenv("DOCCHAT_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DOCCHAT_DEBOUNCE: %w", err)
		}
		c.Debounce = Duration{d}
	}
	return nil
}

// Validate checks URLs, the debounce delay and the sync policy
func (c *Config) Validate() error {
	var errs []error

	if err := checkURL(c.ServerURL, "ws", "wss"); err != nil {
		errs = append(errs, fmt.Errorf("server_url: %w", err))
	}
	if err := checkURL(c.APIURL, "http", "https"); err != nil {
		errs = append(errs, fmt.Errorf("api_url: %w", err))
	}
	if c.Debounce.Duration <= 0 {
		errs = append(errs, errors.New("debounce must be positive"))
	}
	if _, err := docsync.ParsePolicy(c.SyncPolicy); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Policy returns the parsed sync policy
func (c *Config) Policy() docsync.Policy {
	p, err := docsync.ParsePolicy(c.SyncPolicy)
	if err != nil {
		return docsync.PolicyDual
	}
	return p
}

// SessionPath is where the persisted login lives
func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session.db")
}

func checkURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	for _, s := range schemes {
		if strings.EqualFold(u.Scheme, s) {
			if u.Host == "" {
				return fmt.Errorf("%q has no host", raw)
			}
			return nil
		}
	}
	return fmt.Errorf("%q: scheme must be one of %s", raw, strings.Join(schemes, ", "))
}
