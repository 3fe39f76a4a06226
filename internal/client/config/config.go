package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the gatepass CLI.
type Config struct {
	ServerURL            string        `mapstructure:"server_url"`
	RequestTimeout       time.Duration `mapstructure:"request_timeout"`
	SessionPersistence   string        `mapstructure:"session_persistence"`
	SessionMaxAge        time.Duration `mapstructure:"session_max_age"`
	SessionCheckInterval time.Duration `mapstructure:"session_check_interval"`
	DatabasePath         string        `mapstructure:"database_path"`
	KeyPath              string        `mapstructure:"key_path"`
	DownloadDir          string        `mapstructure:"download_dir"`
	LogLevel             string        `mapstructure:"log_level"`
	LogFormat            string        `mapstructure:"log_format"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	dir := dataDir()
	return Config{
		ServerURL:            "http://localhost:8000/api",
		RequestTimeout:       15 * time.Second,
		SessionPersistence:   "durable",
		SessionMaxAge:        24 * time.Hour,
		SessionCheckInterval: 5 * time.Minute,
		DatabasePath:         filepath.Join(dir, "session.db"),
		KeyPath:              filepath.Join(dir, "session.key"),
		DownloadDir:          "downloads",
		LogLevel:             "warn",
		LogFormat:            "text",
	}
}

func dataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".gatepass"
	}
	return filepath.Join(base, "gatepass")
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.ServerURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("server_url %q must be an http(s) URL", c.ServerURL))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	switch c.SessionPersistence {
	case "ephemeral":
	case "durable":
		if c.DatabasePath == "" {
			errs = append(errs, errors.New("database_path is required for durable sessions"))
		}
		if c.KeyPath == "" {
			errs = append(errs, errors.New("key_path is required for durable sessions"))
		}
	default:
		errs = append(errs, fmt.Errorf("session_persistence %q must be ephemeral or durable", c.SessionPersistence))
	}
	if c.SessionMaxAge <= 0 {
		errs = append(errs, errors.New("session_max_age must be positive"))
	}
	if c.SessionCheckInterval <= 0 {
		errs = append(errs, errors.New("session_check_interval must be positive"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q must be debug, info, warn or error", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format %q must be text or json", c.LogFormat))
	}

	return errors.Join(errs...)
}
