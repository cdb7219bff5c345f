// Package config loads sheetcoach settings from defaults, an optional YAML
// file, an optional .env file and SHEETCOACH_* environment variables, in
// that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/sheetcoach/internal/interview"
	"github.com/abhisek/sheetcoach/internal/logging"
	"github.com/abhisek/sheetcoach/internal/service"
)

// Environment variables.
const (
	EnvConfig       = "SHEETCOACH_CONFIG"
	EnvAPIBase      = "SHEETCOACH_API_BASE"
	EnvAPIBaseNext  = "NEXT_PUBLIC_API_BASE"
	EnvTimeout      = "SHEETCOACH_TIMEOUT"
	EnvEmail        = "SHEETCOACH_EMAIL"
	EnvLogLevel     = "SHEETCOACH_LOG_LEVEL"
	EnvLogFile      = "SHEETCOACH_LOG_FILE"
	EnvReportDir    = "SHEETCOACH_REPORT_DIR"
	EnvDB           = "SHEETCOACH_DB"
	EnvRetryAttempt = "SHEETCOACH_RETRY_ATTEMPTS"
)

// Config is the complete application configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Interview InterviewConfig `yaml:"interview"`
	Log       LogConfig       `yaml:"log"`

	// ReportDir is where exported reports are written.
	ReportDir string `yaml:"report_dir"`

	// DBPath is the audit store location. Empty means store.DefaultDBPath.
	DBPath string `yaml:"db"`
}

// APIConfig configures the interview service client.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Retry   RetryConfig   `yaml:"retry"`
}

// RetryConfig configures retries of idempotent service calls.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// InterviewConfig holds per-interview defaults.
type InterviewConfig struct {
	CandidateEmail string `yaml:"candidate_email"`
	Greeting       string `yaml:"greeting"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	svc := service.DefaultConfig()
	return &Config{
		API: APIConfig{
			BaseURL: svc.BaseURL,
			Timeout: svc.Timeout,
			Retry: RetryConfig{
				MaxAttempts: svc.Retry.MaxAttempts,
				InitialWait: svc.Retry.InitialWait,
				MaxWait:     svc.Retry.MaxWait,
				Multiplier:  svc.Retry.Multiplier,
			},
		},
		Interview: InterviewConfig{
			Greeting: interview.DefaultGreeting,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		ReportDir: ".",
	}
}

// Load builds the configuration. path names a YAML file; when empty,
// $SHEETCOACH_CONFIG and then DefaultPath() are tried, and a missing
// default file is not an error. A .env file in the working directory is
// loaded if present; it never overrides variables already set.
func Load(path string) (*Config, error) {
	return load(path, ".env")
}

func load(path, envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
		explicit = path != ""
	}
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/sheetcoach/config.yaml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "sheetcoach", "config.yaml"), nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAPIBaseNext); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvAPIBase); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv(EnvRetryAttempt); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRetryAttempt, err)
		}
		c.API.Retry.MaxAttempts = n
	}
	if v := os.Getenv(EnvEmail); v != "" {
		c.Interview.CandidateEmail = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv(EnvReportDir); v != "" {
		c.ReportDir = v
	}
	if v := os.Getenv(EnvDB); v != "" {
		c.DBPath = v
	}
	return nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if err := c.Service().Validate(); err != nil {
		return err
	}
	if c.API.Retry.Multiplier < 1 {
		return fmt.Errorf("retry multiplier must be at least 1, got %g", c.API.Retry.Multiplier)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Service returns the service client configuration.
func (c *Config) Service() service.Config {
	return service.Config{
		BaseURL: c.API.BaseURL,
		Timeout: c.API.Timeout,
		Retry: service.RetryConfig{
			MaxAttempts: c.API.Retry.MaxAttempts,
			InitialWait: c.API.Retry.InitialWait,
			MaxWait:     c.API.Retry.MaxWait,
			Multiplier:  c.API.Retry.Multiplier,
		},
	}
}

// Logging returns the logger configuration.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:  c.Log.Level,
		File:   c.Log.File,
		Format: c.Log.Format,
	}
}
