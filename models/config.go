// Package models defines data structures for configuration, link records and messages.
package models

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration. Values come from an optional YAML file
// and are overridden by CLI flags.
type Config struct {
	DBPath string `yaml:"db_path"`

	Gemini GeminiConfig `yaml:"gemini"`
	Review ReviewConfig `yaml:"review"`
	Fetch  FetchConfig  `yaml:"fetch"`

	// ExcludeDomain is dropped from extracted search result links.
	ExcludeDomain string `yaml:"exclude_domain"`
}

// GeminiConfig describes the classification endpoint.
type GeminiConfig struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// ReviewConfig tunes the review workflow.
type ReviewConfig struct {
	Delay       time.Duration `yaml:"delay"`
	LoadTimeout time.Duration `yaml:"load_timeout"`
	TextLimit   int           `yaml:"text_limit"`
}

// FetchConfig tunes page loading.
type FetchConfig struct {
	UserAgent string        `yaml:"user_agent"`
	CacheDir  string        `yaml:"cache_dir"`
	MaxAge    time.Duration `yaml:"max_age"`

	// MainContent reads only the page's main article instead of the whole body.
	MainContent bool `yaml:"main_content"`
}

const (
	DefaultDBName        = "scholarship-tracker.db"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-3-flash-preview"
	DefaultReviewDelay   = 2500 * time.Millisecond
	DefaultLoadTimeout   = 30 * time.Second
	DefaultTextLimit     = 5000
	DefaultExcludeDomain = "google.com"
	DefaultCacheDir      = ".scholarship-cache"
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		DBPath: DefaultDBName,
		Gemini: GeminiConfig{
			BaseURL: DefaultGeminiBaseURL,
			Model:   DefaultGeminiModel,
			Timeout: 60 * time.Second,
		},
		Review: ReviewConfig{
			Delay:       DefaultReviewDelay,
			LoadTimeout: DefaultLoadTimeout,
			TextLimit:   DefaultTextLimit,
		},
		Fetch: FetchConfig{
			CacheDir: DefaultCacheDir,
		},
		ExcludeDomain: DefaultExcludeDomain,
	}
}

// LoadConfig reads a YAML config file over the defaults.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills zero values a partial file left behind.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = d.Gemini.BaseURL
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = d.Gemini.Model
	}
	if c.Gemini.Timeout <= 0 {
		c.Gemini.Timeout = d.Gemini.Timeout
	}
	if c.Review.Delay < 0 {
		c.Review.Delay = d.Review.Delay
	}
	if c.Review.LoadTimeout <= 0 {
		c.Review.LoadTimeout = d.Review.LoadTimeout
	}
	if c.Review.TextLimit <= 0 {
		c.Review.TextLimit = d.Review.TextLimit
	}
	if c.ExcludeDomain == "" {
		c.ExcludeDomain = d.ExcludeDomain
	}
}
