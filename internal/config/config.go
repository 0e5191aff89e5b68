// Package config loads wirefeed settings from an optional YAML file, a .env
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// BaseURLEnv names the variable holding the externally visible base URL.
const BaseURLEnv = "BASE_URL"

// DefaultMinCategoryPosts applies when the config file does not set
// feed.min_category_posts. Zero is a valid setting.
const DefaultMinCategoryPosts = 10

// Config is the top-level configuration.
type Config struct {
	// BaseURL prefixes self links and the placeholder image URL. Empty means
	// relative links.
	BaseURL  string         `yaml:"base_url"`
	Sources  SourcesConfig  `yaml:"sources"`
	Feed     FeedConfig     `yaml:"feed"`
	Server   ServerConfig   `yaml:"server"`
	Generate GenerateConfig `yaml:"generate"`
	Log      LogConfig      `yaml:"log"`
}

// SourcesConfig holds upstream endpoints.
type SourcesConfig struct {
	WordPressURL string `yaml:"wordpress_url"`
	ScrollURL    string `yaml:"scroll_url"`
}

// FeedConfig controls feed content.
type FeedConfig struct {
	Limit int `yaml:"limit"`
	// MinCategoryPosts is exclusive: a category needs more posts than this to
	// get its own static feed.
	MinCategoryPosts int    `yaml:"min_category_posts"`
	Sanitizer        string `yaml:"sanitizer"`
}

// ServerConfig is used by "wirefeed serve".
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// GenerateConfig is used by "wirefeed generate".
type GenerateConfig struct {
	OutputDir      string `yaml:"output_dir"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LogConfig mirrors logger.Config.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ServerTimeout returns the upstream timeout for on-demand requests.
func (c *Config) ServerTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// GenerateTimeout returns the upstream timeout for static generation.
func (c *Config) GenerateTimeout() time.Duration {
	return time.Duration(c.Generate.TimeoutSeconds) * time.Second
}

// Load builds a Config. The .env file at envFile is loaded first if it
// exists; variables already set in the environment win. path may be empty,
// in which case only defaults and the environment apply. ${VAR} references in
// the YAML file are expanded from the environment.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := newConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		expanded := os.Expand(string(data), os.Getenv)
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if v, ok := os.LookupEnv(BaseURLEnv); ok {
		cfg.BaseURL = v
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	setDefaults(cfg)
	return cfg, nil
}

// newConfig returns a Config preset with the defaults whose zero value is
// meaningful, so the YAML file can still set them to zero.
func newConfig() *Config {
	return &Config{Feed: FeedConfig{MinCategoryPosts: DefaultMinCategoryPosts}}
}

func setDefaults(cfg *Config) {
	if cfg.Sources.WordPressURL == "" {
		cfg.Sources.WordPressURL = "https://cms.thewire.in/wp-json/wp/v2"
	}
	if cfg.Sources.ScrollURL == "" {
		cfg.Sources.ScrollURL = "https://scroll-newsletter.stck.me/"
	}
	if cfg.Feed.Limit == 0 {
		cfg.Feed.Limit = 30
	}
	if cfg.Feed.Sanitizer == "" {
		cfg.Feed.Sanitizer = "regexp"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
	if cfg.Server.TimeoutSeconds == 0 {
		cfg.Server.TimeoutSeconds = 15
	}
	if cfg.Generate.OutputDir == "" {
		cfg.Generate.OutputDir = "public"
	}
	if cfg.Generate.TimeoutSeconds == 0 {
		cfg.Generate.TimeoutSeconds = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// String renders the effective configuration as YAML.
func (c *Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%+v", *c)
	}
	return string(out)
}
