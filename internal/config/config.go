package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// KeywordGroup is a named category with the phrases that match it.
// Groups are kept as an ordered list, not a map: when two groups score the
// same on a title, the one configured first wins.
type KeywordGroup struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DevToConfig struct {
	Mode string `yaml:"mode"` // "latest", "top" or "tag"
	Tag  string `yaml:"tag"`
}

type SummarizerConfig struct {
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	MaxWords int    `yaml:"max_words"`
}

type Config struct {
	MaxArticlesPerSource int              `yaml:"max_articles_per_source"`
	ScrapingDelay        string           `yaml:"scraping_delay"`
	RequestTimeout       string           `yaml:"request_timeout"`
	Database             string           `yaml:"database"`
	Server               ServerConfig     `yaml:"server"`
	DevTo                DevToConfig      `yaml:"devto"`
	Summarizer           SummarizerConfig `yaml:"summarizer"`
	Categories           []KeywordGroup   `yaml:"categories"`
}

func (c *Config) ScrapingDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.ScrapingDelay)
	if err != nil {
		return time.Second
	}
	return d
}

func (c *Config) RequestTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// DatabasePath resolves the SQLite file location, defaulting to the xdg
// data directory.
func (c *Config) DatabasePath() string {
	if c.Database != "" {
		return c.Database
	}
	return filepath.Join(xdg.DataHome, "techtrends", "techtrends.db")
}

// SummarizerKey returns the resolved API key (config or env var).
func (c *Config) SummarizerKey() string {
	if c.Summarizer.APIKey != "" {
		return c.Summarizer.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "techtrends", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyDefaults(&cfg, defaults)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

// applyDefaults fills fields a user config left unset.
func applyDefaults(cfg, defaults *Config) {
	if cfg.MaxArticlesPerSource <= 0 {
		cfg.MaxArticlesPerSource = defaults.MaxArticlesPerSource
	}
	if cfg.ScrapingDelay == "" {
		cfg.ScrapingDelay = defaults.ScrapingDelay
	}
	if cfg.RequestTimeout == "" {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaults.Server.Addr
	}
	if cfg.DevTo.Mode == "" {
		cfg.DevTo.Mode = defaults.DevTo.Mode
	}
	if cfg.Summarizer.Model == "" {
		cfg.Summarizer.Model = defaults.Summarizer.Model
	}
	if cfg.Summarizer.MaxWords <= 0 {
		cfg.Summarizer.MaxWords = defaults.Summarizer.MaxWords
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = defaults.Categories
	}
}

func validate(cfg *Config) error {
	validModes := map[string]bool{"latest": true, "top": true, "tag": true}
	if !validModes[cfg.DevTo.Mode] {
		return fmt.Errorf("devto: unknown mode %q (valid: latest, top, tag)", cfg.DevTo.Mode)
	}
	if cfg.DevTo.Mode == "tag" && cfg.DevTo.Tag == "" {
		return fmt.Errorf("devto: mode %q requires a tag", cfg.DevTo.Mode)
	}
	seen := make(map[string]bool)
	for i, g := range cfg.Categories {
		if g.Name == "" {
			return fmt.Errorf("category %d: name is required", i)
		}
		if seen[g.Name] {
			return fmt.Errorf("category %q: duplicate name", g.Name)
		}
		seen[g.Name] = true
		if len(g.Keywords) == 0 {
			return fmt.Errorf("category %q: keywords are required", g.Name)
		}
	}
	return nil
}
