package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Vault  VaultConfig       `yaml:"vault"`
	Site   SiteConfig        `yaml:"site"`
	Search SearchConfig      `yaml:"search"`
	Serve  ServeConfig       `yaml:"serve"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	return c.Serve.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// VaultConfig holds the path to the Markdown vault directory.
type VaultConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SiteConfig controls the static site build. BaseURL is optional; when set
// it enables rel=canonical links on built pages.
type SiteConfig struct {
	OutDir  string `yaml:"out_dir"`
	Title   string `yaml:"title"`
	BaseURL string `yaml:"base_url"`
	Workers int    `yaml:"workers"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.OutDir, validation.Required),
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.Workers, validation.Min(0)),
	)
}

// SearchConfig holds the SQLite search index configuration.
//
// With Enabled false the preview server runs without the search index:
// /api/search and /api/backlinks answer 503 and the MCP search tool
// reports search disabled.
type SearchConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Validate validates the search configuration.
func (c *SearchConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Path == "" {
		return fmt.Errorf("search: enabled but path is empty")
	}
	return nil
}

// ServeConfig holds the preview server configuration.
type ServeConfig struct {
	Port            int `yaml:"port"`
	WatchDebounceMS int `yaml:"watch_debounce_ms"`
}

// Address returns the HTTP server address.
func (c *ServeConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the serve configuration.
func (c *ServeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.WatchDebounceMS, validation.Min(0)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Vault: VaultConfig{
			Path: "./vault",
		},
		Site: SiteConfig{
			OutDir: "./public",
			Title:  "Iron Vault",
		},
		Search: SearchConfig{
			Enabled: true,
			Path:    "./perthro.db",
		},
		Serve: ServeConfig{
			Port:            8080,
			WatchDebounceMS: 200,
		},
	}
}
