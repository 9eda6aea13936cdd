package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/jera/internal/page"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Sources SourcesConfig     `yaml:"sources"`
	Site    SiteConfig        `yaml:"site"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Sources.Validate(); err != nil {
		return err
	}
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SourcesConfig holds the workspace root and the per-category source
// directories (relative to the workspace).
type SourcesConfig struct {
	Workspace   string `yaml:"workspace"`
	Demos       string `yaml:"demos"`
	Experiments string `yaml:"experiments"`
	Snippets    string `yaml:"snippets"`
}

// Validate validates the sources configuration.
func (c *SourcesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Workspace, validation.Required),
		validation.Field(&c.Demos, validation.Required),
		validation.Field(&c.Experiments, validation.Required),
		validation.Field(&c.Snippets, validation.Required),
	)
}

// Roots maps each category to its configured source directory.
func (c *SourcesConfig) Roots() map[page.Category]string {
	return map[page.Category]string{
		page.Demos:       c.Demos,
		page.Experiments: c.Experiments,
		page.Snippets:    c.Snippets,
	}
}

// SiteConfig holds output and rendering settings.
type SiteConfig struct {
	// OutputRoot is where the collection directories are created, relative
	// to the workspace. Empty means the workspace root.
	OutputRoot string `yaml:"output_root"`
	// RepoURL is the repository base URL for "View on GitHub" links.
	// Empty disables the link block.
	RepoURL string `yaml:"repo_url"`
	// Branch is the branch name used in source links.
	Branch string `yaml:"branch"`
	// DefaultDifficulty fills in pages without a difficulty section.
	DefaultDifficulty string `yaml:"default_difficulty"`
	// Descriptions holds per-category fallback descriptions.
	Descriptions map[string]string `yaml:"descriptions"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Branch, validation.Required),
		validation.Field(&c.DefaultDifficulty, validation.Required),
	); err != nil {
		return err
	}
	for cat := range c.Descriptions {
		if !page.Category(cat).Valid() {
			return fmt.Errorf("site: unknown category in descriptions: %q", cat)
		}
	}
	return nil
}

// FallbackDescriptions converts the description map to category keys.
func (c *SiteConfig) FallbackDescriptions() map[page.Category]string {
	out := make(map[page.Category]string, len(c.Descriptions))
	for cat, desc := range c.Descriptions {
		out[page.Category(cat)] = desc
	}
	return out
}

// SQLiteConfig holds the sync-state database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Sources: SourcesConfig{
			Workspace:   ".",
			Demos:       "demos",
			Experiments: "experiments",
			Snippets:    "snippets",
		},
		Site: SiteConfig{
			OutputRoot:        "",
			RepoURL:           "",
			Branch:            "main",
			DefaultDifficulty: "medium",
			Descriptions: map[string]string{
				"demos":       "A sample application demonstrating generative AI capabilities.",
				"experiments": "An experimental prototype exploring generative AI techniques.",
				"snippets":    "A reusable code snippet.",
			},
		},
		SQLite: SQLiteConfig{
			Path: "./jera.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
