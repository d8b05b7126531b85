package openapi

import "github.com/JaimeStill/remit/pkg/envvar"

// Config holds the document metadata published in the info object.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv names the environment variables that override Config.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults, then environment overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Remit API"
	}
	if c.Description == "" {
		c.Description = "Automated invoice intake: PDF extraction, validation, approval and notification."
	}
	if env != nil {
		envvar.String(env.Title, &c.Title)
		envvar.String(env.Description, &c.Description)
	}
	return nil
}

// Merge copies non-empty fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}
