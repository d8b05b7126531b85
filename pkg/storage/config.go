package storage

import (
	"fmt"

	"github.com/JaimeStill/remit/pkg/envvar"
)

// MaxListCap bounds a single List page regardless of configuration.
const MaxListCap int32 = 5000

// Config holds Azure Blob Storage settings.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	MaxListSize      int32  `toml:"max_list_size"`
}

// Env names the environment variables that override Config.
type Env struct {
	ContainerName    string
	ConnectionString string
	MaxListSize      string
}

// Finalize applies defaults, then environment overrides, then validates.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		envvar.String(env.ContainerName, &c.ContainerName)
		envvar.String(env.ConnectionString, &c.ConnectionString)

		size := int(c.MaxListSize)
		envvar.Int(env.MaxListSize, &size)
		c.MaxListSize = int32(size)
	}
	return c.validate()
}

// Merge copies non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.MaxListSize != 0 {
		c.MaxListSize = overlay.MaxListSize
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "invoices"
	}
	if c.MaxListSize <= 0 {
		c.MaxListSize = 50
	}
}

func (c *Config) validate() error {
	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	if c.ConnectionString == "" {
		return fmt.Errorf("connection_string required")
	}
	if c.MaxListSize < 1 || c.MaxListSize > MaxListCap {
		return fmt.Errorf("max_list_size must be between 1 and %d", MaxListCap)
	}
	return nil
}
