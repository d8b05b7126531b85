package mailer

import (
	"fmt"
	"slices"
	"time"

	"github.com/JaimeStill/remit/pkg/envvar"
)

// TLS modes.
const (
	TLSImplicit = "ssl"
	TLSStart    = "starttls"
	TLSNone     = "none"
)

// Config holds SMTP settings. The defaults target Gmail with an app password.
type Config struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	TLS      string `toml:"tls"`
	Timeout  string `toml:"timeout"`
}

// Env names the environment variables that override Config.
type Env struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	TLS      string
	Timeout  string
}

// TimeoutDuration parses Timeout. Call after Finalize.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Sender returns From, falling back to Username.
func (c *Config) Sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

// Finalize applies defaults, then environment overrides, then validates.
// Missing credentials are not a finalize error: the server can run without
// mail and report ErrNotConfigured on send.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		envvar.String(env.Host, &c.Host)
		envvar.Int(env.Port, &c.Port)
		envvar.String(env.Username, &c.Username)
		envvar.String(env.Password, &c.Password)
		envvar.String(env.From, &c.From)
		envvar.String(env.TLS, &c.TLS)
		envvar.Duration(env.Timeout, &c.Timeout)
	}
	return c.validate()
}

// Merge copies non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Host, overlay.Host)
	set(&c.Username, overlay.Username)
	set(&c.Password, overlay.Password)
	set(&c.From, overlay.From)
	set(&c.TLS, overlay.TLS)
	set(&c.Timeout, overlay.Timeout)
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
}

// Check reports ErrNotConfigured when credentials are missing.
func (c *Config) Check() error {
	if c.Username == "" {
		return fmt.Errorf("%w: mail username not configured", ErrNotConfigured)
	}
	if c.Password == "" {
		return fmt.Errorf("%w: mail password not configured", ErrNotConfigured)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.Host == "" {
		c.Host = "smtp.gmail.com"
	}
	if c.Port == 0 {
		c.Port = 465
	}
	if c.TLS == "" {
		c.TLS = TLSImplicit
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *Config) validate() error {
	if !slices.Contains([]string{TLSImplicit, TLSStart, TLSNone}, c.TLS) {
		return fmt.Errorf("tls must be one of ssl, starttls, none: %q", c.TLS)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
