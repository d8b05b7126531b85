package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/JaimeStill/remit/pkg/envvar"
)

var serverEnv = struct {
	Host, Port, ReadTimeout, ReadHeaderTimeout, WriteTimeout, ShutdownTimeout string
}{
	Host:              "REMIT_SERVER_HOST",
	Port:              "REMIT_SERVER_PORT",
	ReadTimeout:       "REMIT_SERVER_READ_TIMEOUT",
	ReadHeaderTimeout: "REMIT_SERVER_READ_HEADER_TIMEOUT",
	WriteTimeout:      "REMIT_SERVER_WRITE_TIMEOUT",
	ShutdownTimeout:   "REMIT_SERVER_SHUTDOWN_TIMEOUT",
}

// ServerConfig holds HTTP server parameters. WriteTimeout bounds a whole
// upload-to-decision request, so it must cover model latency.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return duration(c.ReadTimeout)
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return duration(c.ReadHeaderTimeout)
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return duration(c.WriteTimeout)
}

func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()

	envvar.String(serverEnv.Host, &c.Host)
	envvar.Int(serverEnv.Port, &c.Port)
	envvar.Duration(serverEnv.ReadTimeout, &c.ReadTimeout)
	envvar.Duration(serverEnv.ReadHeaderTimeout, &c.ReadHeaderTimeout)
	envvar.Duration(serverEnv.WriteTimeout, &c.WriteTimeout)
	envvar.Duration(serverEnv.ShutdownTimeout, &c.ShutdownTimeout)

	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	mergeString(&c.Host, overlay.Host)
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	mergeString(&c.ReadTimeout, overlay.ReadTimeout)
	mergeString(&c.ReadHeaderTimeout, overlay.ReadHeaderTimeout)
	mergeString(&c.WriteTimeout, overlay.WriteTimeout)
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "1m"
	}
	if c.ReadHeaderTimeout == "" {
		c.ReadHeaderTimeout = "10s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "15m"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for name, v := range map[string]string{
		"read_timeout":        c.ReadTimeout,
		"read_header_timeout": c.ReadHeaderTimeout,
		"write_timeout":       c.WriteTimeout,
		"shutdown_timeout":    c.ShutdownTimeout,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
