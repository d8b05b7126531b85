// Package config loads Remit configuration in three layers: config.toml,
// an optional config.<REMIT_ENV>.toml overlay, then REMIT_* environment
// variables. A .env file, when present, seeds the environment first.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/remit/internal/notifications"
	"github.com/JaimeStill/remit/pkg/database"
	"github.com/JaimeStill/remit/pkg/mailer"
	"github.com/JaimeStill/remit/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvRemitEnv             = "REMIT_ENV"
	EnvRemitShutdownTimeout = "REMIT_SHUTDOWN_TIMEOUT"
	EnvRemitVersion         = "REMIT_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "REMIT_DB_HOST",
	Port:            "REMIT_DB_PORT",
	Name:            "REMIT_DB_NAME",
	User:            "REMIT_DB_USER",
	Password:        "REMIT_DB_PASSWORD",
	SSLMode:         "REMIT_DB_SSL_MODE",
	MaxOpenConns:    "REMIT_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "REMIT_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "REMIT_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "REMIT_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "REMIT_STORAGE_CONTAINER_NAME",
	ConnectionString: "REMIT_STORAGE_CONNECTION_STRING",
	MaxListSize:      "REMIT_STORAGE_MAX_LIST_SIZE",
}

var mailEnv = &mailer.Env{
	Host:     "REMIT_MAIL_HOST",
	Port:     "REMIT_MAIL_PORT",
	Username: "REMIT_MAIL_USERNAME",
	Password: "REMIT_MAIL_PASSWORD",
	From:     "REMIT_MAIL_FROM",
	TLS:      "REMIT_MAIL_TLS",
	Timeout:  "REMIT_MAIL_TIMEOUT",
}

var notificationsEnv = &notifications.Env{
	Recipient:     "REMIT_NOTIFICATIONS_RECIPIENT",
	AttachReport:  "REMIT_NOTIFICATIONS_ATTACH_REPORT",
	ChromiumPath:  "REMIT_NOTIFICATIONS_CHROMIUM_PATH",
	ReportTimeout: "REMIT_NOTIFICATIONS_REPORT_TIMEOUT",
}

// Config is the root configuration for the Remit service.
type Config struct {
	Server          ServerConfig         `toml:"server"`
	Database        database.Config      `toml:"database"`
	Storage         storage.Config       `toml:"storage"`
	API             APIConfig            `toml:"api"`
	Agent           gaconfig.AgentConfig `toml:"agent"`
	Mail            mailer.Config        `toml:"mail"`
	Notifications   notifications.Config `toml:"notifications"`
	Rules           RulesConfig          `toml:"rules"`
	Ingest          IngestConfig         `toml:"ingest"`
	ShutdownTimeout string               `toml:"shutdown_timeout"`
	Version         string               `toml:"version"`
}

// Env returns the REMIT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvRemitEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the layered configuration and finalizes every section. If no
// config.toml exists, defaults and environment variables provide all
// configuration.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// LoadProcessing reads the layered configuration and finalizes only the
// sections invoice processing needs: agent, mail, notifications, rules and
// ingest. Database and storage are left unvalidated.
func LoadProcessing() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.finalizeProcessing(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// LoadDatabase reads the layered configuration and finalizes only the
// database section, for tools that manage the schema.
func LoadDatabase() (*database.Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Database.Finalize(databaseEnv); err != nil {
		return nil, fmt.Errorf("finalize database config: %w", err)
	}
	return &cfg.Database, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Agent.Merge(&overlay.Agent)
	c.Mail.Merge(&overlay.Mail)
	c.Notifications.Merge(&overlay.Notifications)
	c.Rules.Merge(&overlay.Rules)
	c.Ingest.Merge(&overlay.Ingest)
}

func read() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	return cfg, nil
}

func (c *Config) finalize() error {
	if err := c.finalizeProcessing(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) finalizeProcessing() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Mail.Finalize(mailEnv); err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	if err := c.Notifications.Finalize(notificationsEnv); err != nil {
		return fmt.Errorf("notifications: %w", err)
	}
	if err := c.Rules.Finalize(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	if err := c.Ingest.Finalize(); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvRemitShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvRemitVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvRemitEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
