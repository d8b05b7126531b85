package notifications

import (
	"fmt"
	"time"

	"github.com/JaimeStill/remit/pkg/envvar"
)

// Config controls who receives decisions and whether a PDF report is attached.
type Config struct {
	Recipient     string `toml:"recipient"`
	AttachReport  bool   `toml:"attach_report"`
	ChromiumPath  string `toml:"chromium_path"`
	ReportTimeout string `toml:"report_timeout"`
}

// Env names the environment variables that override Config.
type Env struct {
	Recipient     string
	AttachReport  string
	ChromiumPath  string
	ReportTimeout string
}

// ReportTimeoutDuration parses ReportTimeout. Call after Finalize.
func (c *Config) ReportTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReportTimeout)
	return d
}

// Finalize applies defaults, then environment overrides, then validates.
func (c *Config) Finalize(env *Env) error {
	if c.ReportTimeout == "" {
		c.ReportTimeout = "15s"
	}
	if env != nil {
		envvar.String(env.Recipient, &c.Recipient)
		envvar.Bool(env.AttachReport, &c.AttachReport)
		envvar.String(env.ChromiumPath, &c.ChromiumPath)
		envvar.Duration(env.ReportTimeout, &c.ReportTimeout)
	}
	if _, err := time.ParseDuration(c.ReportTimeout); err != nil {
		return fmt.Errorf("invalid report_timeout: %w", err)
	}
	return nil
}

// Merge copies non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Recipient != "" {
		c.Recipient = overlay.Recipient
	}
	if overlay.AttachReport {
		c.AttachReport = true
	}
	if overlay.ChromiumPath != "" {
		c.ChromiumPath = overlay.ChromiumPath
	}
	if overlay.ReportTimeout != "" {
		c.ReportTimeout = overlay.ReportTimeout
	}
}
