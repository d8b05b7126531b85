package config

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/JaimeStill/remit/internal/validation"
	"github.com/JaimeStill/remit/pkg/envvar"
)

const (
	EnvRulesMaxAutoApprove = "REMIT_RULES_MAX_AUTO_APPROVE"
	EnvRulesMinAmount      = "REMIT_RULES_MIN_AMOUNT"
	EnvRulesMaxFutureDays  = "REMIT_RULES_MAX_FUTURE_DAYS"
	EnvRulesMaxPastDays    = "REMIT_RULES_MAX_PAST_DAYS"
	EnvRulesTolerance      = "REMIT_RULES_TOLERANCE"
)

// RulesConfig holds the approval policy. Amounts are decimal strings so
// they never pass through float64. The date windows are pointers so an
// explicit zero is kept rather than replaced by the default.
type RulesConfig struct {
	MaxAutoApprove string `toml:"max_auto_approve"`
	MinAmount      string `toml:"min_amount"`
	MaxFutureDays  *int   `toml:"max_future_days"`
	MaxPastDays    *int   `toml:"max_past_days"`
	Tolerance      string `toml:"tolerance"`
}

// Policy returns the business rule limits. Call after Finalize.
func (c *RulesConfig) Policy() validation.Policy {
	return validation.Policy{
		MaxAutoApprove: decimal.RequireFromString(c.MaxAutoApprove),
		MinAmount:      decimal.RequireFromString(c.MinAmount),
		MaxFutureDays:  *c.MaxFutureDays,
		MaxPastDays:    *c.MaxPastDays,
	}
}

// ToleranceDecimal returns the calculation tolerance. Call after Finalize.
func (c *RulesConfig) ToleranceDecimal() decimal.Decimal {
	return decimal.RequireFromString(c.Tolerance)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *RulesConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites fields set in overlay.
func (c *RulesConfig) Merge(overlay *RulesConfig) {
	if overlay.MaxAutoApprove != "" {
		c.MaxAutoApprove = overlay.MaxAutoApprove
	}
	if overlay.MinAmount != "" {
		c.MinAmount = overlay.MinAmount
	}
	if overlay.MaxFutureDays != nil {
		c.MaxFutureDays = overlay.MaxFutureDays
	}
	if overlay.MaxPastDays != nil {
		c.MaxPastDays = overlay.MaxPastDays
	}
	if overlay.Tolerance != "" {
		c.Tolerance = overlay.Tolerance
	}
}

func (c *RulesConfig) loadDefaults() {
	d := validation.DefaultPolicy()
	if c.MaxAutoApprove == "" {
		c.MaxAutoApprove = d.MaxAutoApprove.String()
	}
	if c.MinAmount == "" {
		c.MinAmount = d.MinAmount.String()
	}
	if c.MaxFutureDays == nil {
		c.MaxFutureDays = &d.MaxFutureDays
	}
	if c.MaxPastDays == nil {
		c.MaxPastDays = &d.MaxPastDays
	}
	if c.Tolerance == "" {
		c.Tolerance = validation.DefaultTolerance.String()
	}
}

func (c *RulesConfig) loadEnv() {
	envvar.String(EnvRulesMaxAutoApprove, &c.MaxAutoApprove)
	envvar.String(EnvRulesMinAmount, &c.MinAmount)
	envvar.Int(EnvRulesMaxFutureDays, c.MaxFutureDays)
	envvar.Int(EnvRulesMaxPastDays, c.MaxPastDays)
	envvar.String(EnvRulesTolerance, &c.Tolerance)
}

func (c *RulesConfig) validate() error {
	amounts := []struct {
		name, value string
	}{
		{"max_auto_approve", c.MaxAutoApprove},
		{"min_amount", c.MinAmount},
		{"tolerance", c.Tolerance},
	}
	for _, a := range amounts {
		d, err := decimal.NewFromString(a.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", a.name, err)
		}
		if d.IsNegative() {
			return fmt.Errorf("invalid %s: must not be negative", a.name)
		}
	}
	if *c.MaxFutureDays < 0 || *c.MaxPastDays < 0 {
		return fmt.Errorf("date windows must not be negative")
	}
	return nil
}
