package config

import (
	"errors"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/remit/pkg/envvar"
)

var agentEnv = struct {
	Name, ProviderName, BaseURL, ModelName string
}{
	Name:         "REMIT_AGENT_NAME",
	ProviderName: "REMIT_AGENT_PROVIDER_NAME",
	BaseURL:      "REMIT_AGENT_BASE_URL",
	ModelName:    "REMIT_AGENT_MODEL_NAME",
}

// agentOptions maps provider option keys to the variables that set them.
// Tokens belong in the environment, never in config.toml.
var agentOptions = map[string]string{
	"token":       "REMIT_AGENT_TOKEN",
	"deployment":  "REMIT_AGENT_DEPLOYMENT",
	"api_version": "REMIT_AGENT_API_VERSION",
	"auth_type":   "REMIT_AGENT_AUTH_TYPE",
}

// FinalizeAgent layers go-agents defaults under c, applies REMIT_AGENT_*
// overrides and validates the result. The provider base URL is only
// settable from the environment.
func FinalizeAgent(c *gaconfig.AgentConfig) error {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults

	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}

	envvar.String(agentEnv.Name, &c.Name)
	envvar.String(agentEnv.ProviderName, &c.Provider.Name)
	envvar.String(agentEnv.BaseURL, &c.Provider.BaseURL)
	envvar.String(agentEnv.ModelName, &c.Model.Name)

	for key, name := range agentOptions {
		var v string
		envvar.String(name, &v)
		if v != "" {
			c.Provider.Options[key] = v
		}
	}

	switch {
	case c.Name == "":
		return errors.New("name required")
	case c.Provider.Name == "":
		return errors.New("provider name required")
	}
	return nil
}
