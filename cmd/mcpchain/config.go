package main

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/assistants"
	"github.com/effective-security/mcpchain/pkg/llmfactory"
	"github.com/effective-security/mcpchain/pkg/llms"
	"github.com/effective-security/mcpchain/pkg/prompts"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is read from the environment and an optional .env file.
type Config struct {
	// ModelAPIKey, ModelBaseURL, ModelName and ModelType describe a single
	// provider, used when no LLM config file is given.
	ModelAPIKey  string `envconfig:"MODEL_API_KEY"`
	ModelBaseURL string `envconfig:"MODEL_BASE_URL"`
	ModelName    string `envconfig:"MODEL_NAME"`
	ModelType    string `envconfig:"MODEL_TYPE" default:"OPENAI"`

	// ModelTemperature is sent with every request,
	// a negative value leaves the provider default.
	ModelTemperature float64 `envconfig:"MODEL_TEMPERATURE" default:"0"`

	// ToolPath is the tool host: a script, an executable or an http(s) URL.
	ToolPath string `envconfig:"MCP_TOOL_PATH"`

	// LLMConfig is the path of the providers YAML file.
	LLMConfig string `envconfig:"MCPCHAIN_LLM_CONFIG"`

	// PromptsDir holds <name>.tmpl files overriding the built-in prompts.
	PromptsDir string `envconfig:"MCPCHAIN_PROMPTS"`

	ModelTimeout time.Duration `envconfig:"MCPCHAIN_MODEL_TIMEOUT" default:"2m"`
	ToolTimeout  time.Duration `envconfig:"MCPCHAIN_TOOL_TIMEOUT" default:"1m"`
}

// LoadConfig reads the .env file if present, then the environment.
func LoadConfig(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return &cfg, nil
}

// LLMFactoryConfig returns the providers of the LLM config file,
// or a single provider built from the MODEL_* variables.
func (c *Config) LLMFactoryConfig() (*llmfactory.Config, error) {
	if c.LLMConfig != "" {
		return llmfactory.LoadConfig(c.LLMConfig)
	}
	if c.ModelName == "" {
		return nil, errors.New("MODEL_NAME or MCPCHAIN_LLM_CONFIG is required")
	}

	provider := &llmfactory.ProviderConfig{
		Name:            "env",
		Token:           c.ModelAPIKey,
		DefaultModel:    c.ModelName,
		AvailableModels: []string{c.ModelName},
		OpenAI: llmfactory.OpenAIConfig{
			APIType: c.ModelType,
			BaseURL: c.ModelBaseURL,
		},
	}
	cfg := &llmfactory.Config{
		Providers:       []*llmfactory.ProviderConfig{provider},
		DefaultProvider: provider.Name,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AgentOptions returns the agent options for the timeouts,
// the temperature and the prompt overrides.
func (c *Config) AgentOptions() ([]assistants.Option, error) {
	opts := []assistants.Option{
		assistants.WithModelTimeout(c.ModelTimeout),
		assistants.WithToolTimeout(c.ToolTimeout),
	}
	if c.ModelTemperature >= 0 {
		opts = append(opts, assistants.WithCallOptions(llms.WithTemperature(c.ModelTemperature)))
	}
	if c.PromptsDir != "" {
		set, err := prompts.LoadDir(c.PromptsDir)
		if err != nil {
			return nil, errors.WithMessagef(err, "failed to load prompts from %s", c.PromptsDir)
		}
		opts = append(opts, assistants.WithPrompts(set))
	}
	return opts, nil
}
