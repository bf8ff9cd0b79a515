package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/effective-security/mcpchain/assistants"
	"github.com/effective-security/mcpchain/pkg/llms"
	"github.com/effective-security/mcpchain/pkg/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetenv(t *testing.T, keys ...string) {
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadConfig(t *testing.T) {
	unsetenv(t, "MODEL_TYPE", "MCPCHAIN_LLM_CONFIG", "MCPCHAIN_TOOL_TIMEOUT", "MODEL_TEMPERATURE", "MCPCHAIN_PROMPTS")
	t.Setenv("MODEL_API_KEY", "key")
	t.Setenv("MODEL_NAME", "qwen3-32b")
	t.Setenv("MODEL_BASE_URL", "http://localhost:8000/v1")
	t.Setenv("MCP_TOOL_PATH", "server.py")
	t.Setenv("MCPCHAIN_MODEL_TIMEOUT", "30s")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "server.py", cfg.ToolPath)
	assert.Equal(t, 30*time.Second, cfg.ModelTimeout)
	assert.Equal(t, time.Minute, cfg.ToolTimeout)
	assert.Equal(t, "OPENAI", cfg.ModelType)
	assert.Zero(t, cfg.ModelTemperature)
	assert.Empty(t, cfg.PromptsDir)

	fcfg, err := cfg.LLMFactoryConfig()
	require.NoError(t, err)
	require.Len(t, fcfg.Providers, 1)
	p := fcfg.Providers[0]
	assert.Equal(t, "key", p.Token)
	assert.Equal(t, "qwen3-32b", p.DefaultModel)
	assert.Equal(t, "http://localhost:8000/v1", p.OpenAI.BaseURL)
	assert.Equal(t, "OPENAI", p.OpenAI.APIType)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	unsetenv(t, "MODEL_NAME", "MCP_TOOL_PATH", "MODEL_TYPE", "MCPCHAIN_MODEL_TIMEOUT", "MCPCHAIN_TOOL_TIMEOUT")

	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("MODEL_NAME=gpt-4o-mini\nMCP_TOOL_PATH=http://localhost:8080/mcp\nMODEL_TYPE=AZURE\n"), 0o600))

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.ModelName)
	assert.Equal(t, "http://localhost:8080/mcp", cfg.ToolPath)
	assert.Equal(t, "AZURE", cfg.ModelType)
}

func TestLLMFactoryConfig_Errors(t *testing.T) {
	cfg := &Config{ModelType: "OPENAI"}
	_, err := cfg.LLMFactoryConfig()
	assert.EqualError(t, err, "MODEL_NAME or MCPCHAIN_LLM_CONFIG is required")

	cfg = &Config{ModelName: "gpt-4o"}
	_, err = cfg.LLMFactoryConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid LLM config")

	cfg = &Config{LLMConfig: "../../pkg/llmfactory/testdata/llm.yaml"}
	fcfg, err := cfg.LLMFactoryConfig()
	require.NoError(t, err)
	assert.Equal(t, "openai", fcfg.DefaultProvider)
}

func TestLoadConfig_Flags(t *testing.T) {
	unsetenv(t, "MCP_TOOL_PATH", "MCPCHAIN_MODEL_TIMEOUT", "MCPCHAIN_TOOL_TIMEOUT")
	_, err := loadConfig(&flags{})
	assert.EqualError(t, err, "MCP_TOOL_PATH or --server is required")

	cfg, err := loadConfig(&flags{server: "./server", model: "gpt-4o", config: "llm.yaml", prompts: "prompts"})
	require.NoError(t, err)
	assert.Equal(t, "prompts", cfg.PromptsDir)
	assert.Equal(t, "./server", cfg.ToolPath)
	assert.Equal(t, "gpt-4o", cfg.ModelName)
	assert.Equal(t, "llm.yaml", cfg.LLMConfig)
}

func TestConfig_AgentOptions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, prompts.DecisionSystem+".tmpl"), []byte("Pick one tool.\n"), 0o600))

	cfg := &Config{
		ModelTimeout: 30 * time.Second,
		ToolTimeout:  time.Minute,
		PromptsDir:   dir,
	}
	opts, err := cfg.AgentOptions()
	require.NoError(t, err)

	acfg := assistants.NewConfig(opts...)
	assert.Equal(t, 30*time.Second, acfg.ModelTimeout)
	assert.Equal(t, time.Minute, acfg.ToolTimeout)

	// temperature 0 is sent
	require.Len(t, acfg.CallOptions, 1)
	callOpts := llms.NewCallOptions("m", acfg.CallOptions...)
	require.NotNil(t, callOpts.Temperature)
	assert.Zero(t, *callOpts.Temperature)

	text, err := acfg.Prompts.Render(prompts.DecisionSystem, prompts.Data{})
	require.NoError(t, err)
	assert.Equal(t, "Pick one tool.", text)

	cfg = &Config{ModelTemperature: -1}
	opts, err = cfg.AgentOptions()
	require.NoError(t, err)
	assert.Empty(t, assistants.NewConfig(opts...).CallOptions)

	bad := filepath.Join(dir, "bad")
	require.NoError(t, os.MkdirAll(bad, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(bad, prompts.DecisionSystem+".tmpl"), []byte("{{ .Missing"), 0o600))
	cfg = &Config{PromptsDir: bad}
	_, err = cfg.AgentOptions()
	assert.ErrorContains(t, err, "failed to load prompts from")
}
