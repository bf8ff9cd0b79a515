package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &out)

	for _, name := range []string{"config", "server", "model", "prompts", "verbose", "scratchpad"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "chat")
	assert.Contains(t, names, "tools")
}

func TestRootCmd_MissingServer(t *testing.T) {
	unsetenv(t, "MCP_TOOL_PATH", "MCPCHAIN_MODEL_TIMEOUT", "MCPCHAIN_TOOL_TIMEOUT")

	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"tools"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.EqualError(t, err, "MCP_TOOL_PATH or --server is required")
}
