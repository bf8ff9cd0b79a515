package mcp

import (
	"path/filepath"
	"strings"
)

// Transport kinds accepted in ServerConfig.Transport.
const (
	TransportStdio      = "stdio"
	TransportStreamable = "streamable-http"
	TransportSSE        = "sse"
)

// ServerConfig describes how to reach a tool host.
type ServerConfig struct {
	// Name identifies the host in logs and errors.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Command and Args start a host process speaking MCP over stdio.
	Command string   `json:"command,omitempty" yaml:"command,omitempty"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
	// URL is the endpoint of a remote host.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
	// Transport is one of stdio, streamable-http or sse.
	// When empty it is derived from Command or URL.
	Transport string `json:"transport,omitempty" yaml:"transport,omitempty"`
}

// ParseTarget builds a ServerConfig from a command line target.
//
// http(s) URLs use streamable HTTP, or SSE when the path ends with /sse.
// Python and Node scripts are started with their interpreter,
// any other path is executed directly.
func ParseTarget(target string) ServerConfig {
	target = strings.TrimSpace(target)
	cfg := ServerConfig{Name: target}

	lower := strings.ToLower(target)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		cfg.URL = target
		cfg.Transport = TransportStreamable
		if strings.HasSuffix(strings.TrimSuffix(lower, "/"), "/sse") {
			cfg.Transport = TransportSSE
		}
		return cfg
	}

	cfg.Name = filepath.Base(target)
	cfg.Transport = TransportStdio
	switch strings.ToLower(filepath.Ext(target)) {
	case ".py":
		cfg.Command = "python"
		cfg.Args = []string{target}
	case ".js", ".mjs":
		cfg.Command = "node"
		cfg.Args = []string{target}
	default:
		cfg.Command = target
	}
	return cfg
}

func (c ServerConfig) transport() string {
	if c.Transport != "" {
		return c.Transport
	}
	if c.Command != "" {
		return TransportStdio
	}
	return TransportStreamable
}
