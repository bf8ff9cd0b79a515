// Package mcp connects to tool hosts speaking the Model Context Protocol
// and provides the demo tool host used by mcpchain-tools.
package mcp
