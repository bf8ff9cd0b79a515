package tools

import (
	"context"

	"github.com/effective-security/mcpchain/chatmodel"
)

//go:generate mockgen -source=tools.go -destination=../mocks/mocktools/tools_mock.gen.go -package mocktools

// ContentTypeText is the type of textual content items.
const ContentTypeText = "text"

// Content is one item of a tool call result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// CallResult is the result reported by the tool host.
type CallResult struct {
	Content []Content `json:"content"`
	// IsError is set when the host reports the call as failed.
	IsError bool `json:"is_error,omitempty"`
}

// Host is the process or service that owns tool definitions
// and executes tool calls.
type Host interface {
	// ListTools returns the tools provided by the host.
	ListTools(ctx context.Context) ([]chatmodel.ToolDescriptor, error)
	// CallTool executes the named tool.
	CallTool(ctx context.Context, name string, args map[string]any) (*CallResult, error)
}

// Callback receives tool call events.
type Callback interface {
	OnToolStart(ctx context.Context, name string, args map[string]any)
	OnToolEnd(ctx context.Context, name string, args map[string]any, result string)
	OnToolError(ctx context.Context, name string, args map[string]any, err error)
}

// Invoker runs one tool call and returns its textual result.
type Invoker interface {
	Invoke(ctx context.Context, name string, args map[string]any) (*chatmodel.ToolResultItem, error)
}
