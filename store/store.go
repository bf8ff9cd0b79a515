// Package store keeps the conversation history of chat sessions.
package store

import (
	"context"

	"github.com/effective-security/mcpchain/pkg/llms"
)

// MessageStore is the conversation history.
// Messages are kept per chat ID found in the context,
// a context without ChatContext refers to the default session.
type MessageStore interface {
	// Messages returns a copy of the session messages in order.
	Messages(ctx context.Context) []llms.Message
	// Add appends the messages to the session as one unit.
	Add(ctx context.Context, msgs ...llms.Message) error
	// Len returns the number of messages in the session.
	Len(ctx context.Context) int
	// Reset removes the session messages.
	Reset(ctx context.Context) error
}
