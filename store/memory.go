package store

import (
	"context"
	"slices"
	"sync"

	"github.com/effective-security/mcpchain/chatmodel"
	"github.com/effective-security/mcpchain/pkg/llms"
)

type inMemory struct {
	mu      sync.RWMutex
	storage map[string][]llms.Message
}

// NewMemoryStore returns a MessageStore that lives as long as the process.
func NewMemoryStore() MessageStore {
	return &inMemory{}
}

func (m *inMemory) Messages(ctx context.Context) []llms.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.storage == nil {
		return nil
	}
	return slices.Clone(m.storage[chatmodel.GetChatID(ctx)])
}

func (m *inMemory) Add(ctx context.Context, msgs ...llms.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage == nil {
		// create on first use
		m.storage = make(map[string][]llms.Message)
	}
	id := chatmodel.GetChatID(ctx)
	m.storage[id] = append(m.storage[id], msgs...)
	return nil
}

func (m *inMemory) Len(ctx context.Context) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.storage[chatmodel.GetChatID(ctx)])
}

func (m *inMemory) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage != nil {
		delete(m.storage, chatmodel.GetChatID(ctx))
	}
	return nil
}
