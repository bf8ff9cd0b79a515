package chatmodel

import (
	"slices"
)

// ToolDescriptor describes a tool provided by the tool host.
type ToolDescriptor struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	// InputSchema is the JSON schema of the tool arguments, as reported by the host.
	InputSchema any `json:"input_schema" yaml:"input_schema"`
}

// FindTool returns the descriptor with the exact name.
func FindTool(list []ToolDescriptor, name string) (ToolDescriptor, bool) {
	idx := slices.IndexFunc(list, func(d ToolDescriptor) bool {
		return d.Name == name
	})
	if idx < 0 {
		return ToolDescriptor{}, false
	}
	return list[idx], true
}

// ToolResultItem is the textual output of one completed tool call.
type ToolResultItem struct {
	Name   string `json:"name" yaml:"name"`
	Result string `json:"result" yaml:"result"`
}

// ChainHistory is the append-only record of the tool calls
// completed by one chain execution.
type ChainHistory struct {
	items []ToolResultItem
}

// NewChainHistory returns an empty history.
func NewChainHistory() *ChainHistory {
	return &ChainHistory{}
}

// Append adds a completed call.
func (h *ChainHistory) Append(item ToolResultItem) {
	h.items = append(h.items, item)
}

// Len returns the number of completed calls.
func (h *ChainHistory) Len() int {
	if h == nil {
		return 0
	}
	return len(h.items)
}

// Items returns a copy of the completed calls in order.
func (h *ChainHistory) Items() []ToolResultItem {
	if h == nil {
		return []ToolResultItem{}
	}
	return append([]ToolResultItem{}, h.items...)
}

// Clone returns a copy of the history.
func (h *ChainHistory) Clone() *ChainHistory {
	return &ChainHistory{items: h.Items()}
}

// Names returns the tool names in order.
func (h *ChainHistory) Names() []string {
	return toolNames(h.Items())
}

// MarshalJSON encodes the history as an array, an empty history is `[]`.
func (h *ChainHistory) MarshalJSON() ([]byte, error) {
	return marshalJSON(h.Items())
}

func toolNames(items []ToolResultItem) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return names
}
