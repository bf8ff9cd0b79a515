package assistants

import (
	"time"

	"github.com/effective-security/mcpchain/pkg/llms"
	"github.com/effective-security/mcpchain/pkg/prompts"
)

// DefaultMaxContentSize is the default limit of the bytes sent in one model request.
// Older history is left out of a request to stay within the limit.
const DefaultMaxContentSize = 256 * 1024

// Option is a function that can be used to modify the behavior of the Agent Config.
type Option func(*Config)

// Config of the Agent.
type Config struct {
	// Callback receives the turn events.
	Callback Callback
	// ModelTimeout bounds every model request, zero means no timeout.
	ModelTimeout time.Duration
	// ToolTimeout bounds every tool call, zero means no timeout.
	ToolTimeout time.Duration
	// MaxChainSteps rejects longer chains, zero means unlimited.
	MaxChainSteps int
	// MaxContentSize is the limit of the bytes sent in one model request,
	// the oldest history messages are left out to fit.
	MaxContentSize uint64
	// CallOptions are passed to every model request.
	CallOptions []llms.CallOption
	// Prompts are the prompt templates.
	Prompts *prompts.Set
}

// NewConfig returns the Config with options applied.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		MaxContentSize: DefaultMaxContentSize,
		Prompts:        prompts.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithCallback allows setting a custom Callback Handler.
func WithCallback(callback Callback) Option {
	return func(o *Config) {
		o.Callback = callback
	}
}

// WithModelTimeout sets the timeout of every model request.
func WithModelTimeout(timeout time.Duration) Option {
	return func(o *Config) {
		o.ModelTimeout = timeout
	}
}

// WithToolTimeout sets the timeout of every tool call.
func WithToolTimeout(timeout time.Duration) Option {
	return func(o *Config) {
		o.ToolTimeout = timeout
	}
}

// WithMaxChainSteps sets the maximum number of steps in a chain.
func WithMaxChainSteps(n int) Option {
	return func(o *Config) {
		o.MaxChainSteps = n
	}
}

// WithMaxContentSize sets the limit of the bytes sent in one model request,
// zero restores the default.
func WithMaxContentSize(size uint64) Option {
	return func(o *Config) {
		if size == 0 {
			size = DefaultMaxContentSize
		}
		o.MaxContentSize = size
	}
}

// WithCallOptions adds options to every model request.
func WithCallOptions(opts ...llms.CallOption) Option {
	return func(o *Config) {
		o.CallOptions = append(o.CallOptions, opts...)
	}
}

// WithPrompts sets the prompt templates.
func WithPrompts(set *prompts.Set) Option {
	return func(o *Config) {
		if set != nil {
			o.Prompts = set
		}
	}
}
