// Package chain executes an ordered chain of tool calls,
// requesting the arguments of every step from the model.
package chain

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/chatmodel"
	"github.com/effective-security/mcpchain/pkg/metricskey"
	"github.com/effective-security/mcpchain/tools"
	"github.com/effective-security/xlog"
)

//go:generate mockgen -source=executor.go -destination=../mocks/mockchain/chain_mock.gen.go -package mockchain

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpchain", "chain")

// ErrChainTooLong is returned when a chain has more steps than allowed.
var ErrChainTooLong = errors.New("chain exceeds the step limit")

// ParameterGenerator produces the arguments of a chain step.
type ParameterGenerator interface {
	GenerateParameters(ctx context.Context, req *chatmodel.ParameterRequest) (map[string]any, error)
}

// StepFunc is called after a step completed.
// index is zero based.
type StepFunc func(ctx context.Context, index int, step chatmodel.ChainStep, args map[string]any, item *chatmodel.ToolResultItem)

// State is the progress of a chain execution.
type State struct {
	// Remaining are the steps not executed yet, in order.
	Remaining []chatmodel.ChainStep
	// History are the results of completed steps, in order.
	History *chatmodel.ChainHistory
}

// NewState returns the initial state for the chain.
func NewState(chain *chatmodel.ToolChain) *State {
	s := &State{History: chatmodel.NewChainHistory()}
	if chain != nil {
		s.Remaining = append([]chatmodel.ChainStep{}, chain.Steps...)
	}
	return s
}

// Done returns true when no steps remain.
func (s *State) Done() bool {
	return len(s.Remaining) == 0
}

// Executor runs chains.
type Executor struct {
	params   ParameterGenerator
	invoker  tools.Invoker
	maxSteps int
	onStep   StepFunc
}

// Option configures an Executor.
type Option func(*Executor)

// WithMaxSteps rejects chains with more than n steps, zero means unlimited.
func WithMaxSteps(n int) Option {
	return func(e *Executor) {
		e.maxSteps = n
	}
}

// WithStepFunc sets the function called after every completed step.
func WithStepFunc(fn StepFunc) Option {
	return func(e *Executor) {
		e.onStep = fn
	}
}

// NewExecutor returns an Executor.
func NewExecutor(params ParameterGenerator, invoker tools.Invoker, opts ...Option) *Executor {
	e := &Executor{
		params:  params,
		invoker: invoker,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Step executes the next step of the state.
// On success the step is moved from Remaining to History,
// on failure the state is left unchanged.
func (e *Executor) Step(ctx context.Context, userInput string, descriptors []chatmodel.ToolDescriptor, state *State) error {
	if state.Done() {
		return errors.New("chain is complete")
	}
	step := state.Remaining[0]
	index := state.History.Len()

	descriptor, ok := chatmodel.FindTool(descriptors, step.Name)
	if !ok {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, step.Name)
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "unknown_tool",
			"step", index,
			"tool", step.Name,
		)
		return errors.WithStack(&chatmodel.UnknownToolError{Name: step.Name})
	}

	args, err := e.params.GenerateParameters(ctx, &chatmodel.ParameterRequest{
		UserInput:       userInput,
		ChainHistory:    state.History.Clone(),
		CurrentNodeInfo: descriptor,
	})
	if err != nil {
		return errors.WithMessagef(err, "step %d %q", index+1, step.Name)
	}

	item, err := e.invoker.Invoke(ctx, step.Name, args)
	if err != nil {
		return errors.WithMessagef(err, "step %d", index+1)
	}

	state.History.Append(*item)
	state.Remaining = state.Remaining[1:]
	metricskey.StatsChainSteps.IncrCounter(1, step.Name)

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "step_completed",
		"step", index,
		"tool", step.Name,
		"remaining", len(state.Remaining),
	)

	if e.onStep != nil {
		e.onStep(ctx, index, step, args, item)
	}
	return nil
}

// Run executes all steps of the chain in order and returns the history.
// The first failure aborts the chain and no history is returned.
func (e *Executor) Run(ctx context.Context, userInput string, descriptors []chatmodel.ToolDescriptor, chain *chatmodel.ToolChain) (*chatmodel.ChainHistory, error) {
	state := NewState(chain)
	if e.maxSteps > 0 && len(state.Remaining) > e.maxSteps {
		return nil, errors.WithMessagef(ErrChainTooLong, "%d steps, limit %d", len(state.Remaining), e.maxSteps)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "chain_started",
		"steps", len(state.Remaining),
	)

	for !state.Done() {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}
		if err := e.Step(ctx, userInput, descriptors, state); err != nil {
			return nil, err
		}
	}
	return state.History, nil
}
