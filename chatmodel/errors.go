package chatmodel

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrMalformedModelOutput is returned when the model output can not be parsed.
	ErrMalformedModelOutput = errors.New("malformed model output")
	// ErrUnrecognizedDecisionShape is returned when the parsed output is not
	// an answer, a tool call or a tool chain.
	ErrUnrecognizedDecisionShape = errors.New("unrecognized decision shape")
	// ErrMalformedParameterOutput is returned when the parameters generated
	// for a chain step are not an object.
	ErrMalformedParameterOutput = errors.New("malformed parameter output")
	// ErrUnknownToolInChain is returned when a chain names a tool the host does not provide.
	ErrUnknownToolInChain = errors.New("unknown tool in chain")
	// ErrToolInvocationFailed is returned when the tool host fails the call.
	ErrToolInvocationFailed = errors.New("tool invocation failed")
	// ErrToolExecutionEmpty is returned when the tool host returns no text content.
	ErrToolExecutionEmpty = errors.New("tool execution returned no content")
	// ErrInvalidChatContext is returned when the context has no ChatContext.
	ErrInvalidChatContext = errors.New("invalid chat context")
)

// MalformedModelOutputError carries the raw model text that failed to parse.
type MalformedModelOutputError struct {
	Text  string
	Cause error
}

func (e *MalformedModelOutputError) Error() string {
	return fmt.Sprintf("%s: %v", ErrMalformedModelOutput.Error(), e.Cause)
}

// Is reports ErrMalformedModelOutput.
func (e *MalformedModelOutputError) Is(target error) bool {
	return target == ErrMalformedModelOutput
}

// Unwrap returns the parse error.
func (e *MalformedModelOutputError) Unwrap() error {
	return e.Cause
}

// UnknownToolError carries the tool name that is not provided by the host.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownToolInChain.Error(), e.Name)
}

// Is reports ErrUnknownToolInChain.
func (e *UnknownToolError) Is(target error) bool {
	return target == ErrUnknownToolInChain
}

// ToolInvocationError carries the tool name and the host failure.
type ToolInvocationError struct {
	ToolName string
	Cause    error
}

func (e *ToolInvocationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrToolInvocationFailed.Error(), e.ToolName, e.Cause)
}

// Is reports ErrToolInvocationFailed.
func (e *ToolInvocationError) Is(target error) bool {
	return target == ErrToolInvocationFailed
}

// Unwrap returns the host failure.
func (e *ToolInvocationError) Unwrap() error {
	return e.Cause
}
