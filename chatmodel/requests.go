package chatmodel

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/cockroachdb/errors"
)

// SynthesisRequest is the payload of the request that asks the model
// for the final answer after the tools were executed.
type SynthesisRequest struct {
	UserInput  string           `json:"user_input"`
	ToolChain  []string         `json:"tool_chain"`
	ToolResult []ToolResultItem `json:"tool_result"`
}

// NewSynthesisRequest returns a SynthesisRequest
// with ToolChain derived from the results.
func NewSynthesisRequest(userInput string, results []ToolResultItem) *SynthesisRequest {
	results = append([]ToolResultItem{}, results...)
	return &SynthesisRequest{
		UserInput:  userInput,
		ToolChain:  toolNames(results),
		ToolResult: results,
	}
}

// Validate returns an error if ToolChain and ToolResult
// do not name the same tools in the same order.
func (r *SynthesisRequest) Validate() error {
	if !slices.Equal(r.ToolChain, toolNames(r.ToolResult)) {
		return errors.Newf("tool_chain %v does not match tool_result %v", r.ToolChain, toolNames(r.ToolResult))
	}
	return nil
}

// ParameterRequest is the payload of the request that asks the model
// for the arguments of the next chain step.
type ParameterRequest struct {
	UserInput       string         `json:"user_input"`
	ChainHistory    *ChainHistory  `json:"chain_history"`
	CurrentNodeInfo ToolDescriptor `json:"current_node_info"`
}

// marshalJSON encodes without HTML escaping, so tool output
// reaches the model as it was produced.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, errors.WithStack(err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalPayload returns the JSON text sent to the model for a request payload.
func MarshalPayload(v any) (string, error) {
	js, err := marshalJSON(v)
	if err != nil {
		return "", err
	}
	return string(js), nil
}
