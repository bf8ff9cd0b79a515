package chatmodel

import (
	"github.com/cockroachdb/errors"
)

// DecisionKind identifies the variant of a Decision.
type DecisionKind string

const (
	// DecisionAnswer is a final text answer.
	DecisionAnswer DecisionKind = "text"
	// DecisionTool is a single tool call.
	DecisionTool DecisionKind = "tool"
	// DecisionChain is an ordered chain of tool calls.
	DecisionChain DecisionKind = "chain"
)

// Decision is the classified intent of one model response.
// It is one of *Answer, *SingleTool or *ToolChain.
type Decision interface {
	Kind() DecisionKind
	isDecision()
}

// Answer is a terminal text answer.
type Answer struct {
	Text string `json:"text"`
}

// Kind implements Decision.
func (*Answer) Kind() DecisionKind { return DecisionAnswer }
func (*Answer) isDecision()        {}

// SingleTool is a single tool call with the arguments chosen by the model.
type SingleTool struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Kind implements Decision.
func (*SingleTool) Kind() DecisionKind { return DecisionTool }
func (*SingleTool) isDecision()        {}

// ChainStep is one step of a ToolChain.
// The arguments are generated when the step runs.
type ChainStep struct {
	Name string `json:"name"`
}

// ToolChain is an ordered sequence of tool calls.
// The order is fixed when the chain is classified.
type ToolChain struct {
	Steps []ChainStep `json:"steps"`
}

// Kind implements Decision.
func (*ToolChain) Kind() DecisionKind { return DecisionChain }
func (*ToolChain) isDecision()        {}

// Names returns the step names in order.
func (c *ToolChain) Names() []string {
	names := make([]string, len(c.Steps))
	for i, s := range c.Steps {
		names[i] = s.Name
	}
	return names
}

// Classify maps a parsed model response onto a Decision.
//
// An object with "type" equal to "text" is an Answer.
// An object with any other "type" is a SingleTool, taking "name" and "input".
// A non-empty array of such tool objects is a ToolChain,
// the per element "input" is dropped.
// Any other value fails with ErrUnrecognizedDecisionShape.
func Classify(value any) (Decision, error) {
	switch v := value.(type) {
	case map[string]any:
		return classifyObject(v)
	case []any:
		return classifyChain(v)
	default:
		return nil, errors.WithMessagef(ErrUnrecognizedDecisionShape, "expected object or array, got %s", typeName(value))
	}
}

func classifyObject(obj map[string]any) (Decision, error) {
	typ, err := stringField(obj, "type")
	if err != nil {
		return nil, err
	}
	if typ == string(DecisionAnswer) {
		text, ok := obj["text"].(string)
		if !ok {
			return nil, errors.WithMessage(ErrUnrecognizedDecisionShape, `text answer requires string "text"`)
		}
		return &Answer{Text: text}, nil
	}

	name, input, err := toolFields(obj)
	if err != nil {
		return nil, err
	}
	return &SingleTool{Name: name, Arguments: input}, nil
}

func classifyChain(list []any) (Decision, error) {
	if len(list) == 0 {
		return nil, errors.WithMessage(ErrUnrecognizedDecisionShape, "empty tool chain")
	}
	chain := &ToolChain{
		Steps: make([]ChainStep, 0, len(list)),
	}
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, errors.WithMessagef(ErrUnrecognizedDecisionShape, "chain element %d: expected object, got %s", i, typeName(item))
		}
		if _, err := stringField(obj, "type"); err != nil {
			return nil, errors.WithMessagef(err, "chain element %d", i)
		}
		name, _, err := toolFields(obj)
		if err != nil {
			return nil, errors.WithMessagef(err, "chain element %d", i)
		}
		chain.Steps = append(chain.Steps, ChainStep{Name: name})
	}
	return chain, nil
}

func toolFields(obj map[string]any) (string, map[string]any, error) {
	name, err := stringField(obj, "name")
	if err != nil {
		return "", nil, err
	}
	input, ok := obj["input"].(map[string]any)
	if !ok {
		return "", nil, errors.WithMessage(ErrUnrecognizedDecisionShape, `tool call requires object "input"`)
	}
	return name, input, nil
}

func stringField(obj map[string]any, key string) (string, error) {
	s, ok := obj[key].(string)
	if !ok || s == "" {
		return "", errors.WithMessagef(ErrUnrecognizedDecisionShape, "missing string %q", key)
	}
	return s, nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return "number"
	}
}
