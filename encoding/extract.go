// Package encoding extracts structured values from raw model text.
package encoding

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/chatmodel"
	"github.com/effective-security/mcpchain/pkg/llmutils"
)

// Extract parses raw model text into a JSON value.
//
// All <think>...</think> segments are removed first.
// When the remaining text has a ```json fenced block, only the content
// of the first such block is parsed, otherwise the whole text is.
// Numbers are decoded as json.Number.
//
// Any parse failure returns *chatmodel.MalformedModelOutputError
// with the original text.
func Extract(raw string) (any, error) {
	text := llmutils.StripThink(raw)
	if fenced, ok := llmutils.FencedJSON(text); ok {
		text = fenced
	}

	v, err := Decode(strings.TrimSpace(text))
	if err != nil {
		return nil, errors.WithStack(&chatmodel.MalformedModelOutputError{
			Text:  raw,
			Cause: err,
		})
	}
	return v, nil
}

// ExtractDecision parses and classifies a decision response.
func ExtractDecision(raw string) (chatmodel.Decision, error) {
	v, err := Extract(raw)
	if err != nil {
		return nil, err
	}
	return chatmodel.Classify(v)
}

// ExtractArguments parses a parameter generation response,
// which must be a JSON object.
func ExtractArguments(raw string) (map[string]any, error) {
	v, err := Extract(raw)
	if err != nil {
		return nil, err
	}
	args, ok := v.(map[string]any)
	if !ok {
		return nil, errors.WithMessagef(chatmodel.ErrMalformedParameterOutput, "expected object, got %T", v)
	}
	return args, nil
}

// Decode decodes exactly one JSON value from text.
func Decode(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty input")
		}
		return nil, errors.WithStack(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.Newf("unexpected data after top-level value at offset %d", dec.InputOffset())
	}
	return v, nil
}
