package llms_test

import (
	"context"
	"testing"

	"github.com/effective-security/mcpchain/pkg/llms"
	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	streamingFunc := func(ctx context.Context, chunk []byte) error {
		return nil
	}
	stopWords := []string{"stop"}

	opts := llms.NewCallOptions("default",
		llms.WithModel("test"),
		llms.WithMaxTokens(100),
		llms.WithTemperature(0.5),
		llms.WithTopP(0.9),
		llms.WithStopWords(stopWords),
		llms.WithStreamingFunc(streamingFunc),
		llms.WithJSONMode(),
	)
	assert.Equal(t, "test", opts.Model)
	assert.Equal(t, 100, opts.MaxTokens)
	assert.Equal(t, 0.5, *opts.Temperature)
	assert.Equal(t, 0.9, opts.TopP)
	assert.Equal(t, stopWords, opts.StopWords)
	assert.NotNil(t, opts.StreamingFunc)
	assert.True(t, opts.JSONMode)
}

func TestOptions_Temperature(t *testing.T) {
	opts := llms.NewCallOptions("default")
	assert.Nil(t, opts.Temperature)

	opts = llms.NewCallOptions("default", llms.WithTemperature(0))
	if assert.NotNil(t, opts.Temperature) {
		assert.Zero(t, *opts.Temperature)
	}
}

func TestOptions_EmptyModelKeepsDefault(t *testing.T) {
	opts := llms.NewCallOptions("default", llms.WithModel(""))
	assert.Equal(t, "default", opts.Model)
}
