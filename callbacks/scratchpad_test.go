package callbacks_test

import (
	"context"
	"testing"
	"time"

	"github.com/effective-security/mcpchain/callbacks"
	"github.com/effective-security/mcpchain/chatmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatContext(chatID string) context.Context {
	return chatmodel.WithChatContext(context.Background(), chatmodel.NewChatContext(chatID))
}

func TestScratchpad_Run(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	callbacks.TimeNowFn = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	defer func() { callbacks.TimeNowFn = time.Now }()

	sp := callbacks.NewScratchpad(callbacks.ModeVerbose)
	ctx := newChatContext("chat1")

	sp.StartRun(ctx)
	emit(ctx, sp, newModel(t))

	stats, buf := sp.EndRun(ctx)
	require.NotNil(t, stats)
	assert.Equal(t, "chat1", stats.ChatID)
	assert.Equal(t, uint32(1), stats.Turns)
	assert.Equal(t, uint32(1), stats.TurnsSucceeded)
	assert.Equal(t, uint32(1), stats.TurnsFailed)
	assert.Equal(t, uint32(3), stats.Decisions)
	assert.Equal(t, uint32(1), stats.ChainSteps)
	assert.Equal(t, uint32(1), stats.LLMCalls)
	assert.Equal(t, uint32(1), stats.LLMParseErrors)
	assert.Equal(t, uint32(2), stats.TotalMessages)
	assert.Equal(t, uint64(10), stats.LLMInputTokens)
	assert.Equal(t, uint64(5), stats.LLMOutputTokens)
	assert.Equal(t, uint64(15), stats.LLMTotalTokens)
	assert.Equal(t, uint64(len("test output")), stats.LLMBytesIn)
	assert.Equal(t, uint32(2), stats.ToolCalls)
	assert.Equal(t, uint32(1), stats.ToolCallsSucceeded)
	assert.Equal(t, uint32(1), stats.ToolCallsFailed)
	assert.True(t, stats.Duration > 0)

	res := string(buf)
	assert.Contains(t, res, "2025-06-01 10:00:02 chat1 *** Run Started ***")
	assert.Contains(t, res, "chat1 Query: test input")
	assert.Contains(t, res, "chat1 *** Decision *** chain weather_search")
	assert.Contains(t, res, "chat1 *** Decision *** tool weather_search")
	assert.Contains(t, res, "chat1 decision *** LLM Call *** test-model model, 2 messages")
	assert.Contains(t, res, "chat1 parameters *** LLM Parse Error *** parse failed")
	assert.Contains(t, res, "chat1 weather_search Output: sunny")
	assert.Contains(t, res, "chat1 order_info *** Tool Start ***")
	assert.Contains(t, res, "chat1 order_info *** Tool Error *** tool failed")
	assert.Contains(t, res, "chat1 *** Synthesis *** weather_search")
	assert.Contains(t, res, "Turns: 1, Failed: 1, Decisions: 3, Chain steps: 1")
	assert.Contains(t, res, "Tool calls: 2, Failed: 1")
	assert.Contains(t, res, "*** Run Ended. Duration:")

	// the run is removed
	stats, buf = sp.EndRun(ctx)
	assert.Nil(t, stats)
	assert.Nil(t, buf)
}

func TestScratchpad_NoRun(t *testing.T) {
	sp := callbacks.NewScratchpad(callbacks.ModeDefault)
	ctx := newChatContext("chat2")

	// events without a started run are ignored
	emit(ctx, sp, newModel(t))
	stats, _ := sp.EndRun(ctx)
	assert.Nil(t, stats)

	sp.StartRun(newChatContext("other"))
	emit(ctx, sp, newModel(t))
	stats, _ = sp.EndRun(newChatContext("other"))
	require.NotNil(t, stats)
	assert.Equal(t, uint32(0), stats.Turns)
}

func TestScratchpad_DefaultMode(t *testing.T) {
	sp := callbacks.NewScratchpad(callbacks.ModeDefault)
	ctx := newChatContext("chat3")

	sp.StartRun(ctx)
	emit(ctx, sp, newModel(t))
	_, buf := sp.EndRun(ctx)

	res := string(buf)
	assert.Contains(t, res, "weather_search *** Tool End ***")
	assert.NotContains(t, res, "Output: sunny")
	assert.NotContains(t, res, "Answer: test answer")
}
