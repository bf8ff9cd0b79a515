package callbacks_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/assistants"
	"github.com/effective-security/mcpchain/callbacks"
	"github.com/effective-security/mcpchain/chatmodel"
	"github.com/effective-security/mcpchain/mocks/mockassistants"
	"github.com/effective-security/mcpchain/mocks/mockllms"
	"github.com/effective-security/mcpchain/pkg/llms"
	"github.com/effective-security/xlog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newModel(t *testing.T) llms.Model {
	ctrl := gomock.NewController(t)
	m := mockllms.NewMockModel(ctrl)
	m.EXPECT().GetName().Return("test-model").AnyTimes()
	return m
}

// emit sends one event of every kind to cb.
func emit(ctx context.Context, cb assistants.Callback, llm llms.Model) {
	args := map[string]any{"city": "Paris"}
	item := &chatmodel.ToolResultItem{Name: "weather_search", Result: "sunny"}
	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:        "test output",
			GenerationInfo: map[string]any{"InputTokens": 10, "OutputTokens": 5, "TotalTokens": 15},
		}},
	}

	cb.OnTurnStart(ctx, "test input")
	cb.OnLLMCallStart(ctx, assistants.RequestDecision, llm, []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "system"),
		llms.MessageFromTextParts(llms.RoleHuman, "test input"),
	})
	cb.OnLLMCallEnd(ctx, assistants.RequestDecision, llm, resp)
	cb.OnLLMParseError(ctx, assistants.RequestParameters, "not json", errors.New("parse failed"))
	cb.OnDecision(ctx, "test input", &chatmodel.ToolChain{Steps: []chatmodel.ChainStep{{Name: "weather_search"}}})
	cb.OnDecision(ctx, "test input", &chatmodel.SingleTool{Name: "weather_search", Arguments: args})
	cb.OnDecision(ctx, "test input", &chatmodel.Answer{Text: "hi"})
	cb.OnToolStart(ctx, "weather_search", args)
	cb.OnToolEnd(ctx, "weather_search", args, "sunny")
	cb.OnToolStart(ctx, "order_info", args)
	cb.OnToolError(ctx, "order_info", args, errors.New("tool failed"))
	cb.OnChainStep(ctx, 0, chatmodel.ChainStep{Name: "weather_search"}, args, item)
	cb.OnSynthesis(ctx, chatmodel.NewSynthesisRequest("test input", []chatmodel.ToolResultItem{*item}))
	cb.OnTurnError(ctx, "test input", errors.New("turn failed"))
	cb.OnTurnEnd(ctx, "test input", "test answer")
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	emit(context.Background(), callbacks.NewPrinter(&buf, callbacks.ModeVerbose), newModel(t))

	res := buf.String()
	assert.Contains(t, res, "Turn Start: test input")
	assert.Contains(t, res, "LLM Call: decision: test-model model, 2 messages")
	assert.Contains(t, res, "SYSTEM: system")
	assert.Contains(t, res, "LLM Call End: decision: test-model model, 10 input tokens, 5 output tokens")
	assert.Contains(t, res, "LLM Parse Error: parameters: parse failed")
	assert.Contains(t, res, "Response: not json")
	assert.Contains(t, res, "Decision: chain [weather_search]")
	assert.Contains(t, res, "Decision: tool weather_search\ncity: Paris\n")
	assert.Contains(t, res, "Decision: text")
	assert.Contains(t, res, "Tool Start: weather_search\nInput: {\"city\":\"Paris\"}")
	assert.Contains(t, res, "Tool End: weather_search\nOutput: sunny")
	assert.Contains(t, res, "Tool Error: order_info: tool failed")
	assert.Contains(t, res, "Chain Step 1: weather_search")
	assert.Contains(t, res, "Result: sunny")
	assert.Contains(t, res, "Synthesis: 1 tool results")
	assert.Contains(t, res, "Turn Error: turn failed")
	assert.Contains(t, res, "Turn End\nAnswer: test answer")
}

func TestPrinter_Default(t *testing.T) {
	var buf bytes.Buffer
	emit(context.Background(), callbacks.NewPrinter(&buf, callbacks.ModeDefault), newModel(t))

	res := buf.String()
	assert.Contains(t, res, "Tool End: weather_search")
	assert.NotContains(t, res, "Output: sunny")
	assert.NotContains(t, res, "Answer: test answer")
	assert.NotContains(t, res, "SYSTEM: system")
}

func TestPackageLogger(t *testing.T) {
	var buf bytes.Buffer
	xlog.SetFormatter(xlog.NewStringFormatter(&buf))
	xlog.SetGlobalLogLevel(xlog.DEBUG)
	defer func() {
		xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
		xlog.SetGlobalLogLevel(xlog.INFO)
	}()

	logger := xlog.NewPackageLogger("github.com/effective-security/mcpchain", "callbacks_test")
	emit(context.Background(), callbacks.NewPackageLogger(logger), newModel(t))

	res := buf.String()
	assert.Contains(t, res, "turn_start")
	assert.Contains(t, res, "llm_call_end")
	assert.Contains(t, res, "llm_parse_error")
	assert.Contains(t, res, "tool_error")
	assert.Contains(t, res, "chain_step")
	assert.Contains(t, res, "turn_end")
}

func TestNoop(t *testing.T) {
	emit(context.Background(), &callbacks.Noop{}, newModel(t))
}

func TestFanout(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	llm := newModel(t)

	var buf bytes.Buffer
	cb := mockassistants.NewMockCallback(ctrl)
	fanout := callbacks.NewFanout(callbacks.NewPrinter(&buf, callbacks.ModeDefault))
	fanout.Add(cb)

	cb.EXPECT().OnTurnStart(ctx, "test input")
	cb.EXPECT().OnTurnEnd(ctx, "test input", "test answer")
	cb.EXPECT().OnTurnError(ctx, "test input", gomock.Any())
	cb.EXPECT().OnDecision(ctx, "test input", gomock.Any()).Times(3)
	cb.EXPECT().OnChainStep(ctx, 0, chatmodel.ChainStep{Name: "weather_search"}, gomock.Any(), gomock.Any())
	cb.EXPECT().OnSynthesis(ctx, gomock.Any())
	cb.EXPECT().OnLLMCallStart(ctx, assistants.RequestDecision, llm, gomock.Len(2))
	cb.EXPECT().OnLLMCallEnd(ctx, assistants.RequestDecision, llm, gomock.Any())
	cb.EXPECT().OnLLMParseError(ctx, assistants.RequestParameters, "not json", gomock.Any())
	cb.EXPECT().OnToolStart(ctx, "weather_search", gomock.Any())
	cb.EXPECT().OnToolStart(ctx, "order_info", gomock.Any())
	cb.EXPECT().OnToolEnd(ctx, "weather_search", gomock.Any(), "sunny")
	cb.EXPECT().OnToolError(ctx, "order_info", gomock.Any(), gomock.Any())

	emit(ctx, fanout, llm)
	assert.Contains(t, buf.String(), "Turn Start: test input")
}
