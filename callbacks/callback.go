package callbacks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/effective-security/mcpchain/assistants"
	"github.com/effective-security/mcpchain/chatmodel"
	"github.com/effective-security/mcpchain/pkg/llms"
	"github.com/effective-security/mcpchain/pkg/llmutils"
	"github.com/effective-security/mcpchain/tools"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

// ensure that the callbacks implement the correct interfaces
var (
	_ assistants.Callback = (*Noop)(nil)
	_ tools.Callback      = (*Noop)(nil)
	_ assistants.Callback = (*Printer)(nil)
	_ assistants.Callback = (*PackageLogger)(nil)
	_ assistants.Callback = (*Fanout)(nil)
)

// Mode defines the mode for callback printing
type Mode int

const (
	// ModeDefault is the default mode for callback printing
	ModeDefault Mode = iota
	// ModeVerbose is the verbose mode for callback printing
	ModeVerbose
)

// Fanout is a callback handler that forwards the events to multiple callbacks.
type Fanout struct {
	callbacks []assistants.Callback
}

func NewFanout(callbacks ...assistants.Callback) *Fanout {
	return &Fanout{callbacks: callbacks}
}

func (l *Fanout) Add(callback assistants.Callback) {
	l.callbacks = append(l.callbacks, callback)
}

func (l *Fanout) OnTurnStart(ctx context.Context, query string) {
	for _, callback := range l.callbacks {
		callback.OnTurnStart(ctx, query)
	}
}

func (l *Fanout) OnTurnEnd(ctx context.Context, query string, answer string) {
	for _, callback := range l.callbacks {
		callback.OnTurnEnd(ctx, query, answer)
	}
}

func (l *Fanout) OnTurnError(ctx context.Context, query string, err error) {
	for _, callback := range l.callbacks {
		callback.OnTurnError(ctx, query, err)
	}
}

func (l *Fanout) OnDecision(ctx context.Context, query string, decision chatmodel.Decision) {
	for _, callback := range l.callbacks {
		callback.OnDecision(ctx, query, decision)
	}
}

func (l *Fanout) OnChainStep(ctx context.Context, index int, step chatmodel.ChainStep, args map[string]any, item *chatmodel.ToolResultItem) {
	for _, callback := range l.callbacks {
		callback.OnChainStep(ctx, index, step, args, item)
	}
}

func (l *Fanout) OnSynthesis(ctx context.Context, req *chatmodel.SynthesisRequest) {
	for _, callback := range l.callbacks {
		callback.OnSynthesis(ctx, req)
	}
}

func (l *Fanout) OnLLMCallStart(ctx context.Context, request assistants.Request, llm llms.Model, messages []llms.Message) {
	for _, callback := range l.callbacks {
		callback.OnLLMCallStart(ctx, request, llm, messages)
	}
}

func (l *Fanout) OnLLMCallEnd(ctx context.Context, request assistants.Request, llm llms.Model, resp *llms.ContentResponse) {
	for _, callback := range l.callbacks {
		callback.OnLLMCallEnd(ctx, request, llm, resp)
	}
}

func (l *Fanout) OnLLMParseError(ctx context.Context, request assistants.Request, response string, err error) {
	for _, callback := range l.callbacks {
		callback.OnLLMParseError(ctx, request, response, err)
	}
}

func (l *Fanout) OnToolStart(ctx context.Context, name string, args map[string]any) {
	for _, callback := range l.callbacks {
		callback.OnToolStart(ctx, name, args)
	}
}

func (l *Fanout) OnToolEnd(ctx context.Context, name string, args map[string]any, result string) {
	for _, callback := range l.callbacks {
		callback.OnToolEnd(ctx, name, args, result)
	}
}

func (l *Fanout) OnToolError(ctx context.Context, name string, args map[string]any, err error) {
	for _, callback := range l.callbacks {
		callback.OnToolError(ctx, name, args, err)
	}
}

// Noop is a callback handler that does nothing.
type Noop struct{}

func (*Noop) OnTurnStart(context.Context, string)                               {}
func (*Noop) OnTurnEnd(context.Context, string, string)                         {}
func (*Noop) OnTurnError(context.Context, string, error)                        {}
func (*Noop) OnDecision(context.Context, string, chatmodel.Decision)            {}
func (*Noop) OnSynthesis(context.Context, *chatmodel.SynthesisRequest)          {}
func (*Noop) OnToolStart(context.Context, string, map[string]any)               {}
func (*Noop) OnToolEnd(context.Context, string, map[string]any, string)         {}
func (*Noop) OnToolError(context.Context, string, map[string]any, error)        {}
func (*Noop) OnLLMParseError(context.Context, assistants.Request, string, error) {}

func (*Noop) OnChainStep(context.Context, int, chatmodel.ChainStep, map[string]any, *chatmodel.ToolResultItem) {
}

func (*Noop) OnLLMCallStart(context.Context, assistants.Request, llms.Model, []llms.Message) {
}

func (*Noop) OnLLMCallEnd(context.Context, assistants.Request, llms.Model, *llms.ContentResponse) {
}

// Printer is a callback handler that prints to the Writer.
type Printer struct {
	Out  io.Writer
	Mode Mode

	lock sync.Mutex
}

func NewPrinter(out io.Writer, mode Mode) *Printer {
	return &Printer{Out: out, Mode: mode}
}

func (l *Printer) OnTurnStart(ctx context.Context, query string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Turn Start: %s\n", query)
}

func (l *Printer) OnTurnEnd(ctx context.Context, query string, answer string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintln(l.Out, "Turn End")
	if l.Mode == ModeVerbose {
		fmt.Fprintf(l.Out, "Answer: %s\n", answer)
	}
}

func (l *Printer) OnTurnError(ctx context.Context, query string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Turn Error: %s\n", err.Error())
}

func (l *Printer) OnDecision(ctx context.Context, query string, decision chatmodel.Decision) {
	l.lock.Lock()
	defer l.lock.Unlock()
	switch d := decision.(type) {
	case *chatmodel.SingleTool:
		fmt.Fprintf(l.Out, "Decision: %s %s\n", d.Kind(), d.Name)
		if l.Mode == ModeVerbose {
			fmt.Fprint(l.Out, llmutils.ToYAML(d.Arguments))
		}
	case *chatmodel.ToolChain:
		fmt.Fprintf(l.Out, "Decision: %s %v\n", d.Kind(), d.Names())
	default:
		fmt.Fprintf(l.Out, "Decision: %s\n", decision.Kind())
	}
}

func (l *Printer) OnChainStep(ctx context.Context, index int, step chatmodel.ChainStep, args map[string]any, item *chatmodel.ToolResultItem) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Chain Step %d: %s\n", index+1, step.Name)
	if l.Mode == ModeVerbose {
		fmt.Fprint(l.Out, llmutils.ToYAML(args))
		fmt.Fprintf(l.Out, "Result: %s\n", item.Result)
	}
}

func (l *Printer) OnSynthesis(ctx context.Context, req *chatmodel.SynthesisRequest) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Synthesis: %d tool results\n", len(req.ToolResult))
}

func (l *Printer) OnLLMCallStart(ctx context.Context, request assistants.Request, llm llms.Model, messages []llms.Message) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "LLM Call: %s: %s model, %d messages\n", request, llm.GetName(), len(messages))
	if l.Mode == ModeVerbose {
		llmutils.PrintMessages(l.Out, messages)
	}
}

func (l *Printer) OnLLMCallEnd(ctx context.Context, request assistants.Request, llm llms.Model, resp *llms.ContentResponse) {
	l.lock.Lock()
	defer l.lock.Unlock()
	tokensIn, tokensOut, _ := llmutils.CountTokens(resp)
	fmt.Fprintf(l.Out, "LLM Call End: %s: %s model, %d input tokens, %d output tokens\n", request, llm.GetName(), tokensIn, tokensOut)
	if l.Mode == ModeVerbose {
		fmt.Fprintln(l.Out, resp.Text())
	}
}

func (l *Printer) OnLLMParseError(ctx context.Context, request assistants.Request, response string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "LLM Parse Error: %s: %s\n", request, err.Error())
	fmt.Fprintf(l.Out, "Response: %s\n", response)
}

func (l *Printer) OnToolStart(ctx context.Context, name string, args map[string]any) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Start: %s\n", name)
	fmt.Fprintf(l.Out, "Input: %s\n", llmutils.ToJSON(args))
}

func (l *Printer) OnToolEnd(ctx context.Context, name string, args map[string]any, result string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool End: %s\n", name)
	if l.Mode == ModeVerbose {
		fmt.Fprintf(l.Out, "Output: %s\n", result)
	}
}

func (l *Printer) OnToolError(ctx context.Context, name string, args map[string]any, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Error: %s: %s\n", name, err.Error())
}

// PackageLogger is a callback handler that prints to the logger.
type PackageLogger struct {
	logger *xlog.PackageLogger
}

func NewPackageLogger(logger *xlog.PackageLogger) *PackageLogger {
	return &PackageLogger{logger: logger}
}

func (l *PackageLogger) OnTurnStart(ctx context.Context, query string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"status", "turn_start",
		"query", slices.StringUpto(query, 64),
	)
}

func (l *PackageLogger) OnTurnEnd(ctx context.Context, query string, answer string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"status", "turn_end",
		"answer", slices.StringUpto(answer, 64),
	)
}

func (l *PackageLogger) OnTurnError(ctx context.Context, query string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"status", "turn_error",
		"query", slices.StringUpto(query, 64),
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnDecision(ctx context.Context, query string, decision chatmodel.Decision) {
	kv := []any{
		"status", "decision",
		"kind", decision.Kind(),
	}
	switch d := decision.(type) {
	case *chatmodel.SingleTool:
		kv = append(kv, "tool", d.Name)
	case *chatmodel.ToolChain:
		kv = append(kv, "chain", d.Names())
	}
	l.logger.ContextKV(ctx, xlog.DEBUG, kv...)
}

func (l *PackageLogger) OnChainStep(ctx context.Context, index int, step chatmodel.ChainStep, args map[string]any, item *chatmodel.ToolResultItem) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"status", "chain_step",
		"step", index,
		"tool", step.Name,
		"result", slices.StringUpto(item.Result, 64),
	)
}

func (l *PackageLogger) OnSynthesis(ctx context.Context, req *chatmodel.SynthesisRequest) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"status", "synthesis",
		"results", len(req.ToolResult),
	)
}

func (l *PackageLogger) OnLLMCallStart(ctx context.Context, request assistants.Request, llm llms.Model, messages []llms.Message) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"status", "llm_call_start",
		"request", request,
		"model", llm.GetName(),
		"messages", len(messages),
		"bytes", llmutils.CountMessagesContentSize(messages),
	)
}

func (l *PackageLogger) OnLLMCallEnd(ctx context.Context, request assistants.Request, llm llms.Model, resp *llms.ContentResponse) {
	tokensIn, tokensOut, tokensTotal := llmutils.CountTokens(resp)
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"status", "llm_call_end",
		"request", request,
		"model", llm.GetName(),
		"input_tokens", tokensIn,
		"output_tokens", tokensOut,
		"total_tokens", tokensTotal,
	)
}

func (l *PackageLogger) OnLLMParseError(ctx context.Context, request assistants.Request, response string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"status", "llm_parse_error",
		"request", request,
		"response", slices.StringUpto(response, 256),
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnToolStart(ctx context.Context, name string, args map[string]any) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"status", "tool_start",
		"tool", name,
		"args", llmutils.ToJSON(args),
	)
}

func (l *PackageLogger) OnToolEnd(ctx context.Context, name string, args map[string]any, result string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"status", "tool_end",
		"tool", name,
		"result", slices.StringUpto(result, 64),
	)
}

func (l *PackageLogger) OnToolError(ctx context.Context, name string, args map[string]any, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"status", "tool_error",
		"tool", name,
		"err", err.Error(),
	)
}
