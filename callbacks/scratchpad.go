package callbacks

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/effective-security/mcpchain/assistants"
	"github.com/effective-security/mcpchain/chatmodel"
	"github.com/effective-security/mcpchain/pkg/llms"
	"github.com/effective-security/mcpchain/pkg/llmutils"
	"github.com/effective-security/x/slices"
)

// ensure Scratchpad implements assistants.Callback
var _ assistants.Callback = (*Scratchpad)(nil)

var TimeNowFn = time.Now

// RunStats are the counters collected during a run of one chat.
type RunStats struct {
	ChatID string

	Duration           time.Duration
	Turns              uint32
	TurnsSucceeded     uint32
	TurnsFailed        uint32
	Decisions          uint32
	ChainSteps         uint32
	TotalMessages      uint32
	LLMCalls           uint32
	LLMParseErrors     uint32
	LLMBytesOut        uint64
	LLMBytesIn         uint64
	LLMInputTokens     uint64
	LLMOutputTokens    uint64
	LLMTotalTokens     uint64
	ToolCalls          uint32
	ToolCallsSucceeded uint32
	ToolCallsFailed    uint32
}

// Scratchpad is a callback handler that records the events of a chat
// into a buffer, and collects the run statistics.
// Events of a chat without a started run are ignored.
type Scratchpad struct {
	runs map[string]*run
	mode Mode
	lock sync.Mutex
}

func NewScratchpad(mode Mode) *Scratchpad {
	return &Scratchpad{
		runs: make(map[string]*run),
		mode: mode,
	}
}

// StartRun starts recording the chat of ctx.
func (l *Scratchpad) StartRun(ctx context.Context) {
	chatID := chatmodel.GetChatID(ctx)

	r := &run{
		chatID:  chatID,
		started: TimeNowFn(),
		stats: RunStats{
			ChatID: chatID,
		},
	}

	l.lock.Lock()
	l.runs[chatID] = r
	l.lock.Unlock()

	r.print("*** Run Started ***")
}

// EndRun stops recording the chat of ctx,
// and returns the statistics and the recorded events.
func (l *Scratchpad) EndRun(ctx context.Context) (*RunStats, []byte) {
	run := l.getRun(ctx)
	if run == nil {
		return nil, nil
	}

	stats := run.stats
	stats.Duration = TimeNowFn().Sub(run.started)

	run.print(fmt.Sprintf("Turns: %d, Failed: %d, Decisions: %d, Chain steps: %d",
		stats.Turns,
		stats.TurnsFailed,
		stats.Decisions,
		stats.ChainSteps,
	))
	run.print(fmt.Sprintf("Tool calls: %d, Failed: %d",
		stats.ToolCalls,
		stats.ToolCallsFailed,
	))
	run.print(fmt.Sprintf("LLM calls: %d, Parse errors: %d, Messages: %d, Bytes Out: %d, Bytes In: %d, Input Tokens: %d, Output Tokens: %d, Total Tokens: %d",
		stats.LLMCalls,
		stats.LLMParseErrors,
		stats.TotalMessages,
		stats.LLMBytesOut,
		stats.LLMBytesIn,
		stats.LLMInputTokens,
		stats.LLMOutputTokens,
		stats.LLMTotalTokens,
	))
	run.print(fmt.Sprintf("*** Run Ended. Duration: %s ***", stats.Duration))

	l.lock.Lock()
	delete(l.runs, run.chatID)
	l.lock.Unlock()

	return &stats, run.bytes()
}

func (l *Scratchpad) getRun(ctx context.Context) *run {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.runs[chatmodel.GetChatID(ctx)]
}

func (l *Scratchpad) OnTurnStart(ctx context.Context, query string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.Turns, 1)
	run.print("*** Turn Start ***")
	run.print("Query:", query)
}

func (l *Scratchpad) OnTurnEnd(ctx context.Context, query string, answer string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.TurnsSucceeded, 1)
	if l.mode == ModeVerbose {
		run.print("Answer:", answer)
	}
	run.print("*** Turn End ***")
}

func (l *Scratchpad) OnTurnError(ctx context.Context, query string, err error) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.TurnsFailed, 1)
	run.print("*** Turn Error ***", err.Error())
}

func (l *Scratchpad) OnDecision(ctx context.Context, query string, decision chatmodel.Decision) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.Decisions, 1)
	switch d := decision.(type) {
	case *chatmodel.SingleTool:
		run.print("*** Decision ***", string(d.Kind()), d.Name)
	case *chatmodel.ToolChain:
		run.print("*** Decision ***", string(d.Kind()), strings.Join(d.Names(), " -> "))
	default:
		run.print("*** Decision ***", string(decision.Kind()))
	}
}

func (l *Scratchpad) OnChainStep(ctx context.Context, index int, step chatmodel.ChainStep, args map[string]any, item *chatmodel.ToolResultItem) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ChainSteps, 1)
	run.print("*** Chain Step ***", fmt.Sprintf("%d", index+1), step.Name)
	if l.mode == ModeVerbose {
		run.print(step.Name, "Input:", llmutils.ToJSON(args))
	}
}

func (l *Scratchpad) OnSynthesis(ctx context.Context, req *chatmodel.SynthesisRequest) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	run.print("*** Synthesis ***", strings.Join(req.ToolChain, " -> "))
}

func (l *Scratchpad) printMessages(messages []llms.Message) string {
	var buf strings.Builder
	buf.WriteString("Messages:\n")
	for idx, msg := range messages {
		fmt.Fprintf(&buf, "[%d] %s: %s\n", idx, msg.Role, slices.StringUpto(msg.GetContent(), 128))
	}
	return buf.String()
}

func (l *Scratchpad) OnLLMCallStart(ctx context.Context, request assistants.Request, llm llms.Model, messages []llms.Message) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}

	atomic.AddUint64(&run.stats.LLMBytesOut, llmutils.CountMessagesContentSize(messages))
	atomic.AddUint32(&run.stats.LLMCalls, 1)
	count := uint32(len(messages))
	atomic.AddUint32(&run.stats.TotalMessages, count)

	run.print(string(request), "*** LLM Call ***", fmt.Sprintf("%s model, %d messages", llm.GetName(), count))
	if l.mode == ModeVerbose {
		run.print(string(request), l.printMessages(messages))
	}
}

func (l *Scratchpad) OnLLMCallEnd(ctx context.Context, request assistants.Request, llm llms.Model, resp *llms.ContentResponse) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}

	atomic.AddUint64(&run.stats.LLMBytesIn, llmutils.CountResponseContentSize(resp))
	tokensIn, tokensOut, tokensTotal := llmutils.CountTokens(resp)
	atomic.AddUint64(&run.stats.LLMInputTokens, uint64(tokensIn))
	atomic.AddUint64(&run.stats.LLMOutputTokens, uint64(tokensOut))
	atomic.AddUint64(&run.stats.LLMTotalTokens, uint64(tokensTotal))

	run.print(string(request), "*** LLM Call End ***", fmt.Sprintf("%s model, %d input tokens, %d output tokens, %d total tokens", llm.GetName(), tokensIn, tokensOut, tokensTotal))
	if l.mode == ModeVerbose {
		run.print(string(request), "Output:", resp.Text())
	}
}

func (l *Scratchpad) OnLLMParseError(ctx context.Context, request assistants.Request, response string, err error) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.LLMParseErrors, 1)
	run.print(string(request), "*** LLM Parse Error ***", err.Error())
	run.print("Response:", response)
}

func (l *Scratchpad) OnToolStart(ctx context.Context, name string, args map[string]any) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ToolCalls, 1)
	run.print(name, "*** Tool Start ***")
	run.print(name, "Input:", llmutils.ToJSON(args))
}

func (l *Scratchpad) OnToolEnd(ctx context.Context, name string, args map[string]any, result string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ToolCallsSucceeded, 1)
	if l.mode == ModeVerbose {
		run.print(name, "Output:", result)
	}
	run.print(name, "*** Tool End ***")
}

func (l *Scratchpad) OnToolError(ctx context.Context, name string, args map[string]any, err error) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ToolCallsFailed, 1)
	run.print(name, "*** Tool Error ***", err.Error())
}

type run struct {
	chatID  string
	w       bytes.Buffer
	started time.Time
	lock    sync.Mutex
	stats   RunStats
}

// print writes the entries to the run's output.
// The entries are written in the following format:
// [timestamp chatID] entry entry\n
func (r *run) print(entries ...string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	ts := TimeNowFn().Format("2006-01-02 15:04:05")

	_, _ = r.w.WriteString(ts)
	_, _ = r.w.WriteString(" ")
	_, _ = r.w.WriteString(r.chatID)
	_, _ = r.w.WriteString(" ")

	for i, entry := range entries {
		if i > 0 {
			_, _ = r.w.WriteString(" ")
		}
		_, _ = r.w.WriteString(entry)
	}
	_, _ = r.w.WriteString("\n")
}

func (r *run) bytes() []byte {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]byte{}, r.w.Bytes()...)
}
