package tools

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/chatmodel"
	"github.com/effective-security/mcpchain/pkg/metricskey"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpchain", "tools")

// Dispatcher executes tool calls against a Host.
// It does not retry.
type Dispatcher struct {
	host     Host
	callback Callback
	timeout  time.Duration
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithCallback sets the callback for tool events.
func WithCallback(cb Callback) DispatcherOption {
	return func(d *Dispatcher) {
		d.callback = cb
	}
}

// WithTimeout bounds each tool call, zero means no timeout.
func WithTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.timeout = timeout
	}
}

// NewDispatcher returns a Dispatcher for the host.
func NewDispatcher(host Host, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		host: host,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var _ Invoker = (*Dispatcher)(nil)

// Invoke calls the named tool and returns its primary textual content.
//
// A host failure, including a result flagged as error, returns
// *chatmodel.ToolInvocationError. A result without text content
// returns chatmodel.ErrToolExecutionEmpty.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args map[string]any) (*chatmodel.ToolResultItem, error) {
	if args == nil {
		args = map[string]any{}
	}

	if d.callback != nil {
		d.callback.OnToolStart(ctx, name, args)
	}

	item, err := d.invoke(ctx, name, args)
	if err != nil {
		if d.callback != nil {
			d.callback.OnToolError(ctx, name, args, err)
		}
		return nil, err
	}

	if d.callback != nil {
		d.callback.OnToolEnd(ctx, name, args, item.Result)
	}
	return item, nil
}

func (d *Dispatcher) invoke(ctx context.Context, name string, args map[string]any) (*chatmodel.ToolResultItem, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	started := time.Now()
	res, err := d.host.CallTool(ctx, name, args)
	metricskey.PerfToolCall.MeasureSince(started, name)

	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, name)
		logger.ContextKV(ctx, xlog.ERROR,
			"status", "tool_call_failed",
			"tool", name,
			"err", err.Error(),
		)
		return nil, errors.WithStack(&chatmodel.ToolInvocationError{ToolName: name, Cause: err})
	}

	text, ok := PrimaryText(res)
	if res != nil && res.IsError {
		metricskey.StatsToolCallsFailed.IncrCounter(1, name)
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "tool_reported_error",
			"tool", name,
			"content", text,
		)
		return nil, errors.WithStack(&chatmodel.ToolInvocationError{
			ToolName: name,
			Cause:    errors.Newf("tool reported error: %s", text),
		})
	}
	if !ok {
		metricskey.StatsToolCallsEmpty.IncrCounter(1, name)
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "tool_empty_content",
			"tool", name,
		)
		return nil, errors.WithMessagef(chatmodel.ErrToolExecutionEmpty, "tool %q", name)
	}

	metricskey.StatsToolCallsSucceeded.IncrCounter(1, name)
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "tool_called",
		"tool", name,
		"result_size", len(text),
	)
	return &chatmodel.ToolResultItem{Name: name, Result: text}, nil
}

// PrimaryText returns the text of the first textual content item.
func PrimaryText(res *CallResult) (string, bool) {
	if res == nil {
		return "", false
	}
	for _, c := range res.Content {
		if c.Type == ContentTypeText {
			return c.Text, true
		}
	}
	return "", false
}
