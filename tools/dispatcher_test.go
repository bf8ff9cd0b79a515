package tools_test

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/chatmodel"
	"github.com/effective-security/mcpchain/mocks/mocktools"
	"github.com/effective-security/mcpchain/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDispatcher_Invoke(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := mocktools.NewMockHost(ctrl)
	cb := mocktools.NewMockCallback(ctrl)
	ctx := context.Background()

	args := map[string]any{"city": "Paris", "date": "2024-01-01"}
	gomock.InOrder(
		cb.EXPECT().OnToolStart(gomock.Any(), "weather_search", args),
		host.EXPECT().CallTool(gomock.Any(), "weather_search", args).Return(&tools.CallResult{
			Content: []tools.Content{
				{Type: "image"},
				{Type: tools.ContentTypeText, Text: "Paris: sunny"},
				{Type: tools.ContentTypeText, Text: "ignored"},
			},
		}, nil),
		cb.EXPECT().OnToolEnd(gomock.Any(), "weather_search", args, "Paris: sunny"),
	)

	d := tools.NewDispatcher(host, tools.WithCallback(cb))
	item, err := d.Invoke(ctx, "weather_search", args)
	require.NoError(t, err)
	assert.Equal(t, &chatmodel.ToolResultItem{Name: "weather_search", Result: "Paris: sunny"}, item)
}

func TestDispatcher_NilArgs(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := mocktools.NewMockHost(ctrl)

	host.EXPECT().CallTool(gomock.Any(), "order_info", map[string]any{}).Return(&tools.CallResult{
		Content: []tools.Content{{Type: tools.ContentTypeText, Text: ""}},
	}, nil)

	item, err := tools.NewDispatcher(host).Invoke(context.Background(), "order_info", nil)
	require.NoError(t, err)
	assert.Empty(t, item.Result)
}

func TestDispatcher_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := mocktools.NewMockHost(ctrl)
	cb := mocktools.NewMockCallback(ctrl)

	cb.EXPECT().OnToolStart(gomock.Any(), "book_flight", gomock.Any())
	cb.EXPECT().OnToolError(gomock.Any(), "book_flight", gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ string, _ map[string]any, err error) {
			assert.True(t, errors.Is(err, chatmodel.ErrToolExecutionEmpty))
		})

	host.EXPECT().CallTool(gomock.Any(), "book_flight", gomock.Any()).Return(&tools.CallResult{}, nil)

	item, err := tools.NewDispatcher(host, tools.WithCallback(cb)).Invoke(context.Background(), "book_flight", map[string]any{})
	assert.Nil(t, item)
	assert.True(t, errors.Is(err, chatmodel.ErrToolExecutionEmpty))
	assert.False(t, errors.Is(err, chatmodel.ErrToolInvocationFailed))

	// nil result and non text content are also empty
	host.EXPECT().CallTool(gomock.Any(), "x", gomock.Any()).Return(nil, nil)
	_, err = tools.NewDispatcher(host).Invoke(context.Background(), "x", nil)
	assert.True(t, errors.Is(err, chatmodel.ErrToolExecutionEmpty))

	host.EXPECT().CallTool(gomock.Any(), "x", gomock.Any()).Return(&tools.CallResult{
		Content: []tools.Content{{Type: "image"}},
	}, nil)
	_, err = tools.NewDispatcher(host).Invoke(context.Background(), "x", nil)
	assert.True(t, errors.Is(err, chatmodel.ErrToolExecutionEmpty))
}

func TestDispatcher_Failed(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := mocktools.NewMockHost(ctrl)
	d := tools.NewDispatcher(host)

	host.EXPECT().CallTool(gomock.Any(), "nope", gomock.Any()).Return(nil, errors.New("unknown tool: nope"))
	_, err := d.Invoke(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, chatmodel.ErrToolInvocationFailed))
	var tErr *chatmodel.ToolInvocationError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, "nope", tErr.ToolName)
	assert.EqualError(t, tErr.Cause, "unknown tool: nope")

	host.EXPECT().CallTool(gomock.Any(), "weather_search", gomock.Any()).Return(&tools.CallResult{
		IsError: true,
		Content: []tools.Content{{Type: tools.ContentTypeText, Text: "invalid date"}},
	}, nil)
	_, err = d.Invoke(context.Background(), "weather_search", nil)
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, "weather_search", tErr.ToolName)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestDispatcher_Timeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := mocktools.NewMockHost(ctrl)

	host.EXPECT().CallTool(gomock.Any(), "slow", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ map[string]any) (*tools.CallResult, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	d := tools.NewDispatcher(host, tools.WithTimeout(10*time.Millisecond))
	_, err := d.Invoke(context.Background(), "slow", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, chatmodel.ErrToolInvocationFailed))
	assert.Contains(t, err.Error(), "deadline exceeded")
}

func TestPrimaryText(t *testing.T) {
	_, ok := tools.PrimaryText(nil)
	assert.False(t, ok)

	s, ok := tools.PrimaryText(&tools.CallResult{Content: []tools.Content{{Type: "text", Text: "a"}, {Type: "text", Text: "b"}}})
	assert.True(t, ok)
	assert.Equal(t, "a", s)
}
