package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/mocks/mockassistants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRunLoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	agent := mockassistants.NewMockAnswerer(ctrl)

	gomock.InOrder(
		agent.EXPECT().Answer(gomock.Any(), "what is the weather in Paris?").Return("It is sunny.", nil),
		agent.EXPECT().Answer(gomock.Any(), "book a flight").Return("", errors.New("tool book_flight failed")),
		agent.EXPECT().Answer(gomock.Any(), "order status?").Return("Parked at the gate.", nil),
	)

	in := strings.NewReader("what is the weather in Paris?\n\n   \nbook a flight\norder status?\nQUIT\nnever asked\n")
	var out bytes.Buffer
	err := RunLoop(context.Background(), in, &out, agent)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "MCP Client Started!")
	assert.Contains(t, text, "Type your queries or 'quit' to exit.")
	assert.Contains(t, text, "\nIt is sunny.\n")
	assert.Contains(t, text, "\nError: tool book_flight failed\n")
	assert.Contains(t, text, "\nParked at the gate.\n")
	assert.NotContains(t, text, "never asked")
	assert.Equal(t, 6, strings.Count(text, "Query: "))
}

func TestRunLoop_EOF(t *testing.T) {
	ctrl := gomock.NewController(t)
	agent := mockassistants.NewMockAnswerer(ctrl)
	agent.EXPECT().Answer(gomock.Any(), "hi").Return("hello", nil)

	var out bytes.Buffer
	err := RunLoop(context.Background(), strings.NewReader("hi"), &out, agent)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "\nhello\n")
}

func TestRunLoop_Canceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	agent := mockassistants.NewMockAnswerer(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := RunLoop(ctx, strings.NewReader("hi\n"), &out, agent)
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "Query: ")
}
