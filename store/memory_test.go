package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/effective-security/mcpchain/chatmodel"
	"github.com/effective-security/mcpchain/pkg/llms"
	"github.com/effective-security/mcpchain/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MemoryStore(t *testing.T) {
	st := store.NewMemoryStore()

	ctx := context.Background()
	assert.Empty(t, st.Messages(ctx))
	assert.Equal(t, 0, st.Len(ctx))
	require.NoError(t, st.Reset(ctx))
	require.NoError(t, st.Add(ctx))
	assert.Equal(t, 0, st.Len(ctx))

	msg1 := llms.MessageFromTextParts(llms.RoleHuman, "Hello")
	msg2 := llms.MessageFromTextParts(llms.RoleAI, "Hi there!")

	require.NoError(t, st.Add(ctx, msg1, msg2))
	messages := st.Messages(ctx)
	require.Len(t, messages, 2)
	assert.Equal(t, "Hello", messages[0].GetContent())
	assert.Equal(t, llms.RoleAI, messages[1].Role)

	// returned slice is a copy
	messages[0] = msg2
	assert.Equal(t, "Hello", st.Messages(ctx)[0].GetContent())

	chatCtx := chatmodel.NewChatContext("chat1")
	ctx2 := chatmodel.WithChatContext(ctx, chatCtx)
	assert.Empty(t, st.Messages(ctx2))
	require.NoError(t, st.Add(ctx2, msg1))
	assert.Equal(t, 1, st.Len(ctx2))
	assert.Equal(t, 2, st.Len(ctx))

	require.NoError(t, st.Reset(ctx))
	assert.Equal(t, 0, st.Len(ctx))
	assert.Equal(t, 1, st.Len(ctx2))
}

func Test_MemoryStore_Concurrent(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = st.Add(ctx,
				llms.MessageFromTextParts(llms.RoleHuman, "q"),
				llms.MessageFromTextParts(llms.RoleAI, "a"),
			)
			_ = st.Messages(ctx)
		}()
	}
	wg.Wait()

	messages := st.Messages(ctx)
	require.Len(t, messages, 20)
	for i := 0; i < len(messages); i += 2 {
		assert.Equal(t, llms.RoleHuman, messages[i].Role)
		assert.Equal(t, llms.RoleAI, messages[i+1].Role)
	}
}
