package chatmodel

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatContext_Basics(t *testing.T) {
	t.Parallel()
	c := NewChatContext("cid")
	require.NotNil(t, c)
	assert.Equal(t, "cid", c.GetChatID())

	val, ok := c.GetMetadata("not-found")
	assert.Nil(t, val)
	assert.False(t, ok)
	c.SetMetadata("foo", 1)
	v, ok := c.GetMetadata("foo")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestNewChatContext_DefaultID(t *testing.T) {
	t.Parallel()
	c1 := NewChatContext("")
	c2 := NewChatContext("")
	assert.NotEmpty(t, c1.GetChatID())
	assert.NotEqual(t, c1.GetChatID(), c2.GetChatID())
}

func TestContextPlumbing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	assert.Nil(t, GetChatContext(ctx))
	assert.Empty(t, GetChatID(ctx))
	_, err := MustChatContext(ctx)
	assert.True(t, errors.Is(err, ErrInvalidChatContext))

	c := NewChatContext("y")
	ctx = WithChatContext(ctx, c)
	assert.Same(t, c, GetChatContext(ctx))
	assert.Equal(t, "y", GetChatID(ctx))
	got, err := MustChatContext(ctx)
	require.NoError(t, err)
	assert.Same(t, c, got)
}
