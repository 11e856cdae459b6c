package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimited_Delegates(t *testing.T) {
	t.Parallel()
	inner := ClientFunc(func(_ context.Context, req *Request) (*Response, error) {
		return &Response{Content: "pong"}, nil
	})
	client := NewRateLimited(inner, 100, 10)

	resp, err := client.SendMessage(context.Background(), &Request{
		Messages: []Message{{Role: RoleUser, Content: "ping"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "pong", resp.Content)
}

func TestRateLimited_ThrottlesBeyondBurst(t *testing.T) {
	t.Parallel()
	calls := 0
	inner := ClientFunc(func(_ context.Context, _ *Request) (*Response, error) {
		calls++
		return &Response{}, nil
	})
	// 10 rps with burst 1: the second call must wait roughly 100ms.
	client := NewRateLimited(inner, 10, 1)
	ctx := context.Background()

	start := time.Now()
	_, err := client.SendMessage(ctx, &Request{})
	require.NoError(t, err)
	_, err = client.SendMessage(ctx, &Request{})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestRateLimited_ContextCancelled(t *testing.T) {
	t.Parallel()
	inner := ClientFunc(func(_ context.Context, _ *Request) (*Response, error) {
		t.Fatal("inner client must not be called")
		return nil, nil
	})
	// Burst 0 can never admit a request; cancellation must unblock Wait.
	client := NewRateLimited(inner, 1, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.SendMessage(ctx, &Request{})
	assert.Error(t, err)
}
