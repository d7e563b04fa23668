package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucket_Allow(t *testing.T) {
	tb := NewTokenBucket(60, 2)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	// 桶已空，补充速率为每秒1个，立即再取应失败
	assert.False(t, tb.Allow())
}

func TestTokenBucket_Refill(t *testing.T) {
	tb := NewTokenBucket(600, 1) // 每秒10个令牌

	require.True(t, tb.Allow())
	require.False(t, tb.Allow())

	time.Sleep(150 * time.Millisecond)
	assert.True(t, tb.Allow(), "等待后应补充出新令牌")
}

func TestTokenBucket_WaitCancelled(t *testing.T) {
	tb := NewTokenBucket(1, 1) // 每分钟1个，耗尽后要等很久
	require.True(t, tb.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := tb.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTokenBucket_DefaultCapacity(t *testing.T) {
	tb := NewTokenBucket(10, 0)
	assert.Equal(t, 5.0, tb.capacity)

	tb = NewTokenBucket(1, 0)
	assert.Equal(t, 1.0, tb.capacity)
}
