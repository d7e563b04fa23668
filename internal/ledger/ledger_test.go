package ledger

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_Append(t *testing.T) {
	l := New(0.001, 10.0)

	record := l.Append(1000, 500, 200*time.Millisecond, nil)
	assert.True(t, record.Success)
	assert.Empty(t, record.ErrMessage)
	assert.InDelta(t, 0.0015, record.EstimatedCost, 1e-9)
	assert.NotEqual(t, record.ID.String(), "00000000-0000-0000-0000-000000000000")

	failed := l.Append(800, 0, time.Second, errors.New("服务端异常"))
	assert.False(t, failed.Success)
	assert.Equal(t, "服务端异常", failed.ErrMessage)
}

func TestLedger_Stats(t *testing.T) {
	l := New(0.001, 10.0)
	l.Append(1000, 500, 100*time.Millisecond, nil)
	l.Append(2000, 1000, 300*time.Millisecond, nil)
	l.Append(500, 0, 50*time.Millisecond, errors.New("超时"))
	l.RecordAvoidedTokens(1200)

	stats := l.Stats(0)
	assert.Equal(t, 3, stats.Calls)
	assert.Equal(t, 2, stats.Successes)
	assert.Equal(t, 1, stats.Failures)
	assert.Equal(t, int64(3500), stats.PromptTokens)
	assert.Equal(t, int64(1500), stats.CompletionTokens)
	assert.Equal(t, int64(1200), stats.AvoidedTokens)
	assert.Equal(t, 150*time.Millisecond, stats.AvgLatency)
	assert.InDelta(t, 0.005, stats.TotalCost, 1e-9)
}

func TestLedger_RecentCost(t *testing.T) {
	l := New(0.001, 10.0)
	l.Append(10000, 0, time.Millisecond, nil)

	assert.InDelta(t, 0.01, l.RecentCost(time.Hour), 1e-9)
	// 记录都是刚写入的，极小的窗口也应包含它们之外的情况难以构造，
	// 这里只验证窗口参数生效的方向
	assert.GreaterOrEqual(t, l.RecentCost(time.Hour), l.RecentCost(time.Nanosecond))
}

func TestLedger_ConcurrentAppend(t *testing.T) {
	l := New(0.001, 1000.0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Append(100, 50, time.Millisecond, nil)
			l.RecordAvoidedTokens(10)
		}()
	}
	wg.Wait()

	stats := l.Stats(0)
	require.Equal(t, 50, stats.Calls)
	assert.Equal(t, int64(5000), stats.PromptTokens)
	assert.Equal(t, int64(500), stats.AvoidedTokens)
}

func TestLedger_RecordAvoidedTokensIgnoresNonPositive(t *testing.T) {
	l := New(0.001, 10.0)
	l.RecordAvoidedTokens(0)
	l.RecordAvoidedTokens(-5)
	assert.Equal(t, int64(0), l.Stats(0).AvoidedTokens)
}
