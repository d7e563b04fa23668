// Package ledger 记录每次外部服务调用的令牌消耗和成本估算。
package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"resume-match-go/internal/constants"
)

// Record 单次服务调用的消费记录
type Record struct {
	ID               uuid.UUID     `json:"id"`
	Timestamp        time.Time     `json:"timestamp"`
	PromptTokens     int           `json:"prompt_tokens"`
	CompletionTokens int           `json:"completion_tokens"`
	EstimatedCost    float64       `json:"estimated_cost"`
	Latency          time.Duration `json:"latency_ns"`
	Success          bool          `json:"success"`
	ErrMessage       string        `json:"err_message,omitempty"`
}

// Stats 一个时间窗口内的汇总统计
type Stats struct {
	Calls            int           `json:"calls"`
	Successes        int           `json:"successes"`
	Failures         int           `json:"failures"`
	PromptTokens     int64         `json:"prompt_tokens"`
	CompletionTokens int64         `json:"completion_tokens"`
	TotalCost        float64       `json:"total_cost"`
	AvgLatency       time.Duration `json:"avg_latency_ns"`
	AvoidedTokens    int64         `json:"avoided_tokens"`
}

// Ledger 进程内的消费台账，并发安全
type Ledger struct {
	mu             sync.Mutex
	records        []Record
	avoidedTokens  int64
	costPer1K      float64
	alertThreshold float64
	alerted        bool
	logger         zerolog.Logger
}

// Option 台账的配置选项
type Option func(*Ledger)

// WithLogger 设置日志记录器
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// New 创建消费台账。costPer1K 为每1K令牌的价格，alertThreshold 为滚动窗口内的成本告警阈值
func New(costPer1K float64, alertThreshold float64, options ...Option) *Ledger {
	if costPer1K <= 0 {
		costPer1K = constants.DefaultCostPer1KTokens
	}
	if alertThreshold <= 0 {
		alertThreshold = constants.DefaultCostAlertThreshold
	}
	l := &Ledger{
		costPer1K:      costPer1K,
		alertThreshold: alertThreshold,
		logger:         zerolog.Nop(),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Append 追加一条调用记录并返回。callErr 为 nil 视为成功
func (l *Ledger) Append(promptTokens, completionTokens int, latency time.Duration, callErr error) Record {
	record := Record{
		ID:               uuid.New(),
		Timestamp:        time.Now(),
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		EstimatedCost:    float64(promptTokens+completionTokens) / 1000.0 * l.costPer1K,
		Latency:          latency,
		Success:          callErr == nil,
	}
	if callErr != nil {
		record.ErrMessage = callErr.Error()
	}

	l.mu.Lock()
	l.records = append(l.records, record)
	recent := l.costSinceLocked(time.Now().Add(-constants.CostAlertWindow))
	crossed := recent > l.alertThreshold && !l.alerted
	l.alerted = recent > l.alertThreshold
	l.mu.Unlock()

	if crossed {
		l.logger.Warn().
			Float64("recent_cost", recent).
			Float64("threshold", l.alertThreshold).
			Dur("window", constants.CostAlertWindow).
			Msg("滚动窗口内的服务成本超过告警阈值")
	}
	return record
}

// RecordAvoidedTokens 累计因截断而省下的令牌数
func (l *Ledger) RecordAvoidedTokens(count int) {
	if count <= 0 {
		return
	}
	l.mu.Lock()
	l.avoidedTokens += int64(count)
	l.mu.Unlock()
}

// RecentCost 返回窗口内的累计成本估算
func (l *Ledger) RecentCost(window time.Duration) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.costSinceLocked(time.Now().Add(-window))
}

func (l *Ledger) costSinceLocked(cutoff time.Time) float64 {
	var total float64
	for i := len(l.records) - 1; i >= 0; i-- {
		if l.records[i].Timestamp.Before(cutoff) {
			break
		}
		total += l.records[i].EstimatedCost
	}
	return total
}

// Stats 汇总窗口内的调用统计。window<=0 表示全部记录
func (l *Ledger) Stats(window time.Duration) Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Time{}
	if window > 0 {
		cutoff = time.Now().Add(-window)
	}

	var stats Stats
	var totalLatency time.Duration
	for _, record := range l.records {
		if record.Timestamp.Before(cutoff) {
			continue
		}
		stats.Calls++
		if record.Success {
			stats.Successes++
		} else {
			stats.Failures++
		}
		stats.PromptTokens += int64(record.PromptTokens)
		stats.CompletionTokens += int64(record.CompletionTokens)
		stats.TotalCost += record.EstimatedCost
		totalLatency += record.Latency
	}
	if stats.Calls > 0 {
		stats.AvgLatency = totalLatency / time.Duration(stats.Calls)
	}
	stats.AvoidedTokens = l.avoidedTokens
	return stats
}
