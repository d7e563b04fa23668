package matcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"resume-match-go/internal/agent"
	"resume-match-go/internal/config"
	"resume-match-go/internal/constants"
	"resume-match-go/internal/ledger"
	"resume-match-go/internal/types"
)

// Orchestrator 负责单次分析请求的外部调用：超时、重试和记账
type Orchestrator struct {
	llmModel         model.ToolCallingChatModel
	ledger           *ledger.Ledger
	timeout          time.Duration
	maxAttempts      int
	rateBackoff      time.Duration
	transientBackoff time.Duration
	logger           zerolog.Logger
}

// OrchestratorOption 编排器的配置选项
type OrchestratorOption func(*Orchestrator)

// WithOrchestratorLogger 设置日志记录器
func WithOrchestratorLogger(logger zerolog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithBackoff 覆盖退避参数，测试时缩短等待
func WithBackoff(rateBackoff, transientBackoff time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.rateBackoff = rateBackoff
		o.transientBackoff = transientBackoff
	}
}

// NewOrchestrator 创建分析编排器
func NewOrchestrator(llmModel model.ToolCallingChatModel, cfg config.LLMConfig, usage *ledger.Ledger, options ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		llmModel:         llmModel,
		ledger:           usage,
		timeout:          time.Duration(cfg.TimeoutSeconds) * time.Second,
		maxAttempts:      cfg.MaxRetries,
		rateBackoff:      constants.DefaultRateLimitBackoff,
		transientBackoff: constants.DefaultTransientBackoff,
		logger:           zerolog.Nop(),
	}
	if o.timeout <= 0 {
		o.timeout = constants.DefaultRequestTimeout
	}
	if o.maxAttempts <= 0 {
		o.maxAttempts = constants.DefaultMaxRetries
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// Analyze 执行外部服务调用。限流最多重试到 maxAttempts 次，
// 网络和超时故障最多额外尝试2次，认证和格式错误立即失败。
func (o *Orchestrator) Analyze(ctx context.Context, req *types.AnalysisRequest) (*types.RawServiceReply, error) {
	messages := []*schema.Message{
		schema.SystemMessage(req.SystemPrompt),
		schema.UserMessage(req.UserPrompt),
	}

	rateAttempts := 0
	transientAttempts := 0
	var lastErr error

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		callCtx, cancel := context.WithTimeout(ctx, o.timeout)
		start := time.Now()
		msg, err := o.llmModel.Generate(callCtx, messages)
		latency := time.Since(start)
		cancel()

		o.appendRecord(req, msg, latency, err)

		if err == nil {
			if msg == nil || msg.Content == "" {
				return nil, agent.NewServiceError(agent.KindMalformed, 0, fmt.Errorf("服务返回了空响应"))
			}
			reply := &types.RawServiceReply{
				Content:    msg.Content,
				StatusCode: http.StatusOK,
				Latency:    latency,
			}
			if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
				reply.PromptTokens = msg.ResponseMeta.Usage.PromptTokens
				reply.CompletionTokens = msg.ResponseMeta.Usage.CompletionTokens
			}
			return reply, nil
		}

		lastErr = err
		kind := agent.KindOf(err)
		o.logger.Warn().
			Str("kind", kind.String()).
			Int("rate_attempts", rateAttempts).
			Int("transient_attempts", transientAttempts).
			Err(err).
			Msg("外部服务调用失败")

		var wait time.Duration
		switch kind {
		case agent.KindRateLimit:
			rateAttempts++
			if rateAttempts >= o.maxAttempts {
				return nil, fmt.Errorf("%w: %w", agent.ErrServiceUnavailable, lastErr)
			}
			wait = agent.RetryAfterOf(err)
			if wait <= 0 {
				wait = o.rateBackoff * time.Duration(1<<uint(rateAttempts-1))
			}
		case agent.KindNetwork, agent.KindTimeout, agent.KindServer:
			transientAttempts++
			if transientAttempts > 2 {
				return nil, fmt.Errorf("%w: %w", agent.ErrServiceUnavailable, lastErr)
			}
			wait = o.transientBackoff
		default:
			// 认证失败、格式错误等重试无意义
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// appendRecord 每次尝试都写一条台账记录。
// 服务未报告用量时退回到字符数除以4的估算。
func (o *Orchestrator) appendRecord(req *types.AnalysisRequest, msg *schema.Message, latency time.Duration, callErr error) {
	if o.ledger == nil {
		return
	}

	promptTokens := req.EstimatedPromptTokens
	completionTokens := 0
	if msg != nil {
		if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
			promptTokens = msg.ResponseMeta.Usage.PromptTokens
			completionTokens = msg.ResponseMeta.Usage.CompletionTokens
		} else if msg.Content != "" {
			completionTokens = len([]rune(msg.Content)) / constants.CharsPerToken
		}
	}
	o.ledger.Append(promptTokens, completionTokens, latency, callErr)
}
