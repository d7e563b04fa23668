package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"resume-match-go/internal/config"
)

// PerplexityChatModel 通过OpenAI兼容的HTTP接口实现 model.ToolCallingChatModel。
// 匹配分析只用到 Generate，Stream 和工具绑定按接口要求提供。
type PerplexityChatModel struct {
	apiKey      string
	apiURL      string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	logger      zerolog.Logger
	boundTools  []*schema.ToolInfo
}

// PerplexityOption 模型客户端的配置选项
type PerplexityOption func(*PerplexityChatModel)

// WithHTTPClient 替换底层HTTP客户端，测试时注入
func WithHTTPClient(client *http.Client) PerplexityOption {
	return func(m *PerplexityChatModel) {
		m.httpClient = client
	}
}

// WithModelLogger 设置日志记录器
func WithModelLogger(logger zerolog.Logger) PerplexityOption {
	return func(m *PerplexityChatModel) {
		m.logger = logger
	}
}

// NewPerplexityChatModel 创建Perplexity聊天模型客户端
func NewPerplexityChatModel(cfg config.LLMConfig, options ...PerplexityOption) (*PerplexityChatModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API密钥不能为空")
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("API地址不能为空")
	}

	m := &PerplexityChatModel{
		apiKey:      cfg.APIKey,
		apiURL:      cfg.APIURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxResponseTokens,
		httpClient:  &http.Client{},
		logger:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// chatCompletionRequest OpenAI兼容的请求结构
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse OpenAI兼容的响应结构
type chatCompletionResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Generate 实现model.BaseChatModel接口，发起一次聊天补全调用
func (m *PerplexityChatModel) Generate(ctx context.Context, messages []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	reqBody := chatCompletionRequest{
		Model:       m.model,
		MaxTokens:   m.maxTokens,
		Temperature: m.temperature,
	}
	for _, msg := range messages {
		reqBody.Messages = append(reqBody.Messages, chatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	start := time.Now()
	resp, err := m.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, NewServiceError(KindTimeout, 0, err)
		}
		return nil, NewServiceError(KindNetwork, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewServiceError(KindNetwork, resp.StatusCode, fmt.Errorf("读取响应体失败: %w", err))
	}

	m.logger.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Int("body_bytes", len(body)).
		Msg("收到聊天补全响应")

	if resp.StatusCode != http.StatusOK {
		return nil, m.errorFromStatus(resp, body)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, NewServiceError(KindMalformed, resp.StatusCode, fmt.Errorf("解析响应JSON失败: %w", err))
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return nil, NewServiceError(KindServer, resp.StatusCode,
			fmt.Errorf("API返回错误: 类型=%s, 消息=%s", parsed.Error.Type, parsed.Error.Message))
	}
	if len(parsed.Choices) == 0 {
		return nil, NewServiceError(KindMalformed, resp.StatusCode, fmt.Errorf("响应中没有choices"))
	}

	return &schema.Message{
		Role:    schema.Assistant,
		Content: parsed.Choices[0].Message.Content,
		ResponseMeta: &schema.ResponseMeta{
			FinishReason: parsed.Choices[0].FinishReason,
			Usage: &schema.TokenUsage{
				PromptTokens:     parsed.Usage.PromptTokens,
				CompletionTokens: parsed.Usage.CompletionTokens,
				TotalTokens:      parsed.Usage.TotalTokens,
			},
		},
	}, nil
}

// errorFromStatus 将非200响应转换为分类错误，限流时解析Retry-After
func (m *PerplexityChatModel) errorFromStatus(resp *http.Response, body []byte) error {
	kind := classifyStatusCode(resp.StatusCode)

	var apiErr chatCompletionResponse
	cause := fmt.Errorf("API调用失败: %s", string(body))
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != nil && apiErr.Error.Message != "" {
		cause = fmt.Errorf("API调用失败: %s", apiErr.Error.Message)
	}

	svcErr := NewServiceError(kind, resp.StatusCode, cause)
	if kind == KindRateLimit {
		svcErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
	}
	return svcErr
}

// parseRetryAfter 解析Retry-After头，支持秒数和HTTP日期两种格式
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

// Stream 实现model.BaseChatModel接口。
// 服务按完整响应返回，这里退化为单元素流。
func (m *PerplexityChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, messages, options...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// WithTools 实现 model.ToolCallingChatModel 接口
func (m *PerplexityChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	clone := *m
	clone.boundTools = tools
	return &clone, nil
}
