package matcher

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// 测试用LLM模型模拟器
type MockLLMModel struct {
	mu sync.Mutex
	// 模拟响应
	mockResponse string
	// 每次调用前按序弹出的错误，耗尽后返回 mockResponse
	errQueue []error
	// 模拟的令牌用量，nil 表示服务未上报
	usage *schema.TokenUsage
	// 用于测试的调用次数
	CallCount int
}

// Generate 实现model.BaseChatModel接口
func (m *MockLLMModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	if len(m.errQueue) > 0 {
		err := m.errQueue[0]
		m.errQueue = m.errQueue[1:]
		return nil, err
	}

	msg := &schema.Message{
		Role:    schema.Assistant,
		Content: m.mockResponse,
	}
	if m.usage != nil {
		msg.ResponseMeta = &schema.ResponseMeta{Usage: m.usage}
	}
	return msg, nil
}

// Stream 实现model.BaseChatModel接口
func (m *MockLLMModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, messages, options...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// WithTools 实现 model.ToolCallingChatModel 接口
func (m *MockLLMModel) WithTools(_ []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

func (m *MockLLMModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}
