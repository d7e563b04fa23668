package agent

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// ErrorKind 外部服务错误的分类，决定上层的重试策略
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindAuth 认证失败，重试无意义
	KindAuth
	// KindRateLimit 被限流，等待后可重试
	KindRateLimit
	// KindNetwork 连接层故障
	KindNetwork
	// KindTimeout 请求超时
	KindTimeout
	// KindServer 服务端5xx错误
	KindServer
	// KindMalformed 服务返回了无法解析的内容
	KindMalformed
)

// String 方法使得 ErrorKind 可以被打印
func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "AUTH"
	case KindRateLimit:
		return "RATE_LIMIT"
	case KindNetwork:
		return "NETWORK"
	case KindTimeout:
		return "TIMEOUT"
	case KindServer:
		return "SERVER"
	case KindMalformed:
		return "MALFORMED"
	default:
		return "UNKNOWN"
	}
}

// ErrServiceUnavailable 表示重试次数耗尽后服务仍不可用
var ErrServiceUnavailable = errors.New("分析服务暂时不可用，请稍后重试")

// ServiceError 携带分类信息的外部服务错误
type ServiceError struct {
	Kind       ErrorKind
	StatusCode int
	// RetryAfter 服务端建议的等待时间，限流响应才有
	RetryAfter time.Duration
	Hint       string
	cause      error
}

func (e *ServiceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("服务调用失败 [%s] 状态码=%d: %v", e.Kind, e.StatusCode, e.cause)
	}
	return fmt.Sprintf("服务调用失败 [%s]: %v", e.Kind, e.cause)
}

func (e *ServiceError) Unwrap() error {
	return e.cause
}

// NewServiceError 创建分类错误
func NewServiceError(kind ErrorKind, statusCode int, cause error) *ServiceError {
	return &ServiceError{
		Kind:       kind,
		StatusCode: statusCode,
		Hint:       hintFor(kind),
		cause:      cause,
	}
}

func hintFor(kind ErrorKind) string {
	switch kind {
	case KindAuth:
		return "请检查API密钥配置是否正确"
	case KindRateLimit:
		return "请求过于频繁，请稍后重试"
	case KindNetwork:
		return "请检查网络连接"
	case KindTimeout:
		return "服务响应超时，请稍后重试"
	case KindServer:
		return "服务端异常，请稍后重试"
	case KindMalformed:
		return "服务返回了意外格式的内容"
	default:
		return ""
	}
}

// KindOf 提取错误的分类，非 ServiceError 按网络/超时特征推断
func KindOf(err error) ErrorKind {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	}
	return KindUnknown
}

// IsRetryable 判断该错误是否值得重试
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindRateLimit, KindNetwork, KindTimeout, KindServer:
		return true
	default:
		return false
	}
}

// RetryAfterOf 提取服务端建议的等待时间，没有则返回0
func RetryAfterOf(err error) time.Duration {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.RetryAfter
	}
	return 0
}

// classifyStatusCode 将HTTP状态码映射为错误分类
func classifyStatusCode(statusCode int) ErrorKind {
	switch {
	case statusCode == 401 || statusCode == 403:
		return KindAuth
	case statusCode == 429:
		return KindRateLimit
	case statusCode == 408:
		return KindTimeout
	case statusCode >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}
