package constants

import "time"

const (
	// PromptTemplateVersion 当前匹配分析提示词模板的版本号
	PromptTemplateVersion = "1.0"

	// 匹配档次分界：>=StrongScoreFloor 为 Strong，>=ModerateScoreFloor 为 Moderate，其余为 Poor
	StrongScoreFloor   = 70
	ModerateScoreFloor = 30

	// MinResumeChars 清洗后简历文本的最小有效长度
	MinResumeChars = 50
	// MaxJobDescriptionChars 岗位描述输入的最大长度
	MaxJobDescriptionChars = 50000

	// MaxRequirements 从岗位描述中提取的要求条目上限
	MaxRequirements = 20
	// MaxResponsibilities 职责条目上限
	MaxResponsibilities = 15

	// MinSuggestions 最终结果中建议条数的下限
	MinSuggestions = 3
	// MaxSuggestions 建议条数的上限，避免输出冗长
	MaxSuggestions = 7

	// CharsPerToken 令牌估算启发式：平均每个令牌约 4 个字符
	CharsPerToken = 4

	// DefaultTokenCeiling 请求载荷的默认令牌上限
	DefaultTokenCeiling = 3000
	// DefaultMaxResponseTokens 响应体大小上限提示的默认值
	DefaultMaxResponseTokens = 3000
	// DefaultMaxResumeChars / DefaultMaxJDChars 智能截断的默认字符预算
	DefaultMaxResumeChars = 6000
	DefaultMaxJDChars     = 3000

	// DefaultRequestTimeout 单次外部调用的默认超时
	DefaultRequestTimeout = 30 * time.Second
	// DefaultMaxRetries 限流场景下的默认最大尝试次数
	DefaultMaxRetries = 3
	// DefaultRateLimitBackoff 限流重试的指数退避起点
	DefaultRateLimitBackoff = 2 * time.Second
	// DefaultTransientBackoff 网络/超时重试的固定退避
	DefaultTransientBackoff = 1 * time.Second

	// DefaultCostPer1KTokens 默认成本估算：每 1K 令牌的美元价格
	DefaultCostPer1KTokens = 0.001
	// DefaultCostAlertThreshold 默认成本告警阈值（美元，滚动 30 天）
	DefaultCostAlertThreshold = 10.0
	// CostAlertWindow 成本告警统计的滚动窗口
	CostAlertWindow = 30 * 24 * time.Hour
)
