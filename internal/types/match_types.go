package types

import "time"

// MatchCategory 表示简历与岗位的匹配档次
type MatchCategory string

const (
	// CategoryPoor 匹配度较低 (score < 30)
	CategoryPoor MatchCategory = "Poor"
	// CategoryModerate 中等匹配 (30 <= score < 70)
	CategoryModerate MatchCategory = "Moderate"
	// CategoryStrong 强匹配 (score >= 70)
	CategoryStrong MatchCategory = "Strong"
)

// GapTier 表示技能缺口的优先级档位
type GapTier string

const (
	// TierCritical 岗位的硬性/核心技能缺口
	TierCritical GapTier = "Critical"
	// TierImportant 能显著增强竞争力的技能缺口
	TierImportant GapTier = "Important"
	// TierNiceToHave 加分项技能缺口
	TierNiceToHave GapTier = "Nice-to-have"
)

// GapTiers 按优先级从高到低排列的全部档位，遍历时保证顺序稳定
var GapTiers = []GapTier{TierCritical, TierImportant, TierNiceToHave}

// ResumeDocument 表示一份已完成文本提取和清洗的简历。
// 原始文件字节在提取后即被丢弃，这里只保留清洗后的纯文本。
type ResumeDocument struct {
	// SourcePath 输入文件路径（仅用于日志；对字节输入为空）
	SourcePath string
	// Text 清洗后的简历纯文本
	Text string
	// WordCount 清洗后文本的词数
	WordCount int
}

// JobDescription 结构化后的岗位描述。
// 各切片字段可以为空但绝不为 nil。
type JobDescription struct {
	// RawText 原始岗位描述文本
	RawText string
	// Title 尽力提取的岗位标题，提取失败时为空
	Title string
	// Requirements 按出现顺序排列的要求条目
	Requirements []string
	// TechnicalSkills 从静态技能表中识别出的技术技能
	TechnicalSkills []string
	// SoftSkills 识别出的软技能
	SoftSkills []string
	// Responsibilities 岗位职责条目
	Responsibilities []string
	// SeniorityHint 经验/级别提示，例如 "5+ years"、"Senior Level"
	SeniorityHint string
}

// AnalysisRequest 发送给外部语义比较服务的有界请求载荷。
// 不变式：EstimatedPromptTokens 不超过配置的令牌上限。
type AnalysisRequest struct {
	// ResumeExcerpt 截断后的简历文本
	ResumeExcerpt string
	// JDExcerpt 截断后的岗位描述文本
	JDExcerpt string
	// SystemPrompt 固定的系统指令
	SystemPrompt string
	// UserPrompt 完整的用户侧提示词（指令模板 + 两段文本）
	UserPrompt string
	// MaxResponseTokens 响应体大小上限提示
	MaxResponseTokens int
	// EstimatedPromptTokens 提示词的估算令牌数 (chars/4 启发式)
	EstimatedPromptTokens int
}

// RawServiceReply 外部服务的原始回复，仅在管线内部短暂存活。
// 只有响应解释器允许检视 Content 的内部结构。
type RawServiceReply struct {
	// Content 模型返回的原始文本
	Content string
	// StatusCode 底层HTTP状态码，成功路径恒为 200
	StatusCode int
	// Latency 本次成功调用的耗时
	Latency time.Duration
	// PromptTokens / CompletionTokens 服务上报的令牌用量，未上报时为 0
	PromptTokens     int
	CompletionTokens int
}

// MatchResult 一次分析的最终产物。返回给调用方后由其独占，
// 管线不保留也不持久化任何副本。
type MatchResult struct {
	// Score 0-100 的兼容性分数
	Score int `json:"score"`
	// Category 与 Score 一致的匹配档次
	Category MatchCategory `json:"category"`
	// MatchingSkills 双方同时出现的技能，保留简历中的原始大小写
	MatchingSkills []string `json:"matching_skills"`
	// MissingSkills 岗位要求但简历缺失的技能
	MissingSkills []string `json:"missing_skills"`
	// SkillGaps 按优先级档位归类的技能缺口；无缺口时为空映射而非 nil
	SkillGaps map[GapTier][]string `json:"skill_gaps"`
	// Suggestions 按影响力排序的改进建议，至少 3 条
	Suggestions []string `json:"suggestions"`
	// AnalysisSummary 服务生成的简要结论，可能为空
	AnalysisSummary string `json:"analysis_summary,omitempty"`
	// ProcessingTime 整条管线的耗时（秒）
	ProcessingTime float64 `json:"processing_time"`
}
