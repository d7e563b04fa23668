// Package matcher 实现简历与岗位描述的匹配分析流水线。
package matcher

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"resume-match-go/internal/config"
	"resume-match-go/internal/constants"
	"resume-match-go/internal/ledger"
	"resume-match-go/internal/parser"
	"resume-match-go/internal/types"
)

const matchSystemPrompt = `你是一位极其资深的AI招聘专家，擅长精准评估候选人简历与岗位描述的匹配程度。你的任务是基于提供的【岗位描述】和【候选人简历】进行深度对比分析，并严格按照指定的JSON格式输出评估结果。

**请严格遵循以下JSON输出格式规范：**
1.  **"compatibility_score"**: 整数 (0-100)，反映整体匹配程度。
2.  **"matching_skills"**: 字符串数组，候选人简历中与岗位要求吻合的具体技能。
3.  **"missing_skills"**: 字符串数组，岗位要求但简历中缺失的技能。
4.  **"skill_gaps"**: JSON对象，包含 "Critical"、"Important"、"Nice-to-have" 三个键，每个键对应一个字符串数组，按重要性对缺失技能分层。
5.  **"suggestions"**: 字符串数组 (至少3条)，针对该岗位的具体简历改进建议。
6.  **"analysis_summary"**: 字符串 (150字以内)，匹配情况的核心摘要。

**JSON格式细节要求：**
- 完整输出必须是一个合法的JSON对象。
- 所有字段名和字符串值都必须使用双引号。
- 字符串值内部如果包含双引号(")，必须使用反斜杠(\")进行转义。
- 禁止在JSON结构之外输出任何额外文本、解释或Markdown标记。`

const matchUserPromptTemplate = `请基于以下内容进行匹配度分析：

【岗位描述】:
"""
%s
"""

【候选人简历】:
"""
%s
"""

请仔细评估并只输出JSON结果。`

// RequestBuilder 负责把简历和岗位描述组装成受成本约束的分析请求
type RequestBuilder struct {
	tokenCeiling      int
	maxResumeChars    int
	maxJDChars        int
	maxResponseTokens int
	alertThreshold    float64
	ledger            *ledger.Ledger
	logger            zerolog.Logger
}

// RequestBuilderOption 请求构建器的配置选项
type RequestBuilderOption func(*RequestBuilder)

// WithBuilderLogger 设置日志记录器
func WithBuilderLogger(logger zerolog.Logger) RequestBuilderOption {
	return func(b *RequestBuilder) {
		b.logger = logger
	}
}

// WithMaxResponseTokens 设置请求携带的响应体大小上限提示
func WithMaxResponseTokens(n int) RequestBuilderOption {
	return func(b *RequestBuilder) {
		b.maxResponseTokens = n
	}
}

// NewRequestBuilder 创建请求构建器
func NewRequestBuilder(pipelineCfg config.PipelineConfig, ledgerCfg config.LedgerConfig, usage *ledger.Ledger, options ...RequestBuilderOption) *RequestBuilder {
	b := &RequestBuilder{
		tokenCeiling:      pipelineCfg.TokenCeiling,
		maxResumeChars:    pipelineCfg.MaxResumeChars,
		maxJDChars:        pipelineCfg.MaxJDChars,
		maxResponseTokens: constants.DefaultMaxResponseTokens,
		alertThreshold:    ledgerCfg.CostAlertThreshold,
		ledger:            usage,
		logger:            zerolog.Nop(),
	}
	if b.tokenCeiling <= 0 {
		b.tokenCeiling = constants.DefaultTokenCeiling
	}
	if b.maxResumeChars <= 0 {
		b.maxResumeChars = constants.DefaultMaxResumeChars
	}
	if b.maxJDChars <= 0 {
		b.maxJDChars = constants.DefaultMaxJDChars
	}
	if b.alertThreshold <= 0 {
		b.alertThreshold = constants.DefaultCostAlertThreshold
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// Build 组装分析请求，保证估算令牌数不超过上限
func (b *RequestBuilder) Build(resume *types.ResumeDocument, jd *types.JobDescription) *types.AnalysisRequest {
	resumeBudget := b.maxResumeChars
	jdBudget := b.maxJDChars

	// 近期成本越过告警阈值时收紧预算，降低单次请求开销
	if b.ledger != nil && b.ledger.RecentCost(constants.CostAlertWindow) > b.alertThreshold {
		resumeBudget = resumeBudget * 2 / 3
		jdBudget = jdBudget * 2 / 3
		b.logger.Warn().
			Int("resume_budget", resumeBudget).
			Int("jd_budget", jdBudget).
			Msg("近期成本超过阈值，收紧请求预算")
	}

	originalEstimate := EstimateTokens(matchSystemPrompt) +
		EstimateTokens(fmt.Sprintf(matchUserPromptTemplate, jd.RawText, resume.Text))

	resumeExcerpt := parser.TruncateMiddle(resume.Text, resumeBudget)
	jdExcerpt := truncateJobDescription(jd, jdBudget)

	userPrompt := fmt.Sprintf(matchUserPromptTemplate, jdExcerpt, resumeExcerpt)
	estimate := EstimateTokens(matchSystemPrompt) + EstimateTokens(userPrompt)

	// 仍然超限时按比例减半预算，直到满足上限
	for estimate > b.tokenCeiling && resumeBudget > 200 {
		resumeBudget /= 2
		jdBudget /= 2
		resumeExcerpt = parser.TruncateMiddle(resume.Text, resumeBudget)
		jdExcerpt = truncateJobDescription(jd, jdBudget)
		userPrompt = fmt.Sprintf(matchUserPromptTemplate, jdExcerpt, resumeExcerpt)
		estimate = EstimateTokens(matchSystemPrompt) + EstimateTokens(userPrompt)
	}

	// 极端情况下对整个用户消息硬截断，保证上限不变量
	if estimate > b.tokenCeiling {
		systemTokens := EstimateTokens(matchSystemPrompt)
		// 最坏情况下每个字符贡献 1/4 + 1/10 = 0.35 个令牌
		allowedChars := (b.tokenCeiling - systemTokens) * 20 / 7
		if allowedChars < 0 {
			allowedChars = 0
		}
		userPrompt = parser.TruncateMiddle(userPrompt, allowedChars)
		estimate = systemTokens + EstimateTokens(userPrompt)
	}

	if avoided := originalEstimate - estimate; avoided > 0 && b.ledger != nil {
		b.ledger.RecordAvoidedTokens(avoided)
		b.logger.Debug().
			Int("avoided_tokens", avoided).
			Int("estimate", estimate).
			Str("template_version", constants.PromptTemplateVersion).
			Msg("截断后节省的令牌数已记账")
	}

	return &types.AnalysisRequest{
		ResumeExcerpt:         resumeExcerpt,
		JDExcerpt:             jdExcerpt,
		SystemPrompt:          matchSystemPrompt,
		UserPrompt:            userPrompt,
		MaxResponseTokens:     b.maxResponseTokens,
		EstimatedPromptTokens: estimate,
	}
}

// EstimateTokens 估算文本的令牌数：字符数除以4，再按空白和标点数量加一成修正
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	runes := []rune(text)
	adjustable := 0
	for _, r := range runes {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			adjustable++
		}
	}
	return len(runes)/constants.CharsPerToken + adjustable/10
}

// truncateJobDescription 压缩岗位描述：要求条目优先保留，剩余预算给其他正文
func truncateJobDescription(jd *types.JobDescription, budget int) string {
	if len([]rune(jd.RawText)) <= budget {
		return jd.RawText
	}

	var sb strings.Builder
	used := 0
	write := func(line string) bool {
		need := len([]rune(line)) + 1
		if used+need > budget {
			return false
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
		used += need
		return true
	}

	if jd.Title != "" {
		write(jd.Title)
	}
	for _, req := range jd.Requirements {
		if !write("• " + req) {
			return strings.TrimSpace(sb.String())
		}
	}

	// 余下预算装岗位描述的其他行，跳过已收录的要求
	seen := make(map[string]struct{}, len(jd.Requirements))
	for _, req := range jd.Requirements {
		seen[strings.ToLower(req)] = struct{}{}
	}
	for _, line := range strings.Split(jd.RawText, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == jd.Title {
			continue
		}
		if _, ok := seen[strings.ToLower(strings.TrimLeft(trimmed, "• "))]; ok {
			continue
		}
		if !write(trimmed) {
			break
		}
	}
	return strings.TrimSpace(sb.String())
}
