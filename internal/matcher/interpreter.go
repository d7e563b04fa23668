package matcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"resume-match-go/internal/types"
)

var (
	// ErrMalformedResponse 服务返回的内容无法解析出有效的分析结果
	ErrMalformedResponse = errors.New("服务返回的分析内容无法解析")
	// ErrIncompleteResponse 解析成功但关键字段缺失
	ErrIncompleteResponse = errors.New("服务返回的分析内容不完整")
)

// serviceAnalysis 服务端JSON回复的解析结果。
// 分数用指针区分"缺失"和"0分"。
type serviceAnalysis struct {
	CompatibilityScore *int                `json:"compatibility_score"`
	MatchingSkills     []string            `json:"matching_skills"`
	MissingSkills      []string            `json:"missing_skills"`
	SkillGaps          map[string][]string `json:"skill_gaps"`
	Suggestions        []string            `json:"suggestions"`
	AnalysisSummary    string              `json:"analysis_summary"`
}

// Interpreter 把服务的原始回复解析为结构化分析结果
type Interpreter struct {
	logger zerolog.Logger
}

// NewInterpreter 创建响应解析器
func NewInterpreter(logger zerolog.Logger) *Interpreter {
	return &Interpreter{logger: logger}
}

// Interpret 解析服务回复。解析失败不猜测，直接返回错误
func (it *Interpreter) Interpret(reply *types.RawServiceReply) (*serviceAnalysis, error) {
	if reply == nil || strings.TrimSpace(reply.Content) == "" {
		return nil, fmt.Errorf("%w: 回复为空", ErrMalformedResponse)
	}

	// 去除BOM后再提取JSON
	content := strings.TrimPrefix(reply.Content, "\uFEFF")
	jsonStr := extractJSONObject(content)
	if jsonStr == "" {
		return nil, fmt.Errorf("%w: 回复中找不到JSON对象", ErrMalformedResponse)
	}

	if !utf8.ValidString(jsonStr) {
		jsonStr = strings.ToValidUTF8(jsonStr, "")
	}

	var analysis serviceAnalysis
	// 正常解析，失败则自动修复内部未转义的引号再试一次
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		fixed := sanitizeJSON(jsonStr)
		if jsonErr := json.Unmarshal([]byte(fixed), &analysis); jsonErr != nil {
			return nil, fmt.Errorf("%w: JSON反序列化失败: %v", ErrMalformedResponse, err)
		}
	}

	if analysis.CompatibilityScore == nil {
		return nil, fmt.Errorf("%w: 缺少 compatibility_score 字段", ErrMalformedResponse)
	}

	// 超出范围的分数收拢到 [0,100]，并留下警告
	if *analysis.CompatibilityScore < 0 || *analysis.CompatibilityScore > 100 {
		clamped := *analysis.CompatibilityScore
		if clamped < 0 {
			clamped = 0
		}
		if clamped > 100 {
			clamped = 100
		}
		it.logger.Warn().
			Int("raw_score", *analysis.CompatibilityScore).
			Int("clamped", clamped).
			Msg("服务返回的分数超出范围，已收拢")
		analysis.CompatibilityScore = &clamped
	}

	analysis.MatchingSkills = dedupPreservingCase(analysis.MatchingSkills)
	analysis.MissingSkills = dedupPreservingCase(analysis.MissingSkills)
	analysis.Suggestions = cleanSuggestions(analysis.Suggestions)

	if len(analysis.Suggestions) < 1 {
		return nil, fmt.Errorf("%w: 建议列表为空", ErrIncompleteResponse)
	}
	return &analysis, nil
}

// extractJSONObject 用括号配平从文本中提取第一个完整的JSON对象
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}
	level := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// sanitizeJSON 将字符串字面量内部未转义的双引号改写为 \"。
// 通过检查下一个非空白字符是否为 :, ], }, 或 , 来判断该 " 是否为字符串的真正结束。
func sanitizeJSON(src string) string {
	var b strings.Builder
	inStr := false
	escaped := false

	for i := 0; i < len(src); i++ {
		c := src[i]

		if c == '"' && !escaped {
			if !inStr {
				inStr = true
				b.WriteByte(c)
			} else {
				j := i + 1
				for j < len(src) && (src[j] == ' ' || src[j] == '\t' || src[j] == '\n' || src[j] == '\r') {
					j++
				}
				if j < len(src) && (src[j] == ':' || src[j] == ',' || src[j] == ']' || src[j] == '}') {
					inStr = false
					b.WriteByte(c)
				} else {
					b.WriteString("\\\"")
				}
			}
			escaped = false
		} else if c == '\\' && !escaped {
			escaped = true
			b.WriteByte(c)
		} else {
			b.WriteByte(c)
			escaped = false
		}
	}
	return b.String()
}

// dedupPreservingCase 不区分大小写去重，保留第一次出现的写法。
// 返回值保证非 nil，下游序列化时列表为空也要输出 []
func dedupPreservingCase(items []string) []string {
	if len(items) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

// cleanSuggestions 去除空白建议并做不区分大小写去重
func cleanSuggestions(suggestions []string) []string {
	return dedupPreservingCase(suggestions)
}
