package matcher

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/types"
)

func interpret(t *testing.T, content string) (*serviceAnalysis, error) {
	t.Helper()
	it := NewInterpreter(zerolog.Nop())
	return it.Interpret(&types.RawServiceReply{Content: content})
}

const validReply = `{
	"compatibility_score": 75,
	"matching_skills": ["Python", "Docker"],
	"missing_skills": ["Kubernetes"],
	"skill_gaps": {"Critical": ["Kubernetes"], "Important": [], "Nice-to-have": []},
	"suggestions": ["补充Kubernetes项目经验", "量化项目成果", "突出容器化部署经历"],
	"analysis_summary": "整体匹配良好，容器编排经验欠缺。"
}`

func TestInterpreter_ValidReply(t *testing.T) {
	analysis, err := interpret(t, validReply)
	require.NoError(t, err)

	require.NotNil(t, analysis.CompatibilityScore)
	assert.Equal(t, 75, *analysis.CompatibilityScore)
	assert.Equal(t, []string{"Python", "Docker"}, analysis.MatchingSkills)
	assert.Equal(t, []string{"Kubernetes"}, analysis.MissingSkills)
	assert.Len(t, analysis.Suggestions, 3)
	assert.NotEmpty(t, analysis.AnalysisSummary)
}

func TestInterpreter_SurroundingProse(t *testing.T) {
	content := "好的，以下是分析结果：\n" + validReply + "\n希望对你有帮助。"
	analysis, err := interpret(t, content)
	require.NoError(t, err)
	assert.Equal(t, 75, *analysis.CompatibilityScore)
}

func TestInterpreter_BOMStripped(t *testing.T) {
	_, err := interpret(t, "\uFEFF"+validReply)
	require.NoError(t, err)
}

func TestInterpreter_AbsentListsNotNil(t *testing.T) {
	analysis, err := interpret(t, `{"compatibility_score": 40, "suggestions": ["补充项目经验"]}`)
	require.NoError(t, err)

	// 序列化结果要输出 [] 而不是 null
	assert.NotNil(t, analysis.MatchingSkills)
	assert.NotNil(t, analysis.MissingSkills)
	assert.Empty(t, analysis.MatchingSkills)
}

func TestInterpreter_MissingScore(t *testing.T) {
	_, err := interpret(t, `{"matching_skills": [], "suggestions": ["一条建议"]}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestInterpreter_ScoreClamped(t *testing.T) {
	analysis, err := interpret(t, `{"compatibility_score": 150, "suggestions": ["一条建议"]}`)
	require.NoError(t, err)
	assert.Equal(t, 100, *analysis.CompatibilityScore)

	analysis, err = interpret(t, `{"compatibility_score": -5, "suggestions": ["一条建议"]}`)
	require.NoError(t, err)
	assert.Equal(t, 0, *analysis.CompatibilityScore)
}

func TestInterpreter_NotJSON(t *testing.T) {
	_, err := interpret(t, "抱歉，我无法完成这个分析。")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestInterpreter_NoSuggestions(t *testing.T) {
	_, err := interpret(t, `{"compatibility_score": 50, "suggestions": []}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncompleteResponse)
}

func TestInterpreter_SkillDedupKeepsFirstCasing(t *testing.T) {
	analysis, err := interpret(t, `{
		"compatibility_score": 60,
		"matching_skills": ["Python", "python", "PYTHON", "Go"],
		"suggestions": ["一条足够具体的建议"]
	}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "Go"}, analysis.MatchingSkills)
}

func TestInterpreter_SanitizeInnerQuotes(t *testing.T) {
	// analysis_summary 的值里带未转义的引号
	content := `{"compatibility_score": 70, "suggestions": ["突出"核心"项目经验"], "analysis_summary": "匹配良好"}`
	analysis, err := interpret(t, content)
	require.NoError(t, err)
	assert.Equal(t, 70, *analysis.CompatibilityScore)
	require.Len(t, analysis.Suggestions, 1)
	assert.Contains(t, analysis.Suggestions[0], "核心")
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"a": {"b": 1}}`, extractJSONObject(`前缀 {"a": {"b": 1}} 后缀`))
	assert.Empty(t, extractJSONObject("没有对象"))
	assert.Empty(t, extractJSONObject(`{"未闭合": 1`))
}
