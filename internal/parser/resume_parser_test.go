package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExtractor 测试用的固定返回提取器
type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) ExtractFromFile(_ context.Context, _ string) (string, error) {
	return s.text, s.err
}

func (s *stubExtractor) ExtractFromBytes(_ context.Context, _ []byte, _ string) (string, error) {
	return s.text, s.err
}

func TestCleanResumeText(t *testing.T) {
	raw := "张三\tGo开发工程师\r\n\r\n\r\n\r\n· 负责后端服务开发\n- 熟悉   Kubernetes 部署\n\nPage 3\n12\n工作经历   "

	cleaned := CleanResumeText(raw)

	assert.NotContains(t, cleaned, "\t")
	assert.NotContains(t, cleaned, "\r")
	assert.NotContains(t, cleaned, "Page 3")
	assert.NotContains(t, cleaned, "\n12\n")
	assert.Contains(t, cleaned, "• 负责后端服务开发")
	assert.Contains(t, cleaned, "• 熟悉 Kubernetes 部署")
	assert.False(t, strings.Contains(cleaned, "\n\n\n"), "空行应压缩为至多一个")
	assert.Equal(t, cleaned, strings.TrimSpace(cleaned))
}

func TestCleanResumeText_Idempotent(t *testing.T) {
	raw := "李四\r\n\r\n\r\n•   项目经验\n\t- 使用 Python 和 React\nPage 1\n"

	once := CleanResumeText(raw)
	twice := CleanResumeText(once)

	assert.Equal(t, once, twice, "重复清洗不应再改变文本")
}

func TestResumeNormalizer_NormalizeFile(t *testing.T) {
	extractor := &stubExtractor{
		text: "王五\n资深后端工程师\n\n• 五年 Go 和 PostgreSQL 开发经验\n• 主导过微服务架构迁移项目\n",
	}
	normalizer := NewResumeNormalizer(extractor)

	doc, err := normalizer.NormalizeFile(context.Background(), "/tmp/resume.pdf")
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "/tmp/resume.pdf", doc.SourcePath)
	assert.Contains(t, doc.Text, "资深后端工程师")
	assert.Greater(t, doc.WordCount, 0)
}

func TestResumeNormalizer_TooShort(t *testing.T) {
	normalizer := NewResumeNormalizer(&stubExtractor{text: "只有几个字"})

	doc, err := normalizer.NormalizeFile(context.Background(), "/tmp/empty.pdf")
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.True(t, errors.Is(err, ErrEmptyContent))
	assert.NotEmpty(t, RemediationHint(err))
}

func TestResumeNormalizer_ExtractionFailure(t *testing.T) {
	normalizer := NewResumeNormalizer(&stubExtractor{err: errors.New("pdf: invalid xref table")})

	_, err := normalizer.NormalizeBytes(context.Background(), []byte("%PDF-broken"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreadableDocument))
}

func TestResumeNormalizer_NormalizeText(t *testing.T) {
	text := strings.Repeat("具备扎实的分布式系统与数据库内核开发经验。", 3)
	normalizer := NewResumeNormalizer(&stubExtractor{})

	doc, err := normalizer.NormalizeText(text)
	require.NoError(t, err)
	assert.Empty(t, doc.SourcePath)
	assert.Equal(t, CleanResumeText(text), doc.Text)
}
