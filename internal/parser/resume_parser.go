package parser

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"resume-match-go/internal/constants"
	"resume-match-go/internal/types"
)

// ResumeNormalizer 负责把上传的简历文档变成清洗后的纯文本。
// 提取依赖 PDFExtractor 接口，清洗与校验在本地完成。
type ResumeNormalizer struct {
	extractor PDFExtractor
	logger    zerolog.Logger
}

// ResumeNormalizerOption 规范化器的配置选项
type ResumeNormalizerOption func(*ResumeNormalizer)

// WithResumeLogger 设置日志记录器
func WithResumeLogger(logger zerolog.Logger) ResumeNormalizerOption {
	return func(n *ResumeNormalizer) {
		n.logger = logger
	}
}

// NewResumeNormalizer 创建简历规范化器
func NewResumeNormalizer(extractor PDFExtractor, options ...ResumeNormalizerOption) *ResumeNormalizer {
	n := &ResumeNormalizer{
		extractor: extractor,
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(n)
	}
	return n
}

// NormalizeFile 从PDF文件路径提取并清洗简历文本
func (n *ResumeNormalizer) NormalizeFile(ctx context.Context, filePath string) (*types.ResumeDocument, error) {
	raw, err := n.extractor.ExtractFromFile(ctx, filePath)
	if err != nil {
		return nil, NewUnreadableDocumentError(err.Error())
	}
	return n.finish(raw, filePath)
}

// NormalizeBytes 从内存中的PDF字节流提取并清洗简历文本。
// 原始字节在提取完成后不再保留。
func (n *ResumeNormalizer) NormalizeBytes(ctx context.Context, data []byte) (*types.ResumeDocument, error) {
	raw, err := n.extractor.ExtractFromBytes(ctx, data, "resume.pdf")
	if err != nil {
		return nil, NewUnreadableDocumentError(err.Error())
	}
	return n.finish(raw, "")
}

// NormalizeText 直接接收已提取的简历文本（例如纯文本上传），只做清洗和校验
func (n *ResumeNormalizer) NormalizeText(text string) (*types.ResumeDocument, error) {
	return n.finish(text, "")
}

func (n *ResumeNormalizer) finish(raw string, sourcePath string) (*types.ResumeDocument, error) {
	cleaned := CleanResumeText(raw)

	if len([]rune(cleaned)) < constants.MinResumeChars {
		n.logger.Debug().
			Int("chars", len([]rune(cleaned))).
			Str("excerpt", SafeLogValue("resume", cleaned)).
			Msg("清洗后的简历文本过短")
		return nil, NewEmptyContentError("清洗后的文本长度不足")
	}

	doc := &types.ResumeDocument{
		SourcePath: sourcePath,
		Text:       cleaned,
		WordCount:  len(strings.Fields(cleaned)),
	}

	n.logger.Debug().
		Int("chars", len(cleaned)).
		Int("words", doc.WordCount).
		Msg("简历文本规范化完成")
	return doc, nil
}

// 清洗用的正则，全部满足幂等：对已清洗文本再次应用不产生任何变化
var (
	reCRLF          = regexp.MustCompile(`\r\n?`)
	reControlChars  = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
	reSpaceRuns     = regexp.MustCompile(`[ \t]+`)
	reBulletGlyphs  = regexp.MustCompile(`[·▪▫◦‣⁃]`)
	reBulletLines   = regexp.MustCompile(`(?m)^ ?[•\-\*]+ ?`)
	rePageNumber    = regexp.MustCompile(`(?mi)^ *page +\d+ *$`)
	reBareNumber    = regexp.MustCompile(`(?m)^ *\d+ *$`)
	reTrailingSpace = regexp.MustCompile(`(?m) +$`)
	reBlankRuns     = regexp.MustCompile(`\n{3,}`)
)

// CleanResumeText 清除PDF提取产生的排版噪声并归一化文本。
// 保留分隔简历章节的空行；清洗操作是幂等的。
func CleanResumeText(raw string) string {
	if raw == "" {
		return ""
	}

	text := reCRLF.ReplaceAllString(raw, "\n")
	text = reControlChars.ReplaceAllString(text, "")
	text = reSpaceRuns.ReplaceAllString(text, " ")

	// 项目符号统一为标准圆点
	text = reBulletGlyphs.ReplaceAllString(text, "•")
	text = reBulletLines.ReplaceAllString(text, "• ")

	// 去掉页码和孤立数字行（常见的页眉/页脚残留）
	text = rePageNumber.ReplaceAllString(text, "")
	text = reBareNumber.ReplaceAllString(text, "")

	text = reTrailingSpace.ReplaceAllString(text, "")
	text = reBlankRuns.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
