package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/rs/zerolog"
)

// PDFExtractor 定义PDF文本提取能力，简历规范化流程依赖此接口。
// 生产实现为 EinoPDFTextExtractor，测试中可替换为桩实现。
type PDFExtractor interface {
	ExtractFromFile(ctx context.Context, filePath string) (string, error)
	ExtractFromBytes(ctx context.Context, data []byte, uri string) (string, error)
}

// EinoPDFTextExtractor 使用 Eino PDF Parser 提取文本
type EinoPDFTextExtractor struct {
	parser *pdf.PDFParser
	logger zerolog.Logger
}

// EinoPDFOption PDF提取器的配置选项
type EinoPDFOption func(*EinoPDFTextExtractor)

// WithEinoLogger 配置自定义日志记录器
func WithEinoLogger(logger zerolog.Logger) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		e.logger = logger
	}
}

// NewEinoPDFTextExtractor 初始化 Eino PDF 文本提取器。
// 默认不按页面分割，以获取整个文档的连续文本。
func NewEinoPDFTextExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFTextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false, // 我们希望获取整个PDF的文本作为单个字符串
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Eino PDF parser: %w", err)
	}

	extractor := &EinoPDFTextExtractor{
		parser: p,
		logger: zerolog.Nop(),
	}

	for _, option := range options {
		option(extractor)
	}

	return extractor, nil
}

// ExtractFromFile 从PDF文件路径提取完整的纯文本内容
func (e *EinoPDFTextExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, error) {
	startTime := time.Now()

	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF file %s: %w", filePath, err)
	}
	defer file.Close()

	if fileInfo, statErr := file.Stat(); statErr == nil {
		e.logger.Debug().
			Str("file", filePath).
			Int64("size_bytes", fileInfo.Size()).
			Msg("开始处理PDF文件")
	}

	text, err := e.extractFromReader(ctx, file, filePath)

	duration := time.Since(startTime)
	if err != nil {
		e.logger.Warn().Err(err).Dur("elapsed", duration).Msg("PDF处理失败")
		return "", err
	}

	e.logger.Debug().
		Int("chars", len(text)).
		Dur("elapsed", duration).
		Msg("PDF处理完成")
	return text, nil
}

// ExtractFromBytes 从内存中的PDF字节流提取文本；uri 仅用于日志与解析器元数据
func (e *EinoPDFTextExtractor) ExtractFromBytes(ctx context.Context, data []byte, uri string) (string, error) {
	return e.extractFromReader(ctx, bytes.NewReader(data), uri)
}

func (e *EinoPDFTextExtractor) extractFromReader(ctx context.Context, reader io.Reader, uri string) (string, error) {
	// 提取本身也设置超时，避免损坏文档导致解析挂起
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader,
		einoParser.WithURI(uri),
	)
	if err != nil {
		return "", fmt.Errorf("eino PDF parser failed for URI %s: %w", uri, err)
	}

	if len(docs) == 0 {
		return "", fmt.Errorf("eino PDF parser returned no documents for URI %s", uri)
	}

	if len(docs) > 1 {
		e.logger.Debug().Int("docs", len(docs)).Msg("解析器返回了多个文档，将拼接内容")
	}

	var sb bytes.Buffer
	for _, doc := range docs {
		sb.WriteString(doc.Content)
	}
	return sb.String(), nil
}
