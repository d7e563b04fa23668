package matcher

import (
	"context"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"resume-match-go/internal/config"
	"resume-match-go/internal/ledger"
	"resume-match-go/internal/parser"
	"resume-match-go/internal/types"
)

// Matcher 串联完整的匹配分析管线：规范化、请求构建、外部调用、
// 解析、分层和建议合成。
type Matcher struct {
	normalizer   *parser.ResumeNormalizer
	builder      *RequestBuilder
	orchestrator *Orchestrator
	interpreter  *Interpreter
	ledger       *ledger.Ledger
	concurrency  int
	logger       zerolog.Logger
}

// MatcherOption 管线的配置选项
type MatcherOption func(*Matcher)

// WithMatcherLogger 设置日志记录器
func WithMatcherLogger(logger zerolog.Logger) MatcherOption {
	return func(m *Matcher) {
		m.logger = logger
	}
}

// WithOrchestrator 替换编排器，测试时注入缩短退避的实例
func WithOrchestrator(o *Orchestrator) MatcherOption {
	return func(m *Matcher) {
		m.orchestrator = o
	}
}

// NewMatcher 创建分析管线。extractor 为nil时只能使用文本入口
func NewMatcher(cfg *config.Config, llmModel model.ToolCallingChatModel, usage *ledger.Ledger, extractor parser.PDFExtractor, options ...MatcherOption) *Matcher {
	m := &Matcher{
		ledger:      usage,
		concurrency: cfg.Pipeline.BatchConcurrency,
		logger:      zerolog.Nop(),
	}
	if m.concurrency <= 0 {
		m.concurrency = 1
	}
	for _, opt := range options {
		opt(m)
	}

	m.normalizer = parser.NewResumeNormalizer(extractor, parser.WithResumeLogger(m.logger))
	m.builder = NewRequestBuilder(cfg.Pipeline, cfg.Ledger, usage,
		WithBuilderLogger(m.logger),
		WithMaxResponseTokens(cfg.LLM.MaxResponseTokens))
	if m.orchestrator == nil {
		m.orchestrator = NewOrchestrator(llmModel, cfg.LLM, usage, WithOrchestratorLogger(m.logger))
	}
	m.interpreter = NewInterpreter(m.logger)
	return m
}

// AnalyzeFile 分析PDF简历文件与岗位描述的匹配度
func (m *Matcher) AnalyzeFile(ctx context.Context, pdfPath string, jdText string) (*types.MatchResult, error) {
	// 岗位描述校验在任何文件读取和服务调用之前完成
	jd, err := parser.NormalizeJobDescription(jdText)
	if err != nil {
		return nil, err
	}

	resume, err := m.normalizer.NormalizeFile(ctx, pdfPath)
	if err != nil {
		return nil, err
	}
	return m.run(ctx, resume, jd)
}

// AnalyzeText 分析已提取的简历文本与岗位描述的匹配度
func (m *Matcher) AnalyzeText(ctx context.Context, resumeText string, jdText string) (*types.MatchResult, error) {
	jd, err := parser.NormalizeJobDescription(jdText)
	if err != nil {
		return nil, err
	}

	resume, err := m.normalizer.NormalizeText(resumeText)
	if err != nil {
		return nil, err
	}
	return m.run(ctx, resume, jd)
}

// run 执行共享的管线主体。任何一步失败都不产生部分结果
func (m *Matcher) run(ctx context.Context, resume *types.ResumeDocument, jd *types.JobDescription) (*types.MatchResult, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req := m.builder.Build(resume, jd)

	reply, err := m.orchestrator.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	analysis, err := m.interpreter.Interpret(reply)
	if err != nil {
		return nil, err
	}

	score := *analysis.CompatibilityScore
	gaps := ClassifyGaps(analysis.MissingSkills, analysis.SkillGaps, jd)
	result := &types.MatchResult{
		Score:           score,
		Category:        CategoryFor(score),
		MatchingSkills:  analysis.MatchingSkills,
		MissingSkills:   analysis.MissingSkills,
		SkillGaps:       gaps,
		Suggestions:     SynthesizeSuggestions(score, gaps, analysis.Suggestions),
		AnalysisSummary: analysis.AnalysisSummary,
		ProcessingTime:  time.Since(start).Seconds(),
	}

	m.logger.Info().
		Int("score", result.Score).
		Str("category", string(result.Category)).
		Int("matching_skills", len(result.MatchingSkills)).
		Int("missing_skills", len(result.MissingSkills)).
		Float64("processing_time", result.ProcessingTime).
		Msg("匹配分析完成")
	return result, nil
}

// BatchItem 批量分析中单份简历的结果
type BatchItem struct {
	ResumePath string             `json:"resume_path"`
	Result     *types.MatchResult `json:"result,omitempty"`
	Err        error              `json:"-"`
	ErrMessage string             `json:"error,omitempty"`
}

// AnalyzeBatch 并发分析多份简历与同一份岗位描述。
// 岗位描述只规范化一次；单份简历失败不影响其他简历。
func (m *Matcher) AnalyzeBatch(ctx context.Context, resumePaths []string, jdText string) ([]BatchItem, error) {
	jd, err := parser.NormalizeJobDescription(jdText)
	if err != nil {
		return nil, err
	}

	items := make([]BatchItem, len(resumePaths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for i, path := range resumePaths {
		i, path := i, path
		g.Go(func() error {
			items[i] = m.analyzeOne(gctx, path, jd)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return items, err
	}
	return items, nil
}

func (m *Matcher) analyzeOne(ctx context.Context, path string, jd *types.JobDescription) BatchItem {
	item := BatchItem{ResumePath: path}

	resume, err := m.normalizer.NormalizeFile(ctx, path)
	if err == nil {
		item.Result, err = m.run(ctx, resume, jd)
	}
	if err != nil {
		item.Err = err
		item.ErrMessage = err.Error()
		m.logger.Error().
			Str("resume", path).
			Err(err).
			Msg("批量分析中单份简历失败")
	}
	return item
}
