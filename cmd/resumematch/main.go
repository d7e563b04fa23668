package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"resume-match-go/internal/agent"
	"resume-match-go/internal/config"
	"resume-match-go/internal/ledger"
	"resume-match-go/internal/logger"
	"resume-match-go/internal/matcher"
	"resume-match-go/internal/parser"
	"resume-match-go/internal/ratelimit"
)

var (
	configPath  string
	resumePath  string
	resumeText  string
	jdFilePath  string
	jdText      string
	batchDir    string
	concurrency int
	usageWindow time.Duration
	showReport  bool
)

func main() {
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径，缺省时使用默认配置")
	pflag.StringVarP(&resumePath, "resume", "r", "", "PDF简历文件路径")
	pflag.StringVar(&resumeText, "resume-text", "", "直接传入的简历纯文本（与 --resume 二选一）")
	pflag.StringVar(&jdFilePath, "jd-file", "", "岗位描述文本文件路径")
	pflag.StringVar(&jdText, "jd", "", "直接传入的岗位描述文本（与 --jd-file 二选一）")
	pflag.StringVar(&batchDir, "batch-dir", "", "批量模式：包含多份PDF简历的目录")
	pflag.IntVar(&concurrency, "concurrency", 0, "批量模式的并发数，0表示使用配置值")
	pflag.DurationVar(&usageWindow, "usage-window", 30*24*time.Hour, "用量报告的统计窗口")
	pflag.BoolVar(&showReport, "report", false, "分析结束后打印用量报告")
	pflag.Parse()

	// .env 可选，不存在不算错误
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Logger)
	log := logger.With("resumematch")

	jd, err := loadJobDescription()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	usage := ledger.New(cfg.Ledger.CostPer1KTokens, cfg.Ledger.CostAlertThreshold, ledger.WithLogger(log))

	var llmModel model.ToolCallingChatModel
	llmModel, err = agent.NewPerplexityChatModel(cfg.LLM, agent.WithModelLogger(log))
	if err != nil {
		log.Fatal().Err(err).Msg("初始化聊天模型失败")
	}
	if cfg.LLM.QPM > 0 {
		llmModel = ratelimit.NewRateLimitedLLMModel(llmModel, cfg.LLM.QPM)
		log.Info().Int("qpm", cfg.LLM.QPM).Msg("已启用QPM限流")
	}

	var extractor parser.PDFExtractor
	if resumePath != "" || batchDir != "" {
		extractor, err = parser.NewEinoPDFTextExtractor(ctx, parser.WithEinoLogger(log))
		if err != nil {
			log.Fatal().Err(err).Msg("创建PDF提取器失败")
		}
	}

	if concurrency > 0 {
		cfg.Pipeline.BatchConcurrency = concurrency
	}
	m := matcher.NewMatcher(cfg, llmModel, usage, extractor, matcher.WithMatcherLogger(log))

	switch {
	case batchDir != "":
		err = runBatch(ctx, m, jd)
	case resumePath != "":
		err = runSingle(ctx, func() (any, error) {
			return m.AnalyzeFile(ctx, resumePath, jd)
		})
	case resumeText != "":
		err = runSingle(ctx, func() (any, error) {
			return m.AnalyzeText(ctx, resumeText, jd)
		})
	default:
		fmt.Fprintln(os.Stderr, "必须通过 --resume、--resume-text 或 --batch-dir 提供简历输入")
		pflag.Usage()
		os.Exit(1)
	}

	if showReport {
		printUsageReport(usage)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "分析失败: %v\n", err)
		if hint := parser.RemediationHint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "提示: %s\n", hint)
		}
		os.Exit(1)
	}
}

func loadJobDescription() (string, error) {
	switch {
	case jdText != "":
		return jdText, nil
	case jdFilePath != "":
		data, err := os.ReadFile(jdFilePath)
		if err != nil {
			return "", fmt.Errorf("读取岗位描述文件失败: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("必须通过 --jd 或 --jd-file 提供岗位描述")
	}
}

func runSingle(_ context.Context, analyze func() (any, error)) error {
	result, err := analyze()
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runBatch(ctx context.Context, m *matcher.Matcher, jd string) error {
	entries, err := os.ReadDir(batchDir)
	if err != nil {
		return fmt.Errorf("读取批量目录失败: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(batchDir, entry.Name()))
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return fmt.Errorf("目录 %s 中没有PDF文件", batchDir)
	}

	items, err := m.AnalyzeBatch(ctx, paths, jd)
	if err != nil {
		return err
	}
	return printJSON(items)
}

func printUsageReport(usage *ledger.Ledger) {
	stats := usage.Stats(usageWindow)
	fmt.Fprintln(os.Stderr, "---- 用量报告 ----")
	fmt.Fprintf(os.Stderr, "调用次数: %d (成功 %d / 失败 %d)\n", stats.Calls, stats.Successes, stats.Failures)
	fmt.Fprintf(os.Stderr, "令牌消耗: 提示 %d / 补全 %d, 截断节省 %d\n",
		stats.PromptTokens, stats.CompletionTokens, stats.AvoidedTokens)
	fmt.Fprintf(os.Stderr, "估算成本: $%.4f, 平均耗时: %s\n", stats.TotalCost, stats.AvgLatency)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
