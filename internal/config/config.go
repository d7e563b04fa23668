package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"resume-match-go/internal/constants"
	"resume-match-go/internal/logger"
)

// LLMConfig 外部语义比较服务（OpenAI 兼容 chat-completions 接口）的配置
type LLMConfig struct {
	APIKey string `yaml:"api_key"`
	APIURL string `yaml:"api_url"`
	Model  string `yaml:"model"`
	// MaxResponseTokens 响应体令牌上限提示
	MaxResponseTokens int     `yaml:"max_response_tokens"`
	Temperature       float64 `yaml:"temperature"`
	// TimeoutSeconds 单次调用超时（秒）
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// MaxRetries 限流场景的最大尝试次数
	MaxRetries int `yaml:"max_retries"`
	// QPM 每分钟请求数限制，0 表示不限流
	QPM int `yaml:"qpm"`
}

// PipelineConfig 分析管线的预算与并发配置
type PipelineConfig struct {
	// TokenCeiling 请求载荷的令牌上限
	TokenCeiling int `yaml:"token_ceiling"`
	// MaxResumeChars / MaxJDChars 智能截断的字符预算
	MaxResumeChars int `yaml:"max_resume_chars"`
	MaxJDChars     int `yaml:"max_jd_chars"`
	// BatchConcurrency 批量模式下并行管线实例的上限
	BatchConcurrency int `yaml:"batch_concurrency"`
}

// LedgerConfig 使用量账本的成本估算配置
type LedgerConfig struct {
	// CostPer1KTokens 每 1K 令牌的估算价格（美元）
	CostPer1KTokens float64 `yaml:"cost_per_1k_tokens"`
	// CostAlertThreshold 滚动 30 天的成本告警阈值（美元），仅告警不拦截
	CostAlertThreshold float64 `yaml:"cost_alert_threshold"`
}

// Config 应用程序配置
type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Logger   logger.Config  `yaml:"logger"`
}

// LoadConfig 从文件加载配置；configPath 为空时返回默认配置。
// 环境变量 RESUME_MATCH_API_KEY（或兼容的 PERPLEXITY_API_KEY）优先于文件中的密钥。
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
		applyDefaults(cfg)
	}

	// 从环境变量覆盖密钥（如果存在）
	if envKey := os.Getenv("RESUME_MATCH_API_KEY"); envKey != "" {
		cfg.LLM.APIKey = envKey
	} else if envKey := os.Getenv("PERPLEXITY_API_KEY"); envKey != "" {
		cfg.LLM.APIKey = envKey
	}
	if envURL := os.Getenv("RESUME_MATCH_API_URL"); envURL != "" {
		cfg.LLM.APIURL = envURL
	}
	if envModel := os.Getenv("RESUME_MATCH_MODEL"); envModel != "" {
		cfg.LLM.Model = envModel
	}

	return cfg, nil
}

// DefaultConfig 创建一套默认配置，也用于测试环境
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.LLM.APIURL = "https://api.perplexity.ai/chat/completions"
	cfg.LLM.Model = "sonar"
	cfg.LLM.MaxResponseTokens = constants.DefaultMaxResponseTokens
	cfg.LLM.Temperature = 0.1
	cfg.LLM.TimeoutSeconds = int(constants.DefaultRequestTimeout / time.Second)
	cfg.LLM.MaxRetries = constants.DefaultMaxRetries

	cfg.Pipeline.TokenCeiling = constants.DefaultTokenCeiling
	cfg.Pipeline.MaxResumeChars = constants.DefaultMaxResumeChars
	cfg.Pipeline.MaxJDChars = constants.DefaultMaxJDChars
	cfg.Pipeline.BatchConcurrency = 4

	cfg.Ledger.CostPer1KTokens = constants.DefaultCostPer1KTokens
	cfg.Ledger.CostAlertThreshold = constants.DefaultCostAlertThreshold

	cfg.Logger.Level = "info"
	cfg.Logger.Format = "pretty"
	cfg.Logger.TimeFormat = "2006-01-02 15:04:05"
	cfg.Logger.ReportCaller = false

	return cfg
}

// applyDefaults 为 YAML 中缺省的字段补上默认值
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.LLM.APIURL == "" {
		cfg.LLM.APIURL = def.LLM.APIURL
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = def.LLM.Model
	}
	if cfg.LLM.MaxResponseTokens <= 0 {
		cfg.LLM.MaxResponseTokens = def.LLM.MaxResponseTokens
	}
	if cfg.LLM.TimeoutSeconds <= 0 {
		cfg.LLM.TimeoutSeconds = def.LLM.TimeoutSeconds
	}
	if cfg.LLM.MaxRetries <= 0 {
		cfg.LLM.MaxRetries = def.LLM.MaxRetries
	}
	if cfg.Pipeline.TokenCeiling <= 0 {
		cfg.Pipeline.TokenCeiling = def.Pipeline.TokenCeiling
	}
	if cfg.Pipeline.MaxResumeChars <= 0 {
		cfg.Pipeline.MaxResumeChars = def.Pipeline.MaxResumeChars
	}
	if cfg.Pipeline.MaxJDChars <= 0 {
		cfg.Pipeline.MaxJDChars = def.Pipeline.MaxJDChars
	}
	if cfg.Pipeline.BatchConcurrency <= 0 {
		cfg.Pipeline.BatchConcurrency = def.Pipeline.BatchConcurrency
	}
	if cfg.Ledger.CostPer1KTokens <= 0 {
		cfg.Ledger.CostPer1KTokens = def.Ledger.CostPer1KTokens
	}
	if cfg.Ledger.CostAlertThreshold <= 0 {
		cfg.Ledger.CostAlertThreshold = def.Ledger.CostAlertThreshold
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = def.Logger.Level
	}
	if cfg.Logger.Format == "" {
		cfg.Logger.Format = def.Logger.Format
	}
	if cfg.Logger.TimeFormat == "" {
		cfg.Logger.TimeFormat = def.Logger.TimeFormat
	}
}

// RequestTimeout 返回单次外部调用的超时时间
func (c *Config) RequestTimeout() time.Duration {
	if c.LLM.TimeoutSeconds <= 0 {
		return constants.DefaultRequestTimeout
	}
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}
