// Package insight 封装外部 LLM 协作方：用只读的台账聚合数据组装提示词，
// 换回自由文本指导。模型输出永远不会不经校验写回台账。
package insight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/go-shiori/go-readability"
	"golang.org/x/time/rate"

	"github.com/greenledger/carbon_ledger/internal/domain"
	"github.com/greenledger/carbon_ledger/pkg/logger"
)

// Kind 指导类型，对应五种固定的提示词模板
type Kind string

const (
	KindClassification Kind = "classification" // 排放分类与范围归属帮助
	KindSummary        Kind = "summary"        // 报告摘要
	KindOffset         Kind = "offset"         // 碳抵消建议
	KindRegulation     Kind = "regulation"     // 法规雷达
	KindReduction      Kind = "reduction"      // 减排建议
)

// Valid 判断是否为已知的指导类型
func (k Kind) Valid() bool {
	switch k {
	case KindClassification, KindSummary, KindOffset, KindRegulation, KindReduction:
		return true
	}
	return false
}

// Config 引擎配置
type Config struct {
	BaseURL        string
	APIKey         string
	Model          string
	QPS            int
	RPM            int
	RegulationURLs []string // 法规雷达抓取正文作为提示词上下文的页面
}

// PromptContext 组装提示词用的只读上下文
type PromptContext struct {
	Description string                  `json:"description,omitempty"`
	Profile     domain.CompanyProfile   `json:"profile"`
	Aggregates  *domain.AggregateResult `json:"aggregates,omitempty"`
}

// Engine 洞察引擎
type Engine struct {
	chatModel  model.ChatModel
	limiter    *rate.Limiter
	noticeURLs []string
}

// NewEngine 创建洞察引擎并初始化 LLM 与限流器
func NewEngine(cfg *Config) (*Engine, error) {
	ctx := context.Background()

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	rpm := cfg.RPM
	if rpm <= 0 {
		rpm = 60
	}
	qps := cfg.QPS
	if qps <= 0 {
		qps = 1
	}
	limiter := rate.NewLimiter(rate.Limit(float64(rpm)/60.0), qps)

	return &Engine{
		chatModel:  chatModel,
		limiter:    limiter,
		noticeURLs: cfg.RegulationURLs,
	}, nil
}

// Generate 生成一段指导文本。外部调用可能慢也可能失败，
// 失败只向上返回错误，对台账一致性没有任何影响。
func (e *Engine) Generate(ctx context.Context, kind Kind, in PromptContext) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("unknown insight kind %q", kind)
	}

	prompt, err := buildPrompt(kind, in)
	if err != nil {
		return "", err
	}
	if kind == KindRegulation && len(e.noticeURLs) > 0 {
		prompt += "\n\nRegulatory notice excerpts:\n" + e.fetchNotices()
	}

	maxRetries := 3
	baseDelay := 2 * time.Second
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if err := e.limiter.Wait(ctx); err != nil {
			return "", err
		}

		messages := []*schema.Message{
			{Role: schema.System, Content: systemPrompt(kind)},
			{Role: schema.User, Content: prompt},
		}

		resp, err := e.chatModel.Generate(ctx, messages)
		if err != nil {
			if strings.Contains(err.Error(), "429") || strings.Contains(strings.ToLower(err.Error()), "too many requests") {
				lastErr = err
				if i < maxRetries {
					// 退避期间同样要响应调用方取消
					select {
					case <-time.After(baseDelay * time.Duration(1<<i)):
						continue
					case <-ctx.Done():
						return "", ctx.Err()
					}
				}
			}
			return "", err
		}

		content := strings.TrimSpace(resp.Content)
		content = strings.TrimPrefix(content, "```markdown")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		return strings.TrimSpace(content), nil
	}
	return "", lastErr
}

// fetchNotices 抓取配置的法规页面正文，失败的页面跳过，正文截断到 5000 字符
func (e *Engine) fetchNotices() string {
	var sb strings.Builder
	for _, url := range e.noticeURLs {
		article, err := readability.FromURL(url, 30*time.Second)
		if err != nil {
			logger.Log.Warnf("抓取法规页面失败 [%s]: %v", url, err)
			continue
		}
		content := article.TextContent
		if len(content) > 5000 {
			content = content[:5000]
		}
		fmt.Fprintf(&sb, "Source: %s\n%s\n\n", url, content)
	}
	return sb.String()
}
