package server

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/greenledger/carbon_ledger/internal/conf"
	"github.com/greenledger/carbon_ledger/internal/insight"
	"github.com/greenledger/carbon_ledger/pkg/logger"
)

// NewInsightEngine 初始化洞察引擎。
// 未配置 LLM 时返回 nil 引擎，核心功能照常可用，洞察接口报不可用。
func NewInsightEngine(c *conf.Insight, klog log.Logger) (*insight.Engine, error) {
	helper := log.NewHelper(klog)
	if c == nil || c.Llm == nil || c.Llm.ApiKey == "" {
		helper.Info("insight engine disabled: no LLM configured")
		return nil, nil
	}

	level, file := "info", ""
	if c.Log != nil {
		level, file = c.Log.Level, c.Log.File
	}
	if err := logger.Init(level, file); err != nil {
		helper.Errorf("failed to init insight logger: %v", err)
		_ = logger.Init("info", "")
	}

	cfg := &insight.Config{
		BaseURL:        c.Llm.BaseUrl,
		APIKey:         c.Llm.ApiKey,
		Model:          c.Llm.Model,
		RegulationURLs: c.RegulationUrls,
	}
	if c.Concurrency != nil {
		cfg.QPS = int(c.Concurrency.Qps)
		cfg.RPM = int(c.Concurrency.Rpm)
	}

	eng, err := insight.NewEngine(cfg)
	if err != nil {
		helper.Errorf("failed to init insight engine: %v", err)
		return nil, err
	}
	return eng, nil
}
