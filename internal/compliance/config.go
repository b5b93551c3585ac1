package compliance

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rates 信用 / 碳税单价（美元每吨 CO2e）。
// 这些常数来自项目文档而非法规原文，因此做成可配置项。
type Rates struct {
	ExcellentCreditPerTonne float64 `yaml:"excellent_credit_per_tonne"`
	GoodCreditPerTonne      float64 `yaml:"good_credit_per_tonne"`
	PoorTaxPerTonne         float64 `yaml:"poor_tax_per_tonne"`
	CriticalTaxPerTonne     float64 `yaml:"critical_tax_per_tonne"`
}

// Config 合规引擎配置：行业基准表 + 计价费率
type Config struct {
	// Benchmarks 行业 -> 人均年度基准排放（kgCO2e/员工/年），键为小写行业名
	Benchmarks map[string]float64 `yaml:"benchmarks"`
	Rates      Rates              `yaml:"rates"`
}

// DefaultConfig 内置的七个种子行业基准与默认费率
func DefaultConfig() *Config {
	return &Config{
		Benchmarks: map[string]float64{
			"manufacturing":  8500,
			"technology":     3200,
			"services":       2800,
			"retail":         4200,
			"transportation": 12000,
			"agriculture":    6800,
			"energy":         15000,
		},
		Rates: Rates{
			ExcellentCreditPerTonne: 50,
			GoodCreditPerTonne:      25,
			PoorTaxPerTonne:         15,
			CriticalTaxPerTonne:     30,
		},
	}
}

// LoadConfig 从 YAML 文件加载配置覆盖项，path 为空时直接用默认值。
// 文件里省略的字段保持默认。
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read compliance config: %w", err)
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse compliance config: %w", err)
	}

	// 基准必须为正：为零的基准会让合规比值除零
	for industry, v := range override.Benchmarks {
		if v <= 0 {
			return nil, fmt.Errorf("compliance config: benchmark for %q must be positive, got %v", industry, v)
		}
		cfg.Benchmarks[normalizeIndustry(industry)] = v
	}
	// 费率覆盖只接受正值，省略或写 0 都表示保持默认费率
	if override.Rates.ExcellentCreditPerTonne > 0 {
		cfg.Rates.ExcellentCreditPerTonne = override.Rates.ExcellentCreditPerTonne
	}
	if override.Rates.GoodCreditPerTonne > 0 {
		cfg.Rates.GoodCreditPerTonne = override.Rates.GoodCreditPerTonne
	}
	if override.Rates.PoorTaxPerTonne > 0 {
		cfg.Rates.PoorTaxPerTonne = override.Rates.PoorTaxPerTonne
	}
	if override.Rates.CriticalTaxPerTonne > 0 {
		cfg.Rates.CriticalTaxPerTonne = override.Rates.CriticalTaxPerTonne
	}
	return cfg, nil
}

func normalizeIndustry(industry string) string {
	return strings.ToLower(strings.TrimSpace(industry))
}
