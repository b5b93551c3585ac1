// Package compliance 将聚合后的排放量与行业基准比对，产出评级、
// 财务影响与建议。纯函数式计算，不触碰台账。
package compliance

import (
	"fmt"

	"github.com/greenledger/carbon_ledger/internal/domain"
)

// ErrUnknownIndustry 行业不在基准表中，调用方须显式处理而非静默兜底
type ErrUnknownIndustry struct {
	Industry string
}

func (e *ErrUnknownIndustry) Error() string {
	return fmt.Sprintf("unknown industry %q: no benchmark available", e.Industry)
}

// ErrUnratable 预期基准为零（员工数为零或行业基准被配置成零），无法计算比值
var ErrUnratable = fmt.Errorf("expected emissions benchmark is zero: assessment is unratable")

// Input 一次合规评估的全部输入
type Input struct {
	Profile      domain.CompanyProfile
	TotalKgCO2e  float64              // 评估期内的总排放
	ByCategory   []domain.GroupTotal  // 聚合引擎的类别分解（降序）
	PeriodMonths int                  // 评估期月数，0 视为 12
	FirstDate    string               // 台账数据的起止日期，仅用于描述
	LastDate     string
}

// Engine 合规评估引擎
type Engine struct {
	cfg *Config
}

// NewEngine 创建评估引擎，cfg 为 nil 时使用内置默认值
func NewEngine(cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Engine{cfg: cfg}
}

// Benchmark 查询某行业的人均年度基准排放（kgCO2e），查不到时 ok 为 false
func (e *Engine) Benchmark(industry string) (float64, bool) {
	v, ok := e.cfg.Benchmarks[normalizeIndustry(industry)]
	return v, ok
}

// Assess 执行合规评估。
// 行业未知返回 *ErrUnknownIndustry，员工数为零返回 ErrUnratable，
// 两者都是可恢复错误，上层应转成"数据不足"结果而不是崩溃。
func (e *Engine) Assess(in Input) (*domain.ComplianceResult, error) {
	months := in.PeriodMonths
	if months <= 0 {
		months = 12
	}

	perEmployee, ok := e.Benchmark(in.Profile.Industry)
	if !ok {
		return nil, &ErrUnknownIndustry{Industry: in.Profile.Industry}
	}
	if in.Profile.EmployeeCount <= 0 {
		return nil, fmt.Errorf("company profile has no employees: %w", ErrUnratable)
	}

	// 基准按评估期等比折算：expected = 人均基准 * 员工数 * months/12。
	// 除比值前必须确认基准为正，否则比值会出现 Inf/NaN 并一路污染结果。
	expectedKg := perEmployee * float64(in.Profile.EmployeeCount) * float64(months) / 12.0
	if expectedKg <= 0 {
		return nil, fmt.Errorf("industry benchmark for %q is zero: %w", in.Profile.Industry, ErrUnratable)
	}
	actualT := in.TotalKgCO2e / 1000.0
	expectedT := expectedKg / 1000.0

	ratio := in.TotalKgCO2e / expectedKg
	status := statusFor(ratio)
	credit, tax := e.financialImpact(status, actualT, expectedT)

	result := &domain.ComplianceResult{
		Status:            status,
		Score:             scoreFor(ratio),
		PerformanceRatio:  ratio,
		ActualTonnes:      actualT,
		ExpectedTonnes:    expectedT,
		CreditAmount:      credit,
		TaxAmount:         tax,
		Recommendations:   recommendations(status, in.ByCategory),
		PeriodMonths:      months,
		PeriodDescription: periodDescription(months, in.FirstDate, in.LastDate),
	}
	return result, nil
}

// statusFor 按比值划档，边界归属低档一侧：恰为 0.80 是 excellent，恰为 0.90 是 good
func statusFor(ratio float64) domain.ComplianceStatus {
	switch {
	case ratio <= 0.80:
		return domain.StatusExcellent
	case ratio <= 0.90:
		return domain.StatusGood
	case ratio <= 1.10:
		return domain.StatusNeedsImprovement
	case ratio <= 1.25:
		return domain.StatusPoor
	default:
		return domain.StatusCritical
	}
}

// scoreFor 把比值分段线性映射到 0-100 并截断。
// 比值 0 得 100 分，比值 ≥ 2.0 得 0 分，全程单调递减。
func scoreFor(ratio float64) float64 {
	var score float64
	switch {
	case ratio <= 0.80:
		score = 90 + 10*(0.80-ratio)/0.80
	case ratio <= 0.90:
		score = 75 + 15*(0.90-ratio)/0.10
	case ratio <= 1.10:
		score = 60 + 15*(1.10-ratio)/0.20
	case ratio <= 1.25:
		score = 40 + 20*(1.25-ratio)/0.15
	default:
		score = 40 * (2.0 - ratio) / 0.75
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// financialImpact 计算碳信用或碳税（美元），按吨 CO2e 差值计价
func (e *Engine) financialImpact(status domain.ComplianceStatus, actualT, expectedT float64) (credit, tax float64) {
	diff := actualT - expectedT
	switch status {
	case domain.StatusExcellent:
		credit = -diff * e.cfg.Rates.ExcellentCreditPerTonne
	case domain.StatusGood:
		credit = -diff * e.cfg.Rates.GoodCreditPerTonne
	case domain.StatusPoor:
		tax = diff * e.cfg.Rates.PoorTaxPerTonne
	case domain.StatusCritical:
		tax = diff * e.cfg.Rates.CriticalTaxPerTonne
	}
	return credit, tax
}

// Simulate 在既有评估结果上模拟若干减排百分比的新档位与财务影响
func (e *Engine) Simulate(result *domain.ComplianceResult, reductions []float64) []domain.Scenario {
	scenarios := make([]domain.Scenario, 0, len(reductions))
	for _, pct := range reductions {
		newActualT := result.ActualTonnes * (1 - pct/100)
		var ratio float64
		if result.ExpectedTonnes > 0 {
			ratio = newActualT / result.ExpectedTonnes
		}
		status := statusFor(ratio)
		credit, tax := e.financialImpact(status, newActualT, result.ExpectedTonnes)

		scenarios = append(scenarios, domain.Scenario{
			ReductionPercent:     pct,
			NewEmissionsTonnes:   newActualT,
			NewStatus:            status,
			NewCreditAmount:      credit,
			NewTaxAmount:         tax,
			FinancialImprovement: (result.TaxAmount - tax) + (credit - result.CreditAmount),
		})
	}
	return scenarios
}

// Unrated 把不可评级的原因包装成"数据不足"结果
func Unrated(reason string, months int) *domain.ComplianceResult {
	if months <= 0 {
		months = 12
	}
	return &domain.ComplianceResult{
		Status:        domain.StatusUnrated,
		UnratedReason: reason,
		PeriodMonths:  months,
		Recommendations: []string{
			"Complete the company profile (industry and employee count) to enable compliance scoring",
		},
	}
}

func periodDescription(months int, firstDate, lastDate string) string {
	if firstDate == "" || lastDate == "" {
		return fmt.Sprintf("Assessment period: %d months (no dated entries)", months)
	}
	return fmt.Sprintf("Assessment period: %d months (data from %s to %s)", months, firstDate, lastDate)
}
