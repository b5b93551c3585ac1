package usecase

import (
	"context"
	"errors"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/greenledger/carbon_ledger/internal/aggregate"
	"github.com/greenledger/carbon_ledger/internal/compliance"
	"github.com/greenledger/carbon_ledger/internal/domain"
)

// SettingsRepo 公司画像设置仓库接口
type SettingsRepo interface {
	Load() (domain.CompanyProfile, error)
	Save(profile domain.CompanyProfile) error
}

// ComplianceUseCase 合规评估业务逻辑。评估是只读计算，不改动台账。
type ComplianceUseCase struct {
	ledger   LedgerRepo
	settings SettingsRepo
	engine   *compliance.Engine
	log      *log.Helper
}

// NewComplianceUseCase 创建合规业务逻辑实例
func NewComplianceUseCase(ledger LedgerRepo, settings SettingsRepo, engine *compliance.Engine, logger log.Logger) *ComplianceUseCase {
	return &ComplianceUseCase{ledger: ledger, settings: settings, engine: engine, log: log.NewHelper(logger)}
}

// Run 执行一次合规评估。profile 为 nil 时使用已保存的公司设置。
// 行业未知或员工数为零时返回 unrated 结果而不是错误。
func (uc *ComplianceUseCase) Run(ctx context.Context, profile *domain.CompanyProfile, periodMonths int) (*domain.ComplianceResult, error) {
	p, err := uc.resolveProfile(profile)
	if err != nil {
		return nil, err
	}

	entries := uc.ledger.LoadAll()
	agg := aggregate.Aggregate(entries, domain.Filter{})
	first, last := dateRange(entries)

	result, err := uc.engine.Assess(compliance.Input{
		Profile:      p,
		TotalKgCO2e:  agg.TotalKgCO2e,
		ByCategory:   agg.ByCategory,
		PeriodMonths: periodMonths,
		FirstDate:    first,
		LastDate:     last,
	})
	if err != nil {
		var unknown *compliance.ErrUnknownIndustry
		if errors.As(err, &unknown) || errors.Is(err, compliance.ErrUnratable) {
			uc.log.Warnf("compliance assessment unratable: %v", err)
			return compliance.Unrated(err.Error(), periodMonths), nil
		}
		return nil, err
	}
	return result, nil
}

// Simulate 在当前台账与画像之上模拟若干减排百分比
func (uc *ComplianceUseCase) Simulate(ctx context.Context, profile *domain.CompanyProfile, periodMonths int, reductions []float64) ([]domain.Scenario, error) {
	result, err := uc.Run(ctx, profile, periodMonths)
	if err != nil {
		return nil, err
	}
	if result.Status == domain.StatusUnrated {
		return nil, errors.New(result.UnratedReason)
	}
	return uc.engine.Simulate(result, reductions), nil
}

// Report 生成 Markdown 格式的合规评估报告
func (uc *ComplianceUseCase) Report(ctx context.Context, profile *domain.CompanyProfile, periodMonths int) (string, error) {
	p, err := uc.resolveProfile(profile)
	if err != nil {
		return "", err
	}
	result, err := uc.Run(ctx, &p, periodMonths)
	if err != nil {
		return "", err
	}
	return compliance.Report(result, p), nil
}

// GetProfile 读取已保存的公司画像
func (uc *ComplianceUseCase) GetProfile(ctx context.Context) (domain.CompanyProfile, error) {
	return uc.settings.Load()
}

// SaveProfile 显式保存公司画像
func (uc *ComplianceUseCase) SaveProfile(ctx context.Context, profile domain.CompanyProfile) error {
	return uc.settings.Save(profile)
}

func (uc *ComplianceUseCase) resolveProfile(profile *domain.CompanyProfile) (domain.CompanyProfile, error) {
	if profile != nil && (profile.Industry != "" || profile.EmployeeCount > 0) {
		return *profile, nil
	}
	return uc.settings.Load()
}

// dateRange 返回记录集的最早 / 最晚日期，空集返回空串
func dateRange(entries []domain.EmissionEntry) (first, last string) {
	for _, e := range entries {
		if e.Date == "" {
			continue
		}
		if first == "" || e.Date < first {
			first = e.Date
		}
		if last == "" || e.Date > last {
			last = e.Date
		}
	}
	return first, last
}
