// Package service 是暴露给 UI 协作方的传输层适配，
// 负责请求结构与业务类型之间的转换。
package service

import (
	"context"
	"errors"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/greenledger/carbon_ledger/internal/csvio"
	"github.com/greenledger/carbon_ledger/internal/domain"
	"github.com/greenledger/carbon_ledger/internal/factor"
	"github.com/greenledger/carbon_ledger/internal/insight"
	"github.com/greenledger/carbon_ledger/internal/usecase"
	"github.com/greenledger/carbon_ledger/internal/validate"
)

// CarbonService 核心服务门面
type CarbonService struct {
	ledger     *usecase.LedgerUseCase
	compliance *usecase.ComplianceUseCase
	insights   *insight.Engine // 未配置 LLM 时为 nil
	factors    *factor.Table
	warning    string // 启动时台账恢复告警，空串表示无
	log        *log.Helper
}

// NewCarbonService 创建服务实例
func NewCarbonService(
	ledger *usecase.LedgerUseCase,
	compliance *usecase.ComplianceUseCase,
	insights *insight.Engine,
	factors *factor.Table,
	warning string,
	logger log.Logger,
) *CarbonService {
	return &CarbonService{
		ledger:     ledger,
		compliance: compliance,
		insights:   insights,
		factors:    factors,
		warning:    warning,
		log:        log.NewHelper(logger),
	}
}

// EntryReply 单条记录操作的应答。校验失败时 Entry 为空、Violations 列出全部问题。
type EntryReply struct {
	Success    bool                  `json:"success"`
	Entry      *domain.EmissionEntry `json:"entry,omitempty"`
	Violations []validate.Violation  `json:"violations,omitempty"`
}

// SubmitEntry 表单提交一条记录
func (s *CarbonService) SubmitEntry(ctx context.Context, cand validate.Candidate) (*EntryReply, error) {
	entry, err := s.ledger.SubmitEntry(ctx, cand)
	if err != nil {
		var violations validate.Violations
		if errors.As(err, &violations) {
			return &EntryReply{Success: false, Violations: violations}, nil
		}
		return nil, kerrors.InternalServer("STORE_ERROR", err.Error())
	}
	return &EntryReply{Success: true, Entry: &entry}, nil
}

// ListEntriesReply 台账记录列表
type ListEntriesReply struct {
	Entries []domain.EmissionEntry `json:"entries"`
	Total   int                    `json:"total"`
	Warning string                 `json:"warning,omitempty"`
}

// ListEntries 列出全部记录，附带启动时的恢复告警
func (s *CarbonService) ListEntries(ctx context.Context) *ListEntriesReply {
	entries := s.ledger.ListEntries(ctx)
	return &ListEntriesReply{Entries: entries, Total: len(entries), Warning: s.warning}
}

// UpdateEntry 显式编辑重存一条记录
func (s *CarbonService) UpdateEntry(ctx context.Context, id string, cand validate.Candidate) (*EntryReply, error) {
	entry, err := s.ledger.UpdateEntry(ctx, id, cand)
	if err != nil {
		var violations validate.Violations
		if errors.As(err, &violations) {
			return &EntryReply{Success: false, Violations: violations}, nil
		}
		return nil, kerrors.NotFound("ENTRY_NOT_FOUND", err.Error())
	}
	return &EntryReply{Success: true, Entry: &entry}, nil
}

// DeleteEntry 删除一条记录
func (s *CarbonService) DeleteEntry(ctx context.Context, id string) error {
	if err := s.ledger.DeleteEntry(ctx, id); err != nil {
		return kerrors.NotFound("ENTRY_NOT_FOUND", err.Error())
	}
	return nil
}

// GetAggregates 计算聚合结果
func (s *CarbonService) GetAggregates(ctx context.Context, f domain.Filter) *domain.AggregateResult {
	return s.ledger.GetAggregates(ctx, f)
}

// ComplianceReq 合规评估请求。Profile 缺省时用已保存的公司设置。
type ComplianceReq struct {
	Profile      *domain.CompanyProfile `json:"profile,omitempty"`
	PeriodMonths int                    `json:"period_months,omitempty"`
}

// RunCompliance 执行合规评估
func (s *CarbonService) RunCompliance(ctx context.Context, req *ComplianceReq) (*domain.ComplianceResult, error) {
	result, err := s.compliance.Run(ctx, req.Profile, req.PeriodMonths)
	if err != nil {
		return nil, kerrors.InternalServer("COMPLIANCE_ERROR", err.Error())
	}
	return result, nil
}

// ScenariosReq 减排情景模拟请求
type ScenariosReq struct {
	Profile           *domain.CompanyProfile `json:"profile,omitempty"`
	PeriodMonths      int                    `json:"period_months,omitempty"`
	ReductionPercents []float64              `json:"reduction_percents"`
}

// ScenariosReply 情景模拟应答
type ScenariosReply struct {
	Scenarios []domain.Scenario `json:"scenarios"`
}

// SimulateScenarios 模拟减排情景
func (s *CarbonService) SimulateScenarios(ctx context.Context, req *ScenariosReq) (*ScenariosReply, error) {
	scenarios, err := s.compliance.Simulate(ctx, req.Profile, req.PeriodMonths, req.ReductionPercents)
	if err != nil {
		return nil, kerrors.BadRequest("UNRATABLE", err.Error())
	}
	return &ScenariosReply{Scenarios: scenarios}, nil
}

// ReportReply Markdown 报告应答
type ReportReply struct {
	Report string `json:"report"`
}

// ComplianceReport 生成 Markdown 合规报告
func (s *CarbonService) ComplianceReport(ctx context.Context, req *ComplianceReq) (*ReportReply, error) {
	report, err := s.compliance.Report(ctx, req.Profile, req.PeriodMonths)
	if err != nil {
		return nil, kerrors.InternalServer("COMPLIANCE_ERROR", err.Error())
	}
	return &ReportReply{Report: report}, nil
}

// ImportReply CSV 导入应答。任何一行失败时 Imported 为 0，
// RowErrors 带行号列出每个失败行，台账保持原样。
type ImportReply struct {
	Success   bool             `json:"success"`
	Imported  int              `json:"imported"`
	RowErrors []csvio.RowError `json:"row_errors,omitempty"`
	Message   string           `json:"message,omitempty"`
}

// ImportCSV 事务性导入 CSV
func (s *CarbonService) ImportCSV(ctx context.Context, data []byte) (*ImportReply, error) {
	summary, err := s.ledger.ImportCSV(ctx, data)
	if err != nil {
		var rowErrs csvio.RowErrors
		if errors.As(err, &rowErrs) {
			return &ImportReply{Success: false, RowErrors: rowErrs}, nil
		}
		return &ImportReply{Success: false, Message: err.Error()}, nil
	}
	return &ImportReply{Success: true, Imported: summary.Imported}, nil
}

// ExportCSV 导出 CSV，可选日期过滤
func (s *CarbonService) ExportCSV(ctx context.Context, f domain.Filter) ([]byte, error) {
	data, err := s.ledger.ExportCSV(ctx, f)
	if err != nil {
		return nil, kerrors.InternalServer("EXPORT_ERROR", err.Error())
	}
	return data, nil
}

// GetSettings 读取公司画像设置
func (s *CarbonService) GetSettings(ctx context.Context) (*domain.CompanyProfile, error) {
	profile, err := s.compliance.GetProfile(ctx)
	if err != nil {
		return nil, kerrors.InternalServer("SETTINGS_ERROR", err.Error())
	}
	return &profile, nil
}

// SaveSettings 保存公司画像设置
func (s *CarbonService) SaveSettings(ctx context.Context, profile domain.CompanyProfile) error {
	if err := s.compliance.SaveProfile(ctx, profile); err != nil {
		return kerrors.InternalServer("SETTINGS_ERROR", err.Error())
	}
	return nil
}

// InsightReq 洞察请求
type InsightReq struct {
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
}

// InsightReply 洞察应答，自由文本
type InsightReply struct {
	Text string `json:"text"`
}

// GenerateInsight 调用外部 LLM 生成指导文本。
// 只传入只读的聚合数据与画像，模型拿不到台账的写入口。
func (s *CarbonService) GenerateInsight(ctx context.Context, req *InsightReq) (*InsightReply, error) {
	if s.insights == nil {
		return nil, kerrors.ServiceUnavailable("INSIGHT_DISABLED", "insight engine is not configured")
	}

	profile, err := s.compliance.GetProfile(ctx)
	if err != nil {
		return nil, kerrors.InternalServer("SETTINGS_ERROR", err.Error())
	}

	text, err := s.insights.Generate(ctx, insight.Kind(req.Kind), insight.PromptContext{
		Description: req.Description,
		Profile:     profile,
		Aggregates:  s.ledger.GetAggregates(ctx, domain.Filter{}),
	})
	if err != nil {
		s.log.Errorf("generate insight failed: %v", err)
		return nil, kerrors.InternalServer("INSIGHT_ERROR", err.Error())
	}
	return &InsightReply{Text: text}, nil
}

// FactorActivity 排放因子目录的一项
type FactorActivity struct {
	Activity string  `json:"activity"`
	Factor   float64 `json:"factor"`
	Unit     string  `json:"unit"`
}

// FactorCategory 某类别下的因子清单
type FactorCategory struct {
	Category   string           `json:"category"`
	Activities []FactorActivity `json:"activities"`
}

// FactorsReply 排放因子目录应答
type FactorsReply struct {
	Scope      string           `json:"scope,omitempty"`
	Categories []FactorCategory `json:"categories"`
}

// ListFactors 列出排放因子目录，scope 为空时返回全部三个范围
func (s *CarbonService) ListFactors(ctx context.Context, scope string) *FactorsReply {
	scopes := []domain.Scope{domain.ScopeOne, domain.ScopeTwo, domain.ScopeThree}
	if scope != "" {
		scopes = []domain.Scope{domain.Scope(scope)}
	}

	reply := &FactorsReply{Scope: scope}
	for _, sc := range scopes {
		for _, category := range s.factors.Categories(sc) {
			activities := s.factors.Activities(category)
			if len(activities) == 0 {
				continue
			}
			fc := FactorCategory{Category: category}
			for _, act := range activities {
				f, _ := s.factors.Lookup(category, act)
				fc.Activities = append(fc.Activities, FactorActivity{
					Activity: act,
					Factor:   f.Value,
					Unit:     f.Unit,
				})
			}
			reply.Categories = append(reply.Categories, fc)
		}
	}
	return reply
}
