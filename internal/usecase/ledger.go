// Package usecase 承载台账与合规评估的业务逻辑，面向仓库接口编程。
package usecase

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/greenledger/carbon_ledger/internal/aggregate"
	"github.com/greenledger/carbon_ledger/internal/csvio"
	"github.com/greenledger/carbon_ledger/internal/domain"
	"github.com/greenledger/carbon_ledger/internal/validate"
)

// LedgerRepo 台账仓库接口
type LedgerRepo interface {
	Append(entry domain.EmissionEntry) (string, error)
	LoadAll() []domain.EmissionEntry
	ReplaceAll(entries []domain.EmissionEntry) error
	Update(entry domain.EmissionEntry) error
	Delete(id string) error
}

// ImportSummary CSV 导入成功后的摘要
type ImportSummary struct {
	Imported int `json:"imported"`
}

// LedgerUseCase 台账业务逻辑
type LedgerUseCase struct {
	repo      LedgerRepo
	validator *validate.Validator
	log       *log.Helper
}

// NewLedgerUseCase 创建台账业务逻辑实例
func NewLedgerUseCase(repo LedgerRepo, validator *validate.Validator, logger log.Logger) *LedgerUseCase {
	return &LedgerUseCase{repo: repo, validator: validator, log: log.NewHelper(logger)}
}

// SubmitEntry 校验并写入一条记录。校验失败时返回 validate.Violations，
// 调用方可逐字段展示全部问题。
func (uc *LedgerUseCase) SubmitEntry(ctx context.Context, cand validate.Candidate) (domain.EmissionEntry, error) {
	entry, violations := uc.validator.Validate(cand)
	if len(violations) > 0 {
		return domain.EmissionEntry{}, violations
	}
	if _, err := uc.repo.Append(entry); err != nil {
		uc.log.Errorf("append entry failed: %v", err)
		return domain.EmissionEntry{}, err
	}
	return entry, nil
}

// ListEntries 返回全部记录，保持插入顺序
func (uc *LedgerUseCase) ListEntries(ctx context.Context) []domain.EmissionEntry {
	return uc.repo.LoadAll()
}

// UpdateEntry 显式编辑重存：新字段整体过校验后按原 ID 覆盖
func (uc *LedgerUseCase) UpdateEntry(ctx context.Context, id string, cand validate.Candidate) (domain.EmissionEntry, error) {
	entry, violations := uc.validator.Validate(cand)
	if len(violations) > 0 {
		return domain.EmissionEntry{}, violations
	}
	entry.ID = id
	if err := uc.repo.Update(entry); err != nil {
		return domain.EmissionEntry{}, err
	}
	return entry, nil
}

// DeleteEntry 按 ID 删除
func (uc *LedgerUseCase) DeleteEntry(ctx context.Context, id string) error {
	return uc.repo.Delete(id)
}

// GetAggregates 计算过滤集上的聚合结果
func (uc *LedgerUseCase) GetAggregates(ctx context.Context, f domain.Filter) *domain.AggregateResult {
	return aggregate.Aggregate(uc.repo.LoadAll(), f)
}

// ImportCSV 事务性批量导入：全部行通过校验才整体替换台账，
// 任何一行失败都返回 csvio.RowErrors 且台账原样不动。
func (uc *LedgerUseCase) ImportCSV(ctx context.Context, data []byte) (*ImportSummary, error) {
	entries, err := csvio.Import(data, uc.validator)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.ReplaceAll(entries); err != nil {
		uc.log.Errorf("replace ledger failed: %v", err)
		return nil, err
	}
	uc.log.Infof("imported %d entries from csv", len(entries))
	return &ImportSummary{Imported: len(entries)}, nil
}

// ExportCSV 导出台账为 CSV，可选按日期区间过滤
func (uc *LedgerUseCase) ExportCSV(ctx context.Context, f domain.Filter) ([]byte, error) {
	return csvio.Export(aggregate.Filtered(uc.repo.LoadAll(), f))
}
