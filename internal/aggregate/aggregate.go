// Package aggregate 在台账之上计算总量、维度分解与月度时间序列。
package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/greenledger/carbon_ledger/internal/domain"
)

// Aggregate 对过滤后的记录集做聚合。
// 求和走 decimal 十进制累加，避免大集合下的浮点累积误差；
// 各分组降序排列，月度序列升序且空月补零。
func Aggregate(entries []domain.EmissionEntry, f domain.Filter) *domain.AggregateResult {
	filtered := Filtered(entries, f)

	total := decimal.Zero
	byScope := map[string]decimal.Decimal{}
	byCategory := map[string]decimal.Decimal{}
	byUnit := map[string]decimal.Decimal{}
	byMonth := map[string]decimal.Decimal{}

	for _, e := range filtered {
		v := decimal.NewFromFloat(e.EmissionsKgCO2e)
		total = total.Add(v)
		byScope[string(e.Scope)] = byScope[string(e.Scope)].Add(v)
		byCategory[e.Category] = byCategory[e.Category].Add(v)
		byUnit[e.BusinessUnit] = byUnit[e.BusinessUnit].Add(v)
		byMonth[e.Month()] = byMonth[e.Month()].Add(v)
	}

	return &domain.AggregateResult{
		TotalKgCO2e:    total.InexactFloat64(),
		EntryCount:     len(filtered),
		ByScope:        sortedGroups(byScope),
		ByCategory:     sortedGroups(byCategory),
		ByBusinessUnit: sortedGroups(byUnit),
		Monthly:        monthlySeries(byMonth),
	}
}

// Filtered 按日期区间 / 范围 / 业务单元 / 设施过滤，零值条件跳过。
// 日期为 ISO-8601 字符串，区间比较直接用字典序。
func Filtered(entries []domain.EmissionEntry, f domain.Filter) []domain.EmissionEntry {
	out := make([]domain.EmissionEntry, 0, len(entries))
	for _, e := range entries {
		if f.StartDate != "" && e.Date < f.StartDate {
			continue
		}
		if f.EndDate != "" && e.Date > f.EndDate {
			continue
		}
		if f.Scope != "" && e.Scope != f.Scope {
			continue
		}
		if f.BusinessUnit != "" && e.BusinessUnit != f.BusinessUnit {
			continue
		}
		if f.Facility != "" && e.Facility != f.Facility {
			continue
		}
		out = append(out, e)
	}
	return out
}

// sortedGroups 将分组映射转为按排放量降序的切片，等值时按键名升序保证稳定
func sortedGroups(groups map[string]decimal.Decimal) []domain.GroupTotal {
	out := make([]domain.GroupTotal, 0, len(groups))
	for key, v := range groups {
		out = append(out, domain.GroupTotal{Key: key, EmissionsKgCO2e: v.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmissionsKgCO2e != out[j].EmissionsKgCO2e {
			return out[i].EmissionsKgCO2e > out[j].EmissionsKgCO2e
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// monthlySeries 生成按时间升序、无断月的序列，没有记录的月份补零，
// 这样前端图表不会出现跳档。
func monthlySeries(byMonth map[string]decimal.Decimal) []domain.MonthTotal {
	if len(byMonth) == 0 {
		return nil
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	first, err := time.Parse("2006-01", months[0])
	if err != nil {
		// 出现无法解析的月份桶时退化为仅输出有值的月份
		out := make([]domain.MonthTotal, 0, len(months))
		for _, m := range months {
			out = append(out, domain.MonthTotal{Month: m, EmissionsKgCO2e: byMonth[m].InexactFloat64()})
		}
		return out
	}
	last, err := time.Parse("2006-01", months[len(months)-1])
	if err != nil {
		last = first
	}

	var out []domain.MonthTotal
	for cur := first; !cur.After(last); cur = cur.AddDate(0, 1, 0) {
		key := cur.Format("2006-01")
		out = append(out, domain.MonthTotal{
			Month:           key,
			EmissionsKgCO2e: byMonth[key].InexactFloat64(),
		})
	}
	return out
}
