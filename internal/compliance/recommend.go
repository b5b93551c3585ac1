package compliance

import "github.com/greenledger/carbon_ledger/internal/domain"

const maxRecommendations = 8

// categoryAdvice 头部排放类别对应的针对性建议
var categoryAdvice = map[string]string{
	"Electricity":           "Switch to renewable electricity procurement or improve energy efficiency",
	"Mobile Combustion":     "Consider electric vehicles or optimize fleet usage",
	"Business Travel":       "Implement virtual meeting policies and sustainable travel guidelines",
	"Stationary Combustion": "Upgrade to more efficient heating systems or alternative fuels",
	"Refrigerants":          "Introduce leak detection and switch to low-GWP refrigerants",
	"Employee Commuting":    "Set up commuting programs such as shuttles, carpooling or cycling incentives",
}

// recommendations 生成确定性的规则建议：先按评级给出通用建议，
// 再针对排放占比最高的前三个类别追加专项建议，总数不超过 8 条。
// 相同输入必定产出相同列表，便于复现。
func recommendations(status domain.ComplianceStatus, byCategory []domain.GroupTotal) []string {
	var recs []string

	switch status {
	case domain.StatusExcellent, domain.StatusGood:
		recs = append(recs,
			"Excellent performance: consider sharing best practices with industry peers",
			"Explore additional renewable energy opportunities to maintain leadership",
			"Document carbon reduction strategies for sustainability reporting",
		)
	case domain.StatusNeedsImprovement:
		recs = append(recs,
			"Focus on energy efficiency improvements to reduce Scope 2 emissions",
			"Implement employee commuting programs to reduce Scope 3 emissions",
			"Set more aggressive reduction targets for the next assessment period",
		)
	default: // poor / critical
		recs = append(recs,
			"Immediate action required to avoid higher penalties",
			"Prioritize an energy audit and efficiency upgrades",
			"Consider renewable energy procurement to reduce emissions",
			"Engage employees in carbon reduction initiatives",
		)
	}

	top := 3
	if top > len(byCategory) {
		top = len(byCategory)
	}
	for _, group := range byCategory[:top] {
		if advice, ok := categoryAdvice[group.Key]; ok {
			recs = append(recs, advice)
		}
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
