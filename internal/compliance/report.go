package compliance

import (
	"fmt"
	"strings"
	"time"

	"github.com/greenledger/carbon_ledger/internal/domain"
)

// Report 把评估结果渲染成 Markdown 文本报告
func Report(result *domain.ComplianceResult, profile domain.CompanyProfile) string {
	var sb strings.Builder

	sb.WriteString("# Carbon Compliance Assessment Report\n\n")
	sb.WriteString("## Company Information\n")
	fmt.Fprintf(&sb, "- **Company**: %s\n", orNA(profile.Name))
	fmt.Fprintf(&sb, "- **Industry**: %s\n", orNA(profile.Industry))
	fmt.Fprintf(&sb, "- **Assessment Date**: %s\n\n", time.Now().Format(time.DateOnly))

	if result.Status == domain.StatusUnrated {
		sb.WriteString("## Compliance Results\n")
		sb.WriteString("- **Status**: Unrated (insufficient data)\n")
		fmt.Fprintf(&sb, "- **Reason**: %s\n", result.UnratedReason)
		return sb.String()
	}

	sb.WriteString("## Compliance Results\n")
	fmt.Fprintf(&sb, "- **Status**: %s\n", statusTitle(result.Status))
	fmt.Fprintf(&sb, "- **Score**: %.1f / 100\n", result.Score)
	fmt.Fprintf(&sb, "- **Performance Ratio**: %.2f (vs industry benchmark)\n", result.PerformanceRatio)
	fmt.Fprintf(&sb, "- **%s**\n\n", result.PeriodDescription)

	sb.WriteString("## Emissions Summary\n")
	fmt.Fprintf(&sb, "- **Actual Emissions**: %.2f tonnes CO2e\n", result.ActualTonnes)
	fmt.Fprintf(&sb, "- **Benchmark Emissions**: %.2f tonnes CO2e\n", result.ExpectedTonnes)
	fmt.Fprintf(&sb, "- **Difference**: %+.2f tonnes CO2e\n\n", result.ActualTonnes-result.ExpectedTonnes)

	sb.WriteString("## Financial Impact\n")
	switch {
	case result.CreditAmount > 0:
		fmt.Fprintf(&sb, "- **Carbon Credits Earned**: $%.2f\n", result.CreditAmount)
		sb.WriteString("- **Status**: Eligible for carbon offset revenue\n")
	case result.TaxAmount > 0:
		fmt.Fprintf(&sb, "- **Carbon Tax Due**: $%.2f\n", result.TaxAmount)
		sb.WriteString("- **Status**: Subject to carbon penalty\n")
	default:
		sb.WriteString("- **Financial Impact**: No penalty or credit\n")
		sb.WriteString("- **Status**: Meets minimum compliance standards\n")
	}

	sb.WriteString("\n## Recommendations\n")
	for i, rec := range result.Recommendations {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, rec)
	}
	return sb.String()
}

func statusTitle(status domain.ComplianceStatus) string {
	words := strings.Split(strings.ReplaceAll(string(status), "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
