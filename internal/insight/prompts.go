package insight

import (
	"encoding/json"
	"fmt"
)

// systemPrompt 各指导类型的角色设定
func systemPrompt(kind Kind) string {
	switch kind {
	case KindClassification:
		return "You are an expert in carbon accounting who helps users correctly categorize emissions data into GHG Protocol scopes and categories."
	case KindSummary:
		return "You are a skilled analyst who turns raw emissions data into clear, concise summaries for non-technical stakeholders."
	case KindOffset:
		return "You are a sustainability expert who recommends high-quality, verified carbon offset projects."
	case KindRegulation:
		return "You are a regulatory expert who tracks carbon-related regulations such as EU CBAM, Japan GX League and Indonesia ETS/ETP."
	default:
		return "You are a carbon reduction specialist who analyzes emissions data to identify practical reduction opportunities."
	}
}

// buildPrompt 按指导类型组装用户提示词，聚合数据以 JSON 附在正文后
func buildPrompt(kind Kind, in PromptContext) (string, error) {
	var body string
	switch kind {
	case KindClassification:
		body = fmt.Sprintf(`Analyze the following activity and help classify it:
%s

1. Determine whether this is Scope 1, 2 or 3.
2. Suggest the most appropriate category.
3. Recommend an appropriate emission factor if possible.
4. Note anything that looks incomplete or inaccurate.`, in.Description)

	case KindSummary:
		body = `Write a short executive summary of the company's emissions below: key trends, areas of concern and opportunities for improvement. Keep it accessible to non-technical readers.`

	case KindOffset:
		body = `Based on the company profile and emissions below, suggest verified carbon offset options that fit the company's industry and location. Explain briefly why each option fits.`

	case KindRegulation:
		body = `Based on the company profile and emissions below, describe which upcoming carbon compliance requirements are likely to apply and how the company should prepare.`

	default: // KindReduction
		body = `Analyze the emissions breakdown below and propose practical, actionable reduction measures, prioritized by expected impact and cost.`
	}

	ctxJSON, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal prompt context: %w", err)
	}
	return fmt.Sprintf("%s\n\nContext (read-only JSON):\n%s", body, ctxJSON), nil
}
