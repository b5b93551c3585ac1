package domain

// ComplianceStatus 合规等级
type ComplianceStatus string

const (
	StatusExcellent        ComplianceStatus = "excellent"
	StatusGood             ComplianceStatus = "good"
	StatusNeedsImprovement ComplianceStatus = "needs_improvement"
	StatusPoor             ComplianceStatus = "poor"
	StatusCritical         ComplianceStatus = "critical"
	// StatusUnrated 数据不足（行业未知或员工数为零），无法评级
	StatusUnrated ComplianceStatus = "unrated"
)

// ComplianceResult 合规评估结果，按需重算，不持久化
type ComplianceResult struct {
	Status            ComplianceStatus `json:"status"`
	Score             float64          `json:"score"` // 0-100
	PerformanceRatio  float64          `json:"performance_ratio"`
	ActualTonnes      float64          `json:"actual_tonnes"`
	ExpectedTonnes    float64          `json:"expected_tonnes"`
	CreditAmount      float64          `json:"credit_amount"` // 美元
	TaxAmount         float64          `json:"tax_amount"`    // 美元
	Recommendations   []string         `json:"recommendations"`
	PeriodMonths      int              `json:"period_months"`
	PeriodDescription string           `json:"period_description"`
	UnratedReason     string           `json:"unrated_reason,omitempty"`
}

// Scenario 减排情景模拟结果
type Scenario struct {
	ReductionPercent     float64          `json:"reduction_percent"`
	NewEmissionsTonnes   float64          `json:"new_emissions_tonnes"`
	NewStatus            ComplianceStatus `json:"new_status"`
	NewCreditAmount      float64          `json:"new_credit_amount"`
	NewTaxAmount         float64          `json:"new_tax_amount"`
	FinancialImprovement float64          `json:"financial_improvement"`
}
