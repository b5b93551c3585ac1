package domain

// CompanyProfile 公司画像，每次合规评估时提供，不随台账持久化
type CompanyProfile struct {
	Name            string  `json:"name"`
	Industry        string  `json:"industry"`
	EmployeeCount   int     `json:"employee_count"`
	RevenueMillions float64 `json:"revenue_millions"`
	Location        string  `json:"location"`
}
