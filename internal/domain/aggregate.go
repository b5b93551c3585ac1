package domain

// Filter 聚合查询的可选过滤条件，零值字段表示不过滤
type Filter struct {
	StartDate    string `json:"start_date"` // 含当日
	EndDate      string `json:"end_date"`   // 含当日
	Scope        Scope  `json:"scope"`
	BusinessUnit string `json:"business_unit"`
	Facility     string `json:"facility"`
}

// GroupTotal 某一维度分组的排放小计
type GroupTotal struct {
	Key             string  `json:"key"`
	EmissionsKgCO2e float64 `json:"emissions_kgCO2e"`
}

// MonthTotal 某一月份桶的排放小计
type MonthTotal struct {
	Month           string  `json:"month"` // 形如 "2025-01"
	EmissionsKgCO2e float64 `json:"emissions_kgCO2e"`
}

// AggregateResult 聚合引擎的输出。
// 各分组按排放量降序排列；月度序列按时间升序，空月补零。
type AggregateResult struct {
	TotalKgCO2e    float64      `json:"total_kgCO2e"`
	EntryCount     int          `json:"entry_count"`
	ByScope        []GroupTotal `json:"by_scope"`
	ByCategory     []GroupTotal `json:"by_category"`
	ByBusinessUnit []GroupTotal `json:"by_business_unit"`
	Monthly        []MonthTotal `json:"monthly"`
}

// TopCategories 返回排放量最高的前 n 个类别名
func (r *AggregateResult) TopCategories(n int) []string {
	if n > len(r.ByCategory) {
		n = len(r.ByCategory)
	}
	keys := make([]string, 0, n)
	for _, g := range r.ByCategory[:n] {
		keys = append(keys, g.Key)
	}
	return keys
}
