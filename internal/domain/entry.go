package domain

import "time"

// Scope 温室气体核算范围
type Scope string

const (
	ScopeOne   Scope = "Scope 1" // 直接排放
	ScopeTwo   Scope = "Scope 2" // 外购能源间接排放
	ScopeThree Scope = "Scope 3" // 价值链其他间接排放
)

// Valid 判断是否为合法的 Scope 取值
func (s Scope) Valid() bool {
	switch s {
	case ScopeOne, ScopeTwo, ScopeThree:
		return true
	}
	return false
}

// DataQuality 数据质量等级
type DataQuality string

const (
	QualityLow    DataQuality = "Low"
	QualityMedium DataQuality = "Medium"
	QualityHigh   DataQuality = "High"
)

// Valid 判断是否为合法的数据质量取值
func (q DataQuality) Valid() bool {
	switch q {
	case QualityLow, QualityMedium, QualityHigh:
		return true
	}
	return false
}

// VerificationStatus 核验状态
type VerificationStatus string

const (
	Unverified         VerificationStatus = "Unverified"
	InternallyVerified VerificationStatus = "Internally Verified"
	ThirdPartyVerified VerificationStatus = "Third-Party Verified"
)

// Valid 判断是否为合法的核验状态取值
func (v VerificationStatus) Valid() bool {
	switch v {
	case Unverified, InternallyVerified, ThirdPartyVerified:
		return true
	}
	return false
}

// EmissionEntry 一条排放活动记录。
// EmissionsKgCO2e 是派生字段，恒等于 Quantity * EmissionFactor，
// 任何读写路径都必须通过 Recompute 重算，不允许单独编辑。
type EmissionEntry struct {
	ID                 string             `json:"id"`
	Date               string             `json:"date"` // ISO-8601 日期，如 2025-01-31
	BusinessUnit       string             `json:"business_unit"`
	Project            string             `json:"project"`
	Scope              Scope              `json:"scope"`
	Category           string             `json:"category"`
	Activity           string             `json:"activity"`
	Country            string             `json:"country"`
	Facility           string             `json:"facility"`
	ResponsiblePerson  string             `json:"responsible_person"`
	Quantity           float64            `json:"quantity"`
	Unit               string             `json:"unit"`
	EmissionFactor     float64            `json:"emission_factor"`
	EmissionsKgCO2e    float64            `json:"emissions_kgCO2e"`
	DataQuality        DataQuality        `json:"data_quality"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	Notes              string             `json:"notes"`
}

// Recompute 重算派生的排放量字段
func (e *EmissionEntry) Recompute() {
	e.EmissionsKgCO2e = e.Quantity * e.EmissionFactor
}

// ParseDate 解析记录日期
func (e *EmissionEntry) ParseDate() (time.Time, error) {
	return time.Parse(time.DateOnly, e.Date)
}

// Month 返回记录所属的月份桶，如 "2025-01"
func (e *EmissionEntry) Month() string {
	if len(e.Date) >= 7 {
		return e.Date[:7]
	}
	return e.Date
}
