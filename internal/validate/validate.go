// Package validate 负责排放记录进入台账前的校验，一次性返回全部违规项。
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/greenledger/carbon_ledger/internal/domain"
	"github.com/greenledger/carbon_ledger/internal/factor"
)

// Candidate 待校验的原始表单 / CSV 行字段
type Candidate struct {
	Date               string  `json:"date"`
	BusinessUnit       string  `json:"business_unit"`
	Project            string  `json:"project"`
	Scope              string  `json:"scope"`
	Category           string  `json:"category"`
	Activity           string  `json:"activity"`
	Country            string  `json:"country"`
	Facility           string  `json:"facility"`
	ResponsiblePerson  string  `json:"responsible_person"`
	Quantity           float64 `json:"quantity"`
	Unit               string  `json:"unit"`
	EmissionFactor     float64 `json:"emission_factor"`
	DataQuality        string  `json:"data_quality"`
	VerificationStatus string  `json:"verification_status"`
	Notes              string  `json:"notes"`
}

// Violation 单条字段违规
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Violations 一次校验的全部违规项，实现 error 以便沿调用链传递
type Violations []Violation

func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for _, item := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", item.Field, item.Reason))
	}
	return strings.Join(parts, "; ")
}

// Validator 记录校验器，依赖排放因子表做单位匹配
type Validator struct {
	factors *factor.Table
}

// NewValidator 创建校验器
func NewValidator(factors *factor.Table) *Validator {
	return &Validator{factors: factors}
}

// Validate 校验候选记录。通过时返回带新 ID、派生排放量已重算的记录；
// 失败时返回全部违规项而不止第一条。
func (v *Validator) Validate(c Candidate) (domain.EmissionEntry, Violations) {
	var violations Violations

	if strings.TrimSpace(c.Date) == "" {
		violations = append(violations, Violation{"date", "required"})
	} else if _, err := time.Parse(time.DateOnly, c.Date); err != nil {
		violations = append(violations, Violation{"date", "must be an ISO-8601 date (YYYY-MM-DD)"})
	}

	scope := domain.Scope(strings.TrimSpace(c.Scope))
	if scope == "" {
		violations = append(violations, Violation{"scope", "required"})
	} else if !scope.Valid() {
		violations = append(violations, Violation{"scope", "must be one of Scope 1, Scope 2, Scope 3"})
	}

	if strings.TrimSpace(c.Category) == "" {
		violations = append(violations, Violation{"category", "required"})
	}
	if strings.TrimSpace(c.Activity) == "" {
		violations = append(violations, Violation{"activity", "required"})
	}

	if c.Quantity < 0 {
		violations = append(violations, Violation{"quantity", "must not be negative"})
	}
	if c.EmissionFactor < 0 {
		violations = append(violations, Violation{"emission_factor", "must not be negative"})
	}

	// 类别/活动在因子表中有收录时，单位必须与因子登记的单位一致；
	// 未收录的自由文本活动不做单位约束。
	if expected := v.factors.Unit(c.Category, c.Activity); expected != "" && c.Unit != expected {
		violations = append(violations, Violation{
			"unit",
			fmt.Sprintf("must be %q for activity %q", expected, c.Activity),
		})
	}

	quality := domain.DataQuality(c.DataQuality)
	if quality == "" {
		quality = domain.QualityMedium
	} else if !quality.Valid() {
		violations = append(violations, Violation{"data_quality", "must be one of Low, Medium, High"})
	}

	status := domain.VerificationStatus(c.VerificationStatus)
	if status == "" {
		status = domain.Unverified
	} else if !status.Valid() {
		violations = append(violations, Violation{"verification_status", "unknown verification status"})
	}

	if len(violations) > 0 {
		return domain.EmissionEntry{}, violations
	}

	entry := domain.EmissionEntry{
		ID:                 uuid.NewString(),
		Date:               c.Date,
		BusinessUnit:       c.BusinessUnit,
		Project:            c.Project,
		Scope:              scope,
		Category:           c.Category,
		Activity:           c.Activity,
		Country:            c.Country,
		Facility:           c.Facility,
		ResponsiblePerson:  c.ResponsiblePerson,
		Quantity:           c.Quantity,
		Unit:               c.Unit,
		EmissionFactor:     c.EmissionFactor,
		DataQuality:        quality,
		VerificationStatus: status,
		Notes:              c.Notes,
	}
	entry.Recompute()
	return entry, nil
}
