package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenledger/carbon_ledger/internal/domain"
	"github.com/greenledger/carbon_ledger/internal/factor"
)

func validCandidate() Candidate {
	return Candidate{
		Date:           "2025-01-15",
		BusinessUnit:   "Plant A",
		Scope:          "Scope 2",
		Category:       "Electricity",
		Activity:       "India Grid",
		Quantity:       1000,
		Unit:           "kWh",
		EmissionFactor: 0.82,
	}
}

func TestValidateSuccess(t *testing.T) {
	v := NewValidator(factor.NewTable())

	entry, violations := v.Validate(validCandidate())
	require.Empty(t, violations)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, domain.ScopeTwo, entry.Scope)
	// 派生字段等于 quantity * emission_factor
	assert.InDelta(t, 820.0, entry.EmissionsKgCO2e, 1e-9)
	// 省略的枚举字段取默认值
	assert.Equal(t, domain.QualityMedium, entry.DataQuality)
	assert.Equal(t, domain.Unverified, entry.VerificationStatus)
}

func TestValidateReturnsAllViolations(t *testing.T) {
	v := NewValidator(factor.NewTable())

	cand := Candidate{
		Quantity:       -5,
		EmissionFactor: -1,
	}
	_, violations := v.Validate(cand)

	fields := map[string]bool{}
	for _, item := range violations {
		fields[item.Field] = true
	}
	// 一次返回全部违规而不止第一条
	assert.True(t, fields["date"])
	assert.True(t, fields["scope"])
	assert.True(t, fields["category"])
	assert.True(t, fields["activity"])
	assert.True(t, fields["quantity"])
	assert.True(t, fields["emission_factor"])
	assert.GreaterOrEqual(t, len(violations), 6)
}

func TestValidateRejectsNegativeQuantity(t *testing.T) {
	v := NewValidator(factor.NewTable())

	cand := validCandidate()
	cand.Quantity = -0.1
	_, violations := v.Validate(cand)
	require.Len(t, violations, 1)
	assert.Equal(t, "quantity", violations[0].Field)
}

func TestValidateRejectsInvalidScope(t *testing.T) {
	v := NewValidator(factor.NewTable())

	cand := validCandidate()
	cand.Scope = "Scope 4"
	_, violations := v.Validate(cand)
	require.Len(t, violations, 1)
	assert.Equal(t, "scope", violations[0].Field)
}

func TestValidateRejectsBadDate(t *testing.T) {
	v := NewValidator(factor.NewTable())

	cand := validCandidate()
	cand.Date = "15/01/2025"
	_, violations := v.Validate(cand)
	require.Len(t, violations, 1)
	assert.Equal(t, "date", violations[0].Field)
}

func TestValidateUnitMustMatchFactorTable(t *testing.T) {
	v := NewValidator(factor.NewTable())

	cand := validCandidate()
	cand.Unit = "MWh" // India Grid 登记单位是 kWh
	_, violations := v.Validate(cand)
	require.Len(t, violations, 1)
	assert.Equal(t, "unit", violations[0].Field)
}

func TestValidateFreeTextActivitySkipsUnitCheck(t *testing.T) {
	v := NewValidator(factor.NewTable())

	cand := validCandidate()
	cand.Category = "Process Emissions"
	cand.Activity = "Chemical Production"
	cand.Unit = "tonne"
	_, violations := v.Validate(cand)
	assert.Empty(t, violations)
}

func TestValidateRejectsUnknownEnums(t *testing.T) {
	v := NewValidator(factor.NewTable())

	cand := validCandidate()
	cand.DataQuality = "Superb"
	cand.VerificationStatus = "Notarized"
	_, violations := v.Validate(cand)
	require.Len(t, violations, 2)
}

func TestViolationsError(t *testing.T) {
	violations := Violations{
		{Field: "quantity", Reason: "must not be negative"},
		{Field: "scope", Reason: "required"},
	}
	assert.Equal(t, "quantity: must not be negative; scope: required", violations.Error())
}

func TestDerivedEmissionsInvariant(t *testing.T) {
	v := NewValidator(factor.NewTable())

	cases := []struct{ quantity, factor float64 }{
		{0, 0},
		{1, 0.18316},
		{1000, 0.82},
		{123456.789, 2.70553},
	}
	for _, tc := range cases {
		cand := validCandidate()
		cand.Category = "Fugitive Emissions"
		cand.Activity = "Custom"
		cand.Quantity = tc.quantity
		cand.EmissionFactor = tc.factor

		entry, violations := v.Validate(cand)
		require.Empty(t, violations)
		assert.InDelta(t, tc.quantity*tc.factor, entry.EmissionsKgCO2e, 1e-9)
	}
}
