package csvio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenledger/carbon_ledger/internal/domain"
	"github.com/greenledger/carbon_ledger/internal/factor"
	"github.com/greenledger/carbon_ledger/internal/validate"
)

func newValidator() *validate.Validator {
	return validate.NewValidator(factor.NewTable())
}

func sampleEntries(t *testing.T) []domain.EmissionEntry {
	t.Helper()
	v := newValidator()

	e1, violations := v.Validate(validate.Candidate{
		Date:           "2025-01-15",
		BusinessUnit:   "Plant A",
		Scope:          "Scope 2",
		Category:       "Electricity",
		Activity:       "India Grid",
		Quantity:       1200,
		Unit:           "kWh",
		EmissionFactor: 0.82,
		Notes:          "monthly meter reading",
	})
	require.Empty(t, violations)

	e2, violations := v.Validate(validate.Candidate{
		Date:           "2025-02-03",
		Scope:          "Scope 1",
		Category:       "Mobile Combustion",
		Activity:       "Diesel Vehicle",
		Quantity:       300,
		Unit:           "liters",
		EmissionFactor: 2.68,
	})
	require.Empty(t, violations)

	return []domain.EmissionEntry{e1, e2}
}

func TestExportImportRoundTrip(t *testing.T) {
	entries := sampleEntries(t)

	data, err := Export(entries)
	require.NoError(t, err)

	imported, err := Import(data, newValidator())
	require.NoError(t, err)
	require.Len(t, imported, len(entries))

	// 导入会重新生成 ID，其余字段逐一等价
	for i := range entries {
		got, want := imported[i], entries[i]
		assert.NotEmpty(t, got.ID)
		got.ID = want.ID
		assert.Equal(t, want, got)
	}
}

func TestExportHeader(t *testing.T) {
	data, err := Export(nil)
	require.NoError(t, err)

	line := strings.SplitN(strings.TrimSpace(string(data)), "\n", 2)[0]
	assert.Equal(t, strings.Join(header, ","), line)
}

func TestImportRejectsWholeBatchOnAnyBadRow(t *testing.T) {
	csv := strings.Join([]string{
		"date,scope,category,activity,quantity,unit,emission_factor",
		"2025-01-15,Scope 2,Electricity,India Grid,1200,kWh,0.82",
		"not-a-date,Scope 2,Electricity,India Grid,abc,kWh,0.82",
		"2025-03-01,Scope 9,Mobile Combustion,Diesel Vehicle,100,liters,2.68",
	}, "\n")

	entries, err := Import([]byte(csv), newValidator())
	assert.Nil(t, entries)

	var rowErrs RowErrors
	require.ErrorAs(t, err, &rowErrs)
	require.Len(t, rowErrs, 2)

	// 行号从 1 起算，表头为第 1 行
	assert.Equal(t, 3, rowErrs[0].Line)
	assert.Equal(t, 4, rowErrs[1].Line)

	fields := map[string]bool{}
	for _, v := range rowErrs[0].Errors {
		fields[v.Field] = true
	}
	assert.True(t, fields["date"])
	assert.True(t, fields["quantity"])
}

func TestImportMissingRequiredColumn(t *testing.T) {
	csv := "date,scope,category,activity,quantity,unit\n" +
		"2025-01-15,Scope 2,Electricity,India Grid,1200,kWh\n"

	_, err := Import([]byte(csv), newValidator())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "emission_factor")
}

func TestImportEmptyFile(t *testing.T) {
	_, err := Import(nil, newValidator())
	assert.Error(t, err)
}

func TestImportIgnoresUnknownColumnsAndComputesDerived(t *testing.T) {
	csv := strings.Join([]string{
		"date,scope,category,activity,quantity,unit,emission_factor,extra_col",
		"2025-01-15,Scope 2,Electricity,India Grid,1000,kWh,0.82,whatever",
	}, "\n")

	entries, err := Import([]byte(csv), newValidator())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.InDelta(t, 820.0, entries[0].EmissionsKgCO2e, 1e-9)
	assert.Equal(t, domain.QualityMedium, entries[0].DataQuality)
}

func TestRowErrorsErrorString(t *testing.T) {
	errs := RowErrors{{
		Line:   2,
		Errors: validate.Violations{{Field: "date", Reason: "must be YYYY-MM-DD"}},
	}}
	assert.Contains(t, errs.Error(), "line 2")
	assert.Contains(t, errs.Error(), "date")
}
