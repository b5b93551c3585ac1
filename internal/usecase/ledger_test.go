package usecase

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenledger/carbon_ledger/internal/csvio"
	"github.com/greenledger/carbon_ledger/internal/domain"
	"github.com/greenledger/carbon_ledger/internal/factor"
	"github.com/greenledger/carbon_ledger/internal/store"
	"github.com/greenledger/carbon_ledger/internal/validate"
)

func newLedgerUseCase(t *testing.T) *LedgerUseCase {
	t.Helper()
	ledger, err := store.OpenLedger(filepath.Join(t.TempDir(), "emissions.json"), log.DefaultLogger)
	require.NoError(t, err)
	validator := validate.NewValidator(factor.NewTable())
	return NewLedgerUseCase(ledger, validator, log.DefaultLogger)
}

func electricityCandidate(date string, kwh float64) validate.Candidate {
	return validate.Candidate{
		Date:           date,
		Scope:          "Scope 2",
		Category:       "Electricity",
		Activity:       "India Grid",
		Quantity:       kwh,
		Unit:           "kWh",
		EmissionFactor: 0.82,
	}
}

func TestSubmitEntry(t *testing.T) {
	uc := newLedgerUseCase(t)
	ctx := context.Background()

	entry, err := uc.SubmitEntry(ctx, electricityCandidate("2025-01-15", 1000))
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.InDelta(t, 820.0, entry.EmissionsKgCO2e, 1e-9)

	entries := uc.ListEntries(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
}

func TestSubmitEntryReturnsAllViolations(t *testing.T) {
	uc := newLedgerUseCase(t)

	_, err := uc.SubmitEntry(context.Background(), validate.Candidate{
		Date:     "bogus",
		Scope:    "Scope 7",
		Quantity: -1,
	})

	var violations validate.Violations
	require.ErrorAs(t, err, &violations)
	assert.GreaterOrEqual(t, len(violations), 4)

	// 校验失败不得写入台账
	assert.Empty(t, uc.ListEntries(context.Background()))
}

func TestUpdateEntryKeepsID(t *testing.T) {
	uc := newLedgerUseCase(t)
	ctx := context.Background()

	entry, err := uc.SubmitEntry(ctx, electricityCandidate("2025-01-15", 1000))
	require.NoError(t, err)

	updated, err := uc.UpdateEntry(ctx, entry.ID, electricityCandidate("2025-01-16", 2000))
	require.NoError(t, err)
	assert.Equal(t, entry.ID, updated.ID)
	assert.InDelta(t, 1640.0, updated.EmissionsKgCO2e, 1e-9)

	entries := uc.ListEntries(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, "2025-01-16", entries[0].Date)
}

func TestDeleteEntry(t *testing.T) {
	uc := newLedgerUseCase(t)
	ctx := context.Background()

	entry, err := uc.SubmitEntry(ctx, electricityCandidate("2025-01-15", 1000))
	require.NoError(t, err)

	require.NoError(t, uc.DeleteEntry(ctx, entry.ID))
	assert.Empty(t, uc.ListEntries(ctx))
	assert.Error(t, uc.DeleteEntry(ctx, "missing"))
}

func TestGetAggregates(t *testing.T) {
	uc := newLedgerUseCase(t)
	ctx := context.Background()

	_, err := uc.SubmitEntry(ctx, electricityCandidate("2025-01-15", 1000))
	require.NoError(t, err)
	_, err = uc.SubmitEntry(ctx, electricityCandidate("2025-02-15", 500))
	require.NoError(t, err)

	result := uc.GetAggregates(ctx, domain.Filter{})
	assert.Equal(t, 2, result.EntryCount)
	assert.InDelta(t, 1230.0, result.TotalKgCO2e, 1e-9)

	january := uc.GetAggregates(ctx, domain.Filter{EndDate: "2025-01-31"})
	assert.Equal(t, 1, january.EntryCount)
}

func TestImportCSVReplacesLedger(t *testing.T) {
	uc := newLedgerUseCase(t)
	ctx := context.Background()

	_, err := uc.SubmitEntry(ctx, electricityCandidate("2024-12-01", 999))
	require.NoError(t, err)

	csv := strings.Join([]string{
		"date,scope,category,activity,quantity,unit,emission_factor",
		"2025-01-15,Scope 2,Electricity,India Grid,1000,kWh,0.82",
		"2025-02-15,Scope 2,Electricity,India Grid,500,kWh,0.82",
	}, "\n")

	summary, err := uc.ImportCSV(ctx, []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)

	// 批量导入是整体替换，旧记录不保留
	entries := uc.ListEntries(ctx)
	require.Len(t, entries, 2)
	assert.Equal(t, "2025-01-15", entries[0].Date)
}

func TestImportCSVFailureLeavesLedgerUntouched(t *testing.T) {
	uc := newLedgerUseCase(t)
	ctx := context.Background()

	existing, err := uc.SubmitEntry(ctx, electricityCandidate("2024-12-01", 999))
	require.NoError(t, err)

	csv := strings.Join([]string{
		"date,scope,category,activity,quantity,unit,emission_factor",
		"2025-01-15,Scope 2,Electricity,India Grid,1000,kWh,0.82",
		"2025-02-15,Scope 2,Electricity,India Grid,oops,kWh,0.82",
	}, "\n")

	_, err = uc.ImportCSV(ctx, []byte(csv))

	var rowErrs csvio.RowErrors
	require.ErrorAs(t, err, &rowErrs)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, 3, rowErrs[0].Line)

	// 任何一行失败都不提交，台账原样不动
	entries := uc.ListEntries(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, existing.ID, entries[0].ID)
}

func TestExportCSVWithDateFilter(t *testing.T) {
	uc := newLedgerUseCase(t)
	ctx := context.Background()

	_, err := uc.SubmitEntry(ctx, electricityCandidate("2025-01-15", 1000))
	require.NoError(t, err)
	_, err = uc.SubmitEntry(ctx, electricityCandidate("2025-06-15", 500))
	require.NoError(t, err)

	data, err := uc.ExportCSV(ctx, domain.Filter{StartDate: "2025-06-01"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2) // 表头 + 一条记录
	assert.Contains(t, lines[1], "2025-06-15")
}
