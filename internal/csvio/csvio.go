// Package csvio 负责台账的 CSV 导入导出。
// 导入是事务性的：任何一行校验失败则整批拒绝并报告所有失败行。
package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/greenledger/carbon_ledger/internal/domain"
	"github.com/greenledger/carbon_ledger/internal/validate"
)

// header CSV 列顺序，与持久化 JSON 的字段名一致（snake_case）
var header = []string{
	"date", "business_unit", "project", "scope", "category", "activity",
	"country", "facility", "responsible_person", "quantity", "unit",
	"emission_factor", "emissions_kgCO2e", "data_quality",
	"verification_status", "notes",
}

// requiredColumns 导入文件表头必须包含的列
var requiredColumns = []string{
	"date", "scope", "category", "activity", "quantity", "unit", "emission_factor",
}

// RowError 某一行的全部违规，Line 是文件内 1 起算的行号（表头为第 1 行）
type RowError struct {
	Line   int                 `json:"line"`
	Errors validate.Violations `json:"errors"`
}

// RowErrors 整个导入的失败行集合，任何一行失败都会使导入整体被拒
type RowErrors []RowError

func (r RowErrors) Error() string {
	parts := make([]string, 0, len(r))
	for _, row := range r {
		parts = append(parts, fmt.Sprintf("line %d: %s", row.Line, row.Errors.Error()))
	}
	return strings.Join(parts, " | ")
}

// Export 把记录集写成 CSV 字节串，一行一条记录，带表头
func Export(entries []domain.EmissionEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range entries {
		record := []string{
			e.Date, e.BusinessUnit, e.Project, string(e.Scope), e.Category,
			e.Activity, e.Country, e.Facility, e.ResponsiblePerson,
			formatFloat(e.Quantity), e.Unit, formatFloat(e.EmissionFactor),
			formatFloat(e.EmissionsKgCO2e), string(e.DataQuality),
			string(e.VerificationStatus), e.Notes,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Import 解析并校验整个 CSV。全部行通过才返回记录集；
// 否则返回每个失败行及其行号，调用方不得提交任何一行。
func Import(data []byte, validator *validate.Validator) ([]domain.EmissionEntry, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	head, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	col := map[string]int{}
	for i, name := range head {
		col[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv missing required columns: %s", strings.Join(missing, ", "))
	}

	var (
		entries []domain.EmissionEntry
		rowErrs RowErrors
		lineNum = 1 // 表头占第 1 行
	)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		lineNum++
		if err != nil {
			rowErrs = append(rowErrs, RowError{
				Line:   lineNum,
				Errors: validate.Violations{{Field: "row", Reason: err.Error()}},
			})
			continue
		}

		cand, violations := parseRow(record, col)
		if len(violations) == 0 {
			var entry domain.EmissionEntry
			entry, violations = validator.Validate(cand)
			if len(violations) == 0 {
				entries = append(entries, entry)
				continue
			}
		}
		rowErrs = append(rowErrs, RowError{Line: lineNum, Errors: violations})
	}

	if len(rowErrs) > 0 {
		return nil, rowErrs
	}
	return entries, nil
}

// parseRow 把一行 CSV 解析成候选记录，数值列解析失败算作该行的违规
func parseRow(record []string, col map[string]int) (validate.Candidate, validate.Violations) {
	var violations validate.Violations

	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	getFloat := func(name string) float64 {
		raw := get(name)
		if raw == "" {
			violations = append(violations, validate.Violation{Field: name, Reason: "required"})
			return 0
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			violations = append(violations, validate.Violation{Field: name, Reason: "must be a number"})
			return 0
		}
		return v
	}

	cand := validate.Candidate{
		Date:               get("date"),
		BusinessUnit:       get("business_unit"),
		Project:            get("project"),
		Scope:              get("scope"),
		Category:           get("category"),
		Activity:           get("activity"),
		Country:            get("country"),
		Facility:           get("facility"),
		ResponsiblePerson:  get("responsible_person"),
		Quantity:           getFloat("quantity"),
		Unit:               get("unit"),
		EmissionFactor:     getFloat("emission_factor"),
		DataQuality:        get("data_quality"),
		VerificationStatus: get("verification_status"),
		Notes:              get("notes"),
	}
	return cand, violations
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
