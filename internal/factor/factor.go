// Package factor 提供静态排放因子表（基于 DEFRA/IPCC 数据集）及其查询接口。
package factor

import (
	"sort"

	"github.com/greenledger/carbon_ledger/internal/domain"
)

// Factor 某项活动的排放因子，单位为 kgCO2e / Unit
type Factor struct {
	Value float64
	Unit  string
}

// Table 排放因子表：category -> activity -> Factor
type Table struct {
	factors map[string]map[string]Factor
	scopes  map[domain.Scope][]string
}

// NewTable 返回内置的排放因子表
func NewTable() *Table {
	return &Table{factors: builtinFactors, scopes: scopeCategories}
}

// Lookup 查询某类别下某活动的排放因子，未收录时 ok 为 false
func (t *Table) Lookup(category, activity string) (Factor, bool) {
	acts, ok := t.factors[category]
	if !ok {
		return Factor{}, false
	}
	f, ok := acts[activity]
	return f, ok
}

// Unit 查询某活动对应的计量单位，未收录时返回空串
func (t *Table) Unit(category, activity string) string {
	f, ok := t.Lookup(category, activity)
	if !ok {
		return ""
	}
	return f.Unit
}

// Activities 返回某类别下的全部活动名，按字典序
func (t *Table) Activities(category string) []string {
	acts, ok := t.factors[category]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(acts))
	for name := range acts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Categories 返回某范围下的全部类别名
func (t *Table) Categories(scope domain.Scope) []string {
	return t.scopes[scope]
}

// builtinFactors 内置排放因子（kgCO2e / unit）
var builtinFactors = map[string]map[string]Factor{
	// Scope 1
	"Stationary Combustion": {
		"Natural Gas": {0.18316, "kWh"},
		"Diesel":      {2.68787, "liter"},
		"LPG":         {1.55537, "kg"},
		"Coal":        {2.42287, "kg"},
	},
	"Mobile Combustion": {
		"Petrol/Gasoline": {2.31495, "liter"},
		"Diesel":          {2.70553, "liter"},
		"LPG":             {1.55537, "liter"},
		"CNG":             {2.53721, "kg"},
	},
	"Refrigerants": {
		"R-410A": {2088.0, "kg"},
		"R-134a": {1430.0, "kg"},
		"R-404A": {3922.0, "kg"},
		"R-407C": {1774.0, "kg"},
	},
	// Scope 2
	"Electricity": {
		"India Grid":     {0.82, "kWh"},
		"Indonesia Grid": {0.87, "kWh"},
		"Japan Grid":     {0.47, "kWh"},
		"Solar Power":    {0.041, "kWh"},
		"Wind Power":     {0.011, "kWh"},
	},
	"Steam": {
		"Purchased Steam": {0.19, "kg"},
	},
	"District Cooling": {
		"District Cooling": {0.12, "kWh"},
	},
	// Scope 3
	"Business Travel": {
		"Short-haul Flight": {0.15298, "passenger-km"},
		"Long-haul Flight":  {0.19085, "passenger-km"},
		"Train":             {0.03694, "passenger-km"},
		"Bus":               {0.10471, "passenger-km"},
		"Taxi":              {0.14549, "km"},
	},
	"Employee Commuting": {
		"Car (Petrol/Gasoline)": {0.17336, "km"},
		"Car (Diesel)":          {0.16844, "km"},
		"Motorcycle":            {0.11501, "km"},
		"Bus":                   {0.10471, "passenger-km"},
		"Train/Metro":           {0.03694, "passenger-km"},
	},
	"Waste": {
		"Landfill":     {0.45727, "kg"},
		"Recycling":    {0.01042, "kg"},
		"Composting":   {0.01042, "kg"},
		"Incineration": {0.01613, "kg"},
	},
	"Water": {
		"Water Supply":    {0.344, "cubic meter"},
		"Water Treatment": {0.708, "cubic meter"},
	},
	"Purchased Goods & Services": {
		"Paper":   {0.919, "kg"},
		"Plastic": {3.14, "kg"},
		"Glass":   {0.85, "kg"},
		"Metal":   {1.37, "kg"},
		"Food":    {3.59, "kg"},
	},
}

// scopeCategories 各范围下的类别索引（含因子表暂未收录的类别）
var scopeCategories = map[domain.Scope][]string{
	domain.ScopeOne: {
		"Stationary Combustion",
		"Mobile Combustion",
		"Refrigerants",
		"Process Emissions",
		"Fugitive Emissions",
	},
	domain.ScopeTwo: {
		"Electricity",
		"Steam",
		"District Cooling",
		"District Heating",
	},
	domain.ScopeThree: {
		"Business Travel",
		"Employee Commuting",
		"Waste",
		"Water",
		"Purchased Goods & Services",
		"Capital Goods",
		"Fuel and Energy-Related Activities",
		"Upstream Transportation & Distribution",
		"Downstream Transportation & Distribution",
		"Use of Sold Products",
		"End-of-Life Treatment of Sold Products",
		"Leased Assets",
		"Franchises",
		"Investments",
	},
}
