// Package core provides the data pipeline for waste-management statistics.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Field identifies a categorical column a dataset can be grouped or filtered by.
type Field string

const (
	FieldFacilityType Field = "facility_type"
	FieldRegion       Field = "region"
)

// Category is one of the five waste quantity columns.
// The numeric order is the canonical order used for tie-breaking.
type Category int

const (
	DomesticPublic Category = iota
	Debris
	PruningWaste
	HealthWaste
	Other
)

// NumCategories is the number of quantity columns per record.
const NumCategories = 5

// Categories lists every category in canonical order.
var Categories = [NumCategories]Category{DomesticPublic, Debris, PruningWaste, HealthWaste, Other}

// ColumnSpec describes how one logical column appears in input and output files.
type ColumnSpec struct {
	Name  string // Canonical name: "domestic_public"
	Label string // Label used by the source spreadsheets: "Dom+Pub"
}

// Column specs, keyed by the logical field or category they describe.
var (
	facilityTypeColumn = ColumnSpec{Name: string(FieldFacilityType), Label: "Tipo de unidade, segundo o município informante"}
	regionColumn       = ColumnSpec{Name: string(FieldRegion), Label: "UF"}

	categoryColumns = [NumCategories]ColumnSpec{
		{Name: "domestic_public", Label: "Dom+Pub"},
		{Name: "debris", Label: "Entulho"},
		{Name: "pruning_waste", Label: "Podas"},
		{Name: "health_waste", Label: "Saúde"},
		{Name: "other", Label: "Outros"},
	}
)

// String returns the canonical name of the category.
func (c Category) String() string {
	if c < 0 || int(c) >= NumCategories {
		return "unknown"
	}
	return categoryColumns[c].Name
}

// Label returns the display label of the category as it appears in source files.
func (c Category) Label() string {
	if c < 0 || int(c) >= NumCategories {
		return ""
	}
	return categoryColumns[c].Label
}

// ParseCategory resolves a canonical name or source label to a Category.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(s, categoryColumns[c].Name) || strings.EqualFold(s, categoryColumns[c].Label) {
			return c, true
		}
	}
	return 0, false
}

// Label returns the source-file label of a categorical field.
func (f Field) Label() string {
	switch f {
	case FieldFacilityType:
		return facilityTypeColumn.Label
	case FieldRegion:
		return regionColumn.Label
	default:
		return string(f)
	}
}

// ParseField resolves a canonical name or source label to a Field.
func ParseField(s string) (Field, bool) {
	s = strings.TrimSpace(s)
	for _, spec := range []ColumnSpec{facilityTypeColumn, regionColumn} {
		if strings.EqualFold(s, spec.Name) || strings.EqualFold(s, spec.Label) {
			return Field(spec.Name), true
		}
	}
	return "", false
}

// Quantities holds one value per category, indexed by Category.
type Quantities [NumCategories]decimal.Decimal

// Get returns the quantity for a category.
func (q Quantities) Get(c Category) decimal.Decimal {
	return q[c]
}

// Add returns the element-wise sum of q and other.
func (q Quantities) Add(other Quantities) Quantities {
	var out Quantities
	for i := range q {
		out[i] = q[i].Add(other[i])
	}
	return out
}

// Sum returns the sum of all five quantities.
func (q Quantities) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range q {
		total = total.Add(v)
	}
	return total
}

// Predominant returns the category with the largest value.
// Ties resolve to the category that comes first in canonical order.
func (q Quantities) Predominant() Category {
	best := DomesticPublic
	for _, c := range Categories[1:] {
		if q[c].GreaterThan(q[best]) {
			best = c
		}
	}
	return best
}

// Equal reports whether every quantity in q equals the matching one in other.
func (q Quantities) Equal(other Quantities) bool {
	for i := range q {
		if !q[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Record is one row of the uploaded dataset.
type Record struct {
	FacilityType string
	Region       string
	Quantities   Quantities
}

// Value returns the value of a categorical field.
func (r Record) Value(f Field) string {
	switch f {
	case FieldFacilityType:
		return r.FacilityType
	case FieldRegion:
		return r.Region
	default:
		return ""
	}
}

// Totals is the sum of quantities over a record set.
type Totals = Quantities

// Format identifies the encoding of an uploaded file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Regions is the fixed enumeration of Brazilian federative units (UF).
var Regions = []string{
	"AC", "AL", "AM", "AP", "BA", "CE", "DF", "ES", "GO",
	"MA", "MG", "MS", "MT", "PA", "PB", "PE", "PI", "PR",
	"RJ", "RN", "RO", "RR", "RS", "SC", "SE", "SP", "TO",
}

// IsRegion reports whether s is one of the known federative units.
func IsRegion(s string) bool {
	for _, r := range Regions {
		if strings.EqualFold(r, s) {
			return true
		}
	}
	return false
}
