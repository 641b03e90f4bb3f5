package core

import (
	"slices"
	"strings"
)

// FilterSpec selects records by facility type and region membership.
type FilterSpec struct {
	FacilityTypes map[string]struct{}
	Regions       map[string]struct{}
}

// NewFilterSpec builds a FilterSpec from selected values.
// Values are trimmed and blanks are dropped.
func NewFilterSpec(facilityTypes, regions []string) FilterSpec {
	return FilterSpec{
		FacilityTypes: toSet(facilityTypes),
		Regions:       toSet(regions),
	}
}

// SelectAll returns a FilterSpec selecting every option of the dataset.
func SelectAll(d *Dataset) FilterSpec {
	opts := d.Options()
	return NewFilterSpec(opts.FacilityTypes, opts.Regions)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

// Validate returns an *EmptySelectionError when either selection is empty.
func (s FilterSpec) Validate() error {
	var missing []Field
	if len(s.FacilityTypes) == 0 {
		missing = append(missing, FieldFacilityType)
	}
	if len(s.Regions) == 0 {
		missing = append(missing, FieldRegion)
	}
	if len(missing) > 0 {
		return &EmptySelectionError{Missing: missing}
	}
	return nil
}

// Matches reports whether a record satisfies both membership predicates.
func (s FilterSpec) Matches(r Record) bool {
	if _, ok := s.FacilityTypes[r.FacilityType]; !ok {
		return false
	}
	_, ok := s.Regions[r.Region]
	return ok
}

// SelectedFacilityTypes returns the selected facility types, sorted.
func (s FilterSpec) SelectedFacilityTypes() []string {
	return sortedKeys(s.FacilityTypes)
}

// SelectedRegions returns the selected regions, sorted.
func (s FilterSpec) SelectedRegions() []string {
	return sortedKeys(s.Regions)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ApplyFilter returns the records of d matching spec, in load order.
// An empty result is valid.
func ApplyFilter(d *Dataset, spec FilterSpec) []Record {
	if d == nil {
		return nil
	}
	return FilterRecords(d.records, spec)
}

// FilterRecords returns the records matching spec, in input order.
func FilterRecords(records []Record, spec FilterSpec) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if spec.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
