package core

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Group is one row of a GroupSummary.
type Group struct {
	Key        []string // One value per grouping field, in GroupBy order
	Quantities Quantities
	Records    int // Number of contributing records, always > 0
}

// Total returns the sum of the group's five quantities.
func (g Group) Total() decimal.Decimal {
	return g.Quantities.Sum()
}

// GroupSummary is the result of Summarize. It is not modified after creation.
type GroupSummary struct {
	GroupBy []Field
	Groups  []Group
}

// Len returns the number of groups.
func (s *GroupSummary) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Groups)
}

// Totals returns the sum of every group's quantities.
func (s *GroupSummary) Totals() Totals {
	var t Totals
	if s == nil {
		return t
	}
	for _, g := range s.Groups {
		t = t.Add(g.Quantities)
	}
	return t
}

// Lookup returns the group with the given key.
func (s *GroupSummary) Lookup(key ...string) (Group, bool) {
	if s == nil {
		return Group{}, false
	}
	for _, g := range s.Groups {
		if slices.Equal(g.Key, key) {
			return g, true
		}
	}
	return Group{}, false
}

// Summarize sums the five quantities of records for each observed
// combination of the groupBy fields. groupBy must name one or two distinct
// fields. Groups are sorted by key.
func Summarize(records []Record, groupBy []Field) (*GroupSummary, error) {
	if err := ValidateGroupBy(groupBy); err != nil {
		return nil, err
	}

	index := make(map[[2]string]int)
	var groups []Group

	for _, r := range records {
		var k [2]string
		for i, f := range groupBy {
			k[i] = r.Value(f)
		}

		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: slices.Clone(k[:len(groupBy)])})
		}
		groups[i].Quantities = groups[i].Quantities.Add(r.Quantities)
		groups[i].Records++
	}

	slices.SortFunc(groups, func(a, b Group) int {
		return slices.Compare(a.Key, b.Key)
	})

	return &GroupSummary{
		GroupBy: slices.Clone(groupBy),
		Groups:  groups,
	}, nil
}

// ValidateGroupBy checks that groupBy names one or two distinct categorical fields.
func ValidateGroupBy(groupBy []Field) error {
	if len(groupBy) < 1 || len(groupBy) > 2 {
		return fmt.Errorf("group by needs 1 or 2 fields, got %d", len(groupBy))
	}
	for i, f := range groupBy {
		if f != FieldFacilityType && f != FieldRegion {
			return fmt.Errorf("cannot group by %q", f)
		}
		if slices.Contains(groupBy[:i], f) {
			return fmt.Errorf("duplicate group by field %q", f)
		}
	}
	return nil
}

// SumTotals returns the per-category sums over records.
func SumTotals(records []Record) Totals {
	var t Totals
	for _, r := range records {
		t = t.Add(r.Quantities)
	}
	return t
}
