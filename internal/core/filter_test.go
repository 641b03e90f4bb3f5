package core

import (
	"errors"
	"slices"
	"testing"
)

func sampleRecords() []Record {
	return []Record{
		{FacilityType: "Aterro", Region: "SP", Quantities: Quantities{dec("10"), dec("1"), dec("0"), dec("0"), dec("2")}},
		{FacilityType: "Aterro", Region: "RJ", Quantities: Quantities{dec("7"), dec("0"), dec("3"), dec("0"), dec("0")}},
		{FacilityType: "Lixão", Region: "SP", Quantities: Quantities{dec("4"), dec("8"), dec("0"), dec("1"), dec("0")}},
		{FacilityType: "Triagem", Region: "MG", Quantities: Quantities{dec("0"), dec("0"), dec("0"), dec("0.5"), dec("6")}},
		{FacilityType: "Aterro", Region: "SP", Quantities: Quantities{dec("2.5"), dec("0"), dec("1"), dec("0"), dec("0")}},
	}
}

func TestFilterSpec_Validate(t *testing.T) {
	tests := []struct {
		name        string
		spec        FilterSpec
		wantMissing []Field
	}{
		{
			name: "both selected",
			spec: NewFilterSpec([]string{"Aterro"}, []string{"SP"}),
		},
		{
			name:        "no facility type",
			spec:        NewFilterSpec(nil, []string{"SP"}),
			wantMissing: []Field{FieldFacilityType},
		},
		{
			name:        "no region",
			spec:        NewFilterSpec([]string{"Aterro"}, []string{}),
			wantMissing: []Field{FieldRegion},
		},
		{
			name:        "blank values are not a selection",
			spec:        NewFilterSpec([]string{" ", ""}, []string{""}),
			wantMissing: []Field{FieldFacilityType, FieldRegion},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantMissing == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var sel *EmptySelectionError
			if !errors.As(err, &sel) {
				t.Fatalf("Validate() = %v, want *EmptySelectionError", err)
			}
			if !slices.Equal(sel.Missing, tt.wantMissing) {
				t.Errorf("Missing = %v, want %v", sel.Missing, tt.wantMissing)
			}
		})
	}
}

func TestApplyFilter_Precise(t *testing.T) {
	d := NewDataset(sampleRecords())
	spec := NewFilterSpec([]string{"Aterro", "Triagem"}, []string{"SP", "MG"})

	got := ApplyFilter(d, spec)

	// Every result matches both predicates.
	for _, r := range got {
		if !spec.Matches(r) {
			t.Errorf("record %v does not match spec", r)
		}
	}

	// Every matching record appears exactly once.
	want := 0
	for _, r := range d.Records() {
		if slices.Contains([]string{"Aterro", "Triagem"}, r.FacilityType) && slices.Contains([]string{"SP", "MG"}, r.Region) {
			want++
		}
	}
	if len(got) != want || want != 3 {
		t.Errorf("got %d records, want %d (3)", len(got), want)
	}
}

func TestApplyFilter_Idempotent(t *testing.T) {
	spec := NewFilterSpec([]string{"Aterro"}, []string{"SP", "RJ"})
	once := FilterRecords(sampleRecords(), spec)
	twice := FilterRecords(once, spec)

	if len(once) != len(twice) {
		t.Fatalf("re-filtering changed length: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].FacilityType != twice[i].FacilityType || once[i].Region != twice[i].Region ||
			!once[i].Quantities.Equal(twice[i].Quantities) {
			t.Errorf("record %d changed on re-filtering", i)
		}
	}
}

func TestApplyFilter_NoMatchIsEmpty(t *testing.T) {
	got := ApplyFilter(NewDataset(sampleRecords()), NewFilterSpec([]string{"Usina"}, []string{"AC"}))
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func TestApplyFilter_NilDataset(t *testing.T) {
	if got := ApplyFilter(nil, NewFilterSpec([]string{"A"}, []string{"SP"})); len(got) != 0 {
		t.Errorf("got %d records from nil dataset", len(got))
	}
}

func TestSelectAll(t *testing.T) {
	d := NewDataset(sampleRecords())
	spec := SelectAll(d)

	if err := spec.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := len(ApplyFilter(d, spec)); got != d.Len() {
		t.Errorf("SelectAll kept %d of %d records", got, d.Len())
	}
	if got := spec.SelectedRegions(); !slices.Equal(got, []string{"MG", "RJ", "SP"}) {
		t.Errorf("SelectedRegions = %v", got)
	}
}
