package core

import "slices"

// Dataset is the immutable result of loading one uploaded file.
type Dataset struct {
	records       []Record
	facilityTypes []string
	regions       []string
}

// NewDataset builds a Dataset from records. The slice is copied.
func NewDataset(records []Record) *Dataset {
	d := &Dataset{records: slices.Clone(records)}

	seenTypes := make(map[string]bool)
	seenRegions := make(map[string]bool)
	for _, r := range d.records {
		if !seenTypes[r.FacilityType] {
			seenTypes[r.FacilityType] = true
			d.facilityTypes = append(d.facilityTypes, r.FacilityType)
		}
		if !seenRegions[r.Region] {
			seenRegions[r.Region] = true
			d.regions = append(d.regions, r.Region)
		}
	}

	return d
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns a copy of the records in load order.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	return slices.Clone(d.records)
}

// Head returns a copy of at most n records from the start of the dataset.
func (d *Dataset) Head(n int) []Record {
	if d == nil || n <= 0 {
		return nil
	}
	return slices.Clone(d.records[:min(n, len(d.records))])
}

// Options lists the distinct values available for selection, in first-seen order.
type Options struct {
	FacilityTypes []string `json:"facility_types"`
	Regions       []string `json:"regions"`
}

// Options returns the distinct facility types and regions of the dataset.
func (d *Dataset) Options() Options {
	if d == nil {
		return Options{}
	}
	return Options{
		FacilityTypes: slices.Clone(d.facilityTypes),
		Regions:       slices.Clone(d.regions),
	}
}
