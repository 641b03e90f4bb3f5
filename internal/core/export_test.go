package core

import (
	"bytes"
	"slices"
	"testing"

	"github.com/xuri/excelize/v2"
)

func openExport(t *testing.T, a *ExportArtifact) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(a.Data))
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestExport_Layout(t *testing.T) {
	a, err := Export(sampleRecords())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if a.FileName != "resumo_fluxo_residuos.xlsx" {
		t.Errorf("FileName = %q", a.FileName)
	}
	if a.ContentType != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("ContentType = %q", a.ContentType)
	}
	if a.Rows != 4 {
		t.Errorf("Rows = %d, want 4", a.Rows)
	}

	f := openExport(t, a)
	if sheets := f.GetSheetList(); !slices.Equal(sheets, []string{ExportSheetName}) {
		t.Fatalf("sheets = %v, want only %q", sheets, ExportSheetName)
	}

	rows, err := f.GetRows(ExportSheetName)
	if err != nil {
		t.Fatal(err)
	}
	wantHeader := []string{
		"Tipo de unidade, segundo o município informante", "UF",
		"Dom+Pub", "Entulho", "Podas", "Saúde", "Outros",
	}
	if !slices.Equal(rows[0], wantHeader) {
		t.Errorf("header = %v, want %v", rows[0], wantHeader)
	}
	if len(rows) != 5 {
		t.Errorf("rows = %d, want header + 4", len(rows))
	}

	for _, col := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		w, err := f.GetColWidth(ExportSheetName, col)
		if err != nil {
			t.Fatal(err)
		}
		if w != ExportColumnWidth {
			t.Errorf("column %s width = %v, want %d", col, w, ExportColumnWidth)
		}
	}

	cellType, err := f.GetCellType(ExportSheetName, "C2")
	if err != nil {
		t.Fatal(err)
	}
	if cellType == excelize.CellTypeSharedString || cellType == excelize.CellTypeInlineString {
		t.Errorf("quantity cell stored as text (%v)", cellType)
	}
}

func TestExport_RoundTrip(t *testing.T) {
	// Totals past float64 precision must survive the workbook unchanged.
	records := append(sampleRecords(), Record{
		FacilityType: "Usina", Region: "BA",
		Quantities: Quantities{dec("12345678901234.567"), dec("0.1"), dec("0.2"), dec("0"), dec("99999999999999.999")},
	})
	want, err := Summarize(records, []Field{FieldFacilityType, FieldRegion})
	if err != nil {
		t.Fatal(err)
	}

	a, err := Export(records)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	// The export uses the same headers the loader accepts.
	reloaded, err := Load(a.Data, FormatXLSX)
	if err != nil {
		t.Fatalf("reload export: %v", err)
	}
	got := reloaded.Records()
	if len(got) != want.Len() {
		t.Fatalf("reloaded %d rows, want %d", len(got), want.Len())
	}
	for i, g := range want.Groups {
		r := got[i]
		if r.FacilityType != g.Key[0] || r.Region != g.Key[1] {
			t.Errorf("row %d key = %q/%q, want %v", i, r.FacilityType, r.Region, g.Key)
		}
		if !r.Quantities.Equal(g.Quantities) {
			t.Errorf("row %d quantities = %v, want %v", i, r.Quantities, g.Quantities)
		}
	}

	rows, err := openExport(t, a).GetRows(ExportSheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatal(err)
	}
	last := rows[len(rows)-1]
	if last[0] != "Usina" || last[2] != "12345678901234.567" {
		t.Errorf("exact row = %v, want Usina with 12345678901234.567", last)
	}
}

func TestExport_EmptyIsHeaderOnly(t *testing.T) {
	a, err := Export(nil)
	if err != nil {
		t.Fatalf("Export(nil): %v", err)
	}
	if a.Rows != 0 {
		t.Errorf("Rows = %d, want 0", a.Rows)
	}

	rows, err := openExport(t, a).GetRows(ExportSheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want header only", len(rows))
	}
	if !slices.Equal(rows[0], ExportHeader()) {
		t.Errorf("header = %v", rows[0])
	}

	// A header-only export reloads as an empty dataset.
	d, err := Load(a.Data, FormatXLSX)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if d.Len() != 0 {
		t.Errorf("reloaded %d records, want 0", d.Len())
	}
}
