package core

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Export artifact constants.
const (
	ExportSheetName   = "Resumo por Unidade e UF"
	ExportFileName    = "resumo_fluxo_residuos.xlsx"
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ExportColumnWidth = 20
)

// exportGroupBy is the grouping written by Export.
var exportGroupBy = []Field{FieldFacilityType, FieldRegion}

// ExportArtifact is a complete spreadsheet ready for download.
type ExportArtifact struct {
	FileName    string
	ContentType string
	Data        []byte
	Rows        int // Data rows, excluding the header
}

// ExportHeader returns the header row written by Export.
func ExportHeader() []string {
	header := make([]string, 0, len(exportGroupBy)+NumCategories)
	for _, f := range exportGroupBy {
		header = append(header, f.Label())
	}
	for _, c := range Categories {
		header = append(header, c.Label())
	}
	return header
}

// Export summarizes records by facility type and region and serializes the
// result as a single-sheet spreadsheet. Empty input yields a header-only sheet.
func Export(records []Record) (*ExportArtifact, error) {
	summary, err := Summarize(records, exportGroupBy)
	if err != nil {
		return nil, &ExportError{Op: "summarize", Err: err}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheetName); err != nil {
		return nil, &ExportError{Op: "name sheet", Err: err}
	}

	header := ExportHeader()
	if err := f.SetSheetRow(ExportSheetName, "A1", &header); err != nil {
		return nil, &ExportError{Op: "write header", Err: err}
	}

	for i, g := range summary.Groups {
		row := i + 2
		for col, v := range g.Key {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, &ExportError{Op: "cell name", Err: err}
			}
			if err := f.SetCellStr(ExportSheetName, cell, v); err != nil {
				return nil, &ExportError{Op: "write cell " + cell, Err: err}
			}
		}
		for _, c := range Categories {
			cell, err := excelize.CoordinatesToCellName(len(g.Key)+int(c)+1, row)
			if err != nil {
				return nil, &ExportError{Op: "cell name", Err: err}
			}
			if err := f.SetCellDefault(ExportSheetName, cell, g.Quantities[c].String()); err != nil {
				return nil, &ExportError{Op: "write cell " + cell, Err: err}
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return nil, &ExportError{Op: "column name", Err: err}
	}
	if err := f.SetColWidth(ExportSheetName, "A", lastCol, ExportColumnWidth); err != nil {
		return nil, &ExportError{Op: "set column width", Err: err}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &ExportError{Op: "write workbook", Err: err}
	}

	return &ExportArtifact{
		FileName:    ExportFileName,
		ContentType: ExportContentType,
		Data:        buf.Bytes(),
		Rows:        summary.Len(),
	}, nil
}

// String describes the artifact for logs.
func (a *ExportArtifact) String() string {
	return fmt.Sprintf("%s (%d rows, %d bytes)", a.FileName, a.Rows, len(a.Data))
}
