package core

// load.go parses uploaded files into a Dataset.
//
// Both supported formats share one logical schema: a header row followed by
// data rows. The header may be preceded by a few title rows, so it is
// searched for within the first MaxHeaderSearchRows rows. Columns are
// matched case-insensitively by canonical name or by source label, and
// extra columns are ignored. Rows without a facility type or region, such
// as subtotal lines, are skipped.
//
// Loading is all-or-nothing: the first bad row fails the whole file.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MaxHeaderSearchRows is how many leading rows are scanned for the header.
const MaxHeaderSearchRows = 10

// LoadOptions tunes validation performed while loading.
type LoadOptions struct {
	// StrictRegions rejects regions outside the UF enumeration.
	StrictRegions bool
}

// DetectFormat returns the format implied by a file name's extension.
func DetectFormat(fileName string) (Format, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", &ParseError{Reason: fmt.Sprintf("unsupported file type %q (expected .xlsx or .csv)", filepath.Ext(fileName))}
	}
}

// Load parses data in the given format with default options.
func Load(data []byte, format Format) (*Dataset, error) {
	return LoadWithOptions(data, format, LoadOptions{})
}

// LoadWithOptions parses data in the given format into a Dataset.
// Any structural or value problem returns a *ParseError.
func LoadWithOptions(data []byte, format Format, opts LoadOptions) (*Dataset, error) {
	if len(data) == 0 {
		return nil, &ParseError{Reason: "empty file", Err: ErrEmptyFile}
	}

	rows, err := readRows(data, format)
	if err != nil {
		return nil, err
	}

	return parseRows(rows, opts)
}

// readRows decodes the raw cell grid of a file.
func readRows(data []byte, format Format) ([][]string, error) {
	switch format {
	case FormatCSV:
		return readCSV(data)
	case FormatXLSX:
		return readXLSX(data)
	default:
		return nil, &ParseError{Reason: fmt.Sprintf("unsupported format %q", format)}
	}
}

func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(NormalizeText(data)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			return nil, &ParseError{Line: csvErr.Line, Reason: "invalid csv", Err: err}
		}
		return nil, &ParseError{Reason: "invalid csv", Err: err}
	}
	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Reason: "invalid spreadsheet", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Reason: "spreadsheet has no sheets"}
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Reason: "invalid spreadsheet", Err: err}
	}
	return rows, nil
}

// columnPositions holds the row index of every required column.
type columnPositions struct {
	facilityType int
	region       int
	categories   [NumCategories]int
}

// locateColumns resolves every required column in a header index.
// Returns the labels of columns that could not be found.
func locateColumns(idx HeaderIndex) (columnPositions, []string) {
	var pos columnPositions
	var missing []string

	var ok bool
	if pos.facilityType, ok = idx.Lookup(facilityTypeColumn); !ok {
		missing = append(missing, facilityTypeColumn.Label)
	}
	if pos.region, ok = idx.Lookup(regionColumn); !ok {
		missing = append(missing, regionColumn.Label)
	}
	for _, c := range Categories {
		if pos.categories[c], ok = idx.Lookup(categoryColumns[c]); !ok {
			missing = append(missing, categoryColumns[c].Label)
		}
	}

	return pos, missing
}

// findHeader returns the index of the first row containing every required
// column, or -1 with the columns missing from the first non-empty row.
func findHeader(rows [][]string) (int, columnPositions, []string) {
	var firstMissing []string

	for i := 0; i < min(MaxHeaderSearchRows, len(rows)); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		pos, missing := locateColumns(MakeHeaderIndex(rows[i]))
		if len(missing) == 0 {
			return i, pos, nil
		}
		if firstMissing == nil {
			firstMissing = missing
		}
	}

	return -1, columnPositions{}, firstMissing
}

func parseRows(rows [][]string, opts LoadOptions) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, &ParseError{Reason: "empty file", Err: ErrEmptyFile}
	}

	headerIdx, pos, missing := findHeader(rows)
	if headerIdx < 0 {
		if len(missing) == 0 {
			return nil, &ParseError{Reason: "empty file", Err: ErrEmptyFile}
		}
		return nil, &ParseError{Reason: "missing required column: " + strings.Join(missing, ", ")}
	}

	records := make([]Record, 0, len(rows)-headerIdx-1)
	for i, row := range rows[headerIdx+1:] {
		lineNum := headerIdx + i + 2 // 1-indexed, after header

		if isEmptyRow(row) {
			continue
		}
		if cellAt(row, pos.facilityType) == "" || cellAt(row, pos.region) == "" {
			continue
		}

		rec, err := parseRecord(row, pos, lineNum, opts)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return NewDataset(records), nil
}

func parseRecord(row []string, pos columnPositions, lineNum int, opts LoadOptions) (Record, error) {
	rec := Record{
		FacilityType: cellAt(row, pos.facilityType),
		Region:       cellAt(row, pos.region),
	}

	if opts.StrictRegions {
		if !IsRegion(rec.Region) {
			return Record{}, &ParseError{
				Line:   lineNum,
				Column: regionColumn.Label,
				Value:  rec.Region,
				Reason: "unknown region",
			}
		}
		rec.Region = strings.ToUpper(rec.Region)
	}

	for _, c := range Categories {
		raw := cellAt(row, pos.categories[c])
		q, err := ParseQuantity(raw)
		if err != nil {
			return Record{}, &ParseError{
				Line:   lineNum,
				Column: c.Label(),
				Value:  raw,
				Reason: err.Error(),
				Err:    err,
			}
		}
		rec.Quantities[c] = q
	}

	return rec, nil
}

// cellAt returns the cleaned cell at i, or "" for short rows.
func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return CleanCell(row[i])
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
