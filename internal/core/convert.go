package core

// convert.go turns raw cell text into typed values.
//
// Cells come from spreadsheets exported by hand, so they carry the usual
// artifacts:
//   - Excel formula prefixes (="value")
//   - Surrounding quotes and whitespace
//   - Thousands separators in numbers
//
// Quantities are parsed into decimal.Decimal so that sums are exact.

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// numericRegex validates that a string is a plain decimal after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// maxExponent bounds the decimal exponent of a parsed quantity. Sums of
// decimals are rescaled to the smallest exponent, so an unbounded exponent
// lets a short cell grow into a number with millions of digits.
const maxExponent = 30

var (
	errInvalidNumber  = errors.New("invalid number")
	errNegativeNumber = errors.New("negative quantity")
	errOutOfRange     = fmt.Errorf("%w: exponent out of range", errInvalidNumber)
)

// ParseQuantity converts a cell to a non-negative quantity in tonnes.
// Empty cells are zero. Thousands separators are ignored.
func ParseQuantity(s string) (decimal.Decimal, error) {
	s = CleanCell(s)
	if s == "" {
		return decimal.Zero, nil
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	if !numericRegex.MatchString(s) {
		return decimal.Zero, errInvalidNumber
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errInvalidNumber
	}
	if e := d.Exponent(); e > maxExponent || e < -maxExponent {
		return decimal.Zero, errOutOfRange
	}
	if d.IsNegative() {
		return decimal.Zero, errNegativeNumber
	}

	return d, nil
}

// HeaderIndex maps lowercased column names to their position in a row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a header row.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = i
	}
	return idx
}

// Lookup returns the position of a column by canonical name or label.
func (h HeaderIndex) Lookup(spec ColumnSpec) (int, bool) {
	if i, ok := h[strings.ToLower(spec.Name)]; ok {
		return i, true
	}
	i, ok := h[strings.ToLower(spec.Label)]
	return i, ok
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}
