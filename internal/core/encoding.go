package core

// encoding.go normalizes uploaded text before CSV parsing.
//
// Spreadsheets exported on Windows often carry a UTF-8 BOM, and older
// government extracts are still saved as Windows-1252. Both are handled:
//
//   - A leading UTF-8 BOM (0xEF 0xBB 0xBF) is dropped
//   - Input that is not valid UTF-8 is decoded as Windows-1252
//
// Windows-1252 maps every byte to a rune, so decoding never fails and
// accented headers such as "Saúde" survive the round trip.

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NormalizeText returns data as UTF-8 without a byte order mark.
func NormalizeText(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return bytes.ToValidUTF8(data, []byte("�"))
	}
	return decoded
}
