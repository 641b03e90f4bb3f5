package core

import (
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("UF,Dom+Pub")...),
			expected: "UF,Dom+Pub",
		},
		{
			name:     "file without BOM",
			input:    []byte("UF,Dom+Pub"),
			expected: "UF,Dom+Pub",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "partial BOM kept as Windows-1252",
			input:    []byte{0xEF, 0xBB, 'a'},
			expected: "ï»a",
		},
		{
			name:     "valid UTF-8 accents unchanged",
			input:    []byte("Sa\xc3\xbade"),
			expected: "Saúde",
		},
		{
			name:     "Windows-1252 accents decoded",
			input:    []byte("Sa\xfade"),
			expected: "Saúde",
		},
		{
			name:     "Windows-1252 municipality header",
			input:    []byte("Tipo de unidade, segundo o munic\xedpio informante"),
			expected: "Tipo de unidade, segundo o município informante",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(NormalizeText(tt.input))
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
