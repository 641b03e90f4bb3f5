package chart

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/residuos/internal/core"
)

func q(vals ...string) core.Quantities {
	var out core.Quantities
	for i, v := range vals {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func regionSummary(t *testing.T) *core.GroupSummary {
	t.Helper()
	records := []core.Record{
		{FacilityType: "Aterro", Region: "SP", Quantities: q("120", "30", "4", "1", "0")},
		{FacilityType: "Aterro", Region: "RJ", Quantities: q("80", "0", "12", "0", "3")},
		{FacilityType: "Lixão", Region: "BA", Quantities: q("15", "2", "0", "0.5", "9")},
	}
	s, err := core.Summarize(records, []core.Field{core.FieldRegion})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func assertPNG(t *testing.T, data []byte) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		t.Errorf("empty image: %v", b)
	}
}

func TestHeatmap(t *testing.T) {
	data, err := Heatmap(regionSummary(t), "Geração por UF")
	if err != nil {
		t.Fatalf("Heatmap: %v", err)
	}
	assertPNG(t, data)
}

func TestHeatmap_SingleRowAllZero(t *testing.T) {
	s, err := core.Summarize([]core.Record{{FacilityType: "A", Region: "AC"}}, []core.Field{core.FieldRegion})
	if err != nil {
		t.Fatal(err)
	}
	data, err := Heatmap(s, "")
	if err != nil {
		t.Fatalf("Heatmap: %v", err)
	}
	assertPNG(t, data)
}

func TestStackedBars(t *testing.T) {
	data, err := StackedBars(regionSummary(t), "Destino dos resíduos por UF")
	if err != nil {
		t.Fatalf("StackedBars: %v", err)
	}
	assertPNG(t, data)
}

func TestEmptySummary(t *testing.T) {
	empty, err := core.Summarize(nil, []core.Field{core.FieldRegion})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Heatmap(empty, ""); !errors.Is(err, ErrNoData) {
		t.Errorf("Heatmap error = %v, want ErrNoData", err)
	}
	if _, err := StackedBars(empty, ""); !errors.Is(err, ErrNoData) {
		t.Errorf("StackedBars error = %v, want ErrNoData", err)
	}
}

func TestCategoryColors(t *testing.T) {
	if got := categoryColors[core.DomesticPublic]; got.R != 0x4C || got.G != 0xAF || got.B != 0x50 {
		t.Errorf("Dom+Pub color = %v", got)
	}
	if got := categoryColors[core.Other]; got.R != 0xFF || got.G != 0xC1 || got.B != 0x07 {
		t.Errorf("Outros color = %v", got)
	}
}
