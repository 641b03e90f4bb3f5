package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/residuos/internal/core"
)

func TestFormatTonnes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"8", "8.00"},
		{"1234.567", "1,234.57"},
		{"1000000", "1,000,000.00"},
	}
	for _, tt := range tests {
		if got := FormatTonnes(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatTonnes(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func renderString(t *testing.T, data SessionData) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Session(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func TestSession_EscapesUserData(t *testing.T) {
	records := []core.Record{{FacilityType: `<script>alert(1)</script>`, Region: "SP"}}
	d := core.NewDataset(records)

	out := renderString(t, SessionData{
		SessionID: "abc",
		FileName:  `"quoted".csv`,
		Records:   d.Len(),
		Preview:   d.Head(10),
		Options:   d.Options(),
		Prompt:    core.SelectionPrompt,
	})

	if strings.Contains(out, "<script>") {
		t.Error("facility type was not escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("escaped facility type missing")
	}
	if !strings.Contains(out, core.SelectionPrompt) {
		t.Error("selection prompt missing")
	}
}

func TestSession_Dashboard(t *testing.T) {
	records := []core.Record{
		{FacilityType: "Aterro", Region: "SP", Quantities: core.Quantities{decimal.NewFromInt(5), decimal.NewFromInt(1), decimal.Zero, decimal.Zero, decimal.Zero}},
		{FacilityType: "Aterro", Region: "RJ", Quantities: core.Quantities{decimal.Zero, decimal.NewFromInt(2), decimal.Zero, decimal.Zero, decimal.Zero}},
	}
	d := core.NewDataset(records)
	spec := core.SelectAll(d)
	view, err := core.BuildDashboard(records, spec)
	if err != nil {
		t.Fatalf("BuildDashboard: %v", err)
	}

	out := renderString(t, SessionData{
		SessionID: "abc",
		FileName:  "fluxo.xlsx",
		Records:   d.Len(),
		Preview:   d.Head(10),
		Options:   d.Options(),
		Selection: spec,
		Query:     "facility_type=Aterro&region=RJ&region=SP",
		View:      view,
	})

	for _, want := range []string{
		"8.00",
		"Visão Geral Nacional",
		"Comparação entre UFs",
		"Destinação de Resíduos por Unidade",
		"/session/abc/chart/heatmap.png?facility_type=Aterro&amp;region=RJ&amp;region=SP",
		"/session/abc/chart/unit.png?facility_type=Aterro&amp;region=RJ&amp;region=SP&amp;unit=Aterro",
		"/session/abc/export?",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestIndex_RecentUploads(t *testing.T) {
	var buf bytes.Buffer
	err := Index(IndexData{
		MaxFileSizeMB: 50,
		HistoryOn:     true,
		Recent:        []core.UploadEntry{{FileName: "residuos_2023.xlsx", Format: core.FormatXLSX, RecordCount: 42}},
	}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Envios recentes", "residuos_2023.xlsx", "42", "50 MB"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSession_ChecksSelectedChoices(t *testing.T) {
	records := []core.Record{
		{FacilityType: "Aterro", Region: "SP"},
		{FacilityType: "Lixão", Region: "RJ"},
	}
	d := core.NewDataset(records)

	out := renderString(t, SessionData{
		SessionID: "abc",
		Records:   d.Len(),
		Preview:   d.Head(10),
		Options:   d.Options(),
		Selection: core.NewFilterSpec([]string{"Aterro"}, []string{"SP", "RJ"}),
		Prompt:    core.SelectionPrompt,
	})

	for _, want := range []string{`value="Aterro" checked>`, `value="SP" checked>`, `value="RJ" checked>`, `value="Lixão">`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestErrorPage(t *testing.T) {
	var buf bytes.Buffer
	if err := ErrorPage("Sessão não encontrada.", "Envie o arquivo novamente.", "SES001").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "<!doctype html>") {
		t.Errorf("page does not start with a doctype: %.40q", out)
	}
	for _, want := range []string{AppTitle, "Sessão não encontrada.", "<span>Envie o arquivo novamente.</span>", "(Code: SES001)", `href="/"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
