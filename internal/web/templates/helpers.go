// Package templates holds the HTML components of the dashboard.
//
// Components are written in .templ files; run `templ generate` after
// editing them.
package templates

import (
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/JonMunkholm/residuos/internal/core"
)

// AppTitle is the heading shown on every page.
const AppTitle = "Análise de Gestão de Resíduos"

// IndexData is the content of the upload page.
type IndexData struct {
	MaxFileSizeMB int64
	Recent        []core.UploadEntry
	HistoryOn     bool
}

// SessionData is the content of the dashboard page of one upload.
type SessionData struct {
	SessionID string
	FileName  string
	Records   int
	Preview   []core.Record
	Options   core.Options
	Selection core.FilterSpec
	Query     string // Encoded selection, reused by chart and export links
	Prompt    string // Set when a selection is empty
	View      *core.DashboardView
}

func (d SessionData) path(suffix string, extra url.Values) string {
	u := "/session/" + url.PathEscape(d.SessionID) + suffix
	q := d.Query
	if len(extra) > 0 {
		if q != "" {
			q += "&"
		}
		q += extra.Encode()
	}
	if q != "" {
		u += "?" + q
	}
	return u
}

func (d SessionData) unitChartPath(unit string) string {
	return d.path("/chart/unit.png", url.Values{"unit": {unit}})
}

func (d SessionData) previewNote() string {
	note := strconv.Itoa(d.Records) + " registros"
	if len(d.Preview) < d.Records {
		note += ", exibindo os primeiros " + strconv.Itoa(len(d.Preview))
	}
	return note
}

func isSelected(set map[string]struct{}, v string) bool {
	_, ok := set[v]
	return ok
}

var printer = message.NewPrinter(language.English)

// FormatTonnes formats a quantity with two decimals and thousands separators.
func FormatTonnes(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.InexactFloat64())
}
