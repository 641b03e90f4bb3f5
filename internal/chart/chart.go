// Package chart renders dashboard summaries as PNG images.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/JonMunkholm/residuos/internal/core"
)

// ErrNoData is returned when a summary has no groups to draw.
var ErrNoData = errors.New("no data to chart")

// Default image size.
const (
	Width  = 10 * vg.Inch
	Height = 6 * vg.Inch
)

// Axis and legend labels shown on the charts.
const (
	regionAxisLabel   = "UF"
	massAxisLabel     = "Massa (toneladas)"
	categoryAxisLabel = "Tipo de Resíduo"
)

// categoryColors are the bar colors, in canonical category order.
var categoryColors = [core.NumCategories]color.RGBA{
	rgb(0x4CAF50), // Dom+Pub
	rgb(0xFF9800), // Entulho
	rgb(0x9C27B0), // Podas
	rgb(0x00BCD4), // Saúde
	rgb(0xFFC107), // Outros
}

func rgb(hex uint32) color.RGBA {
	return color.RGBA{R: uint8(hex >> 16), G: uint8(hex >> 8), B: uint8(hex), A: 255}
}

// groupLabel joins the key of a group for axis ticks.
func groupLabel(g core.Group) string {
	return strings.Join(g.Key, " / ")
}

// grid adapts a GroupSummary to plotter.GridXYZ: one column per category,
// one row per group.
type grid struct {
	summary *core.GroupSummary
}

func (g grid) Dims() (c, r int) { return core.NumCategories, g.summary.Len() }
func (g grid) X(c int) float64  { return float64(c) }
func (g grid) Y(r int) float64  { return float64(r) }
func (g grid) Z(c, r int) float64 {
	return g.summary.Groups[r].Quantities[c].InexactFloat64()
}

// Heatmap draws groups against categories, each cell annotated with its mass.
func Heatmap(summary *core.GroupSummary, title string) ([]byte, error) {
	if summary.Len() == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = categoryAxisLabel
	p.Y.Label.Text = regionAxisLabel

	g := grid{summary: summary}
	hm := plotter.NewHeatMap(g, palette.Heat(12, 1))
	if hm.Min == hm.Max {
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	var labels plotter.XYLabels
	for r, grp := range summary.Groups {
		for _, c := range core.Categories {
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			labels.Labels = append(labels.Labels, grp.Quantities[c].StringFixed(0))
		}
	}
	annotations, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, fmt.Errorf("heatmap labels: %w", err)
	}
	for i := range annotations.TextStyle {
		annotations.TextStyle[i].XAlign = draw.XCenter
		annotations.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(annotations)

	categories := make([]string, 0, core.NumCategories)
	for _, c := range core.Categories {
		categories = append(categories, c.Label())
	}
	p.NominalX(categories...)

	rows := make([]string, 0, summary.Len())
	for _, grp := range summary.Groups {
		rows = append(rows, groupLabel(grp))
	}
	p.NominalY(rows...)

	return render(p)
}

// StackedBars draws one bar per group with the five categories stacked.
func StackedBars(summary *core.GroupSummary, title string) ([]byte, error) {
	if summary.Len() == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = regionAxisLabel
	p.Y.Label.Text = massAxisLabel
	p.Legend.Top = true
	p.Legend.Add(categoryAxisLabel)

	barWidth := vg.Points(max(6, 360/float64(summary.Len())))

	var below *plotter.BarChart
	for _, c := range core.Categories {
		values := make(plotter.Values, summary.Len())
		for i, grp := range summary.Groups {
			values[i] = grp.Quantities[c].InexactFloat64()
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return nil, fmt.Errorf("bars for %s: %w", c, err)
		}
		bars.Color = categoryColors[c]
		bars.LineStyle.Width = vg.Length(0)
		if below != nil {
			bars.StackOn(below)
		}
		below = bars

		p.Add(bars)
		p.Legend.Add(c.Label(), bars)
	}

	ticks := make([]string, 0, summary.Len())
	for _, grp := range summary.Groups {
		ticks = append(ticks, groupLabel(grp))
	}
	p.NominalX(ticks...)
	p.Add(plotter.NewGrid())

	return render(p)
}

func render(p *plot.Plot) ([]byte, error) {
	w, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
