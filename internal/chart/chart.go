// Package chart renders the selection as PNG images, one renderer per chart
// variant of the explorer.
package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/wordlab/vocaview/internal/catalog"
	"github.com/wordlab/vocaview/internal/model"
)

const (
	chartWidth  = 900
	chartHeight = 540
)

// Variants lists the chart variants in render order, keyed the way exported
// file names expect: {metric}_{variant}.png.
var Variants = []struct {
	Name   string
	Render func(rows []model.WordRecord, m catalog.Metric) ([]byte, error)
}{
	{Name: "rank_basic", Render: RankBasicPNG},
	{Name: "wordcloud", Render: WordCloudPNG},
	{Name: "rank_by_kb", Render: RankByCurriculumPNG},
	{Name: "rank_by_cefr", Render: RankByCEFRPNG},
	{Name: "dual_axis", Render: DualAxisPNG},
	{Name: "kb_cefr_distribution", Render: DistributionPNG},
}

// WriteAll renders every variant for the selection into dir and returns the
// written paths.
func WriteAll(dir string, rows []model.WordRecord, m catalog.Metric) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create chart dir: %w", err)
	}
	paths := make([]string, 0, len(Variants))
	for _, v := range Variants {
		data, err := v.Render(rows, m)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", v.Name, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", m.Key, v.Name))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// RankBasicPNG renders the plain word-by-value bar chart.
func RankBasicPNG(rows []model.WordRecord, m catalog.Metric) ([]byte, error) {
	return barChart(rows, m, func(model.WordRecord) drawing.Color {
		return chart.ColorBlue
	})
}

// RankByCurriculumPNG colors each bar by the word's curriculum level.
func RankByCurriculumPNG(rows []model.WordRecord, m catalog.Metric) ([]byte, error) {
	return barChart(rows, m, func(rec model.WordRecord) drawing.Color {
		return hexDrawing(catalog.CurriculumColor(rec.Curriculum))
	})
}

// RankByCEFRPNG colors each bar by CEFR level and applies the bounded-[0,1]
// axis policy for ratio metrics.
func RankByCEFRPNG(rows []model.WordRecord, m catalog.Metric) ([]byte, error) {
	return barChart(rows, m, func(rec model.WordRecord) drawing.Color {
		return hexDrawing(catalog.CEFRColor(rec.CEFRNumeric))
	})
}

func barChart(rows []model.WordRecord, m catalog.Metric, colorFor func(model.WordRecord) drawing.Color) ([]byte, error) {
	if len(rows) == 0 {
		return noDataPNG(m)
	}
	bars := make([]chart.Value, 0, len(rows))
	for _, rec := range rows {
		c := colorFor(rec)
		bars = append(bars, chart.Value{
			Label: rec.Word,
			Value: rec.Metric(m.Key),
			Style: chart.Style{FillColor: c, StrokeColor: c},
		})
	}
	graph := chart.BarChart{
		Title:    fmt.Sprintf("%s ranking", m.Key),
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: barWidthFor(len(rows)),
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 40},
		},
		XAxis: chart.Style{
			TextRotationDegrees: 60,
			FontSize:            8,
		},
		YAxis: chart.YAxis{
			Name:  m.Key,
			Range: axisRange(rows, m),
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// axisRange applies the display policy: bounded ratio metrics cap the axis
// at 1.0, everything else scales to 110% of the observed maximum.
func axisRange(rows []model.WordRecord, m catalog.Metric) chart.Range {
	maxVal := 0.0
	for _, rec := range rows {
		if v := rec.Metric(m.Key); v > maxVal {
			maxVal = v
		}
	}
	upper := maxVal * 1.10
	if m.Bounded01 {
		upper = maxVal * 1.10
		if upper < 0.2 {
			upper = 0.2
		}
		if upper > 1.0 {
			upper = 1.0
		}
	}
	if upper <= 0 {
		upper = 1.0
	}
	return &chart.ContinuousRange{Min: 0, Max: upper}
}

// DualAxisPNG plots the metric on the left axis and CEFR_numeric on a
// secondary right axis.
func DualAxisPNG(rows []model.WordRecord, m catalog.Metric) ([]byte, error) {
	if len(rows) == 0 {
		return noDataPNG(m)
	}
	xs := make([]float64, len(rows))
	metricYs := make([]float64, len(rows))
	cefrYs := make([]float64, len(rows))
	ticks := make([]chart.Tick, len(rows))
	cefrMax := 0.0
	for i, rec := range rows {
		xs[i] = float64(i)
		metricYs[i] = rec.Metric(m.Key)
		cefrYs[i] = float64(rec.CEFRNumeric)
		if cefrYs[i] > cefrMax {
			cefrMax = cefrYs[i]
		}
		ticks[i] = chart.Tick{Value: float64(i), Label: rec.Word}
	}
	// go-chart needs at least two X values per series.
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		metricYs = append(metricYs, metricYs[0])
		cefrYs = append(cefrYs, cefrYs[0])
	}
	rightTop := cefrMax + 1
	if rightTop < 10 {
		rightTop = 10
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s vs CEFR", m.Key),
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 40},
		},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Style: chart.Style{TextRotationDegrees: 60, FontSize: 8},
		},
		YAxis: chart.YAxis{
			Name: fmt.Sprintf("%s (left)", m.Key),
		},
		YAxisSecondary: chart.YAxis{
			Name:  "CEFR_numeric (right)",
			Range: &chart.ContinuousRange{Min: 0, Max: rightTop},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("%s (left)", m.Key),
				XValues: xs,
				YValues: metricYs,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					FillColor:   chart.ColorBlue.WithAlpha(80),
				},
			},
			chart.ContinuousSeries{
				Name:    "CEFR_numeric (right)",
				YAxis:   chart.YAxisSecondary,
				XValues: xs,
				YValues: cefrYs,
				Style: chart.Style{
					StrokeColor: drawing.Color{R: 0xFA, G: 0x80, B: 0x72, A: 0xFF},
					DotColor:    drawing.Color{R: 0xFA, G: 0x80, B: 0x72, A: 0xFF},
					DotWidth:    3,
				},
			},
		},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func barWidthFor(n int) int {
	if n <= 0 {
		return 20
	}
	w := (chartWidth - 100) / n
	if w < 2 {
		w = 2
	}
	if w > 40 {
		w = 40
	}
	return w
}

func noDataPNG(m catalog.Metric) ([]byte, error) {
	img := blankImage(400, 200)
	drawText(img, 160, 100, "no data", color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xFF})
	return encodePNG(img)
}

func blankImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	white := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, white)
		}
	}
	return img
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func hexDrawing(hex string) drawing.Color {
	c := hexRGBA(hex)
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// hexRGBA parses "#rrggbb" into an opaque color. Malformed input yields grey.
func hexRGBA(hex string) color.RGBA {
	grey := color.RGBA{R: 0x7F, G: 0x7F, B: 0x7F, A: 0xFF}
	if len(hex) != 7 || hex[0] != '#' {
		return grey
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return grey
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}
