package chart

import (
	"fmt"
	"image/color"

	"github.com/wordlab/vocaview/internal/catalog"
	"github.com/wordlab/vocaview/internal/model"
)

// DistributionPNG renders the curriculum-by-CEFR stacked distribution: one
// column per curriculum level, segmented by CEFR code, with segment shares
// inside (when at least 8% of the column) and the column total on top.
func DistributionPNG(rows []model.WordRecord, m catalog.Metric) ([]byte, error) {
	if len(rows) == 0 {
		return noDataPNG(m)
	}

	counts := make(map[int]map[int]int, len(catalog.CurriculumLevels))
	for _, kb := range catalog.CurriculumLevels {
		counts[kb] = make(map[int]int, len(catalog.CEFRLevels))
	}
	maxTotal := 0
	for _, rec := range rows {
		kb := rec.Curriculum
		if _, ok := counts[kb]; !ok {
			// Codes outside the legend fold into "not in curriculum".
			kb = catalog.CurriculumNone
		}
		counts[kb][rec.CEFRNumeric]++
	}
	totals := make(map[int]int, len(catalog.CurriculumLevels))
	for _, kb := range catalog.CurriculumLevels {
		for _, n := range counts[kb] {
			totals[kb] += n
		}
		if totals[kb] > maxTotal {
			maxTotal = totals[kb]
		}
	}
	if maxTotal == 0 {
		return noDataPNG(m)
	}

	const (
		width      = 720
		height     = 480
		marginL    = 60
		marginR    = 160
		marginTop  = 50
		marginBot  = 60
		barGap     = 40
		labelColor = 0x33
	)
	img := blankImage(width, height)
	black := color.RGBA{R: labelColor, G: labelColor, B: labelColor, A: 0xFF}
	white := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	plotW := width - marginL - marginR
	plotH := height - marginTop - marginBot
	barW := (plotW - barGap*(len(catalog.CurriculumLevels)-1)) / len(catalog.CurriculumLevels)
	scale := float64(plotH) / float64(maxTotal)

	// Axis lines.
	fillRect(img, marginL-1, marginTop, marginL, height-marginBot, black)
	fillRect(img, marginL-1, height-marginBot, width-marginR, height-marginBot+1, black)

	for i, kb := range catalog.CurriculumLevels {
		x0 := marginL + i*(barW+barGap)
		bottom := height - marginBot
		total := totals[kb]
		for _, cefr := range catalog.CEFRLevels {
			n := counts[kb][cefr]
			if n == 0 {
				continue
			}
			segH := int(float64(n) * scale)
			if segH < 1 {
				segH = 1
			}
			top := bottom - segH
			fillRect(img, x0, top, x0+barW, bottom, hexRGBA(catalog.CEFRColor(cefr)))
			if total > 0 {
				ratio := float64(n) / float64(total)
				if ratio >= 0.08 {
					label := fmt.Sprintf("%.0f%%", ratio*100)
					drawTextCentered(img, x0+barW/2, (top+bottom)/2+4, label, white)
				}
			}
			bottom = top
		}
		drawTextCentered(img, x0+barW/2, bottom-6, fmt.Sprintf("%d", total), black)
		drawTextCentered(img, x0+barW/2, height-marginBot+18, fmt.Sprintf("%d", kb), black)
	}

	drawTextCentered(img, marginL+plotW/2, height-marginBot+36, "Curriculum Level (0 / 2 / 3)", black)
	drawText(img, 10, marginTop-20, "Count", black)
	drawText(img, 10, 20, fmt.Sprintf("%s selection: curriculum x CEFR", m.Key), black)

	// Legend.
	legendX := width - marginR + 12
	legendY := marginTop
	for _, cefr := range catalog.CEFRLevels {
		fillRect(img, legendX, legendY, legendX+12, legendY+12, hexRGBA(catalog.CEFRColor(cefr)))
		drawText(img, legendX+18, legendY+10, fmt.Sprintf("%d = %s", cefr, catalog.CEFRLabel(cefr)), black)
		legendY += 18
	}

	return encodePNG(img)
}
