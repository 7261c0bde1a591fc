package chart

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/wordlab/vocaview/internal/catalog"
	"github.com/wordlab/vocaview/internal/model"
)

const (
	cloudWidth  = 800
	cloudHeight = 500
	cloudPad    = 10
	maxScale    = 4
)

// WordCloudPNG draws the selection's words scaled by their metric value on a
// white background. Non-finite or non-positive values count as 1.0, matching
// the frequency handling of the export collaborator's cloud.
func WordCloudPNG(rows []model.WordRecord, m catalog.Metric) ([]byte, error) {
	if len(rows) == 0 {
		return noDataPNG(m)
	}

	weights := make([]float64, len(rows))
	minW, maxW := math.MaxFloat64, 0.0
	for i, rec := range rows {
		v := rec.Metric(m.Key)
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			v = 1.0
		}
		weights[i] = v
		if v < minW {
			minW = v
		}
		if v > maxW {
			maxW = v
		}
	}

	img := blankImage(cloudWidth, cloudHeight)
	x, y := cloudPad, cloudPad
	lineH := 0
	for i, rec := range rows {
		scale := scaleFor(weights[i], minW, maxW)
		glyph := renderWord(rec.Word, hexRGBA(catalog.CEFRColor(rec.CEFRNumeric)))
		w := glyph.Bounds().Dx() * scale
		h := glyph.Bounds().Dy() * scale
		if x+w > cloudWidth-cloudPad {
			x = cloudPad
			y += lineH + cloudPad
			lineH = 0
		}
		if y+h > cloudHeight-cloudPad {
			break
		}
		blitScaled(img, glyph, x, y, scale)
		x += w + cloudPad
		if h > lineH {
			lineH = h
		}
	}
	return encodePNG(img)
}

func scaleFor(v, minW, maxW float64) int {
	if maxW-minW < 1e-9 {
		return 2
	}
	pos := (v - minW) / (maxW - minW)
	scale := 1 + int(math.Round(pos*float64(maxScale-1)))
	if scale < 1 {
		scale = 1
	}
	if scale > maxScale {
		scale = maxScale
	}
	return scale
}

// renderWord rasterizes a word at base size into a tight transparent image.
func renderWord(word string, c color.RGBA) *image.RGBA {
	width := textWidth(word)
	if width < 1 {
		width = 1
	}
	height := textFace.Height
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: textFace,
		Dot:  fixed.P(0, textFace.Ascent),
	}
	d.DrawString(word)
	return img
}

func blitScaled(dst *image.RGBA, src *image.RGBA, x0, y0, scale int) {
	bounds := src.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := src.RGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					dst.SetRGBA(x0+x*scale+dx, y0+y*scale+dy, c)
				}
			}
		}
	}
}
