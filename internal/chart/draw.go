package chart

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// textFace is the fixed 7x13 face used for direct drawing on images; the
// go-chart renderers carry their own font.
var textFace = basicfont.Face7x13

// drawText draws s with its baseline at (x, y).
func drawText(img *image.RGBA, x, y int, s string, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: textFace,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// textWidth measures s in pixels under textFace.
func textWidth(s string) int {
	return font.MeasureString(textFace, s).Ceil()
}

// drawTextCentered draws s horizontally centered on cx with baseline y.
func drawTextCentered(img *image.RGBA, cx, y int, s string, c color.Color) {
	drawText(img, cx-textWidth(s)/2, y, s, c)
}

// fillRect fills the half-open rectangle [x0,x1)x[y0,y1).
func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	bounds := img.Bounds()
	if x0 < bounds.Min.X {
		x0 = bounds.Min.X
	}
	if y0 < bounds.Min.Y {
		y0 = bounds.Min.Y
	}
	if x1 > bounds.Max.X {
		x1 = bounds.Max.X
	}
	if y1 > bounds.Max.Y {
		y1 = bounds.Max.Y
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}
