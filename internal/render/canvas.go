// internal/render/canvas.go
package render

import (
	"image"
	"image/color"

	"github.com/srwiley/rasterx"
)

// NewCanvas returns a fully transparent square RGBA image.
func NewCanvas(size int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, size, size))
}

// FillRoundedRect rasterizes an anti-aliased rectangle with circular corners
// onto dst. The rectangle edges lie exactly on r, so pixels outside r stay
// untouched.
func FillRoundedRect(dst *image.RGBA, r image.Rectangle, radius float64, c color.Color) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()

	scanner := rasterx.NewScannerGV(w, h, dst, b)
	filler := rasterx.NewFiller(w, h, scanner)
	filler.SetColor(c)

	rasterx.AddRoundRect(
		float64(r.Min.X), float64(r.Min.Y),
		float64(r.Max.X), float64(r.Max.Y),
		radius, radius, 0,
		rasterx.RoundGap, filler,
	)
	filler.Draw()
}

// backgroundRect is the area covered by the icon background for a canvas
// of the given size.
func backgroundRect(size int) image.Rectangle {
	p := Padding(size)
	return image.Rect(p, p, size-p, size-p)
}
