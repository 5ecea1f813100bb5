// internal/render/glyph.go
package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// MeasureText returns the ink bounds of text when drawn with its top-left
// anchored at the origin, where "top" is the face ascender line.
func MeasureText(face font.Face, text string) image.Rectangle {
	b, _ := font.BoundString(face, text)
	ascent := face.Metrics().Ascent
	return image.Rect(
		b.Min.X.Floor(), (ascent + b.Min.Y).Floor(),
		b.Max.X.Ceil(), (ascent + b.Max.Y).Ceil(),
	)
}

// DrawText draws text with its ascender-anchored origin at pos.
func DrawText(dst *image.RGBA, face font.Face, pos image.Point, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(pos.X),
			Y: fixed.I(pos.Y) + face.Metrics().Ascent,
		},
	}
	d.DrawString(text)
}

// glyphPosition centers a box of the given bounds on a square canvas and
// lifts it by GlyphLift.
func glyphPosition(size int, bounds image.Rectangle) image.Point {
	return image.Point{
		X: floorDiv(size-bounds.Dx(), 2),
		Y: floorDiv(size-bounds.Dy(), 2) - GlyphLift(size),
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
