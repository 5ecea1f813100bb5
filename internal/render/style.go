// internal/render/style.go
package render

import (
	"image/color"
)

// Glyph is the letter drawn on every icon.
const Glyph = "K"

// DefaultFontPath is the scalable font tried before falling back to the
// built-in bitmap face.
const DefaultFontPath = "/System/Library/Fonts/Helvetica.ttc"

var (
	BackgroundColor = color.RGBA{R: 44, G: 44, B: 43, A: 255}    // #2c2c2b
	GlyphColor      = color.RGBA{R: 122, G: 253, B: 214, A: 255} // #7afdd6
)

// Padding is the inset of the background rectangle from every edge.
func Padding(size int) int {
	return size / 10
}

// CornerRadius is the radius of the background rectangle corners.
func CornerRadius(size int) int {
	return size / 6
}

// FontSize is the glyph size in pixels.
func FontSize(size int) int {
	return size / 2
}

// GlyphLift raises the glyph above true center to offset the empty
// descender space below the letter.
func GlyphLift(size int) int {
	return size / 10
}
