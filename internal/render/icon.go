// internal/render/icon.go
package render

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
)

// Renderer draws the icon design at arbitrary sizes.
type Renderer struct {
	FontPath string

	// OnFallback is called whenever FontPath cannot be used for a render.
	OnFallback func(path string, err error)
}

func NewRenderer(fontPath string) *Renderer {
	if fontPath == "" {
		fontPath = DefaultFontPath
	}
	return &Renderer{FontPath: fontPath}
}

// Render returns a new size x size canvas holding the rounded background
// and the centered glyph. Nothing is retained between calls.
func (r *Renderer) Render(size int) (*image.RGBA, error) {
	img, _, err := r.RenderIcon(size)
	return img, err
}

// RenderIcon is Render that also reports whether this call fell back to
// the built-in bitmap face.
func (r *Renderer) RenderIcon(size int) (*image.RGBA, bool, error) {
	if size < 1 {
		return nil, false, fmt.Errorf("invalid icon size %d", size)
	}

	canvas := NewCanvas(size)
	FillRoundedRect(canvas, backgroundRect(size), float64(CornerRadius(size)), BackgroundColor)

	face := r.loadFace(FontSize(size))
	defer face.Close()

	bounds := MeasureText(face, Glyph)
	DrawText(canvas, face, glyphPosition(size, bounds), Glyph, GlyphColor)

	return canvas, face.Fallback, nil
}

// loadFace resolves FontPath at px, logging and reporting a fallback.
func (r *Renderer) loadFace(px int) *Face {
	face, err := LoadFace(r.FontPath, px)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"font": r.FontPath,
			"size": px,
		}).WithError(err).Debug("Using built-in bitmap font")
		if r.OnFallback != nil {
			r.OnFallback(r.FontPath, err)
		}
	}
	return face
}
