// internal/render/banner.go
package render

import (
	"fmt"
	"image"
	"image/color"
)

// Social preview card layout.
const (
	BannerWidth    = 1200
	BannerHeight   = 630
	BannerTitle    = "KayanLive"
	BannerSubtitle = "Project Brief Questionnaire"

	bannerTitleSize    = 180
	bannerSubtitleSize = 36
)

// SubtitleColor is white at 80% opacity.
var SubtitleColor = color.NRGBA{R: 255, G: 255, B: 255, A: 204}

// RenderBanner draws the width x height social preview card: a solid
// background with the title centered at 45% of the height and the
// subtitle at 60%. The bool reports a bitmap font fallback.
func (r *Renderer) RenderBanner(width, height int) (*image.RGBA, bool, error) {
	if width < 1 || height < 1 {
		return nil, false, fmt.Errorf("invalid banner size %dx%d", width, height)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	FillRoundedRect(canvas, canvas.Bounds(), 0, BackgroundColor)

	fallback := false
	lines := []struct {
		text  string
		px    int
		y     int
		color color.Color
	}{
		{BannerTitle, bannerTitleSize, height * 45 / 100, GlyphColor},
		{BannerSubtitle, bannerSubtitleSize, height * 60 / 100, SubtitleColor},
	}

	for _, line := range lines {
		face := r.loadFace(line.px)
		fallback = fallback || face.Fallback

		bounds := MeasureText(face, line.text)
		DrawText(canvas, face, centerOn(bounds, width/2, line.y), line.text, line.color)
		face.Close()
	}

	return canvas, fallback, nil
}

// centerOn returns the draw position that puts the middle of bounds at
// (cx, cy).
func centerOn(bounds image.Rectangle, cx, cy int) image.Point {
	return image.Point{
		X: cx - bounds.Min.X - floorDiv(bounds.Dx(), 2),
		Y: cy - bounds.Min.Y - floorDiv(bounds.Dy(), 2),
	}
}
